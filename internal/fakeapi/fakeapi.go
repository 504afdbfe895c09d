// ABOUTME: In-memory fake of the Optifuse backend for tests
// ABOUTME: Declarative route table, JSON error writer and per-path request counters

package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/optifuse/optifuse-cli/internal/models"
)

// State is the mutable backend data served by the fake
type State struct {
	ValidCode string
	Token     string
	Username  string

	Repositories []models.Repository
	// Files maps "owner/name" to the repository's configuration document
	Files map[string]models.ConfigDocument

	LiveResults []models.CandidateResult
	// LiveFailure, when set, makes the live simulation fail with this status and body
	LiveFailure *Failure
	// LiveGate, when set, blocks live simulations until it is closed or receives
	LiveGate chan struct{}

	Report          models.OptimizationReport
	OptimizeFailure *Failure

	Profile models.Profile
	// RejectARN returns a rejection reason for a role ARN, or "" to accept it
	RejectARN func(arn string) string
}

// Failure is an error reply the fake sends
type Failure struct {
	Status int
	Body   map[string]string
}

// Route defines an endpoint with its pattern and handler
type Route struct {
	Pattern string
	Handler http.HandlerFunc
}

// Server is a running fake backend
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	state    State
	requests map[string]int
}

// New starts a fake backend with a logged-in user "octo" holding token "abc"
func New() *Server {
	s := &Server{
		state: State{
			ValidCode: "good-code",
			Token:     "abc",
			Username:  "octo",
			Files:     make(map[string]models.ConfigDocument),
			Profile: models.Profile{
				Username:      "octo",
				Subscription:  "free",
				AWSExternalID: "ext-1234",
			},
		},
		requests: make(map[string]int),
	}

	mux := http.NewServeMux()
	for _, r := range s.Routes() {
		mux.HandleFunc(r.Pattern, s.count(r.Handler))
	}
	s.Server = httptest.NewServer(mux)
	return s
}

// Routes returns all fake API routes
func (s *Server) Routes() []Route {
	return []Route{
		{Pattern: "POST /api/auth/github/", Handler: s.exchangeCode},
		{Pattern: "GET /api/repositories/{$}", Handler: s.authed(s.listRepositories)},
		{Pattern: "GET /api/repositories/{owner}/{repo}/file/", Handler: s.authed(s.getFile)},
		{Pattern: "POST /api/simulate/live/", Handler: s.authed(s.simulateLive)},
		{Pattern: "POST /api/optimize/", Handler: s.optimize},
		{Pattern: "GET /api/profile/settings/", Handler: s.authed(s.getProfile)},
		{Pattern: "POST /api/profile/settings/", Handler: s.authed(s.saveProfile)},
	}
}

// Update mutates the served state under the server lock
func (s *Server) Update(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// Snapshot returns a copy of the served state
func (s *Server) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Requests returns how many requests hit the given path
func (s *Server) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

// TotalRequests returns how many requests the fake received
func (s *Server) TotalRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.requests {
		total += n
	}
	return total
}

func (s *Server) count(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.URL.Path]++
		s.mu.Unlock()
		next(w, r)
	}
}

// authed rejects requests without the expected token header
func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		want := "Token " + s.state.Token
		s.mu.Unlock()

		if r.Header.Get("Authorization") != want {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token."})
			return
		}
		next(w, r)
	}
}

func (s *Server) exchangeCode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	st := s.Snapshot()
	if body.Code == "" || body.Code != st.ValidCode {
		writeError(w, "Failed to get access token from GitHub", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"username": st.Username, "token": st.Token})
}

func (s *Server) listRepositories(w http.ResponseWriter, r *http.Request) {
	st := s.Snapshot()
	repos := st.Repositories
	if repos == nil {
		repos = []models.Repository{}
	}
	writeJSON(w, http.StatusOK, repos)
}

func (s *Server) getFile(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("owner") + "/" + r.PathValue("repo")

	s.mu.Lock()
	doc, ok := s.state.Files[key]
	s.mu.Unlock()

	if !ok {
		writeError(w, "serverless.yml not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) simulateLive(w http.ResponseWriter, r *http.Request) {
	st := s.Snapshot()

	if st.LiveGate != nil {
		select {
		case <-st.LiveGate:
		case <-r.Context().Done():
			return
		}
	}

	if st.LiveFailure != nil {
		writeJSON(w, st.LiveFailure.Status, st.LiveFailure.Body)
		return
	}
	results := st.LiveResults
	if results == nil {
		results = []models.CandidateResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) optimize(w http.ResponseWriter, r *http.Request) {
	var body struct {
		YAMLContent string `json:"yaml_content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.YAMLContent == "" {
		writeError(w, "yaml_content is required", http.StatusBadRequest)
		return
	}

	st := s.Snapshot()
	if st.OptimizeFailure != nil {
		writeJSON(w, st.OptimizeFailure.Status, st.OptimizeFailure.Body)
		return
	}
	writeJSON(w, http.StatusOK, st.Report)
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Snapshot().Profile)
}

func (s *Server) saveProfile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AWSRoleARN string `json:"aws_role_arn"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.RejectARN != nil {
		if reason := s.state.RejectARN(body.AWSRoleARN); reason != "" {
			writeError(w, reason, http.StatusBadRequest)
			return
		}
	}
	arn := body.AWSRoleARN
	s.state.Profile.AWSRoleARN = &arn
	writeJSON(w, http.StatusOK, map[string]string{"message": "Settings updated successfully."})
}

// writeError writes an error response in the backend's {"error": ...} shape
func writeError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
