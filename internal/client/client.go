// ABOUTME: HTTP client for the Optifuse backend API
// ABOUTME: Normalizes transport failures and backend error shapes into apierr errors

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/optifuse/optifuse-cli/internal/apierr"
	"github.com/optifuse/optifuse-cli/internal/models"
)

// DefaultTimeout bounds every request made by the client
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is read
const maxErrorBody = 64 << 10

// Client is the API client for the Optifuse backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AuthResponse represents the /api/auth/github/ response
type AuthResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// SaveProfileResponse represents a successful profile update
type SaveProfileResponse struct {
	Message string `json:"message"`
}

// ExchangeCode calls POST /api/auth/github/ with a GitHub authorization code
func (c *Client) ExchangeCode(ctx context.Context, code string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/github/", "", map[string]string{"code": code}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListRepositories calls GET /api/repositories/
func (c *Client) ListRepositories(ctx context.Context, token string) ([]models.Repository, error) {
	var repos []models.Repository
	if err := c.do(ctx, http.MethodGet, "/api/repositories/", token, nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// GetConfigFile calls GET /api/repositories/{owner}/{repo}/file/
func (c *Client) GetConfigFile(ctx context.Context, token string, ref models.RepositoryRef) (*models.ConfigDocument, error) {
	path := fmt.Sprintf("/api/repositories/%s/%s/file/", url.PathEscape(ref.Owner), url.PathEscape(ref.Name))

	var doc models.ConfigDocument
	if err := c.do(ctx, http.MethodGet, path, token, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// SimulateLive calls POST /api/simulate/live/
func (c *Client) SimulateLive(ctx context.Context, token string, ref models.RepositoryRef) ([]models.CandidateResult, error) {
	body := map[string]string{"owner": ref.Owner, "repoName": ref.Name}

	var results []models.CandidateResult
	if err := c.do(ctx, http.MethodPost, "/api/simulate/live/", token, body, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Optimize calls POST /api/optimize/. The token may be empty.
func (c *Client) Optimize(ctx context.Context, token, yamlContent string) (*models.OptimizationReport, error) {
	body := map[string]string{"yaml_content": yamlContent}

	var report models.OptimizationReport
	if err := c.do(ctx, http.MethodPost, "/api/optimize/", token, body, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetProfile calls GET /api/profile/settings/
func (c *Client) GetProfile(ctx context.Context, token string) (*models.Profile, error) {
	var profile models.Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile/settings/", token, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveRoleARN calls POST /api/profile/settings/
func (c *Client) SaveRoleARN(ctx context.Context, token, roleARN string) (*SaveProfileResponse, error) {
	body := map[string]string{"aws_role_arn": roleARN}

	var resp SaveProfileResponse
	if err := c.do(ctx, http.MethodPost, "/api/profile/settings/", token, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do performs one request and decodes a successful JSON response into out
func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("Request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	slog.Debug("Request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return handleErrorResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apierr.Network("invalid response from backend").WithStatus(resp.StatusCode).WithCause(err)
	}
	return nil
}

// handleRequestError converts transport and context errors to network errors
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return apierr.Network("request canceled")
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apierr.Network("request timed out")
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return apierr.Network("request timed out")
	}
	return apierr.Network(fmt.Sprintf("cannot connect to backend at %s", c.baseURL)).WithCause(err)
}

// handleErrorResponse turns a non-success response into an apierr error.
// Only 401 means the session token is invalid or expired; 403 is a refused request.
func handleErrorResponse(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := backendMessage(data)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if msg == "" {
			msg = "session is invalid or expired"
		}
		return apierr.Auth(msg).WithStatus(resp.StatusCode)
	}

	if msg == "" {
		msg = fmt.Sprintf("backend returned status %d", resp.StatusCode)
	}
	return apierr.Network(msg).WithStatus(resp.StatusCode)
}

// backendMessage extracts the error text from the shapes the backend uses:
// {"details": ...}, {"error": ...}, {"message": ...} or {"detail": ...}
func backendMessage(data []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return ""
	}

	for _, key := range []string{"details", "error", "message", "detail"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s != "" {
				return s
			}
			continue
		}
		if text := strings.TrimSpace(string(raw)); text != "" && text != "null" {
			return text
		}
	}
	return ""
}
