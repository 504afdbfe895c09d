// ABOUTME: Picks the best feasible candidate from a live simulation
// ABOUTME: Pure ordering by cost, then latency, then original position

package selector

import "github.com/optifuse/optifuse-cli/internal/models"

// Summary is the display view of a candidate list
type Summary struct {
	Total    int
	Feasible int
	Best     *models.CandidateResult
}

// Select returns the feasible candidate with the lowest cost, breaking ties by
// lower latency and then by earlier position. ok is false when no candidate is feasible.
func Select(results []models.CandidateResult) (best models.CandidateResult, ok bool) {
	for _, r := range results {
		if !r.Feasible {
			continue
		}
		if !ok || better(r, best) {
			best, ok = r, true
		}
	}
	return best, ok
}

// Summarize counts the candidates and attaches the selection
func Summarize(results []models.CandidateResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Feasible {
			s.Feasible++
		}
	}
	if best, ok := Select(results); ok {
		s.Best = &best
	}
	return s
}

// better reports whether a strictly precedes b; equal keys keep the earlier one
func better(a, b models.CandidateResult) bool {
	if a.Cost != b.Cost {
		return a.Cost < b.Cost
	}
	return a.Latency < b.Latency
}
