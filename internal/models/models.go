// ABOUTME: Wire and domain types for the Optifuse backend API
// ABOUTME: Repositories, configuration documents, candidates, reports and AWS profile

package models

import (
	"fmt"
	"strings"
)

// Session is an authenticated client session
type Session struct {
	Token    string
	Username string
}

// RepositoryRef identifies a repository by owner and name
type RepositoryRef struct {
	Owner string
	Name  string
}

// ParseRepositoryRef parses "owner/name"
func ParseRepositoryRef(s string) (RepositoryRef, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return RepositoryRef{}, fmt.Errorf("invalid repository %q, expected owner/name", s)
	}
	return RepositoryRef{Owner: owner, Name: name}, nil
}

// String returns "owner/name"
func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}

// RepositoryOwner is the owner block of a repository listing entry
type RepositoryOwner struct {
	Login string `json:"login"`
}

// Repository represents one entry of the /api/repositories/ response
type Repository struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	FullName        string          `json:"full_name"`
	HTMLURL         string          `json:"html_url"`
	Description     *string         `json:"description"`
	StargazersCount int             `json:"stargazers_count"`
	Owner           RepositoryOwner `json:"owner"`
}

// Ref returns the repository reference for navigation
func (r Repository) Ref() RepositoryRef {
	return RepositoryRef{Owner: r.Owner.Login, Name: r.Name}
}

// DescriptionOrDefault returns the description or a placeholder
func (r Repository) DescriptionOrDefault() string {
	if r.Description == nil || *r.Description == "" {
		return "No description provided."
	}
	return *r.Description
}

// ConfigDocument is a fetched deployment configuration file
type ConfigDocument struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// CandidateResult is one strategy evaluated by a live simulation
type CandidateResult struct {
	Name     string     `json:"name"`
	Cost     float64    `json:"cost"`
	Latency  float64    `json:"latency"`
	Feasible bool       `json:"feasible"`
	Groups   [][]string `json:"groups"`
	Runtime  float64    `json:"runtime"`
	Error    *string    `json:"error,omitempty"`
}

// GroupCount returns the number of fusion groups proposed
func (c CandidateResult) GroupCount() int {
	return len(c.Groups)
}

// ErrorText returns the backend note for this candidate, or ""
func (c CandidateResult) ErrorText() string {
	if c.Error == nil {
		return ""
	}
	return *c.Error
}

// OptimizationSummary holds the headline numbers of a static optimization
type OptimizationSummary struct {
	TotalChanges       int     `json:"totalChanges"`
	OptimizationScore  float64 `json:"optimizationScore"`
	CostSavingsPct     float64 `json:"costSavingsPct"`
	PerfImprovementPct float64 `json:"perfImprovementPct"`
}

// OptimizationReport is the response of the static optimize endpoint
type OptimizationReport struct {
	Summary         OptimizationSummary    `json:"summary"`
	Changes         []string               `json:"changes"`
	Recommendations []string               `json:"recommendations"`
	OriginalConfig  map[string]interface{} `json:"originalConfig,omitempty"`
	OptimizedConfig map[string]interface{} `json:"optimizedConfig,omitempty"`
	OptimizedText   string                 `json:"optimized_yaml"`
}

// Profile is the /api/profile/settings/ response
type Profile struct {
	Username      string  `json:"username"`
	Subscription  string  `json:"subscription"`
	AWSRoleARN    *string `json:"aws_role_arn"`
	AWSExternalID string  `json:"aws_external_id"`
}

// AWSIntegration is the AWS trust state derived from a profile
type AWSIntegration struct {
	ExternalID string
	RoleARN    *string
}

// Integration extracts the AWS integration from a profile
func (p Profile) Integration() AWSIntegration {
	return AWSIntegration{ExternalID: p.AWSExternalID, RoleARN: p.AWSRoleARN}
}

// Connected reports whether a role ARN has been stored
func (a AWSIntegration) Connected() bool {
	return a.RoleARN != nil && *a.RoleARN != ""
}

// RoleARNOrEmpty returns the stored role ARN or ""
func (a AWSIntegration) RoleARNOrEmpty() string {
	if a.RoleARN == nil {
		return ""
	}
	return *a.RoleARN
}
