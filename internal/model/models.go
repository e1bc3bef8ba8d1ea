// Package model defines shared data structures for the sourcing service.
package model

import (
	"time"

	"hiring/sourcing-service/internal/lifecycle"
)

// Candidate sources that mark a profile bridged from another platform.
const (
	SourceSearch       = "search"
	SourceGitHub       = "github"
	SourceGitHubBridge = "github_bridge"
)

// Candidate is a sourced profile as returned by the backend.
// Score is computed by the backend and never modified here.
type Candidate struct {
	ID            int64            `json:"id"`
	Username      string           `json:"linkedin_username"`
	FullName      string           `json:"full_name"`
	Headline      string           `json:"headline"`
	Location      string           `json:"location"`
	ProfileURL    string           `json:"profile_url"`
	OpenToWork    bool             `json:"open_to_work"`
	Score         float64          `json:"score"`
	Status        lifecycle.Status `json:"status"`
	Source        string           `json:"source"`
	Notes         string           `json:"notes"`
	SearchKeyword string           `json:"search_keyword,omitempty"`
	CreatedAt     string           `json:"created_at,omitempty"`
}

// IsBridged reports whether the candidate was reconciled from GitHub rather
// than discovered by a keyword search.
func (c Candidate) IsBridged() bool {
	return c.Source == SourceGitHub || c.Source == SourceGitHubBridge
}

// DisplayName falls back to the username when the profile has no name.
func (c Candidate) DisplayName() string {
	if c.FullName != "" {
		return c.FullName
	}
	return c.Username
}

// OutreachTemplate is one language variant of a message template.
// Variants of the same logical template share GroupID.
type OutreachTemplate struct {
	ID           string   `json:"id"`
	GroupID      string   `json:"group_id"`
	Label        string   `json:"label"`
	Language     string   `json:"language"`
	Body         string   `json:"body"`
	Placeholders []string `json:"placeholders"`
}

// OutreachHistoryEntry records one message sent to a candidate.
// TemplateID is nil for manually written messages.
type OutreachHistoryEntry struct {
	ID          int64     `json:"id"`
	CandidateID int64     `json:"candidate_id"`
	TemplateID  *string   `json:"template_id"`
	Message     string    `json:"message"`
	Channel     string    `json:"channel"`
	Result      string    `json:"result"`
	SentAt      time.Time `json:"sent_at"`
	SentBy      string    `json:"sent_by"`
}

// ActivityRecord is one public contribution of a monitored GitHub user.
type ActivityRecord struct {
	Type    string `json:"activity_type"`
	Repo    string `json:"repo_name"`
	URL     string `json:"activity_url"`
	Date    string `json:"activity_date"`
	Details string `json:"details"`
}

// MonitorCandidate is an external contributor tracked by the monitor scan.
type MonitorCandidate struct {
	Username      string             `json:"github_username"`
	ProfileURL    string             `json:"profile_url"`
	Bio           string             `json:"bio"`
	PublicRepos   int                `json:"public_repos"`
	Followers     int                `json:"followers"`
	Languages     map[string]int     `json:"languages,omitempty"`
	Scores        map[string]float64 `json:"scores,omitempty"`
	ActivityTypes map[string]int     `json:"activity_types,omitempty"`
	Recent        []ActivityRecord   `json:"recent_activities,omitempty"`
	LastScanned   string             `json:"last_scanned"`
}

// SearchResult summarises the most recent search run. It is not persisted
// by the orchestrator.
type SearchResult struct {
	TotalFound       int    `json:"total_found"`
	TotalSaved       int    `json:"total_saved"`
	SearchMethod     string `json:"search_method"`
	KeywordsSearched int    `json:"keywords_searched"`
}

// BridgeResult is the outcome of a GitHub → LinkedIn reconciliation pass.
type BridgeResult struct {
	LinkedInProfilesFound int `json:"linkedin_profiles_found"`
	CandidatesChecked     int `json:"candidates_checked"`
}

// ScanResult is the outcome of a monitor scan over the organisation repos.
type ScanResult struct {
	ReposScanned       int `json:"repos_scanned"`
	ExternalUsersFound int `json:"external_users_found"`
	ProfilesAnalyzed   int `json:"profiles_analyzed"`
}
