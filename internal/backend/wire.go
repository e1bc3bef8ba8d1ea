package backend

import (
	"bytes"
	"log/slog"
	"sort"
	"strings"
	"time"

	"hiring/sourcing-service/internal/lifecycle"
	"hiring/sourcing-service/internal/model"
)

// searchResponse mirrors POST /api/linkedin/search.
type searchResponse struct {
	TotalFound   int    `json:"total_found"`
	TotalSaved   int    `json:"total_saved"`
	SearchMethod string `json:"search_method"`
}

// flexBool accepts true/false, 0/1 and null.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1", `"1"`, `"true"`:
		*b = true
	default:
		*b = false
	}
	return nil
}

// candidateWire mirrors one linkedin_candidates row. Every field is optional
// on the wire.
type candidateWire struct {
	ID            int64    `json:"id"`
	Username      string   `json:"linkedin_username"`
	FullName      string   `json:"full_name"`
	Headline      string   `json:"headline"`
	Location      string   `json:"location"`
	ProfileURL    string   `json:"profile_url"`
	OpenToWork    flexBool `json:"open_to_work"`
	Score         *float64 `json:"score"`
	Status        string   `json:"status"`
	Source        string   `json:"source"`
	Notes         *string  `json:"notes"`
	SearchKeyword *string  `json:"search_keyword"`
	CreatedAt     string   `json:"created_at"`
}

func (w candidateWire) toModel() model.Candidate {
	c := model.Candidate{
		ID:         w.ID,
		Username:   w.Username,
		FullName:   w.FullName,
		Headline:   w.Headline,
		Location:   w.Location,
		ProfileURL: w.ProfileURL,
		OpenToWork: bool(w.OpenToWork),
		Source:     w.Source,
		CreatedAt:  w.CreatedAt,
	}
	if w.Score != nil {
		c.Score = *w.Score
	}
	if w.Notes != nil {
		c.Notes = *w.Notes
	}
	if w.SearchKeyword != nil {
		c.SearchKeyword = *w.SearchKeyword
	}
	if c.Source == "" {
		c.Source = model.SourceSearch
	}

	status, err := lifecycle.ParseStatus(w.Status)
	if err != nil {
		if w.Status != "" {
			slog.Warn("unknown candidate status from backend; treating as discovered", "candidateId", w.ID, "status", w.Status)
		}
		status = lifecycle.StatusDiscovered
	}
	c.Status = status
	return c
}

// templateWire mirrors one template record. Older backends send no group_id
// and encode the group in the id as "<group>_<lang>".
type templateWire struct {
	ID           string   `json:"id"`
	GroupID      string   `json:"group_id"`
	Label        string   `json:"label"`
	Language     string   `json:"language"`
	Body         string   `json:"body"`
	Placeholders []string `json:"placeholders"`
}

func (w templateWire) toModel() model.OutreachTemplate {
	t := model.OutreachTemplate{
		ID:           w.ID,
		GroupID:      w.GroupID,
		Label:        w.Label,
		Language:     w.Language,
		Body:         w.Body,
		Placeholders: w.Placeholders,
	}
	if t.GroupID == "" && t.Language != "" {
		t.GroupID = strings.TrimSuffix(t.ID, "_"+t.Language)
	}
	if t.Label == "" {
		t.Label = t.ID
	}
	return t
}

// historyWire mirrors one outreach_history row.
type historyWire struct {
	ID          int64   `json:"id"`
	CandidateID int64   `json:"candidate_id"`
	TemplateID  *string `json:"template_id"`
	Message     string  `json:"message_sent"`
	Channel     string  `json:"channel"`
	Result      string  `json:"result"`
	SentAt      string  `json:"sent_at"`
	SentBy      string  `json:"sent_by"`
}

// timestamp layouts seen from the backend; naive timestamps are UTC.
var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func (w historyWire) toModel(candidateID int64) model.OutreachHistoryEntry {
	e := model.OutreachHistoryEntry{
		ID:          w.ID,
		CandidateID: w.CandidateID,
		Message:     w.Message,
		Channel:     w.Channel,
		Result:      w.Result,
		SentAt:      parseTime(w.SentAt),
		SentBy:      w.SentBy,
	}
	if e.CandidateID == 0 {
		e.CandidateID = candidateID
	}
	if w.TemplateID != nil && *w.TemplateID != "" {
		id := *w.TemplateID
		e.TemplateID = &id
	}
	return e
}

func sortNewestFirst(entries []model.OutreachHistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SentAt.After(entries[j].SentAt)
	})
}
