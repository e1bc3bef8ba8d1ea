package view

import (
	"context"
	"fmt"
	"log/slog"

	"hiring/sourcing-service/internal/lifecycle"
	"hiring/sourcing-service/internal/model"
	"hiring/sourcing-service/internal/outreach"
)

type dialog struct {
	candidateID int64
	draft       *outreach.Draft
}

// DraftView is the outreach dialog as shown to the user. Templates holds the
// choices for the active language.
type DraftView struct {
	CandidateID   int64                    `json:"candidateId"`
	CandidateName string                   `json:"candidateName"`
	Language      string                   `json:"language"`
	TemplateID    string                   `json:"templateId"`
	Message       string                   `json:"message"`
	Edited        bool                     `json:"edited"`
	Templates     []model.OutreachTemplate `json:"templates"`
	Unresolved    []string                 `json:"unresolved,omitempty"`
}

func (dl *dialog) view() DraftView {
	d := dl.draft
	v := DraftView{
		CandidateID:   dl.candidateID,
		CandidateName: d.Candidate.DisplayName(),
		Language:      d.Language,
		TemplateID:    d.TemplateID,
		Message:       d.Message(),
		Edited:        d.Edited(),
		Templates:     make([]model.OutreachTemplate, 0),
	}
	for _, t := range d.Templates() {
		if t.Language == d.Language {
			v.Templates = append(v.Templates, t)
		}
		if t.ID == d.TemplateID {
			v.Unresolved = outreach.Unresolvable(t)
		}
	}
	return v
}

// PrepareOutreach applies the prepare_outreach row action: it is an outgoing
// edge of discovered only, so any other status is ErrActionNotAllowed.
func (s *Session) PrepareOutreach(ctx context.Context, id int64) (DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.candidateLocked(id)
	if err != nil {
		return DraftView{}, err
	}
	if _, err := lifecycle.Next(c.Status, lifecycle.ActionPrepareOutreach); err != nil {
		return DraftView{}, err
	}
	return s.openLocked(ctx, c)
}

// OpenOutreach opens the outreach dialog for candidate id. A discovered
// candidate is first moved to outreach; the dialog opens only once the
// backend has confirmed that write. A candidate already in outreach gets its
// dialog back without a write.
func (s *Session) OpenOutreach(ctx context.Context, id int64) (DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.candidateLocked(id)
	if err != nil {
		return DraftView{}, err
	}
	return s.openLocked(ctx, c)
}

func (s *Session) openLocked(ctx context.Context, c model.Candidate) (DraftView, error) {
	id := c.ID
	switch c.Status {
	case lifecycle.StatusDiscovered:
		to, err := s.applyLocked(ctx, c, lifecycle.ActionPrepareOutreach, lifecycle.Outreach{})
		if err != nil {
			return DraftView{}, err
		}
		if fresh, ferr := s.candidateLocked(id); ferr == nil {
			c = fresh
		}
		c.Status = to
	case lifecycle.StatusOutreach:
	default:
		return DraftView{}, fmt.Errorf("%w: open outreach from %s", lifecycle.ErrActionNotAllowed, c.Status)
	}

	d, err := outreach.NewDraft(c, s.language, s.templatesLocked(ctx), s.sender)
	if err != nil {
		return DraftView{}, err
	}
	s.dialog = &dialog{candidateID: id, draft: d}
	return s.dialog.view(), nil
}

// templatesLocked returns the backend's templates, falling back to the
// built-in set when the backend has none or cannot be reached.
func (s *Session) templatesLocked(ctx context.Context) []model.OutreachTemplate {
	tpls, err := s.backend.ListTemplates(ctx)
	if err != nil {
		slog.Warn("list templates failed; using built-in templates", "err", err)
		return outreach.DefaultTemplates()
	}
	if len(tpls) == 0 {
		return outreach.DefaultTemplates()
	}
	return tpls
}

// Outreach returns the open dialog, if any.
func (s *Session) Outreach() (DraftView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dialog == nil {
		return DraftView{}, false
	}
	return s.dialog.view(), true
}

// SetLanguage switches the outreach language. With a dialog open the
// selection moves to the sibling template and the message is re-rendered;
// if the language has no template the dialog is left as it was.
func (s *Session) SetLanguage(lang string) (DraftView, error) {
	if !outreach.IsLanguage(lang) {
		return DraftView{}, &lifecycle.ValidationError{Msg: fmt.Sprintf("unsupported language %q", lang)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dialog == nil {
		s.language = lang
		return DraftView{}, nil
	}
	if err := s.dialog.draft.SetLanguage(lang); err != nil {
		return s.dialog.view(), err
	}
	s.language = lang
	return s.dialog.view(), nil
}

// Language returns the session's outreach language.
func (s *Session) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// SelectTemplate picks a template in the open dialog.
func (s *Session) SelectTemplate(id string) (DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dialog == nil {
		return DraftView{}, ErrNoDialog
	}
	if err := s.dialog.draft.SelectTemplate(id); err != nil {
		return s.dialog.view(), err
	}
	s.language = s.dialog.draft.Language
	return s.dialog.view(), nil
}

// EditMessage replaces the dialog text.
func (s *Session) EditMessage(text string) (DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dialog == nil {
		return DraftView{}, ErrNoDialog
	}
	s.dialog.draft.Edit(text)
	return s.dialog.view(), nil
}

// Send records the dialog text as sent on channel and moves the candidate to
// contacted. The cached history of that candidate is dropped so the new
// entry shows on the next expand. On failure the dialog stays open.
func (s *Session) Send(ctx context.Context, channel string) (lifecycle.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dialog == nil {
		return "", ErrNoDialog
	}
	c := s.dialogCandidateLocked()
	d := s.dialog.draft
	to, err := s.applyLocked(ctx, c, lifecycle.ActionSendMessage, lifecycle.Outreach{
		TemplateID: d.TemplateRef(),
		Message:    d.Message(),
		Channel:    channel,
	})
	if err != nil {
		return to, err
	}
	s.history.Invalidate(c.ID)
	return to, nil
}

// Skip moves the dialog's candidate to contacted without recording a
// message.
func (s *Session) Skip(ctx context.Context) (lifecycle.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dialog == nil {
		return "", ErrNoDialog
	}
	return s.applyLocked(ctx, s.dialogCandidateLocked(), lifecycle.ActionSkip, lifecycle.Outreach{})
}

// CloseOutreach closes the dialog. The candidate stays in outreach.
func (s *Session) CloseOutreach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialog = nil
}

// dialogCandidateLocked prefers the listed record, which carries the latest
// confirmed status.
func (s *Session) dialogCandidateLocked() model.Candidate {
	if c, err := s.candidateLocked(s.dialog.candidateID); err == nil {
		return c
	}
	c := s.dialog.draft.Candidate
	c.Status = lifecycle.StatusOutreach
	return c
}
