package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hiring/sourcing-service/internal/metrics"
)

// StatusUpdate is the payload written to the backend for one transition.
// TemplateID, Message and Channel are set only when a message is sent.
type StatusUpdate struct {
	Status     Status  `json:"status"`
	TemplateID *string `json:"template_id,omitempty"`
	Message    string  `json:"message_sent,omitempty"`
	Channel    string  `json:"channel,omitempty"`
}

// StatusWriter persists a status change and acknowledges it.
type StatusWriter interface {
	SetStatus(ctx context.Context, candidateID int64, u StatusUpdate) error
}

// Event is published after the backend confirms a transition.
type Event struct {
	CandidateID int64     `json:"candidateId"`
	From        Status    `json:"from"`
	To          Status    `json:"to"`
	Action      Action    `json:"action"`
	At          time.Time `json:"at"`
}

// Publisher fans confirmed transitions out to other consumers.
type Publisher interface {
	PublishStatusChanged(ctx context.Context, e Event) error
}

// Outreach carries the message details for ActionSendMessage.
type Outreach struct {
	TemplateID *string
	Message    string
	Channel    string
}

// DefaultChannel is used when a message is sent without an explicit channel.
const DefaultChannel = "linkedin"

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Controller applies actions to candidates. It never treats a status as
// changed until the backend has acknowledged the write.
type Controller struct {
	writer    StatusWriter
	publisher Publisher
	now       func() time.Time
}

// NewController returns a Controller. publisher may be nil.
func NewController(writer StatusWriter, publisher Publisher) *Controller {
	return &Controller{writer: writer, publisher: publisher, now: time.Now}
}

// Apply validates action against from, writes the resulting status and
// returns it once the backend has confirmed. On error the caller's view of
// the candidate must stay at from.
func (c *Controller) Apply(ctx context.Context, candidateID int64, from Status, action Action, o Outreach) (Status, error) {
	to, err := Next(from, action)
	if err != nil {
		return from, err
	}

	u := StatusUpdate{Status: to}
	if WritesHistory(action) {
		if o.Message == "" {
			return from, &ValidationError{Msg: "message must not be empty"}
		}
		u.TemplateID = o.TemplateID
		u.Message = o.Message
		u.Channel = o.Channel
		if u.Channel == "" {
			u.Channel = DefaultChannel
		}
	}

	if err := c.writer.SetStatus(ctx, candidateID, u); err != nil {
		return from, fmt.Errorf("set status %s → %s: %w", from, to, err)
	}
	metrics.StatusTransitions.WithLabelValues(string(action), string(to)).Inc()

	if c.publisher != nil {
		e := Event{CandidateID: candidateID, From: from, To: to, Action: action, At: c.now().UTC()}
		if err := c.publisher.PublishStatusChanged(ctx, e); err != nil {
			slog.Warn("publish status change failed", "candidateId", candidateID, "err", err)
		}
	}
	return to, nil
}
