// Package lifecycle defines the outreach state machine for sourced candidates.
//
// Valid status graph:
//
//	discovered ──► outreach ──► contacted ──► responded
//	    │              │             │
//	    └──────────────┴──► rejected ◄┘ (mark_no_response)
//
// responded and rejected are terminal: no action moves a candidate out of
// them. Promotion of a responded candidate is shown but disabled.
package lifecycle

import (
	"errors"
	"fmt"
)

// Status values mirror the status column of linkedin_candidates.
type Status string

const (
	StatusDiscovered Status = "discovered"
	StatusOutreach   Status = "outreach"
	StatusContacted  Status = "contacted"
	StatusResponded  Status = "responded"
	StatusRejected   Status = "rejected"
)

// AllStatuses lists every state in pipeline order.
var AllStatuses = []Status{
	StatusDiscovered,
	StatusOutreach,
	StatusContacted,
	StatusResponded,
	StatusRejected,
}

// Action is a user-triggered transition.
type Action string

const (
	ActionPrepareOutreach Action = "prepare_outreach"
	ActionSendMessage     Action = "send_message"
	ActionSkip            Action = "skip"
	ActionMarkResponded   Action = "mark_responded"
	ActionMarkNoResponse  Action = "mark_no_response"
	ActionReject          Action = "reject"

	// ActionPromote is rendered for responded candidates but has no backing
	// operation.
	ActionPromote Action = "promote"
)

type edge struct {
	action Action
	to     Status
}

// transitions lists every allowed (from, action) → to triple, in the order
// actions are offered.
var transitions = map[Status][]edge{
	StatusDiscovered: {
		{ActionPrepareOutreach, StatusOutreach},
		{ActionReject, StatusRejected},
	},
	StatusOutreach: {
		{ActionSendMessage, StatusContacted},
		{ActionSkip, StatusContacted},
		{ActionReject, StatusRejected},
	},
	StatusContacted: {
		{ActionMarkResponded, StatusResponded},
		{ActionMarkNoResponse, StatusRejected},
	},
	// responded and rejected are terminal
}

var (
	// ErrActionNotAllowed is returned when an action is not an outgoing edge
	// of the candidate's current status.
	ErrActionNotAllowed = errors.New("action not allowed from current status")

	// ErrActionDisabled is returned for affordances that exist without a
	// backing operation.
	ErrActionDisabled = errors.New("action is not available")
)

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusDiscovered, StatusOutreach, StatusContacted, StatusResponded, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown candidate status %q", s)
}

// ParseAction converts a raw string to an Action.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	switch a {
	case ActionPrepareOutreach, ActionSendMessage, ActionSkip,
		ActionMarkResponded, ActionMarkNoResponse, ActionReject, ActionPromote:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Actions returns the actions available from status. The result depends on
// status alone.
func Actions(from Status) []Action {
	edges := transitions[from]
	out := make([]Action, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.action)
	}
	return out
}

// DisabledAffordances returns actions that are displayed for status but
// cannot be applied.
func DisabledAffordances(from Status) []Action {
	if from == StatusResponded {
		return []Action{ActionPromote}
	}
	return nil
}

// Next returns the status reached by applying action to from.
func Next(from Status, action Action) (Status, error) {
	if action == ActionPromote {
		return "", ErrActionDisabled
	}
	for _, e := range transitions[from] {
		if e.action == action {
			return e.to, nil
		}
	}
	return "", fmt.Errorf("%w: %s from %s", ErrActionNotAllowed, action, from)
}

// IsTerminal reports whether status has no outgoing transition.
func IsTerminal(s Status) bool {
	_, ok := transitions[s]
	return !ok
}

// WritesHistory reports whether applying action records an outreach
// history entry alongside the status write.
func WritesHistory(a Action) bool { return a == ActionSendMessage }
