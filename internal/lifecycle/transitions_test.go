package lifecycle_test

import (
	"errors"
	"testing"

	"hiring/sourcing-service/internal/lifecycle"
)

// ── ParseStatus ────────────────────────────────────────────────────────────

func TestParseStatus_ValidValues(t *testing.T) {
	valid := []string{"discovered", "outreach", "contacted", "responded", "rejected"}
	for _, s := range valid {
		got, err := lifecycle.ParseStatus(s)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseStatus_InvalidValue(t *testing.T) {
	for _, s := range []string{"", "UNKNOWN", "Discovered", " outreach"} {
		if _, err := lifecycle.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) expected error, got nil", s)
		}
	}
}

// ── Actions ────────────────────────────────────────────────────────────────

func TestActions_MatchTransitionTable(t *testing.T) {
	cases := []struct {
		from lifecycle.Status
		want []lifecycle.Action
	}{
		{lifecycle.StatusDiscovered, []lifecycle.Action{lifecycle.ActionPrepareOutreach, lifecycle.ActionReject}},
		{lifecycle.StatusOutreach, []lifecycle.Action{lifecycle.ActionSendMessage, lifecycle.ActionSkip, lifecycle.ActionReject}},
		{lifecycle.StatusContacted, []lifecycle.Action{lifecycle.ActionMarkResponded, lifecycle.ActionMarkNoResponse}},
		{lifecycle.StatusResponded, []lifecycle.Action{}},
		{lifecycle.StatusRejected, []lifecycle.Action{}},
	}
	for _, c := range cases {
		got := lifecycle.Actions(c.from)
		if len(got) != len(c.want) {
			t.Fatalf("Actions(%s) = %v, want %v", c.from, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("Actions(%s)[%d] = %s, want %s", c.from, i, got[i], c.want[i])
			}
		}
	}
}

// Every offered action must lead somewhere via Next, and nothing else may.
func TestActions_AreExactlyTheOutgoingEdges(t *testing.T) {
	all := []lifecycle.Action{
		lifecycle.ActionPrepareOutreach, lifecycle.ActionSendMessage, lifecycle.ActionSkip,
		lifecycle.ActionMarkResponded, lifecycle.ActionMarkNoResponse, lifecycle.ActionReject,
		lifecycle.ActionPromote,
	}
	for _, from := range lifecycle.AllStatuses {
		offered := map[lifecycle.Action]bool{}
		for _, a := range lifecycle.Actions(from) {
			offered[a] = true
		}
		for _, a := range all {
			_, err := lifecycle.Next(from, a)
			if offered[a] && err != nil {
				t.Errorf("Next(%s, %s) offered but failed: %v", from, a, err)
			}
			if !offered[a] && err == nil {
				t.Errorf("Next(%s, %s) succeeded but action is not offered", from, a)
			}
		}
	}
}

// ── Next ───────────────────────────────────────────────────────────────────

func TestNext_ValidTransitions(t *testing.T) {
	cases := []struct {
		from   lifecycle.Status
		action lifecycle.Action
		to     lifecycle.Status
	}{
		{lifecycle.StatusDiscovered, lifecycle.ActionPrepareOutreach, lifecycle.StatusOutreach},
		{lifecycle.StatusOutreach, lifecycle.ActionSendMessage, lifecycle.StatusContacted},
		{lifecycle.StatusOutreach, lifecycle.ActionSkip, lifecycle.StatusContacted},
		{lifecycle.StatusContacted, lifecycle.ActionMarkResponded, lifecycle.StatusResponded},
		{lifecycle.StatusContacted, lifecycle.ActionMarkNoResponse, lifecycle.StatusRejected},
		{lifecycle.StatusDiscovered, lifecycle.ActionReject, lifecycle.StatusRejected},
		{lifecycle.StatusOutreach, lifecycle.ActionReject, lifecycle.StatusRejected},
	}
	for _, c := range cases {
		got, err := lifecycle.Next(c.from, c.action)
		if err != nil {
			t.Errorf("Next(%s, %s) unexpected error: %v", c.from, c.action, err)
			continue
		}
		if got != c.to {
			t.Errorf("Next(%s, %s) = %s, want %s", c.from, c.action, got, c.to)
		}
	}
}

func TestNext_TerminalStatesHaveNoOutgoing(t *testing.T) {
	for _, from := range []lifecycle.Status{lifecycle.StatusResponded, lifecycle.StatusRejected} {
		if !lifecycle.IsTerminal(from) {
			t.Errorf("IsTerminal(%s) should be true", from)
		}
		for _, a := range []lifecycle.Action{lifecycle.ActionReject, lifecycle.ActionPrepareOutreach, lifecycle.ActionMarkResponded} {
			if _, err := lifecycle.Next(from, a); !errors.Is(err, lifecycle.ErrActionNotAllowed) {
				t.Errorf("Next(%s, %s) error = %v, want ErrActionNotAllowed", from, a, err)
			}
		}
	}
}

// contacted candidates can no longer be rejected directly; only
// mark_no_response leads to rejected.
func TestNext_ContactedCannotReject(t *testing.T) {
	if _, err := lifecycle.Next(lifecycle.StatusContacted, lifecycle.ActionReject); err == nil {
		t.Error("Next(contacted, reject) should fail")
	}
}

func TestNext_SkipLevel(t *testing.T) {
	cases := []struct {
		from   lifecycle.Status
		action lifecycle.Action
	}{
		{lifecycle.StatusDiscovered, lifecycle.ActionSendMessage},
		{lifecycle.StatusDiscovered, lifecycle.ActionMarkResponded},
		{lifecycle.StatusOutreach, lifecycle.ActionMarkResponded},
		{lifecycle.StatusOutreach, lifecycle.ActionPrepareOutreach},
	}
	for _, c := range cases {
		if _, err := lifecycle.Next(c.from, c.action); err == nil {
			t.Errorf("Next(%s, %s) should fail (skip-level)", c.from, c.action)
		}
	}
}

// ── Promote ────────────────────────────────────────────────────────────────

func TestPromote_IsDisabledAffordance(t *testing.T) {
	got := lifecycle.DisabledAffordances(lifecycle.StatusResponded)
	if len(got) != 1 || got[0] != lifecycle.ActionPromote {
		t.Fatalf("DisabledAffordances(responded) = %v, want [promote]", got)
	}
	for _, s := range []lifecycle.Status{lifecycle.StatusDiscovered, lifecycle.StatusOutreach, lifecycle.StatusContacted, lifecycle.StatusRejected} {
		if len(lifecycle.DisabledAffordances(s)) != 0 {
			t.Errorf("DisabledAffordances(%s) should be empty", s)
		}
	}
	if _, err := lifecycle.Next(lifecycle.StatusResponded, lifecycle.ActionPromote); !errors.Is(err, lifecycle.ErrActionDisabled) {
		t.Errorf("Next(responded, promote) error = %v, want ErrActionDisabled", err)
	}
}

func TestWritesHistory_OnlySend(t *testing.T) {
	if !lifecycle.WritesHistory(lifecycle.ActionSendMessage) {
		t.Error("WritesHistory(send_message) should be true")
	}
	for _, a := range []lifecycle.Action{lifecycle.ActionSkip, lifecycle.ActionMarkNoResponse, lifecycle.ActionReject, lifecycle.ActionPrepareOutreach} {
		if lifecycle.WritesHistory(a) {
			t.Errorf("WritesHistory(%s) should be false", a)
		}
	}
}

func TestParseAction(t *testing.T) {
	if _, err := lifecycle.ParseAction("send_message"); err != nil {
		t.Errorf("ParseAction(send_message) unexpected error: %v", err)
	}
	if _, err := lifecycle.ParseAction("archive"); err == nil {
		t.Error("ParseAction(archive) expected error, got nil")
	}
}
