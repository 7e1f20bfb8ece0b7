package domain

import (
	"testing"
)

func TestPhaseNextAdvancesActiveStages(t *testing.T) {
	t.Parallel()

	for p := PhaseValidation; p <= PhaseScale; p++ {
		if got := p.Next(); got != p+1 {
			t.Errorf("Next from %s: got %s, want %s", p, got, p+1)
		}
	}
}

func TestPhaseNextIsNoOpOutsideInterview(t *testing.T) {
	t.Parallel()

	if got := PhaseNotStarted.Next(); got != PhaseNotStarted {
		t.Errorf("Next from NotStarted: got %s, want NotStarted", got)
	}
	if got := PhaseComplete.Next(); got != PhaseComplete {
		t.Errorf("Next from Complete: got %s, want Complete", got)
	}
}

func TestAdvanceNeverDecrements(t *testing.T) {
	t.Parallel()

	sess := &Session{Phase: PhaseValidation}
	prev := sess.Phase
	for i := 0; i < 10; i++ {
		sess.Advance()
		if sess.Phase < prev {
			t.Fatalf("phase decreased from %s to %s", prev, sess.Phase)
		}
		prev = sess.Phase
	}
	if sess.Phase != PhaseComplete {
		t.Errorf("after repeated advances: got %s, want Complete", sess.Phase)
	}
}

func TestStatusIndicatorsAtSystems(t *testing.T) {
	t.Parallel()

	got := StatusIndicators(PhaseSystems)
	want := []Indicator{
		{Name: "Validation", State: StateDone},
		{Name: "Brand", State: StateDone},
		{Name: "Systems", State: StateActive},
		{Name: "Scale", State: StatePending},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d indicators, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("indicator %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestStatusIndicatorsAtComplete(t *testing.T) {
	t.Parallel()

	for i, ind := range StatusIndicators(PhaseComplete) {
		if ind.State != StateDone {
			t.Errorf("indicator %d (%s): got %s, want done", i, ind.Name, ind.State)
		}
	}
}

func TestStatusIndicatorsAtNotStarted(t *testing.T) {
	t.Parallel()

	for i, ind := range StatusIndicators(PhaseNotStarted) {
		if ind.State != StatePending {
			t.Errorf("indicator %d (%s): got %s, want pending", i, ind.Name, ind.State)
		}
	}
}

func TestLastAssistantMessage(t *testing.T) {
	t.Parallel()

	sess := &Session{}
	if got := sess.LastAssistantMessage(); got != "" {
		t.Errorf("empty transcript: got %q, want empty", got)
	}

	sess.AppendAssistant("first")
	sess.AppendUser("reply")
	sess.AppendAssistant("second")
	sess.AppendUser("another reply")

	if got := sess.LastAssistantMessage(); got != "second" {
		t.Errorf("got %q, want %q", got, "second")
	}
}

func TestInputDisabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sess Session
		want bool
	}{
		{"active interview", Session{Phase: PhaseBrand}, false},
		{"complete", Session{Phase: PhaseComplete}, true},
		{"converted", Session{Phase: PhaseComplete, Converted: true}, true},
		{"not started", Session{Phase: PhaseNotStarted}, true},
	}

	for _, tt := range tests {
		if got := tt.sess.InputDisabled(); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}
