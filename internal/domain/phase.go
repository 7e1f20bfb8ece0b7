// Package domain contains core domain types for the Blueprint intake flow.
package domain

// Phase identifies where a session sits in the four-stage interview.
// The zero value means intake has not completed yet.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseValidation
	PhaseBrand
	PhaseSystems
	PhaseScale
	PhaseComplete
)

// PhaseNames lists the four interview stages in display order.
var PhaseNames = [...]string{"Validation", "Brand", "Systems", "Scale"}

// PhaseCount is the number of active interview stages.
const PhaseCount = len(PhaseNames)

func (p Phase) String() string {
	switch {
	case p == PhaseNotStarted:
		return "NotStarted"
	case p == PhaseComplete:
		return "Complete"
	case p.Active():
		return PhaseNames[p-PhaseValidation]
	}
	return "Invalid"
}

// Active reports whether p is one of the four interview stages.
func (p Phase) Active() bool {
	return p >= PhaseValidation && p <= PhaseScale
}

// Next returns the phase that follows p. Advancing from NotStarted or
// Complete is invalid, so Next returns p unchanged in those cases.
func (p Phase) Next() Phase {
	if !p.Active() {
		return p
	}
	return p + 1
}

// IndicatorState is the render state of one segment of the phase indicator.
type IndicatorState string

const (
	StatePending IndicatorState = "pending"
	StateActive  IndicatorState = "active"
	StateDone    IndicatorState = "done"
)

// Indicator is one segment of the four-part progress display.
type Indicator struct {
	Name  string         `json:"name"`
	State IndicatorState `json:"state"`
}

// StatusIndicators renders the progress display for a phase. It is a pure
// function of p: stages before the current phase are done, the current
// phase is active, later stages are pending. At Complete every stage is done.
func StatusIndicators(p Phase) []Indicator {
	out := make([]Indicator, PhaseCount)
	for i, name := range PhaseNames {
		stage := PhaseValidation + Phase(i)
		state := StatePending
		switch {
		case p > stage:
			state = StateDone
		case p == stage:
			state = StateActive
		}
		out[i] = Indicator{Name: name, State: state}
	}
	return out
}
