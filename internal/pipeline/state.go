package pipeline

import "fmt"

// State is a step of a submission run.
type State string

const (
	StateIdle       State = "idle"
	StateExtracting State = "extracting"
	StateChecking   State = "checking"
	StateCompleted  State = "completed"
	StateError      State = "error"
)

// Event drives a transition between states.
type Event string

const (
	EventSubmit    Event = "submit"
	EventTextReady Event = "text_ready"
	EventChecked   Event = "checked"
	EventFail      Event = "fail"
	EventReset     Event = "reset"
)

// Transition returns the state reached from s on e.
func Transition(s State, e Event) (State, error) {
	switch {
	case e == EventSubmit && (s == StateIdle || s == StateCompleted):
		return StateExtracting, nil
	case e == EventTextReady && s == StateExtracting:
		return StateChecking, nil
	case e == EventChecked && s == StateChecking:
		return StateCompleted, nil
	case e == EventFail && (s == StateExtracting || s == StateChecking):
		return StateError, nil
	case e == EventReset && (s == StateError || s == StateCompleted):
		return StateIdle, nil
	}
	return s, fmt.Errorf("invalid transition: %s on %s", e, s)
}

// Progress checkpoints reported during a run.
const (
	ProgressStart          = 10
	ProgressTextReady      = 30
	ProgressCheckSubmitted = 50
	ProgressCheckComplete  = 80
	ProgressDone           = 100
)

// Progress is one checkpoint of a run.
type Progress struct {
	State   State `json:"state"`
	Percent int   `json:"percent"`
}

// ProgressFunc receives checkpoints in order. Percent never decreases within a run
// except for the final reset to idle after a failure.
type ProgressFunc func(Progress)
