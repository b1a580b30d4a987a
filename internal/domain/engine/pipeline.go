package engine

import (
	"fmt"
)

// State is a phase of one application attempt.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateApplying   State = "applying"
	StateCommitted  State = "committed"
	StateRejected   State = "rejected"
)

var transitions = map[State][]State{
	StateIdle:       {StateValidating},
	StateValidating: {StateApplying, StateRejected},
	StateApplying:   {StateCommitted},
	StateRejected:   {StateIdle},
	StateCommitted:  {StateIdle},
}

// ExecutionStep records one transition of an application attempt.
type ExecutionStep struct {
	Phase    State  `json:"phase"`
	SchemeID string `json:"schemeId"`
	Action   string `json:"action"`
	Message  string `json:"message,omitempty"`
}

// Machine tracks one application attempt. It is not safe for concurrent use;
// concurrent attempts on the same order are excluded by the application
// guard before a machine is created.
type Machine struct {
	schemeID string
	state    State
	steps    []ExecutionStep
}

func NewMachine(schemeID string) *Machine {
	return &Machine{schemeID: schemeID, state: StateIdle}
}

func (m *Machine) State() State {
	return m.state
}

// To moves the machine to next, recording action. Transitions not allowed
// from the current state return an error and leave the state unchanged.
func (m *Machine) To(next State, action, message string) error {
	for _, allowed := range transitions[m.state] {
		if allowed == next {
			m.state = next
			m.steps = append(m.steps, ExecutionStep{
				Phase:    next,
				SchemeID: m.schemeID,
				Action:   action,
				Message:  message,
			})
			return nil
		}
	}
	return fmt.Errorf("invalid transition %s -> %s", m.state, next)
}

func (m *Machine) Steps() []ExecutionStep {
	out := make([]ExecutionStep, len(m.steps))
	copy(out, m.steps)
	return out
}
