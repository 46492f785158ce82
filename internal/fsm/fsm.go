// Package fsm defines the capture lifecycle states and the pure transition function.
package fsm

import "fmt"

type State string

type Event string

const (
	StateIdle       State = "idle"
	StateRecording  State = "recording"
	StateLocked     State = "locked"
	StateFinalizing State = "finalizing"
)

const (
	EventPress     Event = "press"
	EventLock      Event = "lock"
	EventCancel    Event = "cancel"
	EventRelease   Event = "release"
	EventSend      Event = "send"
	EventTrash     Event = "trash"
	EventFinalized Event = "finalized"
	EventFail      Event = "fail"
)

// Transition maps one capture event onto the current state. Every terminal
// gesture routes through StateFinalizing so recorder teardown has exactly one
// home; EventFail is accepted from any state for the same reason.
func Transition(current State, event Event) (State, error) {
	if event == EventFail {
		return StateFinalizing, nil
	}

	switch current {
	case StateIdle:
		switch event {
		case EventPress:
			return StateRecording, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateRecording:
		switch event {
		case EventLock:
			return StateLocked, nil
		case EventCancel, EventRelease:
			return StateFinalizing, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateLocked:
		switch event {
		case EventSend, EventTrash:
			return StateFinalizing, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateFinalizing:
		switch event {
		case EventFinalized:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
