// Package gesture classifies pointer movement during an active recording into
// lock, cancel, and release decisions.
package gesture

// Thresholds are deliberately asymmetric: vertical displacement locks, horizontal
// displacement cancels, so the two gestures cannot be confused mid-drag.
const (
	LockThreshold   = 60 // px upward before the recording locks
	CancelThreshold = 50 // px leftward before the recording cancels
)

// Kind is the outcome of evaluating one pointer sample.
type Kind int

const (
	None Kind = iota
	Lock
	Cancel
	Release
)

// Event is one classified gesture outcome. Commit is meaningful only for
// Release: true when the pointer came up inside the cancel threshold.
type Event struct {
	Kind   Kind
	Commit bool
}

// Origin is the pointer position captured once at press time. Read-only after
// construction.
type Origin struct {
	X float64
	Y float64
}

// Tracker interprets a stream of pointer positions relative to one origin.
// Lock is one-shot: after it fires, further movement is ignored because the
// locked control surface owns termination from then on.
type Tracker struct {
	origin Origin
	locked bool
}

func NewTracker(origin Origin) *Tracker {
	return &Tracker{origin: origin}
}

// Locked reports whether the lock gesture has already fired.
func (t *Tracker) Locked() bool {
	return t.locked
}

// Move evaluates one pointer sample. The lock check runs before the cancel
// check so a diagonal drag past both thresholds always locks.
func (t *Tracker) Move(x, y float64) Event {
	if t.locked {
		return Event{Kind: None}
	}

	if t.origin.Y-y > LockThreshold {
		t.locked = true
		return Event{Kind: Lock}
	}
	if t.origin.X-x > CancelThreshold {
		return Event{Kind: Cancel}
	}
	return Event{Kind: None}
}

// Release classifies pointer-up. After a lock it is a no-op: the explicit
// send/trash controls decide the outcome instead.
func (t *Tracker) Release(x float64) Event {
	if t.locked {
		return Event{Kind: None}
	}
	return Event{
		Kind:   Release,
		Commit: x >= t.origin.X-CancelThreshold,
	}
}
