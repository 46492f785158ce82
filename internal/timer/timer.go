// Package timer tracks elapsed recording time and emits formatted display ticks.
package timer

import (
	"fmt"
	"sync"
	"time"
)

// Timer emits one formatted M:SS tick per second while running. Stop is
// idempotent and safe to call from any terminal path.
type Timer struct {
	interval time.Duration

	mu        sync.Mutex
	running   bool
	startedAt time.Time
	seconds   int
	stopCh    chan struct{}

	ticks chan string
}

func New() *Timer {
	return newWithInterval(time.Second)
}

func newWithInterval(interval time.Duration) *Timer {
	return &Timer{
		interval: interval,
		ticks:    make(chan string, 8),
	}
}

// Ticks returns the formatted tick stream. Sends never block: when the
// consumer falls behind, ticks are dropped rather than stalling capture.
func (t *Timer) Ticks() <-chan string {
	return t.ticks
}

// Start resets elapsed time to zero and begins ticking. Starting an already
// running timer restarts it from zero.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.running {
		close(t.stopCh)
	}
	t.running = true
	t.startedAt = time.Now()
	t.seconds = 0
	stopCh := make(chan struct{})
	t.stopCh = stopCh
	t.mu.Unlock()

	go t.run(stopCh)
}

// Stop halts ticking. Calling Stop on a stopped timer is a no-op.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.running = false
	close(t.stopCh)
}

// Elapsed reports wall-clock time since the last Start.
func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.startedAt.IsZero() {
		return 0
	}
	return time.Since(t.startedAt)
}

// Seconds reports the number of whole ticks emitted since the last Start.
func (t *Timer) Seconds() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seconds
}

func (t *Timer) run(stopCh chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			t.mu.Lock()
			if !t.running || t.stopCh != stopCh {
				t.mu.Unlock()
				return
			}
			t.seconds++
			formatted := Format(t.seconds)
			t.mu.Unlock()

			select {
			case t.ticks <- formatted:
			default:
			}
		}
	}
}

// Format renders whole seconds as M:SS with unbounded minutes.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
