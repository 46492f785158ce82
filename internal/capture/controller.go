package capture

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lamdalabs/chetu/internal/fsm"
	"github.com/lamdalabs/chetu/internal/gesture"
	"github.com/lamdalabs/chetu/internal/timer"
)

const (
	// MinDuration is the floor below which a recording is always discarded,
	// regardless of gesture outcome.
	MinDuration = time.Second
	// MinArtifactBytes is the noise floor for "the recorder produced anything
	// at all"; smaller artifacts are dropped silently.
	MinArtifactBytes = 100
)

// ErrUploaderUnavailable indicates upload pipeline wiring is missing.
var ErrUploaderUnavailable = errors.New("transcription upload pipeline not wired")

// placeholderUploader is the no-op fallback used in tests/partial wiring.
type placeholderUploader struct{}

func (placeholderUploader) Submit(context.Context, Artifact) (string, error) {
	return "", ErrUploaderUnavailable
}

// Controller coordinates one widget instance's capture lifecycle: press,
// gesture tracking, timer, finalization, and the upload hand-off. At most one
// recording session and one outstanding upload are live at a time; concurrent
// presses are refused rather than interleaved.
type Controller struct {
	logger   *slog.Logger
	acquire  RecorderFactory
	uploader Uploader
	commit   Committer
	notifier Notifier

	minDuration      time.Duration
	minArtifactBytes int64

	mu        sync.Mutex
	state     fsm.State
	session   *Session
	tracker   *gesture.Tracker
	timer     *timer.Timer
	uploading bool
}

// NewController constructs a capture controller with safe default fallbacks.
func NewController(
	logger *slog.Logger,
	acquire RecorderFactory,
	uploader Uploader,
	committer Committer,
	notifier Notifier,
) *Controller {
	if uploader == nil {
		uploader = placeholderUploader{}
	}
	if committer == nil {
		committer = CommitFunc(func(context.Context, string) error { return nil })
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}

	return &Controller{
		logger:           logger,
		acquire:          acquire,
		uploader:         uploader,
		commit:           committer,
		notifier:         notifier,
		minDuration:      MinDuration,
		minArtifactBytes: MinArtifactBytes,
		state:            fsm.StateIdle,
		timer:            timer.New(),
	}
}

// State returns the current FSM state snapshot.
func (c *Controller) State() fsm.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Uploading reports whether a pipeline call is still settling.
func (c *Controller) Uploading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploading
}

// Ticks exposes the timer display stream for the widget surface.
func (c *Controller) Ticks() <-chan string {
	return c.timer.Ticks()
}

// Press starts a new recording session. Pressing while a session or upload is
// active is a no-op; the recording device handle is exclusive.
func (c *Controller) Press(ctx context.Context, x, y float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != fsm.StateIdle || c.uploading {
		c.logWarn("press ignored", "state", string(c.state), "uploading", c.uploading)
		return nil
	}

	recorder, err := c.acquire(ctx)
	if err != nil {
		c.notifier.ShowNotice(ctx, noticeMicUnavailable)
		c.logWarn("recorder acquisition failed", "error", err.Error())
		return err
	}
	if err := recorder.Start(ctx); err != nil {
		_ = recorder.Stop()
		c.notifier.ShowNotice(ctx, noticeMicUnavailable)
		c.logWarn("recorder start failed", "error", err.Error())
		return err
	}

	if err := c.applyEvent(fsm.EventPress); err != nil {
		_ = recorder.Stop()
		return err
	}

	c.session = newSession(recorder)
	c.tracker = gesture.NewTracker(gesture.Origin{X: x, Y: y})
	c.timer.Start()
	c.notifier.ShowRecording(ctx)
	return nil
}

// PointerMove feeds one pointer sample into the gesture tracker. Movement is
// only meaningful while recording; locked and idle states ignore it.
func (c *Controller) PointerMove(ctx context.Context, x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != fsm.StateRecording || c.tracker == nil {
		return
	}

	switch ev := c.tracker.Move(x, y); ev.Kind {
	case gesture.Lock:
		if err := c.applyEvent(fsm.EventLock); err == nil {
			c.notifier.ShowLocked(ctx)
		}
	case gesture.Cancel:
		c.finish(ctx, fsm.EventCancel, false, true)
	}
}

// PointerRelease ends hold-to-record. After a lock it is a no-op; the explicit
// send/trash controls take over.
func (c *Controller) PointerRelease(ctx context.Context, x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != fsm.StateRecording || c.tracker == nil {
		return
	}

	if ev := c.tracker.Release(x); ev.Kind == gesture.Release {
		c.finish(ctx, fsm.EventRelease, ev.Commit, false)
	}
}

// Send commits a locked recording.
func (c *Controller) Send(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != fsm.StateLocked {
		return
	}
	c.finish(ctx, fsm.EventSend, true, false)
}

// Trash finalizes a locked recording and discards the artifact.
func (c *Controller) Trash(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != fsm.StateLocked {
		return
	}
	c.finish(ctx, fsm.EventTrash, true, true)
}

// finish is the single terminal path: recorder teardown, timer stop, and UI
// reset happen here unconditionally so no exit can leak the device handle or
// strand the surface. Callers hold c.mu.
func (c *Controller) finish(ctx context.Context, event fsm.Event, commit bool, discard bool) {
	if err := c.applyEvent(event); err != nil {
		c.logWarn("terminal transition rejected", "event", string(event), "error", err.Error())
		_ = c.applyEvent(fsm.EventFail)
	}

	elapsed := c.timer.Elapsed()
	c.timer.Stop()

	if elapsed < c.minDuration {
		commit = false
	}

	session := c.session
	c.session = nil
	c.tracker = nil

	var artifact Artifact
	if session != nil {
		var err error
		artifact, err = session.Finalize()
		if err != nil {
			c.logWarn("session finalize", "error", err.Error())
		}
	}

	_ = c.applyEvent(fsm.EventFinalized)
	c.notifier.Reset(ctx)

	if !commit || discard || artifact.SizeBytes <= c.minArtifactBytes {
		return
	}

	c.uploading = true
	go c.upload(ctx, artifact)
}

// upload is the pipeline suspend point: the controller is already idle, but a
// second press stays refused until the call settles.
func (c *Controller) upload(ctx context.Context, artifact Artifact) {
	defer func() {
		c.mu.Lock()
		c.uploading = false
		c.mu.Unlock()
	}()

	c.notifier.ShowProcessing(ctx)

	text, err := c.uploader.Submit(ctx, artifact)
	if err != nil {
		c.logWarn("voice upload failed", "bytes", artifact.SizeBytes, "error", err.Error())
		c.notifier.ShowNotice(ctx, noticeTranscribeFailed)
		return
	}

	if err := c.commit.Commit(ctx, text); err != nil {
		c.logWarn("transcript commit failed", "error", err.Error())
		c.notifier.ShowNotice(ctx, noticeTranscribeFailed)
		return
	}

	c.notifier.Reset(ctx)
}

// applyEvent applies one FSM event. Callers hold c.mu.
func (c *Controller) applyEvent(event fsm.Event) error {
	next, err := fsm.Transition(c.state, event)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

func (c *Controller) logWarn(msg string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Warn(msg, args...)
}
