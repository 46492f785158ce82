package capture

import "context"

// Notifier is the controller-facing subset of widget surface behavior.
type Notifier interface {
	ShowRecording(context.Context)
	ShowLocked(context.Context)
	ShowProcessing(context.Context)
	ShowNotice(context.Context, string)
	Reset(context.Context)
}

// noopNotifier preserves controller flow when no surface is wired.
type noopNotifier struct{}

func (noopNotifier) ShowRecording(context.Context)      {}
func (noopNotifier) ShowLocked(context.Context)         {}
func (noopNotifier) ShowProcessing(context.Context)     {}
func (noopNotifier) ShowNotice(context.Context, string) {}
func (noopNotifier) Reset(context.Context)              {}

// User-safe notice copy. Raw error detail stays in logs, never in notices.
const (
	noticeMicUnavailable   = "Microphone unavailable. Check browser permissions."
	noticeTranscribeFailed = "Sorry, I could not process that voice note. Please try again."
)
