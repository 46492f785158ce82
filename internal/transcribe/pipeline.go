// Package transcribe implements the audio upload pipeline: validation, provider
// upload, job submission, and bounded status polling.
package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	// MinAudioSize rejects captures too small to contain speech.
	MinAudioSize = 2000
	// MaxAudioSize is the provider ingest ceiling.
	MaxAudioSize = 25 << 20

	// PollInterval is the fixed delay between job status fetches.
	PollInterval = 2 * time.Second
	// PollTimeout is the hard wall-clock budget for one job.
	PollTimeout = 5 * time.Minute

	// EmptyTranscriptPlaceholder is returned when a job completes with no
	// recognized text. Silence is not a failure.
	EmptyTranscriptPlaceholder = "Could not understand audio."
)

// webmMagic is the EBML header that opens every WebM container the widget
// recorder produces.
var webmMagic = []byte{0x1A, 0x45, 0xDF, 0xA3}

// Result is a settled transcription with optional provider metadata.
type Result struct {
	Text       string
	Language   string
	Confidence float64
	Words      []Word
}

// Pipeline runs one artifact through validate -> upload -> job -> poll.
// Every call is independent; nothing is persisted between submissions.
type Pipeline struct {
	provider Provider
	logger   *slog.Logger

	pollInterval time.Duration
	pollTimeout  time.Duration
}

func NewPipeline(provider Provider, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		provider:     provider,
		logger:       logger,
		pollInterval: PollInterval,
		pollTimeout:  PollTimeout,
	}
}

// Validate applies the size floor/ceiling and container signature checks
// without touching the provider.
func Validate(audio []byte) error {
	if len(audio) < MinAudioSize {
		return newError(KindTooSmall, fmt.Sprintf("audio is %d bytes, need at least %d", len(audio), MinAudioSize), nil)
	}
	if len(audio) > MaxAudioSize {
		return newError(KindTooLarge, fmt.Sprintf("audio is %d bytes, limit is %d", len(audio), MaxAudioSize), nil)
	}
	if !bytes.HasPrefix(audio, webmMagic) {
		return newError(KindBadFormat, "audio does not start with a WebM container signature", nil)
	}
	return nil
}

// Submit runs the full pipeline for one audio buffer. Failures are typed
// (*Error); upload and job-start failures surface immediately with no retry,
// and polling is the only repetition, bounded by PollTimeout. Each step honors
// ctx so navigation-away cancellation is respected at every suspend point.
func (p *Pipeline) Submit(ctx context.Context, audio []byte) (Result, error) {
	if err := Validate(audio); err != nil {
		return Result{}, err
	}

	handle, err := p.provider.Upload(ctx, audio)
	if err != nil {
		return Result{}, newError(KindUploadFailed, "provider rejected audio upload", err)
	}
	p.logDebug("audio uploaded", "bytes", len(audio))

	jobID, err := p.provider.StartJob(ctx, handle, JobOptions{
		LanguageDetection: true,
		Punctuate:         true,
		FormatText:        true,
	})
	if err != nil {
		return Result{}, newError(KindJobStartFailed, "provider rejected transcription job", err)
	}
	p.logDebug("transcription job started", "job_id", jobID)

	return p.poll(ctx, jobID)
}

// poll fetches job status at a fixed interval until the job settles or the
// wall-clock budget runs out.
func (p *Pipeline) poll(ctx context.Context, jobID string) (Result, error) {
	deadline := time.Now().Add(p.pollTimeout)

	for {
		job, err := p.provider.Job(ctx, jobID)
		if err != nil {
			return Result{}, newError(KindNetworkFailure, "fetch job status", err)
		}

		switch job.Status {
		case StatusCompleted:
			return completedResult(job), nil
		case StatusError:
			return Result{}, newError(KindProviderError, job.ErrorMessage, nil)
		case StatusQueued, StatusProcessing:
			// still working
		default:
			return Result{}, newError(KindProviderError, fmt.Sprintf("unexpected job status %q", job.Status), nil)
		}

		if time.Now().Add(p.pollInterval).After(deadline) {
			return Result{}, newError(KindTimeout, fmt.Sprintf("job %s did not settle within %s", jobID, p.pollTimeout), nil)
		}

		delay := time.NewTimer(p.pollInterval)
		select {
		case <-ctx.Done():
			delay.Stop()
			return Result{}, ctx.Err()
		case <-delay.C:
		}
	}
}

func completedResult(job Job) Result {
	text := job.Text
	if text == "" {
		text = EmptyTranscriptPlaceholder
	}
	return Result{
		Text:       text,
		Language:   job.Language,
		Confidence: job.Confidence,
		Words:      job.Words,
	}
}

func (p *Pipeline) logDebug(msg string, args ...any) {
	if p.logger == nil {
		return
	}
	p.logger.Debug(msg, args...)
}
