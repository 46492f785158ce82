// Package capture owns the recording session lifecycle: chunk accumulation,
// artifact finalization, and the press/lock/cancel coordinating controller.
package capture

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionFinalized reports a second finalize on an already drained session.
var ErrSessionFinalized = errors.New("recording session already finalized")

// Recorder abstracts the chunked audio source feeding one session. Stop must
// be idempotent and must close Chunks after flushing any residual chunk.
type Recorder interface {
	Start(ctx context.Context) error
	Chunks() <-chan []byte
	Stop() error
	MIMEType() string
}

// RecorderFactory acquires a fresh recorder per press. Acquisition failure
// models microphone permission denial or a missing device.
type RecorderFactory func(ctx context.Context) (Recorder, error)

// Artifact is the finalized, immutable audio buffer produced by one session.
type Artifact struct {
	Bytes     []byte
	MIMEType  string
	SizeBytes int64
}

// Session accumulates recorder chunks in arrival order for one capture.
type Session struct {
	ID        uuid.UUID
	StartedAt time.Time

	recorder Recorder

	mu        sync.Mutex
	chunks    [][]byte
	bytes     int64
	finalized bool

	drained chan struct{}
}

// newSession starts draining the recorder chunk stream immediately so the
// recorder never blocks on a full channel.
func newSession(recorder Recorder) *Session {
	s := &Session{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		recorder:  recorder,
		drained:   make(chan struct{}),
	}
	go s.collect()
	return s
}

func (s *Session) collect() {
	defer close(s.drained)
	for chunk := range s.recorder.Chunks() {
		if len(chunk) == 0 {
			continue
		}
		s.mu.Lock()
		s.chunks = append(s.chunks, chunk)
		s.bytes += int64(len(chunk))
		s.mu.Unlock()
	}
}

// BytesBuffered reports total chunk bytes accumulated so far.
func (s *Session) BytesBuffered() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytes
}

// Finalize stops the recorder, waits for the last chunk to arrive, and
// concatenates all chunks in arrival order. The chunk buffer is released
// afterward; a session can be finalized exactly once.
func (s *Session) Finalize() (Artifact, error) {
	stopErr := s.recorder.Stop()
	<-s.drained

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return Artifact{}, ErrSessionFinalized
	}
	s.finalized = true

	buf := make([]byte, 0, s.bytes)
	for _, chunk := range s.chunks {
		buf = append(buf, chunk...)
	}
	s.chunks = nil

	artifact := Artifact{
		Bytes:     buf,
		MIMEType:  s.recorder.MIMEType(),
		SizeBytes: int64(len(buf)),
	}
	return artifact, stopErr
}
