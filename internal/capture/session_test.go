package capture

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type scriptedRecorder struct {
	mu      sync.Mutex
	chunks  chan []byte
	stopped bool
	startErr error
	mime    string
}

func newScriptedRecorder() *scriptedRecorder {
	return &scriptedRecorder{chunks: make(chan []byte, 32), mime: "audio/webm"}
}

func (r *scriptedRecorder) Start(context.Context) error { return r.startErr }

func (r *scriptedRecorder) Chunks() <-chan []byte { return r.chunks }

func (r *scriptedRecorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return nil
	}
	r.stopped = true
	close(r.chunks)
	return nil
}

func (r *scriptedRecorder) MIMEType() string { return r.mime }

func (r *scriptedRecorder) wasStopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

func (r *scriptedRecorder) feed(t *testing.T, chunk []byte) {
	t.Helper()
	select {
	case r.chunks <- chunk:
	case <-time.After(time.Second):
		t.Fatal("timed out feeding chunk")
	}
}

func TestSessionConcatenatesChunksInArrivalOrder(t *testing.T) {
	recorder := newScriptedRecorder()
	session := newSession(recorder)

	c1 := []byte{0x1A, 0x45, 0xDF, 0xA3}
	c2 := []byte("middle-of-the-stream")
	c3 := []byte{0x00, 0xFF, 0x00}
	for _, chunk := range [][]byte{c1, c2, c3} {
		recorder.feed(t, chunk)
	}

	artifact, err := session.Finalize()
	require.NoError(t, err)

	wantLen := len(c1) + len(c2) + len(c3)
	require.Equal(t, int64(wantLen), artifact.SizeBytes)
	require.Len(t, artifact.Bytes, wantLen)

	require.Equal(t, c1, artifact.Bytes[:len(c1)])
	require.Equal(t, c2, artifact.Bytes[len(c1):len(c1)+len(c2)])
	require.Equal(t, c3, artifact.Bytes[len(c1)+len(c2):])
	require.Equal(t, "audio/webm", artifact.MIMEType)
}

func TestSessionFinalizeWaitsForResidualChunk(t *testing.T) {
	recorder := newScriptedRecorder()
	session := newSession(recorder)

	recorder.feed(t, []byte("first"))
	recorder.feed(t, []byte("last"))

	artifact, err := session.Finalize()
	require.NoError(t, err)
	require.Equal(t, []byte("firstlast"), artifact.Bytes)
	require.True(t, recorder.wasStopped())
}

func TestSessionFinalizeTwiceFails(t *testing.T) {
	recorder := newScriptedRecorder()
	session := newSession(recorder)

	_, err := session.Finalize()
	require.NoError(t, err)

	_, err = session.Finalize()
	require.ErrorIs(t, err, ErrSessionFinalized)
}

func TestSessionEmptyRecorderProducesEmptyArtifact(t *testing.T) {
	recorder := newScriptedRecorder()
	session := newSession(recorder)

	artifact, err := session.Finalize()
	require.NoError(t, err)
	require.Zero(t, artifact.SizeBytes)
	require.Empty(t, artifact.Bytes)
}

func TestSessionSkipsEmptyChunks(t *testing.T) {
	recorder := newScriptedRecorder()
	session := newSession(recorder)

	recorder.feed(t, []byte{})
	recorder.feed(t, []byte("data"))

	artifact, err := session.Finalize()
	require.NoError(t, err)
	require.Equal(t, []byte("data"), artifact.Bytes)
}
