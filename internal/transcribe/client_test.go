package transcribe

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestClientUpload(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/upload", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_ = json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/u/abc"})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "secret-key"})
	handle, err := client.Upload(context.Background(), []byte("audio-bytes"))
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example/u/abc", handle)
	require.Equal(t, "secret-key", gotAuth)
	require.Equal(t, "application/octet-stream", gotContentType)
	require.Equal(t, []byte("audio-bytes"), gotBody)
}

func TestClientUploadMissingHandle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})
	_, err := client.Upload(context.Background(), []byte("x"))
	require.ErrorContains(t, err, "no handle")
}

func TestClientStartJobSendsRecognitionHints(t *testing.T) {
	var payload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/transcript", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-7"})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})
	jobID, err := client.StartJob(context.Background(), "https://cdn.example/u/abc", JobOptions{
		LanguageDetection: true,
		Punctuate:         true,
		FormatText:        true,
	})
	require.NoError(t, err)
	require.Equal(t, "job-7", jobID)
	require.Equal(t, "https://cdn.example/u/abc", payload["audio_url"])
	require.Equal(t, true, payload["language_detection"])
	require.Equal(t, true, payload["punctuate"])
	require.Equal(t, true, payload["format_text"])
}

func TestClientJobParsesSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/transcript/job-7", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            "job-7",
			"status":        "completed",
			"text":          "hello world",
			"language_code": "en_us",
			"confidence":    0.91,
			"words": []map[string]any{
				{"text": "hello", "start": 0, "end": 400, "confidence": 0.95},
				{"text": "world", "start": 410, "end": 900, "confidence": 0.88},
			},
		})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})
	job, err := client.Job(context.Background(), "job-7")
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, job.Status)
	require.Equal(t, "hello world", job.Text)
	require.Equal(t, "en_us", job.Language)
	require.Len(t, job.Words, 2)
	require.Equal(t, "hello", job.Words[0].Text)
	require.Equal(t, 400, job.Words[0].EndMS)
}

func TestClientSurfacesProviderStatusErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad api key"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "wrong"})
	_, err := client.Upload(context.Background(), []byte("x"))
	require.ErrorContains(t, err, "status 401")
	require.ErrorContains(t, err, "bad api key")
}

func TestPipelineAgainstHTTPFixture(t *testing.T) {
	var polls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/upload", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"upload_url": "handle-1"})
	})
	mux.HandleFunc("POST /v2/transcript", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-1"})
	})
	mux.HandleFunc("GET /v2/transcript/job-1", func(w http.ResponseWriter, _ *http.Request) {
		if polls.Add(1) < 3 {
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": "processing"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "job-1", "status": "completed", "text": "fixture transcript"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	pipeline := NewPipeline(NewClient(ClientConfig{BaseURL: server.URL, APIKey: "k"}), nil)
	pipeline.pollInterval = time.Millisecond
	pipeline.pollTimeout = time.Second

	result, err := pipeline.Submit(context.Background(), validAudio(5000))
	require.NoError(t, err)
	require.Equal(t, "fixture transcript", result.Text)
	require.GreaterOrEqual(t, polls.Load(), int32(3))
}
