package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// ClientConfig wires the REST provider client.
type ClientConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// Client implements Provider against an upload/poll REST speech-to-text API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    httpClient,
	}
}

// Upload posts raw audio bytes to the provider ingest endpoint and returns
// the opaque handle for job submission.
func (c *Client) Upload(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/upload", bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	var parsed struct {
		UploadURL string `json:"upload_url"`
	}
	if err := c.do(req, &parsed); err != nil {
		return "", fmt.Errorf("upload audio: %w", err)
	}
	if parsed.UploadURL == "" {
		return "", fmt.Errorf("upload audio: provider returned no handle")
	}
	return parsed.UploadURL, nil
}

// StartJob submits an uploaded handle for transcription.
func (c *Client) StartJob(ctx context.Context, handle string, opts JobOptions) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"audio_url":          handle,
		"language_detection": opts.LanguageDetection,
		"punctuate":          opts.Punctuate,
		"format_text":        opts.FormatText,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/transcript", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var parsed struct {
		ID string `json:"id"`
	}
	if err := c.do(req, &parsed); err != nil {
		return "", fmt.Errorf("start transcription job: %w", err)
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("start transcription job: provider returned no job id")
	}
	return parsed.ID, nil
}

// Job fetches one status snapshot for a submitted job.
func (c *Client) Job(ctx context.Context, jobID string) (Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/transcript/"+jobID, nil)
	if err != nil {
		return Job{}, err
	}
	req.Header.Set("Authorization", c.apiKey)

	var parsed struct {
		ID           string  `json:"id"`
		Status       string  `json:"status"`
		Text         string  `json:"text"`
		LanguageCode string  `json:"language_code"`
		Confidence   float64 `json:"confidence"`
		Words        []Word  `json:"words"`
		Error        string  `json:"error"`
	}
	if err := c.do(req, &parsed); err != nil {
		return Job{}, fmt.Errorf("fetch job %s: %w", jobID, err)
	}

	return Job{
		ID:           parsed.ID,
		Status:       JobStatus(parsed.Status),
		Text:         parsed.Text,
		Language:     parsed.LanguageCode,
		Confidence:   parsed.Confidence,
		Words:        parsed.Words,
		ErrorMessage: parsed.Error,
	}, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
