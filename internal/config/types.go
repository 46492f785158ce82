// Package config resolves, parses, validates, and defaults chetud configuration.
package config

import "time"

// Config is the fully materialized runtime configuration used by chetud.
type Config struct {
	Server     ServerConfig
	Chat       ChatConfig
	Transcribe TranscribeConfig
	Debug      DebugConfig
	LogFile    string
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr               string
	RateLimitPerMinute int
	ShutdownGrace      time.Duration
}

// ChatConfig controls the LLM relay client.
type ChatConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
}

// TranscribeConfig controls the speech-to-text provider client.
type TranscribeConfig struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
}

// DebugConfig controls optional diagnostic output.
type DebugConfig struct {
	// ExposeErrorDetails forwards raw failure detail in error responses.
	// Off by default; raw provider errors stay server-side.
	ExposeErrorDetails bool
}

// Warning is a non-fatal load/validation message.
type Warning struct {
	Message string
}
