package config

import "time"

// Default returns the canonical runtime configuration used when the
// environment overrides nothing.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:               ":8080",
			RateLimitPerMinute: 60,
			ShutdownGrace:      10 * time.Second,
		},
		Chat: ChatConfig{
			Model:     "gpt-4o-mini",
			MaxTokens: 250,
		},
		Transcribe: TranscribeConfig{
			BaseURL:        "https://api.assemblyai.com",
			RequestTimeout: 30 * time.Second,
		},
		Debug: DebugConfig{},
	}
}
