package config

import (
	"fmt"
	"net"
	"strings"
)

// Validate checks hard constraints and collects soft ones as warnings.
// Missing API keys are warnings, not errors: the server can start and the
// doctor command reports them; the affected endpoint degrades to an apology.
func Validate(cfg Config) ([]Warning, error) {
	var warnings []Warning

	if _, _, err := net.SplitHostPort(cfg.Server.Addr); err != nil {
		return nil, fmt.Errorf("server addr %q is not host:port: %w", cfg.Server.Addr, err)
	}
	if cfg.Server.RateLimitPerMinute <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got %d", cfg.Server.RateLimitPerMinute)
	}
	if cfg.Server.ShutdownGrace <= 0 {
		return nil, fmt.Errorf("shutdown grace must be positive, got %s", cfg.Server.ShutdownGrace)
	}

	if !strings.HasPrefix(cfg.Transcribe.BaseURL, "http://") && !strings.HasPrefix(cfg.Transcribe.BaseURL, "https://") {
		return nil, fmt.Errorf("transcribe base URL %q must be http(s)", cfg.Transcribe.BaseURL)
	}
	if cfg.Chat.MaxTokens <= 0 {
		return nil, fmt.Errorf("chat max tokens must be positive, got %d", cfg.Chat.MaxTokens)
	}

	if cfg.Chat.APIKey == "" {
		warnings = append(warnings, Warning{Message: "OPENAI_API_KEY is not set; chat relay will answer with apology copy"})
	}
	if cfg.Transcribe.APIKey == "" {
		warnings = append(warnings, Warning{Message: "CHETU_STT_API_KEY is not set; transcription will fail upstream"})
	}

	return warnings, nil
}
