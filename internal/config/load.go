package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Loaded captures the resolved env file, parsed values, and non-fatal warnings.
type Loaded struct {
	Path     string
	Config   Config
	Warnings []Warning
	Exists   bool
}

// Load reads an optional .env file, then materializes configuration from the
// process environment on top of defaults.
func Load(explicitPath string) (Loaded, error) {
	path := explicitPath
	if path == "" {
		path = ".env"
	}

	loaded := Loaded{Path: path, Exists: true}
	if err := godotenv.Load(path); err != nil {
		if !os.IsNotExist(err) {
			return Loaded{}, fmt.Errorf("load env file %q: %w", path, err)
		}
		loaded.Exists = false
		if explicitPath != "" {
			loaded.Warnings = append(loaded.Warnings, Warning{
				Message: fmt.Sprintf("env file %q not found; using process environment only", path),
			})
		}
	}

	cfg := Default()

	if addr := envString("CHETU_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	} else if port := envString("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	cfg.Server.RateLimitPerMinute = envInt("CHETU_RATE_LIMIT", cfg.Server.RateLimitPerMinute, &loaded.Warnings)
	cfg.Server.ShutdownGrace = envDuration("CHETU_SHUTDOWN_GRACE", cfg.Server.ShutdownGrace, &loaded.Warnings)

	cfg.Chat.APIKey = envString("OPENAI_API_KEY")
	if model := envString("CHETU_CHAT_MODEL"); model != "" {
		cfg.Chat.Model = model
	}
	cfg.Chat.BaseURL = envString("CHETU_CHAT_BASE_URL")
	cfg.Chat.MaxTokens = envInt("CHETU_CHAT_MAX_TOKENS", cfg.Chat.MaxTokens, &loaded.Warnings)

	cfg.Transcribe.APIKey = envString("CHETU_STT_API_KEY")
	if base := envString("CHETU_STT_BASE_URL"); base != "" {
		cfg.Transcribe.BaseURL = base
	}
	cfg.Transcribe.RequestTimeout = envDuration("CHETU_STT_REQUEST_TIMEOUT", cfg.Transcribe.RequestTimeout, &loaded.Warnings)

	cfg.Debug.ExposeErrorDetails = envBool("CHETU_DEBUG_ERRORS")
	cfg.LogFile = envString("CHETU_LOG_FILE")

	warnings, err := Validate(cfg)
	if err != nil {
		return Loaded{}, err
	}
	loaded.Warnings = append(loaded.Warnings, warnings...)
	loaded.Config = cfg
	return loaded, nil
}

func envString(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envBool(key string) bool {
	v := strings.ToLower(envString(key))
	return v == "1" || v == "true" || v == "yes"
}

func envInt(key string, fallback int, warnings *[]Warning) int {
	raw := envString(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*warnings = append(*warnings, Warning{Message: fmt.Sprintf("%s=%q is not an integer; using %d", key, raw, fallback)})
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration, warnings *[]Warning) time.Duration {
	raw := envString(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*warnings = append(*warnings, Warning{Message: fmt.Sprintf("%s=%q is not a duration; using %s", key, raw, fallback)})
		return fallback
	}
	return v
}
