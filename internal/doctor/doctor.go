// Package doctor runs runtime readiness diagnostics for config, credentials, and providers.
package doctor

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/lamdalabs/chetu/internal/config"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/provider checks for a loaded config.
func Run(cfg config.Loaded) Report {
	checks := []Check{}

	checks = append(checks, checkConfigSource(cfg))
	checks = append(checks, checkAddr(cfg.Config.Server.Addr))
	checks = append(checks, checkSecret("chat.api_key", cfg.Config.Chat.APIKey,
		"OPENAI_API_KEY is not set; /api/chat will fail"))
	checks = append(checks, checkSecret("transcribe.api_key", cfg.Config.Transcribe.APIKey,
		"CHETU_STT_API_KEY is not set; /api/transcribe will fail"))
	checks = append(checks, checkProviderReachable(cfg.Config.Transcribe.BaseURL))

	return Report{Checks: checks}
}

// checkConfigSource reports where configuration came from.
func checkConfigSource(cfg config.Loaded) Check {
	if cfg.Path == "" || !cfg.Exists {
		return Check{Name: "config", Pass: true, Message: "no env file; using process environment only"}
	}
	return Check{Name: "config", Pass: true, Message: fmt.Sprintf("loaded %q", cfg.Path)}
}

// checkAddr validates the listen address shape without binding it.
func checkAddr(addr string) Check {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return Check{Name: "server.addr", Pass: false, Message: fmt.Sprintf("invalid listen address %q: %v", addr, err)}
	}
	return Check{Name: "server.addr", Pass: true, Message: fmt.Sprintf("will listen on %s", addr)}
}

// checkSecret validates that a credential is present without printing it.
func checkSecret(name, value, failMsg string) Check {
	if strings.TrimSpace(value) == "" {
		return Check{Name: name, Pass: false, Message: failMsg}
	}
	return Check{Name: name, Pass: true, Message: "present"}
}

// checkProviderReachable probes the transcription provider base URL. Any HTTP
// response counts as reachable; an unauthenticated probe is expected to be
// rejected with 401.
func checkProviderReachable(base string) Check {
	base = strings.TrimSpace(base)
	if base == "" {
		return Check{Name: "transcribe.base_url", Pass: false, Message: "base URL is empty"}
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return Check{Name: "transcribe.base_url", Pass: false, Message: fmt.Sprintf("base URL must be http(s): %s", base)}
	}

	client := http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(strings.TrimRight(base, "/") + "/v2/transcript")
	if err != nil {
		return Check{Name: "transcribe.base_url", Pass: false, Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 256))

	return Check{Name: "transcribe.base_url", Pass: true, Message: fmt.Sprintf("HTTP %d from %s", resp.StatusCode, base)}
}
