package transcribe

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures so callers can map them to status codes
// and user-safe copy without parsing message text.
type Kind string

const (
	KindTooSmall       Kind = "too_small"
	KindTooLarge       Kind = "too_large"
	KindBadFormat      Kind = "bad_format"
	KindUploadFailed   Kind = "upload_failed"
	KindJobStartFailed Kind = "job_start_failed"
	KindTimeout        Kind = "timeout"
	KindProviderError  Kind = "provider_error"
	KindNetworkFailure Kind = "network_failure"
	KindUnknown        Kind = "unknown"
)

// Error is one typed pipeline failure. Message is safe to log; the wrapped
// cause may carry raw provider detail and must not reach end users verbatim.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf extracts the failure kind from any error chain.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindUnknown
}

// IsValidation reports whether the failure was rejected before any provider
// contact, i.e. a caller-side 400 rather than a 500.
func IsValidation(err error) bool {
	switch KindOf(err) {
	case KindTooSmall, KindTooLarge, KindBadFormat:
		return true
	default:
		return false
	}
}
