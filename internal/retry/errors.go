package retry

import (
	"errors"
	"fmt"
)

// Kind classifies an outbound-call failure for retry decisions.
// The executor only retries kinds the policy explicitly opts in;
// everything else surfaces to the caller on the first attempt.
type Kind string

const (
	// KindTransientNetwork covers timeouts, connection resets and 5xx
	// responses. Expected to self-resolve on retry.
	KindTransientNetwork Kind = "transient_network"

	// KindRateLimited means the provider answered 429. Surfaced as its own
	// kind so the web layer can return a 429-equivalent instead of burning
	// the retry budget on it.
	KindRateLimited Kind = "rate_limited"

	// KindMalformedResponse means the payload was not parseable as JSON.
	KindMalformedResponse Kind = "malformed_response"

	// KindSchemaViolation means the payload parsed but a required field is
	// missing, of the wrong type, or out of range.
	KindSchemaViolation Kind = "schema_violation"

	// KindFatalProvider covers non-retryable 4xx-class provider failures
	// (bad request, auth failure). Retrying will not change the outcome.
	KindFatalProvider Kind = "fatal_provider"
)

// Error is the one error type the outbound-call core produces.
// Classification lives in Kind; Field is set only for schema violations.
type Error struct {
	Kind       Kind
	Message    string
	Field      string // offending field, schema violations only
	StatusCode int    // HTTP status when the provider returned one
	Err        error  // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field %q)", e.Kind, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether this kind is eligible for retry at all.
// Content failures (malformed payloads, schema violations) are never
// retryable: the same request would produce the same bad payload.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTransientNetwork, KindRateLimited:
		return true
	default:
		return false
	}
}

// KindOf extracts the classification from any error in the chain.
// Unclassified errors map to KindFatalProvider so the executor never
// retries something it doesn't understand.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindFatalProvider
}

// Transient builds a transient-network error wrapping cause.
func Transient(msg string, cause error) *Error {
	return &Error{Kind: KindTransientNetwork, Message: msg, Err: cause}
}

// RateLimited builds a rate-limit error for the given provider status.
func RateLimited(msg string, statusCode int) *Error {
	return &Error{Kind: KindRateLimited, Message: msg, StatusCode: statusCode}
}

// Malformed builds a malformed-response error wrapping the decode failure.
func Malformed(msg string, cause error) *Error {
	return &Error{Kind: KindMalformedResponse, Message: msg, Err: cause}
}

// Violation builds a schema-violation error naming the offending field.
func Violation(field, msg string) *Error {
	return &Error{Kind: KindSchemaViolation, Message: msg, Field: field}
}

// Fatal builds a non-retryable provider error.
func Fatal(msg string, statusCode int, cause error) *Error {
	return &Error{Kind: KindFatalProvider, Message: msg, StatusCode: statusCode, Err: cause}
}
