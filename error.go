package pyrip

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These are propagated both for local failures (validation, configuration)
// and for failures classified from remote HTTP status codes. The http
// subpackage maps status codes to codes one-to-one.
const (
	ECONFLICT       = "conflict"         // HTTP 409
	EINTERNAL       = "internal"         // HTTP 5xx or unexpected internal failure
	EINVALID        = "invalid"          // validation or configuration failure
	EJOBFAILED      = "job_failed"       // crawl job reached terminal failed status
	ENOTFOUND       = "not_found"        // resource does not exist
	ENOTIMPLEMENTED = "not_implemented"  // operation unsupported by this API version
	EPAYMENT        = "payment_required" // HTTP 402
	EREQUEST        = "request_failed"   // any other non-2xx response
	ETIMEOUT        = "timeout"          // HTTP 408 or transport timeout
)

// Error represents an application error with a machine-readable code and a
// human-readable message.
type Error struct {
	// Code is one of the E* constants above.
	Code string

	// Message is a human-readable description, safe to show to users.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("pyrip error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors return EINTERNAL; nil returns the empty string.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return a generic message; nil returns the empty
// string.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper for constructing an Error with a formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
