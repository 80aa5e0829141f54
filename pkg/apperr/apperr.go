// Package apperr defines the closed domain-error taxonomy used by the dispatch
// pipeline and the mapping from that taxonomy to HTTP responses.
//
// Domain failures are returned as *Error values, never panicked; the dispatcher
// inspects the Kind and renders the matching HTTP status and error envelope.
// Anything that is not an *Error is treated as unknown and rendered as a 500.
package apperr

import (
	"fmt"
)

// Kind identifies one member of the closed domain-error taxonomy.
type Kind int

const (
	// KindUnknown is the catch-all for failures outside the taxonomy.
	KindUnknown Kind = iota

	// KindValidation indicates the request input failed shape validation.
	KindValidation

	// KindUnauthorized indicates a missing or unacceptable principal.
	KindUnauthorized

	// KindNotFound indicates the addressed resource does not exist.
	KindNotFound

	// KindConflict indicates the operation conflicts with existing state.
	KindConflict

	// KindBusinessRule indicates a domain rule rejected the operation.
	KindBusinessRule
)

// Code returns the stable, machine-readable error code for the kind.
// Clients branch on these codes, so they are part of the wire contract.
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindBusinessRule:
		return "BUSINESS_RULE_VIOLATION"
	case KindUnknown:
		return "INTERNAL_SERVER_ERROR"
	}
	return "INTERNAL_SERVER_ERROR"
}

// HTTPStatus returns the HTTP status code for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return 400
	case KindUnauthorized:
		return 401
	case KindNotFound:
		return 404
	case KindConflict:
		return 409
	case KindBusinessRule:
		return 422
	case KindUnknown:
		return 500
	}
	return 500
}

// Issue describes a single failed validation constraint.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error is a domain failure carrying enough structured context to populate the
// details section of the HTTP error envelope.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Code(), e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Code(), e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *Error) WithCause(cause error) *Error {
	clone := *e
	clone.cause = cause
	return &clone
}

// Validation creates a validation error. Each issue becomes an entry in the
// details.issues list of the rendered envelope.
func Validation(message string, issues []Issue) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: message,
		Details: map[string]any{"issues": issues},
	}
}

// Unauthorized creates an authentication/authorization failure.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// NotFound creates a missing-resource error. The resource name and identifier
// are carried in details so clients can tell which lookup failed.
func NotFound(resource, identifier string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s %q not found", resource, identifier),
		Details: map[string]any{"resource": resource, "identifier": identifier},
	}
}

// Conflict creates a state-conflict error.
func Conflict(message string, details map[string]any) *Error {
	return &Error{Kind: KindConflict, Message: message, Details: details}
}

// BusinessRule creates a domain-rule violation. The rule name is carried in
// details under "rule".
func BusinessRule(rule, message string) *Error {
	return &Error{
		Kind:    KindBusinessRule,
		Message: message,
		Details: map[string]any{"rule": rule},
	}
}
