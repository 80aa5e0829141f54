package apperr

import (
	"errors"
	"time"
)

// timestampLayout matches ECMAScript Date.toISOString: UTC with millisecond
// precision and a literal Z suffix.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp formats t in the envelope timestamp layout (ISO-8601, UTC,
// millisecond precision).
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// Body is the single error shape used on the wire regardless of which stage
// or error kind produced the failure.
type Body struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp string         `json:"timestamp"`
}

// Envelope wraps Body under the "error" key, mirroring the success envelopes
// which wrap their payload under "data" or "items".
type Envelope struct {
	Error Body `json:"error"`
}

// ToHTTP maps any error to an HTTP status and error envelope. It is total:
// *Error values map through the taxonomy table, everything else becomes a 500
// with the original message preserved under details.originalMessage.
// The timestamp is captured at mapping time.
func ToHTTP(err error, requestID string) (int, Envelope) {
	now := Timestamp(time.Now())

	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind.HTTPStatus(), Envelope{Error: Body{
			Code:      domainErr.Kind.Code(),
			Message:   domainErr.Message,
			Details:   domainErr.Details,
			RequestID: requestID,
			Timestamp: now,
		}}
	}

	message := "Internal server error"
	details := map[string]any{}
	if err != nil {
		details["originalMessage"] = err.Error()
	}
	return 500, Envelope{Error: Body{
		Code:      KindUnknown.Code(),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: now,
	}}
}
