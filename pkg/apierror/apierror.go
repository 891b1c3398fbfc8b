package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	MessageBadRequest   = "Invalid request. Check the submitted data."
	MessageUnauthorized = "Not authorized. Please sign in again."
	MessageForbidden    = "You do not have permission to perform this action."
	MessageNotFound     = "Resource not found."
	MessageInternal     = "Internal server error. Please try again later."
	MessageUnavailable  = "Service unavailable. Please try again later."
	MessageUnexpected   = "An unexpected error occurred."
)

// Error is the normalized failure returned to callers of the external API.
// Status is zero when no response was received.
type Error struct {
	Status   int    `json:"status"`
	Message  string `json:"message"`
	Original error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	if e.Original != nil {
		return fmt.Sprintf("api error %d: %s (%v)", e.Status, e.Message, e.Original)
	}

	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Original
}

func New(status int, message string, original error) *Error {
	return &Error{Status: status, Message: message, Original: original}
}

// Classify maps an HTTP status and the optional server-supplied message to
// the user-visible message. Server detail is never surfaced for 401, 500 and 503.
func Classify(status int, serverMessage string) string {
	switch status {
	case http.StatusBadRequest:
		return orDefault(serverMessage, MessageBadRequest)
	case http.StatusUnauthorized:
		return MessageUnauthorized
	case http.StatusForbidden:
		return orDefault(serverMessage, MessageForbidden)
	case http.StatusNotFound:
		return orDefault(serverMessage, MessageNotFound)
	case http.StatusInternalServerError:
		return MessageInternal
	case http.StatusServiceUnavailable:
		return MessageUnavailable
	default:
		return MessageUnexpected
	}
}

func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// MessageOf returns the user-visible message for err, falling back to the
// generic message for errors that did not pass through the pipeline.
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return MessageUnexpected
}

func orDefault(value string, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
