package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"course-portal/internal/guard"
	"course-portal/internal/middleware"
	"course-portal/internal/model"
	"course-portal/internal/session"
	"course-portal/internal/validation"
	"course-portal/pkg/apierror"
)

const messageSessionExpired = "Your session has expired. Please sign in again."

// statusFor maps an error to the status of the page that reports it.
func statusFor(err error) int {
	var apiErr *apierror.Error
	var fieldErrs validation.Errors

	switch {
	case errors.As(err, &fieldErrs):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr):
		if apiErr.Status == 0 || apiErr.Status >= http.StatusInternalServerError {
			return http.StatusBadGateway
		}
		return apiErr.Status
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrAttemptNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrNoQuestions):
		return http.StatusNotFound
	case errors.Is(err, model.ErrAttemptSaved):
		return http.StatusConflict
	case errors.Is(err, model.ErrUnsupportedImage):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, model.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, model.ErrUnanswered), errors.Is(err, model.ErrAttemptUngraded):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the text shown to the user for err.
func messageFor(err error) string {
	var apiErr *apierror.Error
	var fieldErrs validation.Errors

	switch {
	case errors.As(err, &fieldErrs):
		return "Please correct the highlighted fields."
	case errors.As(err, &apiErr):
		return apierror.MessageOf(err)
	case errors.Is(err, model.ErrNotFound):
		return apierror.MessageNotFound
	case errors.Is(err, model.ErrInvalidLogin):
		return "The server returned an incomplete login response."
	case errors.Is(err, model.ErrUnsupportedImage):
		return "Only JPEG, PNG, GIF or WebP images can be uploaded."
	case errors.Is(err, model.ErrImageTooLarge):
		return "The image is larger than the upload limit."
	}

	for _, sentinel := range userFacing {
		if errors.Is(err, sentinel) {
			return capitalize(sentinel.Error()) + "."
		}
	}

	slog.Error("unhandled error", "error", err.Error())
	return apierror.MessageUnexpected
}

var userFacing = []error{
	model.ErrUnanswered,
	model.ErrNoQuestions,
	model.ErrAttemptNotFound,
	model.ErrAttemptSaved,
	model.ErrAttemptUngraded,
	model.ErrInvalidInput,
}

func fieldErrors(err error) map[string]string {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}
	return nil
}

// sessionExpired reports whether the API rejected the credential during
// this request. The pipeline already cleared both tiers.
func sessionExpired(r *http.Request, err error) bool {
	if apierror.IsUnauthorized(err) {
		return true
	}
	store, ok := session.FromContext(r.Context())
	return ok && store.Expired() > 0
}

// handleFailure answers a failed page action. A rejected credential always
// ends on the login page; anything else renders the error page.
func (v *Renderer) handleFailure(w http.ResponseWriter, r *http.Request, err error) {
	middleware.NoteError(r.Context(), err)

	if sessionExpired(r, err) {
		redirectWithFlash(w, r, guard.LoginPath, flashError, messageSessionExpired)
		return
	}

	status := statusFor(err)
	v.Render(w, r, status, "error", Page{
		Title:     "Error",
		Flash:     messageFor(err),
		FlashKind: flashError,
		Data:      status,
	})
}

// formFailure re-renders a form with field errors, or falls back to
// handleFailure for errors that are not about the submitted values.
func (v *Renderer) formFailure(w http.ResponseWriter, r *http.Request, name string, page Page, err error) {
	if sessionExpired(r, err) {
		v.handleFailure(w, r, err)
		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		v.handleFailure(w, r, err)
		return
	}

	middleware.NoteError(r.Context(), err)
	page.Errors = fieldErrors(err)
	page.Flash = messageFor(err)
	page.FlashKind = flashError
	v.Render(w, r, status, name, page)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
