package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		server string
		want   string
	}{
		{http.StatusBadRequest, "name is required", "name is required"},
		{http.StatusBadRequest, "", MessageBadRequest},
		{http.StatusUnauthorized, "token expired", MessageUnauthorized},
		{http.StatusForbidden, "", MessageForbidden},
		{http.StatusNotFound, "no such course", "no such course"},
		{http.StatusInternalServerError, "stack trace", MessageInternal},
		{http.StatusServiceUnavailable, "down", MessageUnavailable},
		{http.StatusTeapot, "teapot", MessageUnexpected},
		{0, "", MessageUnexpected},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%s", tt.status, tt.server), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.status, tt.server))
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := fmt.Errorf("loading courses: %w", New(http.StatusUnauthorized, MessageUnauthorized, cause))

	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, MessageUnauthorized, MessageOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "api error 401")

	assert.Equal(t, 0, StatusOf(cause))
	assert.Equal(t, MessageUnexpected, MessageOf(cause))
	assert.Equal(t, MessageUnexpected, MessageOf(New(http.StatusNotFound, "", nil)))
	assert.Equal(t, "api error 404: gone", New(http.StatusNotFound, "gone", nil).Error())
}
