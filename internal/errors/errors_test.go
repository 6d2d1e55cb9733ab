package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "not found", err: ErrNotFound, status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "wrapped not found", err: fmt.Errorf("find entry: %w", ErrNotFound), status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "forbidden hides as not found", err: ErrForbidden, status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "duplicate user", err: ErrDuplicateUser, status: http.StatusConflict, code: "USER_ALREADY_EXISTS"},
		{name: "bad credentials", err: ErrAuthenticationFailure, status: http.StatusUnauthorized, code: "INVALID_CREDENTIALS"},
		{name: "storage", err: errors.New("connection reset"), status: http.StatusInternalServerError, code: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.ToErrorResponse().Code)
		})
	}
}

func TestIsStorage(t *testing.T) {
	assert.False(t, IsStorage(nil))
	assert.False(t, IsStorage(ErrNotFound))
	assert.False(t, IsStorage(fmt.Errorf("wrap: %w", ErrDuplicateUser)))
	assert.True(t, IsStorage(errors.New("disk full")))
}
