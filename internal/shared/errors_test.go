package shared

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"validation", NewValidationError(ErrCodeValidation, "bad"), http.StatusBadRequest},
		{"authentication", NewAuthenticationError("no token"), http.StatusUnauthorized},
		{"authorization", NewAuthorizationError("Not authorized"), http.StatusForbidden},
		{"not found", NewNotFoundError(ErrCodeNotFound, "Book not found", nil), http.StatusNotFound},
		{"rate limited", &AppError{Kind: KindRateLimited}, http.StatusTooManyRequests},
		{"internal", NewInternalError(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestAppError_WrapAndUnwrap(t *testing.T) {
	root := errors.New("connection reset")
	appErr := NewInternalError(root)

	wrapped := fmt.Errorf("get book: %w", appErr)

	got, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ServerErrorMessage, got.Message)
	assert.ErrorIs(t, wrapped, root)
	assert.True(t, IsKind(wrapped, KindInternal))
	assert.False(t, IsKind(wrapped, KindNotFound))
}

func TestAsAppError_PlainError(t *testing.T) {
	_, ok := AsAppError(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsKind(nil, KindValidation))
}
