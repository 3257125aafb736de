package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("X", "missing"), http.StatusNotFound},
		{"conflict", Conflict("X", "verified", "already verified"), http.StatusBadRequest},
		{"validation", Validation("X", "bad"), http.StatusBadRequest},
		{"forbidden", Forbidden("X", "no"), http.StatusForbidden},
		{"unauthorized", Unauthorized("X", "who"), http.StatusUnauthorized},
		{"internal", Internal("boom", stderrors.New("db down")), http.StatusInternalServerError},
		{"plain error", stderrors.New("plain"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", Forbidden("X", "no")), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Internal server error", PublicMessage(stderrors.New("secret dsn")))
	assert.Equal(t, "Failed to load", PublicMessage(Internal("Failed to load", stderrors.New("secret dsn"))))
	assert.Equal(t, "Partner not found", PublicMessage(NotFound("PARTNER_NOT_FOUND", "Partner not found")))
}

func TestConflictCarriesState(t *testing.T) {
	err := Conflict("ALREADY_VERIFIED", "verified", "Partner is already verified")
	de, ok := As(fmt.Errorf("approve: %w", err))
	assert.True(t, ok)
	assert.Equal(t, "verified", de.State)
	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindNotFound))
}
