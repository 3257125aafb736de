package utils

import (
	"testing"
	"time"

	"checkinn/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := newTestManager()
	user := &models.User{ID: 42, Email: "partner@checkinn.com", Role: models.RoleHotelPartner, TokenVersion: 3}

	pair, err := m.GenerateTokens(user)
	require.NoError(t, err)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	claims, err := m.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, models.RoleHotelPartner, claims.Role)
	assert.Equal(t, 3, claims.TokenVersion)

	refresh, err := m.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, models.TokenTypeRefresh, refresh.TokenType)
}

func TestTokenManager_RejectsSwappedTokenTypes(t *testing.T) {
	m := newTestManager()
	pair, err := m.GenerateTokens(&models.User{ID: 1, Role: models.RoleCustomer})
	require.NoError(t, err)

	_, err = m.ParseAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Expired(t *testing.T) {
	m := newTestManager()
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }

	pair, err := m.GenerateTokens(&models.User{ID: 1, Role: models.RoleCustomer})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseRefreshToken(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	pair, err := newTestManager().GenerateTokens(&models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)

	other := NewTokenManager("other", "other-refresh", time.Minute, time.Hour)
	_, err = other.ParseAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
