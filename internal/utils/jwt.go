package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"checkinn/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "checkinn-api"

var ErrInvalidToken = errors.New("invalid token")

// TokenManager signs and parses access and refresh tokens.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// TokenPair is returned by login, registration and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// GenerateTokens generates an access token and a refresh token for the user.
func (m *TokenManager) GenerateTokens(user *models.User) (*TokenPair, error) {
	access, err := m.sign(user, models.TokenTypeAccess, m.accessTTL, m.accessSecret)
	if err != nil {
		return nil, err
	}
	refresh, err := m.sign(user, models.TokenTypeRefresh, m.refreshTTL, m.refreshSecret)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTTL.Seconds()),
	}, nil
}

func (m *TokenManager) sign(user *models.User, tokenType string, ttl time.Duration, secret []byte) (string, error) {
	now := m.now()
	claims := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
		},
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenType:    tokenType,
		TokenVersion: user.TokenVersion,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// ParseAccessToken validates an access token.
func (m *TokenManager) ParseAccessToken(tokenStr string) (*models.UserClaims, error) {
	return m.parse(tokenStr, models.TokenTypeAccess, m.accessSecret)
}

// ParseRefreshToken validates a refresh token.
func (m *TokenManager) ParseRefreshToken(tokenStr string) (*models.UserClaims, error) {
	return m.parse(tokenStr, models.TokenTypeRefresh, m.refreshSecret)
}

func (m *TokenManager) parse(tokenStr, tokenType string, secret []byte) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid || claims.TokenType != tokenType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
