package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"checkinn/internal/config"
	"checkinn/internal/handlers"
	"checkinn/internal/middleware"
	"checkinn/internal/models"
	"checkinn/internal/repositories/mocks"
	"checkinn/internal/services/admin"
	"checkinn/internal/services/auth"
	"checkinn/internal/services/booking"
	"checkinn/internal/services/hotel"
	"checkinn/internal/services/notification"
	"checkinn/internal/services/partner"
	"checkinn/internal/services/review"
	"checkinn/internal/utils"
	"checkinn/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	app    *fiber.App
	users  *mocks.UserRepository
	hotels *mocks.HotelRepository
	tokens *utils.TokenManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		Env:             "test",
		CORSOrigins:     "*",
		AuthRateLimit:   2,
		APIRateLimit:    100,
		RateLimitWindow: time.Minute,
		RefreshTokenTTL: time.Hour,
	}
	logger := zap.NewNop()

	users := new(mocks.UserRepository)
	hotels := new(mocks.HotelRepository)
	bookings := new(mocks.BookingRepository)
	reviews := new(mocks.ReviewRepository)
	tokens := utils.NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	notifier := notification.NewService(notification.NewLogMailer(logger), logger)
	t.Cleanup(notifier.Wait)

	app := fiber.New()
	SetupMiddleware(app, cfg, logger)
	SetupRoutes(app, Dependencies{
		Config:         cfg,
		Logger:         logger,
		AuthMiddleware: middleware.NewAuthMiddleware(tokens, users, logger),
		Validator:      validation.New(),
		Gatherer:       prometheus.NewRegistry(),

		AuthService:    auth.NewService(users, tokens, notifier, nil, logger),
		PartnerService: partner.NewService(users, notifier, nil, logger),
		AdminService:   admin.NewService(users, hotels, bookings, nil, logger),
		HotelService:   hotel.NewService(hotels, logger),
		BookingService: booking.NewService(bookings, hotels, users, notifier, nil, logger),
		ReviewService:  review.NewService(reviews, bookings, hotels, logger),

		Database: handlers.CheckerFunc(func(context.Context) error { return nil }),
	})
	return &testServer{app: app, users: users, hotels: hotels, tokens: tokens}
}

// signedIn stubs the user lookup the auth middleware does and returns a bearer token.
func (s *testServer) signedIn(t *testing.T, user *models.User) string {
	t.Helper()
	s.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	pair, err := s.tokens.GenerateTokens(user)
	require.NoError(t, err)
	return pair.AccessToken
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]interface{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func partnerAccount(id uint, status models.PartnerStatus) *models.User {
	return &models.User{
		ID:           id,
		Email:        "owner@seaside.com",
		Role:         models.RoleHotelPartner,
		Status:       models.UserStatusActive,
		TokenVersion: 1,
		PartnerInfo:  models.PartnerInfo{VerificationStatus: status},
	}
}

func TestApplicationStatusIsPublic(t *testing.T) {
	s := newTestServer(t)
	s.users.On("GetByEmail", mock.Anything, "owner@seaside.com").Return(partnerAccount(7, models.PartnerPending), nil)

	status, body := s.do(t, http.MethodGet, "/api/partner/application-status/owner%40seaside.com", "", "")

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "pending", body["data"].(map[string]interface{})["verificationStatus"])
}

func TestPartnerHotelsGate(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		s := newTestServer(t)

		status, body := s.do(t, http.MethodGet, "/api/partner/hotels", "", "")

		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, "Authentication required", body["message"])
	})

	t.Run("customer", func(t *testing.T) {
		s := newTestServer(t)
		token := s.signedIn(t, &models.User{ID: 3, Role: models.RoleCustomer, Status: models.UserStatusActive, TokenVersion: 1})

		status, _ := s.do(t, http.MethodGet, "/api/partner/hotels", token, "")

		assert.Equal(t, fiber.StatusForbidden, status)
	})

	for _, tc := range []struct {
		status  models.PartnerStatus
		message string
	}{
		{models.PartnerPending, middleware.MsgPartnerPending},
		{models.PartnerSuspended, middleware.MsgPartnerSuspended},
	} {
		t.Run(string(tc.status)+" partner", func(t *testing.T) {
			s := newTestServer(t)
			token := s.signedIn(t, partnerAccount(7, tc.status))

			status, body := s.do(t, http.MethodGet, "/api/partner/hotels", token, "")

			assert.Equal(t, fiber.StatusForbidden, status)
			assert.Equal(t, tc.message, body["message"])
			s.hotels.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
		})
	}

	t.Run("verified partner", func(t *testing.T) {
		s := newTestServer(t)
		token := s.signedIn(t, partnerAccount(7, models.PartnerVerified))
		s.hotels.On("List", mock.Anything, mock.MatchedBy(func(f models.HotelFilter) bool { return f.PartnerID == 7 })).
			Return([]*models.Hotel{}, int64(0), nil)

		status, _ := s.do(t, http.MethodGet, "/api/partner/hotels", token, "")

		assert.Equal(t, fiber.StatusOK, status)
		s.hotels.AssertExpectations(t)
	})

	t.Run("pending partner can still onboard", func(t *testing.T) {
		s := newTestServer(t)
		token := s.signedIn(t, partnerAccount(7, models.PartnerPending))

		status, _ := s.do(t, http.MethodGet, "/api/partner/profile", token, "")

		assert.Equal(t, fiber.StatusOK, status)
	})
}

func TestApplicationsRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	token := s.signedIn(t, partnerAccount(7, models.PartnerVerified))

	status, _ := s.do(t, http.MethodGet, "/api/partner/applications", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodPatch, "/api/partner/applications/8/approve", token, "")
	assert.Equal(t, fiber.StatusForbidden, status)
	s.users.AssertNotCalled(t, "TransitionPartnerStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginRateLimit(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 2; i++ {
		status, _ := s.do(t, http.MethodPost, "/api/auth/login", "", `{}`)
		assert.NotEqual(t, fiber.StatusTooManyRequests, status)
	}

	status, body := s.do(t, http.MethodPost, "/api/auth/login", "", `{}`)
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, "Too many requests. Please try again later.", body["message"])

	// Other endpoints keep their own budget.
	status, _ = s.do(t, http.MethodGet, "/api/partner/hotels", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestFallbackAndObservability(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/api/nowhere", "", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Route not found", body["message"])

	status, _ = s.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, fiber.StatusOK, status)

	status, body = s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotNil(t, body)
}
