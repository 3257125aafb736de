package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"checkinn/internal/models"
	"checkinn/internal/repositories"
	"checkinn/internal/repositories/mocks"
	"checkinn/internal/services/admin"
	"checkinn/internal/services/auth"
	"checkinn/internal/services/partner"
	"checkinn/internal/utils"
	"checkinn/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const adminID uint = 1

type nopNotifier struct{}

func (nopNotifier) Welcome(*models.User) {}
func (nopNotifier) PartnerApproved(*models.User) {}
func (nopNotifier) PartnerRejected(*models.User, string) {}
func (nopNotifier) PartnerSuspended(*models.User) {}

// actingAs stands in for the auth middleware.
func actingAs(id uint, role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(utils.LocalsClaims, &models.UserClaims{UserID: id, Role: role})
		c.Locals(utils.LocalsUser, &models.User{ID: id, Role: role, Status: models.UserStatusActive})
		return c.Next()
	}
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func partnerWith(id uint, status models.PartnerStatus) *models.User {
	return &models.User{
		ID:          id,
		Name:        "Seaside Hotels",
		Email:       "owner@seaside.com",
		Role:        models.RoleHotelPartner,
		Status:      models.UserStatusActive,
		PartnerInfo: models.PartnerInfo{VerificationStatus: status},
	}
}

func newPartnerApp(users *mocks.UserRepository) *fiber.App {
	h := NewPartnerHandler(partner.NewService(users, nopNotifier{}, nil, zap.NewNop()), validation.New())

	app := fiber.New()
	app.Get("/api/partner/application-status/:email", h.ApplicationStatus)
	applications := app.Group("/api/partner/applications", actingAs(adminID, models.RoleAdmin))
	applications.Get("/", h.ListApplications)
	applications.Patch("/:id/approve", h.Approve)
	applications.Patch("/:id/reject", h.Reject)
	applications.Patch("/:id/suspend", h.Suspend)
	return app
}

func TestPartnerHandler_Approve(t *testing.T) {
	t.Run("pending partner is verified", func(t *testing.T) {
		users := new(mocks.UserRepository)
		users.On("GetByID", mock.Anything, uint(7)).Return(partnerWith(7, models.PartnerPending), nil).Once()
		users.On("TransitionPartnerStatus", mock.Anything, uint(7), models.PartnerPending, models.PartnerVerified, mock.Anything).
			Return(true, nil).Once()
		users.On("GetByID", mock.Anything, uint(7)).Return(partnerWith(7, models.PartnerVerified), nil).Once()

		status, body := call(t, newPartnerApp(users), http.MethodPatch, "/api/partner/applications/7/approve", "")

		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, true, body["success"])
		p := body["partner"].(map[string]interface{})
		info := p["partnerInfo"].(map[string]interface{})
		assert.Equal(t, "verified", info["verificationStatus"])
		users.AssertExpectations(t)
	})

	for _, tc := range []struct {
		current models.PartnerStatus
		message string
	}{
		{models.PartnerVerified, "already verified"},
		{models.PartnerRejected, "rejected"},
		{models.PartnerSuspended, "suspended"},
	} {
		t.Run("refused when "+string(tc.current), func(t *testing.T) {
			users := new(mocks.UserRepository)
			users.On("GetByID", mock.Anything, uint(7)).Return(partnerWith(7, tc.current), nil)

			status, body := call(t, newPartnerApp(users), http.MethodPatch, "/api/partner/applications/7/approve", "")

			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, false, body["success"])
			assert.Contains(t, body["message"], tc.message)
			users.AssertNotCalled(t, "TransitionPartnerStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("unknown partner", func(t *testing.T) {
		users := new(mocks.UserRepository)
		users.On("GetByID", mock.Anything, uint(9)).Return(nil, repositories.ErrUserNotFound)

		status, body := call(t, newPartnerApp(users), http.MethodPatch, "/api/partner/applications/9/approve", "")

		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Equal(t, "Partner not found", body["message"])
	})

	t.Run("invalid id", func(t *testing.T) {
		users := new(mocks.UserRepository)

		status, _ := call(t, newPartnerApp(users), http.MethodPatch, "/api/partner/applications/abc/approve", "")

		assert.Equal(t, fiber.StatusBadRequest, status)
		users.AssertExpectations(t)
	})
}

func TestPartnerHandler_Reject(t *testing.T) {
	t.Run("reason is required", func(t *testing.T) {
		users := new(mocks.UserRepository)

		status, body := call(t, newPartnerApp(users), http.MethodPatch, "/api/partner/applications/7/reject", `{"rejectionReason":"   "}`)

		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "Rejection reason is required", body["message"])
		users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("stores the reason verbatim", func(t *testing.T) {
		reason := "Tax ID does not match business name"
		rejected := partnerWith(7, models.PartnerRejected)
		rejected.PartnerInfo.RejectionReason = &reason

		users := new(mocks.UserRepository)
		users.On("GetByID", mock.Anything, uint(7)).Return(partnerWith(7, models.PartnerPending), nil).Once()
		users.On("TransitionPartnerStatus", mock.Anything, uint(7), models.PartnerPending, models.PartnerRejected,
			mock.MatchedBy(func(fields map[string]interface{}) bool {
				return fields[repositories.ColPartnerReason] == reason
			})).Return(true, nil).Once()
		users.On("GetByID", mock.Anything, uint(7)).Return(rejected, nil).Once()

		status, body := call(t, newPartnerApp(users), http.MethodPatch, "/api/partner/applications/7/reject", `{"rejectionReason":"`+reason+`"}`)

		require.Equal(t, fiber.StatusOK, status)
		info := body["partner"].(map[string]interface{})["partnerInfo"].(map[string]interface{})
		assert.Equal(t, "rejected", info["verificationStatus"])
		assert.Equal(t, reason, info["rejectionReason"])
		users.AssertExpectations(t)
	})
}

func TestPartnerHandler_Suspend(t *testing.T) {
	users := new(mocks.UserRepository)
	users.On("GetByID", mock.Anything, uint(7)).Return(partnerWith(7, models.PartnerPending), nil)

	status, body := call(t, newPartnerApp(users), http.MethodPatch, "/api/partner/applications/7/suspend", "")

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["message"], "only verified partners can be suspended")
}

func TestPartnerHandler_ListApplications(t *testing.T) {
	users := new(mocks.UserRepository)
	users.On("ListPartners", mock.Anything, repositories.PartnerFilter{
		Status: models.PartnerPending,
		Search: "sea",
		Offset: 0,
		Limit:  10,
	}).Return([]*models.User{partnerWith(7, models.PartnerPending)}, int64(1), nil)
	users.On("CountPartnersByStatus", mock.Anything).Return(map[models.PartnerStatus]int64{
		models.PartnerPending:  1,
		models.PartnerVerified: 3,
		models.PartnerRejected: 2,
	}, nil)

	status, body := call(t, newPartnerApp(users), http.MethodGet, "/api/partner/applications?verificationStatus=pending&search=sea", "")

	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["partners"], 1)
	stats := body["stats"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["pending"])
	assert.EqualValues(t, 3, stats["verified"])
	assert.EqualValues(t, 2, stats["rejected"])
	assert.EqualValues(t, 6, stats["total"])
	pagination := body["pagination"].(map[string]interface{})
	assert.EqualValues(t, 1, pagination["total"])
	users.AssertExpectations(t)
}

func TestPartnerHandler_ApplicationStatus(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		users := new(mocks.UserRepository)
		users.On("GetByEmail", mock.Anything, "owner@seaside.com").Return(partnerWith(7, models.PartnerPending), nil)

		status, body := call(t, newPartnerApp(users), http.MethodGet, "/api/partner/application-status/owner@seaside.com", "")

		require.Equal(t, fiber.StatusOK, status)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, "pending", data["verificationStatus"])
		assert.Contains(t, data, "progress")
	})

	t.Run("not a partner", func(t *testing.T) {
		users := new(mocks.UserRepository)
		users.On("GetByEmail", mock.Anything, "guest@mail.com").
			Return(&models.User{ID: 3, Email: "guest@mail.com", Role: models.RoleCustomer}, nil)

		status, body := call(t, newPartnerApp(users), http.MethodGet, "/api/partner/application-status/guest@mail.com", "")

		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Equal(t, "Application not found", body["message"])
	})

	t.Run("percent-encoded email", func(t *testing.T) {
		for path, email := range map[string]string{
			"/api/partner/application-status/owner%40seaside.com":         "owner@seaside.com",
			"/api/partner/application-status/owner%2Bstay%40seaside.com": "owner+stay@seaside.com",
		} {
			users := new(mocks.UserRepository)
			users.On("GetByEmail", mock.Anything, email).Return(partnerWith(7, models.PartnerVerified), nil).Once()

			status, body := call(t, newPartnerApp(users), http.MethodGet, path, "")

			require.Equal(t, fiber.StatusOK, status, path)
			assert.Equal(t, "verified", body["data"].(map[string]interface{})["verificationStatus"])
			users.AssertExpectations(t)
		}
	})
}

func newAdminApp(users *mocks.UserRepository) *fiber.App {
	svc := admin.NewService(users, new(mocks.HotelRepository), new(mocks.BookingRepository), nil, zap.NewNop())
	h := NewAdminHandler(svc)

	app := fiber.New()
	group := app.Group("/api/admin", actingAs(adminID, models.RoleAdmin))
	group.Patch("/users/:id/status", h.UpdateStatus)
	group.Put("/users/:id", h.UpdateUser)
	group.Delete("/users/:id", h.DeleteUser)
	return app
}

func TestAdminHandler_SelfActionsForbidden(t *testing.T) {
	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPatch, "/api/admin/users/1/status", `{"status":"suspended"}`},
		{http.MethodPatch, "/api/admin/users/1/status", `{"status":"not-a-status"}`},
		{http.MethodPatch, "/api/admin/users/1/status", ""},
		{http.MethodPatch, "/api/admin/users/1/status", `{"status":`},
		{http.MethodPut, "/api/admin/users/1", `{"role":"Customer"}`},
		{http.MethodPut, "/api/admin/users/1", ""},
		{http.MethodPut, "/api/admin/users/1", `{"role":`},
		{http.MethodDelete, "/api/admin/users/1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			users := new(mocks.UserRepository)

			status, body := call(t, newAdminApp(users), tt.method, tt.path, tt.body)

			assert.Equal(t, fiber.StatusForbidden, status)
			assert.Equal(t, "You cannot perform this action on your own account", body["message"])
			users.AssertExpectations(t)
			users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
			users.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
			users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		})
	}
}

func TestAdminHandler_MalformedBodyOtherUser(t *testing.T) {
	users := new(mocks.UserRepository)

	status, body := call(t, newAdminApp(users), http.MethodPut, "/api/admin/users/5", `{"role":`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", body["message"])
	users.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminHandler_UpdateStatusOtherUser(t *testing.T) {
	target := &models.User{ID: 5, Email: "guest@mail.com", Role: models.RoleCustomer, Status: models.UserStatusActive}
	suspended := *target
	suspended.Status = models.UserStatusSuspended

	users := new(mocks.UserRepository)
	users.On("GetByID", mock.Anything, uint(5)).Return(target, nil).Once()
	users.On("UpdateFields", mock.Anything, uint(5), map[string]interface{}{"status": models.UserStatusSuspended}).Return(nil)
	users.On("IncrementTokenVersion", mock.Anything, uint(5)).Return(nil)
	users.On("GetByID", mock.Anything, uint(5)).Return(&suspended, nil).Once()

	status, body := call(t, newAdminApp(users), http.MethodPatch, "/api/admin/users/5/status", `{"status":"suspended"}`)

	require.Equal(t, fiber.StatusOK, status)
	user := body["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, "suspended", user["status"])
	users.AssertExpectations(t)
}

func newAuthApp(users *mocks.UserRepository) *fiber.App {
	tokens := utils.NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	svc := auth.NewService(users, tokens, nopNotifier{}, nil, zap.NewNop())
	h := NewAuthHandler(svc, validation.New(), false, time.Hour)

	app := fiber.New()
	app.Post("/api/auth/register", h.Register)
	app.Post("/api/auth/login", h.Login)
	return app
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	users := new(mocks.UserRepository)

	status, body := call(t, newAuthApp(users), http.MethodPost, "/api/auth/register",
		`{"name":"Ada","email":"ada@mail.com","password":"weakpass"}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "password must contain at least one uppercase letter", body["message"])
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthHandler_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Str0ng!Pass"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		ID:           4,
		Name:         "Ada",
		Email:        "ada@mail.com",
		Password:     string(hash),
		Role:         models.RoleCustomer,
		Status:       models.UserStatusActive,
		TokenVersion: 1,
	}

	t.Run("sets session cookies", func(t *testing.T) {
		users := new(mocks.UserRepository)
		users.On("GetByEmail", mock.Anything, "ada@mail.com").Return(user, nil)
		users.On("UpdateFields", mock.Anything, uint(4), mock.Anything).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"ada@mail.com","password":"Str0ng!Pass"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := newAuthApp(users).Test(req, -1)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		names := map[string]bool{}
		for _, cookie := range resp.Cookies() {
			names[cookie.Name] = cookie.HttpOnly
		}
		assert.True(t, names["accessToken"])
		assert.True(t, names["refreshToken"])
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(mocks.UserRepository)
		users.On("GetByEmail", mock.Anything, "ada@mail.com").Return(user, nil)

		status, body := call(t, newAuthApp(users), http.MethodPost, "/api/auth/login", `{"email":"ada@mail.com","password":"Wr0ng!Pass"}`)

		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, "Invalid email or password", body["message"])
	})
}

func TestHealthHandler(t *testing.T) {
	up := CheckerFunc(func(context.Context) error { return nil })
	down := CheckerFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("healthy", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", NewHealthHandler(up, up, nil).HealthCheck)

		status, body := call(t, app, http.MethodGet, "/health", "")

		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("database down", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", NewHealthHandler(down, nil, nil).HealthCheck)

		status, body := call(t, app, http.MethodGet, "/health", "")

		assert.Equal(t, fiber.StatusServiceUnavailable, status)
		services := body["services"].(map[string]interface{})
		assert.Equal(t, "unavailable", services["database"])
		assert.Equal(t, "disabled", services["redis"])
	})

	t.Run("redis down is not fatal", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", NewHealthHandler(up, down, nil).HealthCheck)

		status, body := call(t, app, http.MethodGet, "/health", "")

		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "unavailable", body["services"].(map[string]interface{})["redis"])
	})
}
