//go:build unit

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cng-slot-booking/internal/domain/user"
	"cng-slot-booking/internal/handler/middleware"
	"cng-slot-booking/internal/infra/ratelimit"
	"cng-slot-booking/internal/pkg/config"
	"cng-slot-booking/internal/pkg/cookie"
	"cng-slot-booking/internal/pkg/jwt"
	"cng-slot-booking/internal/usecase"
	"cng-slot-booking/tests/common/authtest"
	httptestutil "cng-slot-booking/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(t *testing.T, roles ...user.Role) (*gin.Engine, *authtest.JWTHelper) {
	t.Helper()
	cfg := config.NewTestConfig()
	duration, err := time.ParseDuration(cfg.JWT.Duration)
	require.NoError(t, err)

	auth := middleware.NewAuthMiddleware(usecase.NewTokenValidator(jwt.NewService(cfg.JWT.Secret, duration)))

	handlers := []gin.HandlerFunc{auth.RequireAuth()}
	if len(roles) > 0 {
		handlers = append(handlers, auth.RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		userID, _ := middleware.GetUserID(c)
		role, _ := middleware.GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID.String(), "role": role.String()})
	})

	router := gin.New()
	router.GET("/protected", handlers...)
	return router, authtest.NewJWTHelper(cfg.JWT)
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New()

	testCases := []struct {
		name          string
		request       func(h *authtest.JWTHelper, r *http.Request)
		expectedCode  int
		expectedError string
	}{
		{
			name: "bearer header",
			request: func(h *authtest.JWTHelper, r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+h.GenerateToken(t, userID, user.RolePumpAdmin))
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "cookie",
			request: func(h *authtest.JWTHelper, r *http.Request) {
				r.AddCookie(&http.Cookie{Name: cookie.AccessTokenCookieName, Value: h.GenerateToken(t, userID, user.RolePumpAdmin)})
			},
			expectedCode: http.StatusOK,
		},
		{
			name:          "no credentials",
			request:       func(*authtest.JWTHelper, *http.Request) {},
			expectedCode:  http.StatusUnauthorized,
			expectedError: "Access token required",
		},
		{
			name: "non bearer scheme",
			request: func(_ *authtest.JWTHelper, r *http.Request) {
				r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
			},
			expectedCode:  http.StatusUnauthorized,
			expectedError: "Access token required",
		},
		{
			name: "expired token",
			request: func(h *authtest.JWTHelper, r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+h.CreateExpiredToken(t, userID, user.RolePumpAdmin))
			},
			expectedCode:  http.StatusUnauthorized,
			expectedError: "Invalid or expired token",
		},
		{
			name: "garbage token",
			request: func(_ *authtest.JWTHelper, r *http.Request) {
				r.Header.Set("Authorization", "Bearer not.a.jwt")
			},
			expectedCode:  http.StatusUnauthorized,
			expectedError: "Invalid or expired token",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router, helper := newAuthRouter(t)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tc.request(helper, req)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if tc.expectedError != "" {
				httptestutil.AssertEnvelopeError(t, w, tc.expectedCode, tc.expectedError)
				return
			}
			assert.Equal(t, tc.expectedCode, w.Code)
			assert.Contains(t, w.Body.String(), userID.String())
			assert.Contains(t, w.Body.String(), "pump_admin")
		})
	}
}

func TestRequireRole(t *testing.T) {
	testCases := []struct {
		name         string
		role         user.Role
		expectedCode int
	}{
		{name: "pump admin allowed", role: user.RolePumpAdmin, expectedCode: http.StatusOK},
		{name: "super admin allowed", role: user.RoleSuperAdmin, expectedCode: http.StatusOK},
		{name: "customer forbidden", role: user.RoleCustomer, expectedCode: http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router, helper := newAuthRouter(t, user.RolePumpAdmin, user.RoleSuperAdmin)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+helper.GenerateToken(t, uuid.New(), tc.role))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if tc.expectedCode == http.StatusForbidden {
				httptestutil.AssertEnvelopeError(t, w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			assert.Equal(t, tc.expectedCode, w.Code)
		})
	}
}

type fakeLimiter struct {
	keys    []string
	allowed bool
	err     error
}

func (l *fakeLimiter) Allow(_ context.Context, key string, limit ratelimit.Rate) (bool, ratelimit.Info, error) {
	l.keys = append(l.keys, key)
	remaining := 0
	if l.allowed {
		remaining = limit.Requests - 1
	}
	return l.allowed, ratelimit.Info{
		Limit:     limit.Requests,
		Remaining: remaining,
		Reset:     time.Unix(1717232400, 0),
	}, l.err
}

func newLimitedRouter(limiter middleware.RateLimiter, userID *uuid.UUID) *gin.Engine {
	router := gin.New()
	router.POST("/scan", func(c *gin.Context) {
		if userID != nil {
			c.Set("user_id", *userID)
		}
		c.Next()
	}, middleware.RateLimit(limiter, "redeem", ratelimit.Rate{Requests: 30, Window: time.Minute}), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRateLimit(t *testing.T) {
	t.Run("allowed request carries headers", func(t *testing.T) {
		limiter := &fakeLimiter{allowed: true}
		userID := uuid.New()
		w := httptest.NewRecorder()

		newLimitedRouter(limiter, &userID).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/scan", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "30", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "29", w.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, "1717232400", w.Header().Get("X-RateLimit-Reset"))
		assert.Equal(t, []string{"redeem:user:" + userID.String()}, limiter.keys)
	})

	t.Run("anonymous caller keyed by ip", func(t *testing.T) {
		limiter := &fakeLimiter{allowed: true}
		req := httptest.NewRequest(http.MethodPost, "/scan", nil)
		req.RemoteAddr = "203.0.113.7:52100"
		w := httptest.NewRecorder()

		newLimitedRouter(limiter, nil).ServeHTTP(w, req)

		assert.Equal(t, []string{"redeem:ip:203.0.113.7"}, limiter.keys)
	})

	t.Run("over limit", func(t *testing.T) {
		w := httptest.NewRecorder()

		newLimitedRouter(&fakeLimiter{}, nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/scan", nil))

		httptestutil.AssertEnvelopeError(t, w, http.StatusTooManyRequests, "Too many requests")
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("limiter failure lets request through", func(t *testing.T) {
		w := httptest.NewRecorder()

		newLimitedRouter(&fakeLimiter{err: errors.New("redis: connection refused")}, nil).
			ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/scan", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	})
}
