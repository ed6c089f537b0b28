package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inventory-billing/apperrors"
	"inventory-billing/logger"
	"inventory-billing/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

type stubAuthenticator struct {
	claims *utils.Claims
	err    error
}

func (s stubAuthenticator) Authenticate(context.Context, string) (*utils.Claims, error) {
	return s.claims, s.err
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	newRouter := func(auth TokenAuthenticator) *gin.Engine {
		router := gin.New()
		router.GET("/me", AuthMiddleware(auth), func(c *gin.Context) {
			user, ok := CurrentUser(c)
			if !ok {
				c.Status(http.StatusInternalServerError)
				return
			}
			c.String(http.StatusOK, user.ID.String())
		})
		return router
	}

	t.Run("Success - 200 OK", func(t *testing.T) {
		router := newRouter(stubAuthenticator{claims: &utils.Claims{UserID: userID, Email: "clerk@example.com"}})

		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, userID.String(), recorder.Body.String())
	})

	t.Run("Failure - Missing Header - 401", func(t *testing.T) {
		router := newRouter(stubAuthenticator{})

		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Authorization header required")
	})

	t.Run("Failure - Wrong Scheme - 401", func(t *testing.T) {
		router := newRouter(stubAuthenticator{})

		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Basic abc")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Invalid authorization header format")
	})

	t.Run("Failure - Revoked Token - 401", func(t *testing.T) {
		router := newRouter(stubAuthenticator{err: apperrors.Unauthorized("Token has been revoked")})

		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer old-token")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Token has been revoked")
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/auth/signin", RateLimitMiddleware(1, 2), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := []int{}
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest(http.MethodPost, "/auth/signin", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		codes = append(codes, recorder.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req, _ := http.NewRequest(http.MethodPost, "/auth/signin", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRateLimiter_ForgetsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(rate.Every(time.Second), 1)
	rl.now = func() time.Time { return now }
	rl.lastSweep = now

	first := rl.GetLimiter("10.0.0.1")
	rl.GetLimiter("10.0.0.2")
	assert.Len(t, rl.ips, 2)

	now = now.Add(limiterIdleTTL / 2)
	assert.Same(t, first, rl.GetLimiter("10.0.0.1"))

	now = now.Add(limiterIdleTTL/2 + time.Second)
	rl.GetLimiter("10.0.0.3")
	assert.Len(t, rl.ips, 2)
	assert.Contains(t, rl.ips, "10.0.0.1")
	assert.NotContains(t, rl.ips, "10.0.0.2")
}

func TestRequestLogger_PropagatesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/ping", func(c *gin.Context) {
		seen = c.GetString(logger.RequestIDKey)
		c.Status(http.StatusNoContent)
	})

	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", recorder.Header().Get("X-Request-ID"))

	req, _ = http.NewRequest(http.MethodGet, "/ping", nil)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	_, err := uuid.Parse(recorder.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}
