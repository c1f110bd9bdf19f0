package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpush/devpush/internal/api/middleware"
	"github.com/devpush/devpush/internal/config"
)

func newTestAuthHandler() *AuthHandler {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTL = 15 * time.Minute
	cfg.Auth.RefreshTokenTTL = 720 * time.Hour
	return NewAuthHandler(nil, cfg)
}

func postRefresh(h *AuthHandler, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/auth/refresh", h.RefreshToken)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRefreshToken_IssuesNewPair(t *testing.T) {
	h := newTestAuthHandler()

	refresh, err := h.signToken("user-1", middleware.TokenTypeRefresh, time.Hour)
	require.NoError(t, err)

	w := postRefresh(h, `{"refresh_token":"`+refresh+`"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)
	assert.Contains(t, w.Body.String(), `"refresh_token"`)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	h := newTestAuthHandler()

	access, err := h.signToken("user-1", middleware.TokenTypeAccess, time.Hour)
	require.NoError(t, err)

	w := postRefresh(h, `{"refresh_token":"`+access+`"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshToken_RejectsExpiredToken(t *testing.T) {
	h := newTestAuthHandler()

	expired, err := h.signToken("user-1", middleware.TokenTypeRefresh, -time.Minute)
	require.NoError(t, err)

	w := postRefresh(h, `{"refresh_token":"`+expired+`"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
