package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, subject, tokenType string, ttl time.Duration, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		TokenType: tokenType,
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthRequired(testSecret))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	return router
}

func doAuthRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthRequired_AccessTokenAccepted(t *testing.T) {
	router := newAuthTestRouter()
	token := signTestToken(t, "user-1", TokenTypeAccess, time.Minute, testSecret)

	w := doAuthRequest(router, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestAuthRequired_RefreshTokenRejected(t *testing.T) {
	router := newAuthTestRouter()
	token := signTestToken(t, "user-1", TokenTypeRefresh, time.Minute, testSecret)

	w := doAuthRequest(router, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_ExpiredTokenRejected(t *testing.T) {
	router := newAuthTestRouter()
	token := signTestToken(t, "user-1", TokenTypeAccess, -time.Minute, testSecret)

	w := doAuthRequest(router, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_WrongSecretRejected(t *testing.T) {
	router := newAuthTestRouter()
	token := signTestToken(t, "user-1", TokenTypeAccess, time.Minute, "other-secret")

	w := doAuthRequest(router, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_MissingSubjectRejected(t *testing.T) {
	router := newAuthTestRouter()
	token := signTestToken(t, "", TokenTypeAccess, time.Minute, testSecret)

	w := doAuthRequest(router, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_MalformedHeaderRejected(t *testing.T) {
	router := newAuthTestRouter()

	assert.Equal(t, http.StatusUnauthorized, doAuthRequest(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doAuthRequest(router, "Bearer ").Code)
	assert.Equal(t, http.StatusUnauthorized, doAuthRequest(router, "Basic abc").Code)
}
