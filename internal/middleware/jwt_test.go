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

	"github.com/noah-isme/acompanamiento-api/pkg/config"
)

func guardRequest(t *testing.T, cfg config.JWTConfig, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Guard(cfg))
	router.GET("/protected", func(c *gin.Context) {
		subject, _ := c.Get(ContextSubjectKey)
		c.JSON(http.StatusOK, gin.H{"subject": subject})
	})

	req, err := http.NewRequest(http.MethodGet, "/protected", nil)
	require.NoError(t, err)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "specialist-100",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestGuardDisabledPassesThrough(t *testing.T) {
	w := guardRequest(t, config.JWTConfig{Enabled: false}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGuardRejectsMissingAndMalformedHeaders(t *testing.T) {
	cfg := config.JWTConfig{Enabled: true, Secret: "secret"}

	assert.Equal(t, http.StatusUnauthorized, guardRequest(t, cfg, "").Code)
	assert.Equal(t, http.StatusUnauthorized, guardRequest(t, cfg, "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, guardRequest(t, cfg, "Bearer not-a-token").Code)
}

func TestGuardAcceptsValidToken(t *testing.T) {
	cfg := config.JWTConfig{Enabled: true, Secret: "secret"}
	token := signToken(t, "secret", time.Now().Add(time.Hour))

	w := guardRequest(t, cfg, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "specialist-100")
}

func TestGuardRejectsExpiredAndForeignTokens(t *testing.T) {
	cfg := config.JWTConfig{Enabled: true, Secret: "secret"}

	expired := signToken(t, "secret", time.Now().Add(-time.Hour))
	assert.Equal(t, http.StatusUnauthorized, guardRequest(t, cfg, "Bearer "+expired).Code)

	foreign := signToken(t, "other-secret", time.Now().Add(time.Hour))
	assert.Equal(t, http.StatusUnauthorized, guardRequest(t, cfg, "Bearer "+foreign).Code)
}
