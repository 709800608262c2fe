package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NKaram/inkwell_backend/config"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, refreshToken, err := GenerateJWT("651ff1b2c3d4e5f601234567", "alice@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, refreshToken)
	assert.NotEqual(t, token, refreshToken)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "651ff1b2c3d4e5f601234567", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Empty(t, claims.Id)

	refreshClaims, err := ParseToken(refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshClaims.Id)
	assert.Greater(t, refreshClaims.ExpiresAt, claims.ExpiresAt)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, _, err := GenerateJWT("651ff1b2c3d4e5f601234567", "alice@example.com", "user")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "another-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestClaimsValid(t *testing.T) {
	now := time.Now()

	claims := JwtCustomClaims{StandardClaims: jwt.StandardClaims{
		ExpiresAt: now.Add(time.Hour).Unix(),
	}}
	assert.NoError(t, claims.Valid())

	expired := JwtCustomClaims{StandardClaims: jwt.StandardClaims{
		ExpiresAt: now.Add(-time.Hour).Unix(),
	}}
	assert.Error(t, expired.Valid())

	notYet := JwtCustomClaims{StandardClaims: jwt.StandardClaims{
		NotBefore: now.Add(time.Hour).Unix(),
	}}
	assert.Error(t, notYet.Valid())
}

func TestBlacklistWithoutRedisIsNoop(t *testing.T) {
	// RedisClient is nil in tests; revocation degrades to a no-op
	BlacklistToken("some-token", time.Now().Add(time.Hour))
	assert.False(t, IsTokenBlacklisted("some-token"))
}

// withTestRedis points the shared client at an in-process Redis for the
// duration of one test
func withTestRedis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	config.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		config.RedisClient.Close()
		config.RedisClient = nil
	})
}

func runJWTMiddleware(t *testing.T, token string) (*httptest.ResponseRecorder, bool, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handlerRan := false
	handler := JWTMiddleware()(func(c echo.Context) error {
		handlerRan = true
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	return rec, handlerRan, err
}

func TestJWTMiddlewareAcceptsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	withTestRedis(t)

	token, _, err := GenerateJWT("651ff1b2c3d4e5f601234567", "alice@example.com", "user")
	require.NoError(t, err)

	rec, handlerRan, err := runJWTMiddleware(t, token)
	require.NoError(t, err)
	assert.True(t, handlerRan)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTMiddlewareRejectsRevokedTokenBeforeHandler(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	withTestRedis(t)

	token, _, err := GenerateJWT("651ff1b2c3d4e5f601234567", "alice@example.com", "user")
	require.NoError(t, err)

	BlacklistToken(token, time.Now().Add(time.Hour))
	require.True(t, IsTokenBlacklisted(token))

	_, handlerRan, err := runJWTMiddleware(t, token)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)

	// The route handler must never run under a revoked token
	assert.False(t, handlerRan)
}
