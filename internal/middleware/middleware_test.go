package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/scrapbid/marketplace/internal/config"
	"github.com/scrapbid/marketplace/internal/utils"
)

func testRateCfg(strategy string) config.RateLimitConfig {
	return config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}
}

const testSecret = "unit-test-secret"

func newEchoRequest(t *testing.T, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestJWTAuthValidToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, "seller", 5)
	require.NoError(t, err)

	c, rec := newEchoRequest(t, at.Token)
	called := false
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		called = true
		require.Equal(t, uint64(7), c.Get("user_id"))
		require.Equal(t, "seller", c.Get("role"))
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, h(c))
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthRejections(t *testing.T) {
	wrong, err := utils.NewAccessToken("other-secret", 7, "buyer", 5)
	require.NoError(t, err)
	expired, err := utils.NewAccessToken(testSecret, 7, "buyer", -5)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing_header", token: ""},
		{name: "garbage_token", token: "not.a.jwt"},
		{name: "wrong_secret", token: wrong.Token},
		{name: "expired", token: expired.Token},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newEchoRequest(t, tc.token)
			h := JWTAuth(testSecret)(func(c echo.Context) error {
				t.Fatal("next handler must not run")
				return nil
			})
			require.NoError(t, h(c))
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     any
		allowed  []string
		wantCode int
	}{
		{name: "allowed_role", role: "auction_manager", allowed: []string{"auction_manager", "super_user"}, wantCode: http.StatusOK},
		{name: "wrong_role", role: "buyer", allowed: []string{"auction_manager"}, wantCode: http.StatusForbidden},
		{name: "missing_role", role: nil, allowed: []string{"buyer"}, wantCode: http.StatusForbidden},
		{name: "non_string_role", role: 42, allowed: []string{"buyer"}, wantCode: http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newEchoRequest(t, "")
			if tc.role != nil {
				c.Set("role", tc.role)
			}
			h := RequireRole(tc.allowed...)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			require.NoError(t, h(c))
			require.Equal(t, tc.wantCode, rec.Code)
		})
	}
}

func TestBuildRateKeyStrategies(t *testing.T) {
	c, _ := newEchoRequest(t, "")
	c.Set("user_id", uint64(9))
	c.SetPath("/api/auction/:id/details")

	tests := []struct {
		strategy string
		contains string
	}{
		{strategy: "user", contains: "user:9"},
		{strategy: "route", contains: "GET /api/auction/:id/details"},
		{strategy: "ip", contains: "ip:"},
	}
	for _, tc := range tests {
		t.Run(tc.strategy, func(t *testing.T) {
			key := buildRateKey(testRateCfg(tc.strategy), c)
			require.Contains(t, key, tc.contains)
			require.Contains(t, key, "rl:")
		})
	}
}
