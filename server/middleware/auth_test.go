package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func runAuth(t *testing.T, cfg AuthConfig, configure func(req *http.Request)) (*httptest.ResponseRecorder, string) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if configure != nil {
		configure(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var resolved string
	handler := TenantAuth(cfg)(func(c echo.Context) error {
		resolved = TenantFromContext(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, resolved
}

func TestTenantAuth(t *testing.T) {
	secure := AuthConfig{Secret: testSecret}

	t.Run("ValidToken", func(t *testing.T) {
		token, err := SignTenantToken(testSecret, "t1", time.Hour)
		require.NoError(t, err)

		rec, tenantID := runAuth(t, secure, func(req *http.Request) {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "t1", tenantID)
	})

	t.Run("MissingToken", func(t *testing.T) {
		rec, _ := runAuth(t, secure, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := SignTenantToken("other-secret", "t1", time.Hour)
		require.NoError(t, err)

		rec, _ := runAuth(t, secure, func(req *http.Request) {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		token, err := SignTenantToken(testSecret, "t1", -time.Minute)
		require.NoError(t, err)

		rec, _ := runAuth(t, secure, func(req *http.Request) {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("InsecureHeaderFallback", func(t *testing.T) {
		insecure := AuthConfig{AllowInsecure: true}
		rec, tenantID := runAuth(t, insecure, func(req *http.Request) {
			req.Header.Set(InsecureTenantHeader, "t42")
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "t42", tenantID)
	})

	t.Run("InsecureDefaultTenant", func(t *testing.T) {
		insecure := AuthConfig{AllowInsecure: true}
		rec, tenantID := runAuth(t, insecure, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, defaultDemoTenant, tenantID)
	})

	t.Run("InsecureStillVerifiesPresentedToken", func(t *testing.T) {
		insecure := AuthConfig{Secret: testSecret, AllowInsecure: true}
		rec, _ := runAuth(t, insecure, func(req *http.Request) {
			req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestTenantRateLimit(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(60) // burst 30

	handler := TenantRateLimit(rl)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	hit := func(tenantID string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("tenant_id", tenantID)
		require.NoError(t, handler(c))
		return rec.Code
	}

	t.Run("BurstThenLimited", func(t *testing.T) {
		limited := false
		for i := 0; i < 100; i++ {
			if hit("t1") == http.StatusTooManyRequests {
				limited = true
				break
			}
		}
		assert.True(t, limited, "sustained burst should hit the limit")
	})

	t.Run("TenantsIsolated", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, hit("t2"))
	})
}
