package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	apierrors "github.com/answerdesk/answerdesk/internal/errors"
)

const (
	// tenantContextKey stores the authenticated tenant ID on the request.
	tenantContextKey = "tenant_id"

	// InsecureTenantHeader selects the tenant in demo/dev mode, where no
	// token is required.
	InsecureTenantHeader = "X-Tenant-ID"

	defaultDemoTenant = "demo"
)

// AuthConfig configures tenant authentication.
type AuthConfig struct {
	// Secret is the HMAC key for access tokens.
	Secret string
	// AllowInsecure skips token verification and takes the tenant from
	// the X-Tenant-ID header. Demo and dev modes only.
	AllowInsecure bool
}

// TenantAuth authenticates the calling tenant from a Bearer token. The
// token subject is the tenant ID.
func TenantAuth(cfg AuthConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantID, err := resolveTenant(c, cfg)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"code":  string(apierrors.ErrCodeUnauthorized),
					"error": err.Error(),
				})
			}
			c.Set(tenantContextKey, tenantID)
			return next(c)
		}
	}
}

// TenantFromContext returns the authenticated tenant ID, or empty.
func TenantFromContext(c echo.Context) string {
	tenantID, _ := c.Get(tenantContextKey).(string)
	return tenantID
}

func resolveTenant(c echo.Context, cfg AuthConfig) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)

	if authHeader == "" && cfg.AllowInsecure {
		if tenantID := c.Request().Header.Get(InsecureTenantHeader); tenantID != "" {
			return tenantID, nil
		}
		return defaultDemoTenant, nil
	}

	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || token == "" {
		return "", apierrors.Unauthorized("missing bearer token")
	}
	return verifyToken(token, cfg.Secret)
}

func verifyToken(tokenString, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierrors.Unauthorized("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return "", apierrors.Unauthorized("invalid access token")
	}
	if claims.Subject == "" {
		return "", apierrors.Unauthorized("token has no tenant subject")
	}
	return claims.Subject, nil
}

// SignTenantToken issues an HS256 access token for the tenant. Used by the
// CLI and by tests.
func SignTenantToken(secret, tenantID string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   tenantID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		Issuer:    "answerdesk",
	})
	return token.SignedString([]byte(secret))
}
