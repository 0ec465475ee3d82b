package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetProviderHealth returns the live health snapshot of every configured
// text-generation provider.
// GET /api/v1/providers/health
func (s *APIV1Service) GetProviderHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Health.Snapshot())
}
