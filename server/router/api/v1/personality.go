package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/answerdesk/answerdesk/assist/personality"
	apierrors "github.com/answerdesk/answerdesk/internal/errors"
	"github.com/answerdesk/answerdesk/server/middleware"
	"github.com/answerdesk/answerdesk/store"
)

// GetPersonality returns the calling tenant's current profile snapshot.
// GET /api/v1/personality
func (s *APIV1Service) GetPersonality(c echo.Context) error {
	tenantID := middleware.TenantFromContext(c)
	return c.JSON(http.StatusOK, s.Profiles.Snapshot(tenantID))
}

// UpdatePersonality replaces the tenant's profile. Invalid profiles are
// rejected and the last-known-good profile stays in effect.
// PUT /api/v1/personality
func (s *APIV1Service) UpdatePersonality(c echo.Context) error {
	tenantID := middleware.TenantFromContext(c)

	var p personality.Profile
	if err := c.Bind(&p); err != nil {
		return badRequest(c, "malformed profile")
	}

	if err := s.Profiles.Update(tenantID, &p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"code":  string(apierrors.ErrCodeInvalidProfile),
			"error": err.Error(),
		})
	}

	s.persistProfile(c, tenantID)
	return c.JSON(http.StatusOK, s.Profiles.Snapshot(tenantID))
}

// ApplyQuestionnaire maps onboarding questionnaire answers to a profile
// and installs it for the tenant.
// POST /api/v1/personality/questionnaire
func (s *APIV1Service) ApplyQuestionnaire(c echo.Context) error {
	tenantID := middleware.TenantFromContext(c)

	var answers map[string]string
	if err := c.Bind(&answers); err != nil {
		return badRequest(c, "malformed questionnaire answers")
	}

	p := personality.FromQuestionnaire(answers)
	if err := s.Profiles.Update(tenantID, p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"code":  string(apierrors.ErrCodeInvalidProfile),
			"error": err.Error(),
		})
	}

	s.persistProfile(c, tenantID)
	return c.JSON(http.StatusOK, s.Profiles.Snapshot(tenantID))
}

// persistProfile saves the registry snapshot so profiles survive restarts.
// Best effort: configuration is served from the registry either way.
func (s *APIV1Service) persistProfile(c echo.Context, tenantID string) {
	if s.Store == nil {
		return
	}

	snapshot := s.Profiles.Snapshot(tenantID)
	payload, err := json.Marshal(snapshot)
	if err != nil {
		slog.Error("profile serialization failed", "tenant_id", tenantID, "error", err)
		return
	}
	if _, err := s.Store.UpsertTenantProfile(c.Request().Context(), &store.TenantProfile{
		TenantID:  tenantID,
		Payload:   payload,
		UpdatedTs: time.Now().UnixMilli(),
	}); err != nil {
		slog.Warn("profile persist failed", "tenant_id", tenantID, "error", err)
	}
}
