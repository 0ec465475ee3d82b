package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/answerdesk/answerdesk/server/middleware"
	"github.com/answerdesk/answerdesk/store"
)

// KnowledgeItemRequest is a manual knowledge item write.
type KnowledgeItemRequest struct {
	Value string `json:"value"`
}

// ListKnowledge returns the tenant's knowledge items.
// GET /api/v1/knowledge
func (s *APIV1Service) ListKnowledge(c echo.Context) error {
	tenantID := middleware.TenantFromContext(c)

	items, err := s.Store.ListKnowledgeItems(c.Request().Context(), &store.FindKnowledgeItem{
		TenantID: &tenantID,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list knowledge items")
	}
	return c.JSON(http.StatusOK, items)
}

// UpsertKnowledge writes one manual knowledge item and refreshes the
// cache so the next conversation sees it.
// PUT /api/v1/knowledge/:topic
func (s *APIV1Service) UpsertKnowledge(c echo.Context) error {
	tenantID := middleware.TenantFromContext(c)

	topic := strings.TrimSpace(c.Param("topic"))
	if topic == "" {
		return badRequest(c, "topic is required")
	}
	var req KnowledgeItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if strings.TrimSpace(req.Value) == "" {
		return badRequest(c, "value is required")
	}

	item, err := s.Store.UpsertKnowledgeItem(c.Request().Context(), &store.KnowledgeItem{
		TenantID:  tenantID,
		Topic:     topic,
		Value:     req.Value,
		Source:    store.KnowledgeSourceManual,
		UpdatedTs: time.Now().UnixMilli(),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save knowledge item")
	}

	if err := s.Knowledge.Refresh(c.Request().Context(), tenantID); err != nil {
		// The cache will pick the item up on its next revalidation.
		c.Logger().Warnf("knowledge cache refresh failed: %v", err)
	}
	return c.JSON(http.StatusOK, item)
}

// RefreshKnowledge forces a cache reload for the tenant, e.g. after an
// external spreadsheet sync.
// POST /api/v1/knowledge/refresh
func (s *APIV1Service) RefreshKnowledge(c echo.Context) error {
	tenantID := middleware.TenantFromContext(c)

	if err := s.Knowledge.Refresh(c.Request().Context(), tenantID); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "knowledge source unavailable")
	}
	return c.NoContent(http.StatusNoContent)
}
