package v1

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/answerdesk/answerdesk/server/middleware"
	"github.com/answerdesk/answerdesk/store"
)

const maxEventPageSize = 200

// AnalyticsEventResponse is one persisted pipeline outcome.
type AnalyticsEventResponse struct {
	UID            string `json:"uid"`
	ConversationID string `json:"conversation_id"`
	LatencyMs      int64  `json:"latency_ms"`
	Provider       string `json:"provider"`
	Success        bool   `json:"success"`
	Intent         string `json:"intent"`
	Emotion        string `json:"emotion"`
	ErrorCode      string `json:"error_code,omitempty"`
	CreatedTs      int64  `json:"created_ts"`
}

// GetAnalyticsSummary returns the live aggregated stats for the calling
// tenant.
// GET /api/v1/analytics/summary
func (s *APIV1Service) GetAnalyticsSummary(c echo.Context) error {
	tenantID := middleware.TenantFromContext(c)
	return c.JSON(http.StatusOK, s.Sink.Stats(tenantID))
}

// ListAnalyticsEvents returns persisted events for the calling tenant,
// newest first.
// GET /api/v1/analytics/events?range=24h&limit=50
func (s *APIV1Service) ListAnalyticsEvents(c echo.Context) error {
	tenantID := middleware.TenantFromContext(c)

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return badRequest(c, "invalid limit")
		}
		if parsed > maxEventPageSize {
			parsed = maxEventPageSize
		}
		limit = parsed
	}

	find := &store.FindAnalyticsEvent{TenantID: &tenantID, Limit: &limit}
	if raw := c.QueryParam("range"); raw != "" {
		start, err := parseTimeRange(raw)
		if err != nil {
			return badRequest(c, err.Error())
		}
		afterTs := start.UnixMilli()
		find.AfterTs = &afterTs
	}

	events, err := s.Store.ListAnalyticsEvents(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list events")
	}

	out := make([]AnalyticsEventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, AnalyticsEventResponse{
			UID:            event.UID,
			ConversationID: event.ConversationID,
			LatencyMs:      event.LatencyMs,
			Provider:       event.Provider,
			Success:        event.Success,
			Intent:         event.Intent,
			Emotion:        event.Emotion,
			ErrorCode:      event.ErrorCode,
			CreatedTs:      event.CreatedTs,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// parseTimeRange parses a range shorthand and returns the start time.
func parseTimeRange(timeRange string) (time.Time, error) {
	now := time.Now()
	switch timeRange {
	case "1h":
		return now.Add(-1 * time.Hour), nil
	case "24h":
		return now.Add(-24 * time.Hour), nil
	case "7d":
		return now.Add(-7 * 24 * time.Hour), nil
	case "30d":
		return now.Add(-30 * 24 * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("invalid range: %s (valid: 1h, 24h, 7d, 30d)", timeRange)
	}
}
