package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/answerdesk/answerdesk/server/middleware"
)

// streamKeepAlive is the interval between SSE comments that keep
// intermediaries from closing an idle stream.
const streamKeepAlive = 30 * time.Second

// StreamEvents pushes the tenant's pipeline outcomes over server-sent
// events as they happen. The dashboard uses this for live updates.
// GET /api/v1/events/stream
func (s *APIV1Service) StreamEvents(c echo.Context) error {
	tenantID := middleware.TenantFromContext(c)

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	feed, cancel := s.Sink.Subscribe()
	defer cancel()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return nil
			}
			w.Flush()
		case event, ok := <-feed:
			if !ok {
				return nil
			}
			// Tenants only see their own traffic.
			if event.TenantID != tenantID {
				continue
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: outcome\ndata: %s\n\n", payload); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
