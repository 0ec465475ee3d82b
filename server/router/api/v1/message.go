package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apierrors "github.com/answerdesk/answerdesk/internal/errors"
	"github.com/answerdesk/answerdesk/server/middleware"
)

// MessageRequest is an inbound customer message.
type MessageRequest struct {
	// ConversationID identifies the dialogue, e.g. the customer's phone
	// number.
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

// MessageResponse is the reply to send back to the customer.
type MessageResponse struct {
	Reply    string `json:"reply"`
	Provider string `json:"provider,omitempty"`
	Fallback bool   `json:"fallback"`
	Intent   string `json:"intent"`
	Emotion  string `json:"emotion"`
}

// HandleMessage runs the conversation pipeline for one inbound message.
// POST /api/v1/messages
func (s *APIV1Service) HandleMessage(c echo.Context) error {
	tenantID := middleware.TenantFromContext(c)

	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	req.ConversationID = strings.TrimSpace(req.ConversationID)
	if req.ConversationID == "" {
		return badRequest(c, "conversation_id is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return badRequest(c, "message is required")
	}

	reply, err := s.Orchestrator.Handle(c.Request().Context(), tenantID, req.ConversationID, req.Message)
	if err != nil {
		// The caller disconnected: the turn is persisted, the reply is
		// discarded so it is not delivered twice.
		if apierrors.IsCode(err, apierrors.ErrCodeContextCanceled) {
			return err
		}
		// Degraded outcomes still carry a reply to deliver.
	}

	return c.JSON(http.StatusOK, MessageResponse{
		Reply:    reply.Text,
		Provider: reply.Provider,
		Fallback: reply.Fallback,
		Intent:   string(reply.Intent),
		Emotion:  string(reply.Emotion),
	})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{
		"code":  string(apierrors.ErrCodeInvalidArgument),
		"error": msg,
	})
}
