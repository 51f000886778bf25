package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const defaultSessionID = "web_session"

// ChatRequest is one user message addressed to the assistant.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	Timestamp string `json:"timestamp"`
}

// ChatHandler handles one conversational turn.
func ChatHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ChatRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		req.Message = strings.TrimSpace(req.Message)
		if req.Message == "" {
			return errBadRequest(c, "message is required")
		}
		if len(req.Message) > 2000 {
			return errBadRequest(c, "message too long (max 2000 characters)")
		}
		if req.SessionID == "" {
			req.SessionID = defaultSessionID
		}

		reply, err := deps.Assistant.HandleMessage(c.UserContext(), req.SessionID, req.Message)
		if err != nil {
			return errInternal(c, err.Error())
		}

		return c.JSON(ChatResponse{
			Response:  reply,
			SessionID: req.SessionID,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}
