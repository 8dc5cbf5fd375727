// Package v1 exposes the public HTTP API.
package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tariffwise/crossagent/plugin/agent"
)

// CustomsService handles customs-classification questions.
type CustomsService struct {
	router *agent.Router
}

// NewCustomsService creates the customs question handler.
func NewCustomsService(router *agent.Router) *CustomsService {
	return &CustomsService{router: router}
}

// RegisterRoutes mounts the service under the given group.
func (s *CustomsService) RegisterRoutes(g *echo.Group) {
	g.POST("/customs/ask", s.Ask)
}

type askRequest struct {
	Message        string `json:"message"`
	Locale         string `json:"locale,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// Ask routes one question. Internal failures are reported in-band via
// the result's error field with HTTP 200; existing callers depend on
// that contract. Only a malformed request body yields a non-200 status.
func (s *CustomsService) Ask(c echo.Context) error {
	var req askRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	result := s.router.Ask(c.Request().Context(), agent.Query{
		Message:        req.Message,
		Locale:         req.Locale,
		ConversationID: req.ConversationID,
	})
	return c.JSON(http.StatusOK, result)
}
