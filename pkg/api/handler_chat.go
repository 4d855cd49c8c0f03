package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"
)

// chatHandler handles POST /chat: one turn through the Supervisor (C9),
// following the teacher's handler_chat.go numbered-step style.
func (s *Server) chatHandler(c *echo.Context) error {
	// 1. Extract caller identity. Real auth is out of scope; the header
	// stands in for whatever the eventual auth layer sets.
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "X-User-ID header is required")
	}

	// 2. Bind and validate request body.
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = userID
	}

	// 3. Run the turn.
	reply, meta, err := s.Supervisor.HandleTurn(c.Request().Context(), userID, sessionID, req.Message, req.PreferredModel)
	if err != nil {
		return mapDomainError(err)
	}

	// 4. Return the reply and whatever metadata the turn produced.
	return c.JSON(http.StatusOK, &ChatResponse{ReplyText: reply, Metadata: meta})
}

// chatHistoryHandler handles GET /chat/history/:session_id.
func (s *Server) chatHistoryHandler(c *echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "X-User-ID header is required")
	}
	sessionID := c.Param("session_id")

	session, err := s.Sessions.Get(userID, sessionID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}

	msgs := session.Clone().Messages
	out := make([]ChatHistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ChatHistoryMessage{
			Role:      string(m.Role),
			Text:      m.Text,
			Metadata:  m.Metadata,
			Timestamp: m.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return c.JSON(http.StatusOK, &ChatHistoryResponse{Messages: out})
}
