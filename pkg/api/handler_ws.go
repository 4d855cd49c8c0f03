package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	echo "github.com/labstack/echo/v5"

	"github.com/bowjob/jobagent/pkg/eventbus"
)

const wsWriteTimeout = 5 * time.Second

// wireEvent is the outbound {type, data} envelope for every event the bus
// delivers.
type wireEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// wsHandler upgrades one HTTP connection to a per-user WebSocket stream.
// The first inbound text frame is treated as a bearer token identifying
// the subscribing user (an empty token closes the connection — real token
// verification is out of scope); subsequent inbound "ping" frames get a
// "pong" event back. Outbound frames are whatever the Event Bus (C2) emits
// for this user.
func (s *Server) wsHandler(c *echo.Context) error {
	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	_, tokenData, err := conn.Read(ctx)
	if err != nil {
		return nil
	}
	userID := string(tokenData)
	if userID == "" {
		_ = conn.Close(websocket.StatusPolicyViolation, "missing bearer token")
		return nil
	}

	sub := s.Bus.Subscribe(userID)
	defer s.Bus.Unsubscribe(sub)

	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.wsReadLoop(readCtx, conn, sub, userID)

	for {
		select {
		case <-readCtx.Done():
			return nil
		case evt, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if err := writeEvent(ctx, conn, evt); err != nil {
				return nil
			}
		}
	}
}

// wsReadLoop drains inbound frames after the auth handshake, replying
// "pong" to "ping" and ending the connection on any read error (close,
// malformed frame stream, etc).
func (s *Server) wsReadLoop(ctx context.Context, conn *websocket.Conn, sub *eventbus.Subscriber, userID string) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if string(data) == "ping" {
			s.Bus.Emit(userID, eventbus.Pong{})
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, evt eventbus.Event) error {
	data, err := json.Marshal(wireEvent{Type: string(evt.Type()), Data: evt})
	if err != nil {
		slog.Error("failed to marshal outbound event", "error", err)
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, data)
}
