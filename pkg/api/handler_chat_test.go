package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatHandler_MissingUserIDRejected(t *testing.T) {
	s := fullyWiredServer()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := s.chatHandler(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestChatHandler_EmptyMessageRejected(t *testing.T) {
	s := fullyWiredServer()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":""}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := s.chatHandler(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestChatHandler_RunsATurn(t *testing.T) {
	s := fullyWiredServer()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"search for jobs"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, s.chatHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ReplyText)
}

func TestChatHistoryHandler_UnknownSessionIs404(t *testing.T) {
	s := fullyWiredServer()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/chat/history/nope", nil)
	req.Header.Set("X-User-ID", "u1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("session_id")
	c.SetParamValues("nope")

	err := s.chatHistoryHandler(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestChatHistoryHandler_ReturnsLoggedTurn(t *testing.T) {
	s := fullyWiredServer()
	s.Sessions.GetOrCreate("u1", "s1")

	e := echo.New()
	chatReq := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hello","session_id":"s1"}`))
	chatReq.Header.Set("Content-Type", "application/json")
	chatReq.Header.Set("X-User-ID", "u1")
	rec := httptest.NewRecorder()
	require.NoError(t, s.chatHandler(e.NewContext(chatReq, rec)))

	req := httptest.NewRequest(http.MethodGet, "/chat/history/s1", nil)
	req.Header.Set("X-User-ID", "u1")
	rec2 := httptest.NewRecorder()
	c := e.NewContext(req, rec2)
	c.SetParamNames("session_id")
	c.SetParamValues("s1")

	require.NoError(t, s.chatHistoryHandler(c))
	assert.Equal(t, http.StatusOK, rec2.Code)

	var resp ChatHistoryResponse
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "hello", resp.Messages[0].Text)
}
