package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chatlytics-io/chatlytics-engine/pkg/apperrors"
	"github.com/chatlytics-io/chatlytics-engine/pkg/models"
)

// stubAgent is a scripted AgentService for handler tests.
type stubAgent struct {
	outcome  *models.AttemptOutcome
	askErr   error
	history  []models.Message
	asked    []string
	sessions []uuid.UUID
	cleared  []uuid.UUID
}

func (s *stubAgent) Ask(_ context.Context, sessionID uuid.UUID, question string) (*models.AttemptOutcome, error) {
	s.sessions = append(s.sessions, sessionID)
	s.asked = append(s.asked, question)
	if s.askErr != nil {
		return nil, s.askErr
	}
	return s.outcome, nil
}

func (s *stubAgent) History(uuid.UUID) []models.Message { return s.history }
func (s *stubAgent) ClearHistory(id uuid.UUID)          { s.cleared = append(s.cleared, id) }

func newChatServer(agent *stubAgent) *httptest.Server {
	mux := http.NewServeMux()
	NewChatHandler(agent, NewSessionStore("test-key"), zap.NewNop()).RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func TestChat_SendMessage(t *testing.T) {
	sql := "SELECT name FROM workspace.claude.customers LIMIT 5"
	agent := &stubAgent{outcome: &models.AttemptOutcome{
		Success: true,
		SQL:     &sql,
		Message: "Found 5 results",
	}}
	server := newChatServer(agent)
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/chat/message", "application/json",
		strings.NewReader(`{"message":"show top 5 customers"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var outcome models.AttemptOutcome
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&outcome))
	assert.True(t, outcome.Success)
	assert.Equal(t, "Found 5 results", outcome.Message)
	require.NotNil(t, outcome.SQL)
	assert.Equal(t, sql, *outcome.SQL)

	require.Len(t, agent.asked, 1)
	assert.Equal(t, "show top 5 customers", agent.asked[0])

	// A session cookie is minted on first contact.
	assert.NotEmpty(t, resp.Cookies())
}

func TestChat_SendMessageEmptyQuestion(t *testing.T) {
	agent := &stubAgent{askErr: apperrors.ErrEmptyQuestion}
	server := newChatServer(agent)
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/chat/message", "application/json",
		strings.NewReader(`{"message":""}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChat_SendMessageBadJSON(t *testing.T) {
	server := newChatServer(&stubAgent{})
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/chat/message", "application/json",
		strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChat_SessionIsSticky(t *testing.T) {
	agent := &stubAgent{outcome: &models.AttemptOutcome{Success: false, Message: "no"}}
	server := newChatServer(agent)
	defer server.Close()

	jar := newCookieJar(t)
	client := &http.Client{Jar: jar}

	for i := 0; i < 2; i++ {
		resp, err := client.Post(server.URL+"/api/chat/message", "application/json",
			strings.NewReader(`{"message":"hi"}`))
		require.NoError(t, err)
		resp.Body.Close()
	}

	require.Len(t, agent.sessions, 2)
	assert.Equal(t, agent.sessions[0], agent.sessions[1], "same cookie must map to same session")
}

func TestChat_GetHistory(t *testing.T) {
	agent := &stubAgent{history: []models.Message{
		{Role: models.ChatRoleUser, Content: "list customers"},
		{Role: models.ChatRoleAssistant, Content: "SELECT ..."},
	}}
	server := newChatServer(agent)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/chat/history")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body HistoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Messages, 2)
	assert.Equal(t, models.ChatRoleUser, body.Messages[0].Role)
}

func TestChat_GetHistoryEmpty(t *testing.T) {
	server := newChatServer(&stubAgent{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/chat/history")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body HistoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotNil(t, body.Messages)
	assert.Empty(t, body.Messages)
}

func TestChat_ClearHistory(t *testing.T) {
	agent := &stubAgent{}
	server := newChatServer(agent)
	defer server.Close()

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/chat/history", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Len(t, agent.cleared, 1)
}
