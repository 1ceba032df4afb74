package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/chatlytics-io/chatlytics-engine/pkg/apperrors"
	"github.com/chatlytics-io/chatlytics-engine/pkg/models"
	"github.com/chatlytics-io/chatlytics-engine/pkg/services"
)

// ChatHandler exposes the conversational question-answering workflow.
type ChatHandler struct {
	agent    services.AgentService
	sessions *sessions.CookieStore
	logger   *zap.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(agent services.AgentService, store *sessions.CookieStore, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		agent:    agent,
		sessions: store,
		logger:   logger.Named("chat-handler"),
	}
}

// RegisterRoutes registers the chat handler's routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat/message", h.SendMessage)
	mux.HandleFunc("GET /api/chat/history", h.GetHistory)
	mux.HandleFunc("DELETE /api/chat/history", h.ClearHistory)
}

// SendMessageRequest is the body of POST /api/chat/message.
type SendMessageRequest struct {
	Message string `json:"message"`
}

// HistoryResponse is the body of GET /api/chat/history.
type HistoryResponse struct {
	Messages []models.Message `json:"messages"`
}

// SendMessage handles POST /api/chat/message.
// Runs one question-answering cycle and returns the outcome.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(h.sessions, w, r)
	if err != nil {
		h.logger.Error("Failed to establish session", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "session_error", "failed to establish session")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be JSON with a message field")
		return
	}

	outcome, err := h.agent.Ask(r.Context(), id, req.Message)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmptyQuestion) {
			_ = ErrorResponse(w, http.StatusBadRequest, "empty_question", "message must not be empty")
			return
		}
		h.logger.Error("Question cycle failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to process message")
		return
	}

	if err := WriteJSON(w, http.StatusOK, outcome); err != nil {
		h.logger.Error("Failed to encode outcome", zap.Error(err))
	}
}

// GetHistory handles GET /api/chat/history.
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(h.sessions, w, r)
	if err != nil {
		h.logger.Error("Failed to establish session", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "session_error", "failed to establish session")
		return
	}

	messages := h.agent.History(id)
	if messages == nil {
		messages = []models.Message{}
	}

	if err := WriteJSON(w, http.StatusOK, HistoryResponse{Messages: messages}); err != nil {
		h.logger.Error("Failed to encode history", zap.Error(err))
	}
}

// ClearHistory handles DELETE /api/chat/history.
// Resets the conversation and the cached schema context for this session.
func (h *ChatHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(h.sessions, w, r)
	if err != nil {
		h.logger.Error("Failed to establish session", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "session_error", "failed to establish session")
		return
	}

	h.agent.ClearHistory(id)
	w.WriteHeader(http.StatusNoContent)
}
