package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/thanhng/foodchat/internal/api/response"
	"github.com/thanhng/foodchat/internal/domain"
	"github.com/thanhng/foodchat/internal/service"
)

type startChatRequest struct {
	Ingredients []string `json:"ingredients"`
	Recipe      string   `json:"recipe"`
}

type chatStreamRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

// ChatHandler handles chat session lifecycle and the streaming answer
// endpoint.
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// StartChat handles POST /start-chat. The body is optional: a session
// can start empty and still answer general cooking questions.
func (h *ChatHandler) StartChat(w http.ResponseWriter, r *http.Request) {
	var req startChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := h.chatService.StartChat(req.Ingredients, req.Recipe)

	response.OK(w, map[string]any{
		"success":    true,
		"session_id": sessionID,
		"message":    "Phiên chat đã được tạo. Bạn có thể hỏi về công thức nấu ăn!",
	})
}

// Stream handles POST /chat-stream. Events are relayed as SSE frames;
// protocol errors after the stream opens are in-band error events, not
// HTTP statuses.
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.Fail(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// A malformed body still gets a stream: the relay emits the
	// validation error event for empty fields.
	var req chatStreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = chatStreamRequest{}
	}

	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	h.chatService.StreamAnswer(r.Context(), req.SessionID, req.Question, func(event domain.StreamEvent) {
		writeStreamEvent(w, flusher, event)
	})
}

// History handles GET /get-chat-history/{sessionID}.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.chatService.History(sessionID)
	if err != nil {
		response.Fail(w, http.StatusNotFound, "session not found or expired")
		return
	}

	response.OK(w, map[string]any{
		"success":        true,
		"session_id":     session.ID,
		"ingredients":    session.Ingredients,
		"recipe":         session.Recipe,
		"messages":       session.Messages,
		"created_at":     session.CreatedAt,
		"last_activity":  session.LastActivity,
		"total_messages": len(session.Messages),
	})
}

// EndChat handles DELETE /end-chat/{sessionID}.
func (h *ChatHandler) EndChat(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.chatService.EndChat(sessionID); err != nil {
		response.Fail(w, http.StatusNotFound, "session not found or expired")
		return
	}

	response.OK(w, map[string]any{
		"success": true,
		"message": "Phiên chat đã kết thúc",
	})
}

func writeStreamEvent(w http.ResponseWriter, flusher http.Flusher, event domain.StreamEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal stream event")
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}
