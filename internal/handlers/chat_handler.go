// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/iyunix/go-chatpal/internal/domain"
	"github.com/iyunix/go-chatpal/internal/middleware"
	"github.com/iyunix/go-chatpal/internal/services"
	"github.com/iyunix/go-chatpal/internal/services/render"
)

type ChatHandler struct {
	ChatService *services.ChatService
	Renderer    *render.Renderer
}

func NewChatHandler(cs *services.ChatService, renderer *render.Renderer) *ChatHandler {
	return &ChatHandler{ChatService: cs, Renderer: renderer}
}

// messageView is a stored message plus the rendered HTML clients display.
type messageView struct {
	domain.Message
	ContentHTML string `json:"content_html,omitempty"`
}

// GetUserChats retrieves all chat threads for the authenticated user.
func (h *ChatHandler) GetUserChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	chats, err := h.ChatService.GetUserChats(r.Context(), userID)
	if err != nil {
		writeError(w, "Could not retrieve chats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

// CreateChat starts a new chat thread.
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	chat, err := h.ChatService.CreateChat(r.Context(), userID, req.Title)
	if err != nil {
		writeError(w, "Could not create chat", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, chat)
}

// GetChatMessages retrieves all messages for a specific chat, with assistant
// replies rendered to HTML.
func (h *ChatHandler) GetChatMessages(w http.ResponseWriter, r *http.Request) {
	userID, chatID, ok := h.chatRequest(w, r)
	if !ok {
		return
	}

	messages, err := h.ChatService.GetChatMessages(r.Context(), userID, chatID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	views := make([]messageView, 0, len(messages))
	for _, m := range messages {
		view := messageView{Message: m}
		if !m.IsUserMessage() {
			view.ContentHTML = h.Renderer.ToHTML(m.Content)
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, views)
}

type sendMessageRequest struct {
	Message    string `json:"message"`
	ImagePath  string `json:"image_path,omitempty"`
	AudioPath  string `json:"audio_path,omitempty"`
	TemplateID uint   `json:"template_id,omitempty"`
}

// SendMessage posts a message (text, text+image, or voice) to the chat and
// returns the assistant's reply.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, chatID, ok := h.chatRequest(w, r)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var (
		reply      *domain.Message
		transcript string
		err        error
	)
	if req.AudioPath != "" {
		reply, transcript, err = h.ChatService.SendVoiceMessage(r.Context(), userID, chatID, req.AudioPath, req.TemplateID)
	} else {
		reply, err = h.ChatService.SendMessage(r.Context(), userID, chatID, req.Message, req.ImagePath, req.TemplateID)
	}
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := map[string]interface{}{
		"reply": messageView{
			Message:     *reply,
			ContentHTML: h.Renderer.ToHTML(reply.Content),
		},
	}
	if transcript != "" {
		resp["transcription"] = transcript
	}
	writeJSON(w, http.StatusOK, resp)
}

// StreamChat streams the assistant's reply over Server-Sent Events. Each
// fragment arrives as a "delta" event; a final "done" event carries the
// normalized result.
func (h *ChatHandler) StreamChat(w http.ResponseWriter, r *http.Request) {
	userID, chatID, ok := h.chatRequest(w, r)
	if !ok {
		return
	}

	message := r.URL.Query().Get("q")
	imagePath := r.URL.Query().Get("image")
	if message == "" && imagePath == "" {
		writeError(w, "Missing q parameter", http.StatusBadRequest)
		return
	}

	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		writeError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	result, err := h.ChatService.StreamResponse(r.Context(), userID, chatID, message, imagePath, func(delta string) error {
		payload, _ := json.Marshal(map[string]string{"delta": delta})
		if _, werr := fmt.Fprintf(w, "event: delta\ndata: %s\n\n", payload); werr != nil {
			return werr
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		fmt.Fprintf(w, "event: error\ndata: {\"error\":%q}\n\n", "unauthorized")
		flusher.Flush()
		return
	}

	payload, _ := json.Marshal(result)
	fmt.Fprintf(w, "event: done\ndata: %s\n\n", payload)
	flusher.Flush()
}

// DeleteChat removes a chat and is scoped to its owner.
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	userID, chatID, ok := h.chatRequest(w, r)
	if !ok {
		return
	}

	if err := h.ChatService.DeleteChat(r.Context(), userID, chatID); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// chatRequest extracts the authenticated user and the chat ID path variable.
func (h *ChatHandler) chatRequest(w http.ResponseWriter, r *http.Request) (uint, uint, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return 0, 0, false
	}

	chatID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return 0, 0, false
	}
	return userID, uint(chatID), true
}

func (h *ChatHandler) writeServiceError(w http.ResponseWriter, err error) {
	if err == services.ErrUnauthorized {
		writeError(w, "Chat not found", http.StatusNotFound)
		return
	}
	writeError(w, "Error processing chat: "+err.Error(), http.StatusInternalServerError)
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
