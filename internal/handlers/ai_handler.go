// File: internal/handlers/ai_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/iyunix/go-chatpal/internal/services/ai"
)

// AIHandler exposes gateway diagnostics and direct transcription.
type AIHandler struct {
	Gateway     *ai.Gateway
	Transcriber *ai.Transcriber
}

func NewAIHandler(gateway *ai.Gateway, transcriber *ai.Transcriber) *AIHandler {
	return &AIHandler{Gateway: gateway, Transcriber: transcriber}
}

// Status reports the gateway's service mode and probed providers. Responds
// 503 in fallback-only mode so monitors see the degradation; generation
// endpoints themselves keep answering 200 with fallback copy.
func (h *AIHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := h.Gateway.Status()
	code := http.StatusOK
	if !status.Available {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// Transcribe converts a previously uploaded audio file to text.
func (h *AIHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AudioPath string `json:"audio_path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AudioPath == "" {
		writeError(w, "Missing audio_path", http.StatusBadRequest)
		return
	}

	result := h.Transcriber.Transcribe(r.Context(), req.AudioPath)
	writeJSON(w, http.StatusOK, result)
}
