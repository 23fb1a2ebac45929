// File: internal/handlers/template_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/iyunix/go-chatpal/internal/domain"
	"github.com/iyunix/go-chatpal/internal/middleware"
	"github.com/iyunix/go-chatpal/internal/repository"
)

// TemplateHandler manages the user's reusable prompt templates.
type TemplateHandler struct {
	Templates repository.TemplateRepository
}

func NewTemplateHandler(templates repository.TemplateRepository) *TemplateHandler {
	return &TemplateHandler{Templates: templates}
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	templates, err := h.Templates.FindByUserID(r.Context(), userID)
	if err != nil {
		writeError(w, "Could not retrieve templates", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Name     string `json:"name"`
		Template string `json:"template"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Template) == "" {
		writeError(w, "Name and template are required", http.StatusBadRequest)
		return
	}

	tmpl, err := h.Templates.Create(r.Context(), &domain.PromptTemplate{
		UserID:   userID,
		Name:     strings.TrimSpace(req.Name),
		Template: req.Template,
	})
	if err != nil {
		writeError(w, "Could not create template", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, tmpl)
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeError(w, "Invalid template ID", http.StatusBadRequest)
		return
	}

	if err := h.Templates.Delete(r.Context(), uint(id), userID); err != nil {
		writeError(w, "Could not delete template", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
