package handler

import (
	"net/http"

	"pptx-generator/internal/domain"
)

const serviceName = "pptx-generator"

// InfoHandler serves the liveness and template listing endpoints
type InfoHandler struct {
	templates domain.TemplateRepository
	logger    domain.Logger
}

// NewInfoHandler creates a new info handler
func NewInfoHandler(templates domain.TemplateRepository, logger domain.Logger) *InfoHandler {
	return &InfoHandler{templates: templates, logger: logger}
}

func (h *InfoHandler) Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "PPT Generator service is running!"})
}

func (h *InfoHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": serviceName})
}

// ListTemplates returns the templates that can be requested by name
func (h *InfoHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templates.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list templates", err, "request_id", GetRequestID(r))
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"templates": templates})
}
