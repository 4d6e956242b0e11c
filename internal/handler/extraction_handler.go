package handler

import (
	"net/http"
	"strings"

	"pptx-generator/internal/domain"
	apperrors "pptx-generator/pkg/errors"
)

// ExtractionHandler serves POST /extract_text
type ExtractionHandler struct {
	extractor domain.DocumentExtractor
	maxBytes  int64
	logger    domain.Logger
}

// NewExtractionHandler creates a new extraction handler
func NewExtractionHandler(extractor domain.DocumentExtractor, maxBytes int64, logger domain.Logger) *ExtractionHandler {
	return &ExtractionHandler{
		extractor: extractor,
		maxBytes:  maxBytes,
		logger:    logger,
	}
}

// ExtractText returns {"text": ...} for an uploaded PDF or DOCX in field "file"
func (h *ExtractionHandler) ExtractText(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			writeAppError(w, tooLargeError(h.maxBytes))
			return
		}
		writeAppError(w, apperrors.NewValidationError("no file provided", `multipart field "file" is required`))
		return
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	if strings.TrimSpace(header.Filename) == "" {
		writeAppError(w, apperrors.NewValidationError("no file selected"))
		return
	}

	out, err := h.extractor.ExtractUpload(r.Context(), header.Filename, file)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}
