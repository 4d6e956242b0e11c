package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"pptx-generator/internal/domain"
	apperrors "pptx-generator/pkg/errors"
)

const multipartMemory = 32 << 20

// PresentationHandler serves POST /generate
type PresentationHandler struct {
	generator domain.PresentationGenerator
	maxBytes  int64
	logger    domain.Logger
}

// NewPresentationHandler creates a new presentation handler
func NewPresentationHandler(generator domain.PresentationGenerator, maxBytes int64, logger domain.Logger) *PresentationHandler {
	return &PresentationHandler{
		generator: generator,
		maxBytes:  maxBytes,
		logger:    logger,
	}
}

// Generate accepts either a JSON body {"template": name, "slides": [...]} or a
// multipart form with a template_file upload and a slides_data JSON field,
// and answers with the generated deck as an attachment.
func (h *PresentationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	req, err := h.parseRequest(r)
	if err != nil {
		h.logger.Debug("Rejected generate request", "request_id", GetRequestID(r), "error", err)
		writeAppError(w, err)
		return
	}

	out, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, out.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Data); err != nil {
		h.logger.Warn("Failed to write presentation", "request_id", GetRequestID(r), "error", err)
	}
}

func (h *PresentationHandler) parseRequest(r *http.Request) (*domain.GenerationRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return h.parseMultipart(r)
	}
	return h.parseJSON(r)
}

func (h *PresentationHandler) parseJSON(r *http.Request) (*domain.GenerationRequest, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		if isTooLarge(err) {
			return nil, tooLargeError(h.maxBytes)
		}
		return nil, apperrors.NewValidationError("invalid request body", err.Error())
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, apperrors.NewValidationError("invalid request body", "a JSON object is required")
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return nil, apperrors.NewValidationError("invalid request body", "a JSON object is required")
	}

	req := &domain.GenerationRequest{}
	if rawName, ok := body["template"]; ok && string(rawName) != "null" {
		if err := json.Unmarshal(rawName, &req.Template.Name); err != nil {
			return nil, apperrors.NewValidationError("invalid request body", "template: must be a string")
		}
	}

	slides, err := domain.ParseSlides(body["slides"])
	if err != nil {
		return nil, apperrors.NewValidationError("invalid request body", err.Error())
	}
	req.Slides = slides
	return req, nil
}

func (h *PresentationHandler) parseMultipart(r *http.Request) (*domain.GenerationRequest, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if isTooLarge(err) {
			return nil, tooLargeError(h.maxBytes)
		}
		return nil, apperrors.NewValidationError("invalid multipart form", err.Error())
	}
	defer r.MultipartForm.RemoveAll()

	req := &domain.GenerationRequest{}

	file, header, err := r.FormFile("template_file")
	switch {
	case err == nil:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid multipart form", err.Error())
		}
		req.Template = domain.TemplateSource{Name: filepath.Base(header.Filename), Data: data}
	case err == http.ErrMissingFile:
		req.Template.Name = strings.TrimSpace(r.FormValue("template"))
	default:
		return nil, apperrors.NewValidationError("invalid multipart form", err.Error())
	}

	if slidesData := strings.TrimSpace(r.FormValue("slides_data")); slidesData != "" {
		if !json.Valid([]byte(slidesData)) {
			return nil, apperrors.NewValidationError("invalid request body", "slides_data: must be valid JSON")
		}
		slides, err := domain.ParseSlides(json.RawMessage(slidesData))
		if err != nil {
			return nil, apperrors.NewValidationError("invalid request body", err.Error())
		}
		req.Slides = slides
	} else {
		req.Slides = []domain.SlideContent{}
	}
	return req, nil
}
