package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"pptx-generator/internal/domain"
	apperrors "pptx-generator/pkg/errors"

	"github.com/google/uuid"
)

const maxStoredNameLength = 100

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ExtractionService stores an upload in a temporary file and runs the
// extractor registered for its format.
type ExtractionService struct {
	uploadDir  string
	extractors []domain.TextExtractor
	logger     domain.Logger
}

// NewExtractionService creates a new extraction service
func NewExtractionService(uploadDir string, logger domain.Logger, extractors ...domain.TextExtractor) *ExtractionService {
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}
	return &ExtractionService{
		uploadDir:  uploadDir,
		extractors: extractors,
		logger:     logger,
	}
}

// ExtractUpload returns the plain text of an uploaded PDF or DOCX file. The
// temporary copy is removed before returning, whatever the outcome.
func (s *ExtractionService) ExtractUpload(ctx context.Context, filename string, file io.Reader) (*domain.ExtractedText, error) {
	name := sanitizeFilename(filename)
	format := domain.FormatFromFilename(name)
	extractor := s.extractorFor(format)
	if extractor == nil {
		ext := strings.ToLower(filepath.Ext(name))
		if ext == "" {
			ext = "(none)"
		}
		return nil, apperrors.NewUnsupportedTypeError("unsupported file type", fmt.Sprintf("extension %s is not supported; use .pdf or .docx", ext))
	}

	info, err := s.saveUpload(name, file)
	if info != nil {
		defer s.removeTemp(info.Path)
	}
	if err != nil {
		if err == domain.ErrEmptyUpload {
			return nil, apperrors.NewValidationError("empty file", "uploaded file has no content")
		}
		return nil, apperrors.NewInternalError("extraction failed", err)
	}

	s.logger.Debug("Upload stored for extraction", "file", info.Filename, "size", info.Size, "format", string(format))

	result, err := extractor.Extract(ctx, info.Path)
	if err != nil {
		s.logger.Error("Text extraction failed", err, "file", filename, "format", string(format))
		return nil, apperrors.NewInternalError("extraction failed", err)
	}

	result.Text = sanitizeText(result.Text)
	if result.Format == domain.FormatUnknown {
		result.Format = format
	}

	s.logger.Info("Text extracted",
		"file", filename,
		"format", string(result.Format),
		"engine", result.Engine,
		"pages", result.PageCount,
		"chars", len(result.Text),
	)
	return result, nil
}

func (s *ExtractionService) extractorFor(format domain.DocumentFormat) domain.TextExtractor {
	if format == domain.FormatUnknown {
		return nil
	}
	for _, e := range s.extractors {
		if e.SupportsFormat(format) {
			return e
		}
	}
	return nil
}

// saveUpload copies the upload to uploadDir. The returned FileInfo is non-nil
// whenever a file was created, even if the copy failed.
func (s *ExtractionService) saveUpload(name string, file io.Reader) (*domain.FileInfo, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	id := uuid.New().String()
	info := &domain.FileInfo{
		ID:       id,
		Filename: id + "_" + name,
	}
	info.Path = filepath.Join(s.uploadDir, info.Filename)

	dst, err := os.OpenFile(info.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}

	n, copyErr := io.Copy(dst, file)
	closeErr := dst.Close()
	info.Size = n
	if copyErr != nil {
		return info, fmt.Errorf("failed to store upload: %w", copyErr)
	}
	if closeErr != nil {
		return info, fmt.Errorf("failed to store upload: %w", closeErr)
	}
	if n == 0 {
		return info, domain.ErrEmptyUpload
	}
	return info, nil
}

func (s *ExtractionService) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("Failed to remove temporary upload", "path", path, "error", err)
	}
}

// sanitizeFilename strips directory components and anything outside a
// conservative character set, keeping the extension.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	stem = strings.Trim(unsafeFilenameChars.ReplaceAllString(stem, "_"), "._")
	if len(stem) > maxStoredNameLength {
		stem = stem[:maxStoredNameLength]
	}
	if stem == "" {
		stem = "upload"
	}

	ext = strings.ToLower(unsafeFilenameChars.ReplaceAllString(ext, ""))
	if ext == "." {
		ext = ""
	}
	return stem + ext
}
