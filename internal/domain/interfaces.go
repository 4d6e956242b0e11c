package domain

import (
	"context"
	"io"
)

// PresentationGenerator fills a template with slide content.
type PresentationGenerator interface {
	Generate(ctx context.Context, req *GenerationRequest) (*GeneratedPresentation, error)
}

// TextExtractor defines the strategy interface for text extraction
type TextExtractor interface {
	Extract(ctx context.Context, path string) (*ExtractedText, error)
	SupportsFormat(format DocumentFormat) bool
	Name() string
}

// DocumentExtractor accepts an upload and returns its plain text.
type DocumentExtractor interface {
	ExtractUpload(ctx context.Context, filename string, file io.Reader) (*ExtractedText, error)
}

// TemplateRepository resolves named templates.
type TemplateRepository interface {
	// Load returns the raw bytes of the named template. Missing templates are
	// reported as a NotFoundError.
	Load(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]TemplateInfo, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetTemplateDir() string
	GetDefaultTemplate() string
	GetUploadPath() string
	GetMaxFileSize() int64
	GetLogLevel() string
	GetPDFEngine() string
	GetAllowedOrigins() []string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetTemplateBucket() string
}
