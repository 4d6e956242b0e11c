package domain

import "errors"

// Domain errors
var (
	ErrTemplateNotFound  = errors.New("template not found")
	ErrNoLayouts         = errors.New("template has no slide layouts")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrEmptyUpload       = errors.New("empty upload")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
