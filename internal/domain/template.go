package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// TemplateInfo describes a template available by name.
type TemplateInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// ValidateTemplateName rejects names that would escape the template directory.
func ValidateTemplateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "template", Message: "must not be empty"}
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." || strings.Contains(name, "..") ||
		filepath.Base(name) != name {
		return &ValidationError{Field: "template", Message: "must be a bare file name"}
	}
	return nil
}
