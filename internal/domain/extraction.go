package domain

import (
	"path/filepath"
	"strings"
)

// DocumentFormat identifies an extractable upload type.
type DocumentFormat string

const (
	FormatPDF     DocumentFormat = "pdf"
	FormatDOCX    DocumentFormat = "docx"
	FormatUnknown DocumentFormat = ""
)

// FormatFromFilename maps a file extension to a DocumentFormat.
func FormatFromFilename(name string) DocumentFormat {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	default:
		return FormatUnknown
	}
}

// ExtractedText is the plain text pulled out of an uploaded document.
type ExtractedText struct {
	Text      string         `json:"text"`
	Format    DocumentFormat `json:"format"`
	PageCount int            `json:"page_count,omitempty"`
	Engine    string         `json:"-"`
}

// FileInfo represents information about an uploaded file
type FileInfo struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Path     string `json:"path"`
}
