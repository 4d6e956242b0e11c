package service

import (
	"context"
	"fmt"
	"strings"

	"pptx-generator/internal/domain"

	"baliance.com/gooxml/document"
)

// DOCXExtractor reads paragraph text from Word documents
type DOCXExtractor struct{}

// NewDOCXExtractor creates a new Word document extractor
func NewDOCXExtractor() *DOCXExtractor {
	return &DOCXExtractor{}
}

func (e *DOCXExtractor) Name() string { return "gooxml" }

func (e *DOCXExtractor) SupportsFormat(format domain.DocumentFormat) bool {
	return format == domain.FormatDOCX
}

// Extract joins the text of every paragraph with a newline.
func (e *DOCXExtractor) Extract(ctx context.Context, path string) (out *domain.ExtractedText, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("failed to parse document: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := document.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}

	paragraphs := doc.Paragraphs()
	lines := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		var sb strings.Builder
		for _, r := range p.Runs() {
			sb.WriteString(r.Text())
		}
		lines = append(lines, sb.String())
	}

	return &domain.ExtractedText{
		Text:   strings.Join(lines, "\n"),
		Format: domain.FormatDOCX,
		Engine: e.Name(),
	}, nil
}
