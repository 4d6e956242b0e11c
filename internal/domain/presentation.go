package domain

import (
	"encoding/json"
	"fmt"
)

// PresentationContentType is the MIME type of generated decks.
const PresentationContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// SlideContent is one title/body pair to append as a new slide.
type SlideContent struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// TemplateSource names a template in the template directory or carries uploaded bytes.
// Exactly one of Name or Data is used; Data wins when non-nil.
type TemplateSource struct {
	Name string
	Data []byte
}

// IsUpload reports whether the template was uploaded with the request.
func (s TemplateSource) IsUpload() bool {
	return s.Data != nil
}

// GenerationRequest is the input of a generate call.
type GenerationRequest struct {
	Template TemplateSource
	Slides   []SlideContent
}

// GeneratedPresentation is a serialized deck ready to be sent to the client.
type GeneratedPresentation struct {
	Filename    string
	ContentType string
	Data        []byte
	SlideCount  int
}

// ParseSlides decodes the raw "slides" field. Absent or null means no slides;
// anything other than an array of objects with string title/body is rejected.
func ParseSlides(raw json.RawMessage) ([]SlideContent, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []SlideContent{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &ValidationError{Field: "slides", Message: "must be a list"}
	}

	slides := make([]SlideContent, 0, len(items))
	for i, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			return nil, &ValidationError{Field: fmt.Sprintf("slides[%d]", i), Message: "must be an object"}
		}
		title, err := optionalString(fields, "title")
		if err != nil {
			return nil, &ValidationError{Field: fmt.Sprintf("slides[%d].title", i), Message: err.Error()}
		}
		body, err := optionalString(fields, "body")
		if err != nil {
			return nil, &ValidationError{Field: fmt.Sprintf("slides[%d].body", i), Message: err.Error()}
		}
		slides = append(slides, SlideContent{Title: title, Body: body})
	}
	return slides, nil
}

func optionalString(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("must be a string")
	}
	return s, nil
}
