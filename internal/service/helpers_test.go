package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"sync"
	"testing"

	"pptx-generator/internal/domain"
	apperrors "pptx-generator/pkg/errors"
)

type MockLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		messages: []string{},
	}
}

func (m *MockLogger) record(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, line)
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.record("INFO: " + msg)
}

func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	m.record("ERROR: " + msg + " - " + err.Error())
}

func (m *MockLogger) Debug(msg string, args ...interface{}) {
	m.record("DEBUG: " + msg)
}

func (m *MockLogger) Warn(msg string, args ...interface{}) {
	m.record("WARN: " + msg)
}

// memTemplates is an in-memory TemplateRepository.
type memTemplates struct {
	files map[string][]byte
	err   error
}

func (m *memTemplates) Load(ctx context.Context, name string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	data, ok := m.files[name]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("template %q not found", name))
	}
	return data, nil
}

func (m *memTemplates) List(ctx context.Context) ([]domain.TemplateInfo, error) {
	out := make([]domain.TemplateInfo, 0, len(m.files))
	for name, data := range m.files {
		out = append(out, domain.TemplateInfo{Name: name, Size: int64(len(data))})
	}
	return out, nil
}

// deckShape is one shape of a slide as read back from a saved deck.
type deckShape struct {
	Placeholder string // placeholder type, "content" when untyped, "" for plain shapes
	Text        string
	X, Y        int64
	CX, CY      int64
}

// readDeck returns the shapes of every slide in presentation order.
func readDeck(t *testing.T, data []byte) [][]deckShape {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open deck: %v", err)
	}
	files := map[string]*zip.File{}
	for _, f := range zr.File {
		files[f.Name] = f
	}
	read := func(name string) []byte {
		f, ok := files[name]
		if !ok {
			t.Fatalf("deck has no part %s", name)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return raw
	}

	targets := map[string]string{}
	dec := xml.NewDecoder(bytes.NewReader(read("ppt/_rels/presentation.xml.rels")))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("parse presentation rels: %v", err)
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			targets[attr(se, "", "Id")] = attr(se, "", "Target")
		}
	}

	var slideParts []string
	dec = xml.NewDecoder(bytes.NewReader(read("ppt/presentation.xml")))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("parse presentation: %v", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sldId" {
			continue
		}
		for _, a := range se.Attr {
			if a.Name.Local == "id" && a.Name.Space != "" {
				target := targets[a.Value]
				if strings.HasPrefix(target, "/") {
					target = strings.TrimPrefix(target, "/")
				} else {
					target = path.Join("ppt", target)
				}
				slideParts = append(slideParts, target)
			}
		}
	}

	deck := make([][]deckShape, 0, len(slideParts))
	for _, part := range slideParts {
		deck = append(deck, readSlide(t, read(part)))
	}
	return deck
}

func readSlide(t *testing.T, raw []byte) []deckShape {
	t.Helper()

	var (
		shapes     []deckShape
		cur        *deckShape
		paragraphs []string
		inText     bool
		sawOffset  bool
	)
	dec := xml.NewDecoder(bytes.NewReader(raw))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("parse slide: %v", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "sp":
				cur = &deckShape{}
				paragraphs = nil
				sawOffset = false
			case "ph":
				if cur != nil {
					cur.Placeholder = attr(el, "", "type")
					if cur.Placeholder == "" {
						cur.Placeholder = "content"
					}
				}
			case "off":
				if cur != nil && !sawOffset {
					cur.X = atoi(attr(el, "", "x"))
					cur.Y = atoi(attr(el, "", "y"))
				}
			case "ext":
				if cur != nil && !sawOffset {
					cur.CX = atoi(attr(el, "", "cx"))
					cur.CY = atoi(attr(el, "", "cy"))
					sawOffset = true
				}
			case "p":
				if cur != nil {
					paragraphs = append(paragraphs, "")
				}
			case "t":
				inText = true
			}
		case xml.CharData:
			if inText && cur != nil && len(paragraphs) > 0 {
				paragraphs[len(paragraphs)-1] += string(el)
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "sp":
				if cur != nil {
					cur.Text = strings.Join(paragraphs, "\n")
					shapes = append(shapes, *cur)
					cur = nil
				}
			}
		}
	}
	return shapes
}

func attr(se xml.StartElement, space, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local && a.Name.Space == space {
			return a.Value
		}
	}
	return ""
}

func atoi(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func findShape(shapes []deckShape, placeholder string) (deckShape, bool) {
	for _, s := range shapes {
		if s.Placeholder == placeholder {
			return s, true
		}
	}
	return deckShape{}, false
}
