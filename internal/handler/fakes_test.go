package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"testing"

	"pptx-generator/internal/domain"
)

type fakeGenerator struct {
	got *domain.GenerationRequest
	out *domain.GeneratedPresentation
	err error
}

func (f *fakeGenerator) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.GeneratedPresentation, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	if f.out != nil {
		return f.out, nil
	}
	return &domain.GeneratedPresentation{
		Filename:    "presentation.pptx",
		ContentType: domain.PresentationContentType,
		Data:        []byte("deck-bytes"),
	}, nil
}

type fakeExtractor struct {
	filename string
	content  []byte
	out      *domain.ExtractedText
	err      error
}

func (f *fakeExtractor) ExtractUpload(ctx context.Context, filename string, file io.Reader) (*domain.ExtractedText, error) {
	f.filename = filename
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	f.content = data
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

type fakeTemplates struct {
	infos []domain.TemplateInfo
	err   error
}

func (f *fakeTemplates) Load(ctx context.Context, name string) ([]byte, error) {
	return nil, f.err
}

func (f *fakeTemplates) List(ctx context.Context) ([]domain.TemplateInfo, error) {
	return f.infos, f.err
}

type formFile struct {
	field    string
	filename string
	content  []byte
}

// multipartBody encodes fields and files and returns the body with its content type.
func multipartBody(t *testing.T, fields map[string]string, files ...formFile) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(f.content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return body, mw.FormDataContentType()
}
