package service

import (
	"context"
	"testing"

	"pptx-generator/internal/domain"
	"pptx-generator/internal/skeleton"
	apperrors "pptx-generator/pkg/errors"

	"baliance.com/gooxml/schema/soo/pml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const emuPerInch = 914400

func buildTemplate(t *testing.T, opts skeleton.Options) []byte {
	t.Helper()
	data, err := skeleton.Build(opts)
	require.NoError(t, err)
	return data
}

func newGenerator(t *testing.T, files map[string][]byte) *PresentationService {
	t.Helper()
	return NewPresentationService(&memTemplates{files: files}, "default.pptx", NewMockLogger())
}

func TestPresentationService_EmptySlidesKeepsTemplate(t *testing.T) {
	tpl := buildTemplate(t, skeleton.Options{
		Layouts: []skeleton.Layout{skeleton.TitleSlideLayout(), skeleton.TitleAndContentLayout()},
		Slides:  []skeleton.Slide{{Text: "Cover"}, {Text: "Agenda"}},
	})
	svc := newGenerator(t, map[string][]byte{"deck.pptx": tpl})

	for _, slides := range [][]domain.SlideContent{nil, {}} {
		out, err := svc.Generate(context.Background(), &domain.GenerationRequest{
			Template: domain.TemplateSource{Name: "deck.pptx"},
			Slides:   slides,
		})
		require.NoError(t, err)

		assert.Equal(t, "presentation.pptx", out.Filename)
		assert.Equal(t, domain.PresentationContentType, out.ContentType)
		assert.Equal(t, 2, out.SlideCount)

		deck := readDeck(t, out.Data)
		require.Len(t, deck, 2)
		assert.Equal(t, "Cover", deck[0][0].Text)
		assert.Equal(t, "Agenda", deck[1][0].Text)
	}
}

func TestPresentationService_AppendsInOrderUsingSecondLayout(t *testing.T) {
	tpl := buildTemplate(t, skeleton.Options{
		Layouts: []skeleton.Layout{skeleton.TitleOnlyLayout(), skeleton.TitleAndContentLayout()},
		Slides:  []skeleton.Slide{{Text: "Existing"}},
	})
	svc := newGenerator(t, map[string][]byte{"deck.pptx": tpl})

	out, err := svc.Generate(context.Background(), &domain.GenerationRequest{
		Template: domain.TemplateSource{Name: "deck.pptx"},
		Slides: []domain.SlideContent{
			{Title: "One", Body: "first body"},
			{Title: "Two", Body: "second body"},
			{Title: "Three", Body: "third body"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, out.SlideCount)

	deck := readDeck(t, out.Data)
	require.Len(t, deck, 4)
	assert.Equal(t, "Existing", deck[0][0].Text)

	for i, want := range []struct{ title, body string }{
		{"One", "first body"},
		{"Two", "second body"},
		{"Three", "third body"},
	} {
		shapes := deck[i+1]

		title, ok := findShape(shapes, "title")
		require.True(t, ok, "slide %d has no title placeholder", i+2)
		assert.Equal(t, want.title, title.Text)

		body, ok := findShape(shapes, "content")
		require.True(t, ok, "slide %d has no content placeholder", i+2)
		assert.Equal(t, want.body, body.Text)

		_, hasBox := findShape(shapes, "")
		assert.False(t, hasBox, "body placeholder present, no text box expected")
	}
}

func TestPresentationService_SingleLayoutWithoutBodyUsesTextBox(t *testing.T) {
	tpl := buildTemplate(t, skeleton.Options{Layouts: []skeleton.Layout{skeleton.TitleOnlyLayout()}})
	svc := newGenerator(t, map[string][]byte{"default.pptx": tpl})

	out, err := svc.Generate(context.Background(), &domain.GenerationRequest{
		Slides: []domain.SlideContent{{Title: "Heading", Body: "free floating"}},
	})
	require.NoError(t, err)

	deck := readDeck(t, out.Data)
	require.Len(t, deck, 1)

	title, ok := findShape(deck[0], "title")
	require.True(t, ok)
	assert.Equal(t, "Heading", title.Text)

	box, ok := findShape(deck[0], "")
	require.True(t, ok, "expected a fallback text box")
	assert.Equal(t, "free floating", box.Text)
	assert.Equal(t, int64(emuPerInch), box.X)
	assert.Equal(t, int64(emuPerInch), box.Y)
	assert.Equal(t, int64(8*emuPerInch), box.CX)
	assert.Equal(t, int64(4.5*emuPerInch), box.CY)
}

func TestPresentationService_BlankLayoutSkipsTitle(t *testing.T) {
	tpl := buildTemplate(t, skeleton.Options{Layouts: []skeleton.Layout{skeleton.BlankLayout()}})
	svc := newGenerator(t, map[string][]byte{"blank.pptx": tpl})

	out, err := svc.Generate(context.Background(), &domain.GenerationRequest{
		Template: domain.TemplateSource{Name: "blank.pptx"},
		Slides:   []domain.SlideContent{{Title: "ignored", Body: "only body"}},
	})
	require.NoError(t, err)

	deck := readDeck(t, out.Data)
	require.Len(t, deck, 1)
	require.Len(t, deck[0], 1)
	assert.Equal(t, "", deck[0][0].Placeholder)
	assert.Equal(t, "only body", deck[0][0].Text)
}

func TestPresentationService_TitleOnlyLeavesBodyEmpty(t *testing.T) {
	tpl := buildTemplate(t, skeleton.Options{
		Layouts: []skeleton.Layout{skeleton.TitleSlideLayout(), skeleton.TitleAndContentLayout()},
	})
	svc := newGenerator(t, map[string][]byte{"deck.pptx": tpl})

	out, err := svc.Generate(context.Background(), &domain.GenerationRequest{
		Template: domain.TemplateSource{Name: "deck.pptx"},
		Slides:   []domain.SlideContent{{Title: "Just a title"}},
	})
	require.NoError(t, err)

	deck := readDeck(t, out.Data)
	require.Len(t, deck, 1)

	title, ok := findShape(deck[0], "title")
	require.True(t, ok)
	assert.Equal(t, "Just a title", title.Text)

	body, ok := findShape(deck[0], "content")
	require.True(t, ok)
	assert.Equal(t, "", body.Text)
}

func TestPresentationService_BodyOnlyWithoutTitlePlaceholder(t *testing.T) {
	noTitle := skeleton.Layout{Name: "Content Only", Placeholders: []skeleton.Placeholder{{Idx: 1}}}
	tpl := buildTemplate(t, skeleton.Options{Layouts: []skeleton.Layout{noTitle}})
	svc := newGenerator(t, map[string][]byte{"deck.pptx": tpl})

	out, err := svc.Generate(context.Background(), &domain.GenerationRequest{
		Template: domain.TemplateSource{Name: "deck.pptx"},
		Slides:   []domain.SlideContent{{Body: "body text"}},
	})
	require.NoError(t, err)

	deck := readDeck(t, out.Data)
	require.Len(t, deck, 1)

	_, hasTitle := findShape(deck[0], "title")
	assert.False(t, hasTitle)

	body, ok := findShape(deck[0], "content")
	require.True(t, ok)
	assert.Equal(t, "body text", body.Text)
}

func TestPresentationService_SkipsPicturePlaceholderForBody(t *testing.T) {
	layout := skeleton.Layout{Name: "Picture with Caption", Placeholders: []skeleton.Placeholder{
		{Type: "title"},
		{Type: "pic", Idx: 1},
		{Type: "body", Idx: 2},
	}}
	tpl := buildTemplate(t, skeleton.Options{Layouts: []skeleton.Layout{layout}})
	svc := newGenerator(t, map[string][]byte{"deck.pptx": tpl})

	out, err := svc.Generate(context.Background(), &domain.GenerationRequest{
		Template: domain.TemplateSource{Name: "deck.pptx"},
		Slides:   []domain.SlideContent{{Title: "Photo", Body: "caption"}},
	})
	require.NoError(t, err)

	deck := readDeck(t, out.Data)
	body, ok := findShape(deck[0], "body")
	require.True(t, ok)
	assert.Equal(t, "caption", body.Text)
}

func TestPresentationService_UploadedTemplate(t *testing.T) {
	tpl := buildTemplate(t, skeleton.DefaultOptions())
	svc := newGenerator(t, map[string][]byte{})

	out, err := svc.Generate(context.Background(), &domain.GenerationRequest{
		Template: domain.TemplateSource{Name: "mine.pptx", Data: tpl},
		Slides:   []domain.SlideContent{{Title: "Uploaded", Body: "works"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.SlideCount)
}

func TestPresentationService_Errors(t *testing.T) {
	svc := newGenerator(t, map[string][]byte{})

	tests := []struct {
		name     string
		req      *domain.GenerationRequest
		wantType apperrors.ErrorType
		wantMsg  string
	}{
		{
			name:     "nil request",
			req:      nil,
			wantType: apperrors.ErrorTypeValidation,
		},
		{
			name:     "unknown template",
			req:      &domain.GenerationRequest{Template: domain.TemplateSource{Name: "missing.pptx"}},
			wantType: apperrors.ErrorTypeNotFound,
			wantMsg:  "missing.pptx",
		},
		{
			name:     "path in template name",
			req:      &domain.GenerationRequest{Template: domain.TemplateSource{Name: "../secrets.pptx"}},
			wantType: apperrors.ErrorTypeValidation,
		},
		{
			name: "corrupt upload",
			req: &domain.GenerationRequest{
				Template: domain.TemplateSource{Name: "bad.pptx", Data: []byte("not a zip")},
				Slides:   []domain.SlideContent{{Title: "x"}},
			},
			wantType: apperrors.ErrorTypeInternal,
			wantMsg:  "generation failed",
		},
		{
			name: "empty upload",
			req: &domain.GenerationRequest{
				Template: domain.TemplateSource{Name: "empty.pptx", Data: []byte{}},
			},
			wantType: apperrors.ErrorTypeInternal,
			wantMsg:  "generation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svc.Generate(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, out)

			appErr, ok := apperrors.As(err)
			require.True(t, ok, "expected AppError, got %T", err)
			assert.Equal(t, tt.wantType, appErr.Type)
			if tt.wantMsg != "" {
				assert.Contains(t, appErr.Error(), tt.wantMsg)
			}
		})
	}
}

func TestPresentationService_CancelledContext(t *testing.T) {
	tpl := buildTemplate(t, skeleton.DefaultOptions())
	svc := newGenerator(t, map[string][]byte{"default.pptx": tpl})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, &domain.GenerationRequest{Slides: []domain.SlideContent{{Title: "late"}}})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}

func TestIsTextPlaceholder(t *testing.T) {
	text := []pml.ST_PlaceholderType{
		pml.ST_PlaceholderTypeUnset,
		pml.ST_PlaceholderTypeBody,
		pml.ST_PlaceholderTypeSubTitle,
		pml.ST_PlaceholderTypeObj,
	}
	for _, pt := range text {
		assert.True(t, isTextPlaceholder(pt), pt.String())
	}

	other := []pml.ST_PlaceholderType{
		pml.ST_PlaceholderTypeTitle,
		pml.ST_PlaceholderTypeCtrTitle,
		pml.ST_PlaceholderTypePic,
		pml.ST_PlaceholderTypeChart,
		pml.ST_PlaceholderTypeTbl,
		pml.ST_PlaceholderTypeDt,
		pml.ST_PlaceholderTypeFtr,
		pml.ST_PlaceholderTypeSldNum,
	}
	for _, pt := range other {
		assert.False(t, isTextPlaceholder(pt), pt.String())
	}
}
