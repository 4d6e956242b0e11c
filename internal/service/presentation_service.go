package service

import (
	"bytes"
	"context"
	"fmt"

	"pptx-generator/internal/domain"
	apperrors "pptx-generator/pkg/errors"

	"baliance.com/gooxml/measurement"
	"baliance.com/gooxml/presentation"
	"baliance.com/gooxml/schema/soo/dml"
	"baliance.com/gooxml/schema/soo/pml"
)

const generatedFilename = "presentation.pptx"

// Free-floating text box used when a layout has no body placeholder.
var (
	fallbackBoxX      measurement.Distance = 1 * measurement.Inch
	fallbackBoxY      measurement.Distance = 1 * measurement.Inch
	fallbackBoxWidth  measurement.Distance = 8 * measurement.Inch
	fallbackBoxHeight measurement.Distance = 4.5 * measurement.Inch
)

// PresentationService fills PPTX templates with slide content
type PresentationService struct {
	templates       domain.TemplateRepository
	defaultTemplate string
	logger          domain.Logger
}

// NewPresentationService creates a new presentation service
func NewPresentationService(templates domain.TemplateRepository, defaultTemplate string, logger domain.Logger) *PresentationService {
	if defaultTemplate == "" {
		defaultTemplate = "default.pptx"
	}
	return &PresentationService{
		templates:       templates,
		defaultTemplate: defaultTemplate,
		logger:          logger,
	}
}

// Generate loads the requested template, appends one slide per record and
// returns the serialized deck.
func (s *PresentationService) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.GeneratedPresentation, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("invalid request", "request body is required")
	}

	data, templateName, err := s.loadTemplate(ctx, req.Template)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewInternalError("generation failed", err)
	}

	out, err := s.render(data, req.Slides)
	if err != nil {
		s.logger.Error("Failed to generate presentation", err, "template", templateName, "slides", len(req.Slides))
		return nil, err
	}

	s.logger.Info("Presentation generated",
		"template", templateName,
		"appended_slides", len(req.Slides),
		"total_slides", out.SlideCount,
		"bytes", len(out.Data),
	)
	return out, nil
}

func (s *PresentationService) loadTemplate(ctx context.Context, src domain.TemplateSource) ([]byte, string, error) {
	if src.IsUpload() {
		name := src.Name
		if name == "" {
			name = "upload"
		}
		return src.Data, name, nil
	}

	name := src.Name
	if name == "" {
		name = s.defaultTemplate
	}
	if err := domain.ValidateTemplateName(name); err != nil {
		return nil, name, apperrors.NewValidationError("invalid template name", err.Error())
	}

	data, err := s.templates.Load(ctx, name)
	if err != nil {
		if _, ok := apperrors.As(err); ok {
			return nil, name, err
		}
		return nil, name, apperrors.NewInternalError("generation failed", fmt.Errorf("load template %s: %w", name, err))
	}
	return data, name, nil
}

// render does all work on the document model. The model panics on some
// malformed inputs; those are reported like any other generation failure.
func (s *PresentationService) render(data []byte, slides []domain.SlideContent) (out *domain.GeneratedPresentation, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = apperrors.NewInternalError("generation failed", fmt.Errorf("presentation library panic: %v", r))
		}
	}()

	pres, err := presentation.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, apperrors.NewInternalError("generation failed", fmt.Errorf("open template: %w", err))
	}

	if len(slides) > 0 {
		layout, err := pickLayout(pres)
		if err != nil {
			return nil, apperrors.NewInternalError("generation failed", err)
		}
		if pres.X().SldIdLst == nil {
			pres.X().SldIdLst = pml.NewCT_SlideIdList()
		}

		for i, content := range slides {
			sld, err := pres.AddDefaultSlideWithLayout(layout)
			if err != nil {
				return nil, apperrors.NewInternalError("generation failed", fmt.Errorf("add slide %d: %w", i+1, err))
			}
			fillSlide(sld, content)
		}
	}

	var buf bytes.Buffer
	if err := pres.Save(&buf); err != nil {
		return nil, apperrors.NewInternalError("generation failed", fmt.Errorf("save presentation: %w", err))
	}

	return &domain.GeneratedPresentation{
		Filename:    generatedFilename,
		ContentType: domain.PresentationContentType,
		Data:        buf.Bytes(),
		SlideCount:  len(pres.Slides()),
	}, nil
}

// pickLayout returns the second layout when present, otherwise the first.
func pickLayout(pres *presentation.Presentation) (presentation.SlideLayout, error) {
	layouts := pres.SlideLayouts()
	switch {
	case len(layouts) == 0:
		return presentation.SlideLayout{}, domain.ErrNoLayouts
	case len(layouts) > 1:
		return layouts[1], nil
	default:
		return layouts[0], nil
	}
}

func fillSlide(sld presentation.Slide, content domain.SlideContent) {
	var (
		title   *presentation.PlaceHolder
		body    *presentation.PlaceHolder
		holders = sld.PlaceHolders()
	)
	for i := range holders {
		ph := &holders[i]
		switch {
		case isTitlePlaceholder(ph.Type()):
			if title == nil {
				title = ph
			}
		case isTextPlaceholder(ph.Type()):
			if body == nil {
				body = ph
			}
		}
	}

	if title != nil {
		setPlaceholderText(*title, content.Title)
	}

	if body != nil {
		setPlaceholderText(*body, content.Body)
		return
	}

	box := sld.AddTextBox()
	box.Properties().SetGeometry(dml.ST_ShapeTypeRect)
	box.Properties().SetPosition(fallbackBoxX, fallbackBoxY)
	box.Properties().SetSize(fallbackBoxWidth, fallbackBoxHeight)
	box.AddParagraph().AddRun().SetText(content.Body)
}

func setPlaceholderText(ph presentation.PlaceHolder, text string) {
	ph.ClearAll()
	ph.AddParagraph().AddRun().SetText(text)
}

func isTitlePlaceholder(t pml.ST_PlaceholderType) bool {
	return t == pml.ST_PlaceholderTypeTitle || t == pml.ST_PlaceholderTypeCtrTitle
}

// isTextPlaceholder reports whether a non-title placeholder accepts body text.
// An unset type is the generic content slot.
func isTextPlaceholder(t pml.ST_PlaceholderType) bool {
	switch t {
	case pml.ST_PlaceholderTypeTitle, pml.ST_PlaceholderTypeCtrTitle,
		pml.ST_PlaceholderTypePic, pml.ST_PlaceholderTypeChart, pml.ST_PlaceholderTypeTbl,
		pml.ST_PlaceholderTypeClipArt, pml.ST_PlaceholderTypeDgm, pml.ST_PlaceholderTypeMedia,
		pml.ST_PlaceholderTypeSldImg, pml.ST_PlaceholderTypeDt, pml.ST_PlaceholderTypeFtr,
		pml.ST_PlaceholderTypeSldNum:
		return false
	default:
		return true
	}
}
