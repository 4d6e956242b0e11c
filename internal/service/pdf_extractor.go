package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"pptx-generator/internal/domain"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

const (
	EngineMuPDF  = "mupdf"
	EngineNative = "native"

	defaultPageTimeout = 90 * time.Second
)

// pageDocument is the part of a go-fitz document the extractor uses.
type pageDocument interface {
	NumPage() int
	Text(pageNumber int) (string, error)
	Close() error
}

func openFitz(path string) (pageDocument, error) {
	return fitz.New(path)
}

// MuPDFExtractor extracts PDF text with MuPDF through go-fitz
type MuPDFExtractor struct {
	logger      domain.Logger
	pageTimeout time.Duration
	open        func(path string) (pageDocument, error)
}

// NewMuPDFExtractor creates a new MuPDF-backed extractor
func NewMuPDFExtractor(logger domain.Logger) *MuPDFExtractor {
	return &MuPDFExtractor{
		logger:      logger,
		pageTimeout: defaultPageTimeout,
		open:        openFitz,
	}
}

func (e *MuPDFExtractor) Name() string { return EngineMuPDF }

func (e *MuPDFExtractor) SupportsFormat(format domain.DocumentFormat) bool {
	return format == domain.FormatPDF
}

// Extract returns the text of every page joined with newlines. A page that
// fails or exceeds the page timeout contributes no text.
//
// MuPDF calls cannot be interrupted, so a page abandoned on timeout or
// cancellation keeps running; the document is closed only once every page
// call has returned.
func (e *MuPDFExtractor) Extract(ctx context.Context, path string) (*domain.ExtractedText, error) {
	doc, err := e.open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	var inflight sync.WaitGroup
	abandoned := false
	defer func() {
		if !abandoned {
			doc.Close()
			return
		}
		go func() {
			inflight.Wait()
			doc.Close()
		}()
	}()

	numPages := doc.NumPage()
	pages := make([]string, 0, numPages)

	type pageResult struct {
		text string
		err  error
	}

	for pageNum := 0; pageNum < numPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		e.logger.Debug("PDF processing page", "page", pageNum+1, "total", numPages)
		resultCh := make(chan pageResult, 1)
		inflight.Add(1)
		go func(idx int) {
			defer inflight.Done()
			t, err := doc.Text(idx)
			resultCh <- pageResult{text: t, err: err}
		}(pageNum)

		timer := time.NewTimer(e.pageTimeout)
		var res pageResult
		select {
		case res = <-resultCh:
			timer.Stop()
		case <-timer.C:
			abandoned = true
			e.logger.Warn("PDF page extraction timeout; using empty page", "page", pageNum+1, "total", numPages, "timeout_sec", int(e.pageTimeout.Seconds()))
			res.err = fmt.Errorf("timeout after %v", e.pageTimeout)
		case <-ctx.Done():
			timer.Stop()
			abandoned = true
			return nil, ctx.Err()
		}
		if res.err != nil {
			e.logger.Warn("Failed to extract text from page", "page_num", pageNum+1, "total", numPages, "error", res.err)
			continue
		}
		pages = append(pages, res.text)
	}

	return &domain.ExtractedText{
		Text:      joinNonEmpty(pages, "\n"),
		Format:    domain.FormatPDF,
		PageCount: numPages,
		Engine:    e.Name(),
	}, nil
}

// NativePDFExtractor is a pure Go extractor built on ledongthuc/pdf
type NativePDFExtractor struct {
	logger domain.Logger
}

// NewNativePDFExtractor creates a new pure Go PDF extractor
func NewNativePDFExtractor(logger domain.Logger) *NativePDFExtractor {
	return &NativePDFExtractor{logger: logger}
}

func (e *NativePDFExtractor) Name() string { return EngineNative }

func (e *NativePDFExtractor) SupportsFormat(format domain.DocumentFormat) bool {
	return format == domain.FormatPDF
}

func (e *NativePDFExtractor) Extract(ctx context.Context, path string) (out *domain.ExtractedText, err error) {
	// ledongthuc/pdf panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer f.Close()

	numPages := r.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pg := r.Page(i)
		if pg.V.IsNull() {
			continue
		}
		txt, err := pg.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("Failed to extract text from page", "page_num", i, "total", numPages, "error", err)
			continue
		}
		pages = append(pages, txt)
	}

	text := joinNonEmpty(pages, "\n")
	if text == "" && numPages > 0 {
		// some producers only work with the whole-document reader
		if whole, err := r.GetPlainText(); err == nil {
			if raw, err := io.ReadAll(whole); err == nil {
				text = strings.TrimSpace(string(raw))
			}
		}
	}

	return &domain.ExtractedText{
		Text:      text,
		Format:    domain.FormatPDF,
		PageCount: numPages,
		Engine:    e.Name(),
	}, nil
}

// ChainExtractor tries each engine in order until one succeeds
type ChainExtractor struct {
	engines []domain.TextExtractor
	logger  domain.Logger
}

// NewPDFExtractorChain orders the PDF engines so the preferred one runs first.
func NewPDFExtractorChain(preferred string, logger domain.Logger) *ChainExtractor {
	mupdf := NewMuPDFExtractor(logger)
	native := NewNativePDFExtractor(logger)
	if strings.EqualFold(preferred, EngineNative) {
		return NewChainExtractor(logger, native, mupdf)
	}
	return NewChainExtractor(logger, mupdf, native)
}

// NewChainExtractor creates a chain over the given engines
func NewChainExtractor(logger domain.Logger, engines ...domain.TextExtractor) *ChainExtractor {
	return &ChainExtractor{engines: engines, logger: logger}
}

func (c *ChainExtractor) Name() string {
	names := make([]string, len(c.engines))
	for i, e := range c.engines {
		names[i] = e.Name()
	}
	return strings.Join(names, ",")
}

func (c *ChainExtractor) SupportsFormat(format domain.DocumentFormat) bool {
	for _, e := range c.engines {
		if e.SupportsFormat(format) {
			return true
		}
	}
	return false
}

func (c *ChainExtractor) Extract(ctx context.Context, path string) (*domain.ExtractedText, error) {
	format := domain.FormatFromFilename(path)
	var lastErr error
	for _, e := range c.engines {
		if !e.SupportsFormat(format) {
			continue
		}
		out, err := e.Extract(ctx, path)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		c.logger.Warn("Extraction engine failed, trying next", "engine", e.Name(), "error", err)
		lastErr = err
	}
	if lastErr == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
	return nil, lastErr
}
