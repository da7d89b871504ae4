package document

import (
	"context"
	"errors"

	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/eval/template"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/layout"
)

// DefaultMaxHTMLBytes guards the HTML handed to a PDF engine.
const DefaultMaxHTMLBytes int64 = 8 * 1024 * 1024

// PDFOptions controls page geometry. Lengths accept in, cm, mm, pt and px.
type PDFOptions struct {
	PageSize        string
	Landscape       bool
	PrintBackground *bool
	Scale           float64
	MarginTop       string
	MarginBottom    string
	MarginLeft      string
	MarginRight     string
}

// PDFRequest contains HTML input and options for PDF engines.
type PDFRequest struct {
	HTML    []byte
	Options PDFOptions
}

// PDFEngine renders HTML content into PDF bytes.
type PDFEngine interface {
	Render(ctx context.Context, req PDFRequest) ([]byte, error)
}

// PDFEngineFunc adapts a function to a PDFEngine.
type PDFEngineFunc func(ctx context.Context, req PDFRequest) ([]byte, error)

func (f PDFEngineFunc) Render(ctx context.Context, req PDFRequest) ([]byte, error) {
	if f == nil {
		return nil, errors.New("pdf engine func is nil")
	}
	return f(ctx, req)
}

// PDFBuilder renders the HTML resume and converts it to PDF.
type PDFBuilder struct {
	HTML         *HTMLBuilder
	Engine       PDFEngine
	Options      PDFOptions
	MaxHTMLBytes int64
}

// Build renders data through the HTML builder and the PDF engine
func (b *PDFBuilder) Build(ctx context.Context, data template.Context, templateName string) ([]byte, *layout.Plan, error) {
	if b.HTML == nil {
		return nil, nil, NewError(KindValidation, "pdf builder requires html builder", nil)
	}
	if b.Engine == nil {
		return nil, nil, NewError(KindNotImpl, "pdf engine is not configured", nil)
	}

	html, plan, err := b.HTML.Build(ctx, data, templateName)
	if err != nil {
		return nil, nil, err
	}

	limit := b.MaxHTMLBytes
	if limit <= 0 {
		limit = DefaultMaxHTMLBytes
	}
	if int64(len(html)) > limit {
		return nil, nil, NewError(KindValidation, "pdf builder max html bytes exceeded", nil)
	}

	pdf, err := b.Engine.Render(ctx, PDFRequest{HTML: html, Options: b.Options})
	if err != nil {
		return nil, nil, err
	}
	return pdf, plan, nil
}
