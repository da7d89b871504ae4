package document

import (
	"context"
	"time"

	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/eval/template"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/layout"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/resume"
	"go.uber.org/zap"
)

// Request describes one document to build.
type Request struct {
	Format   Format
	Template string
	Data     template.Context
	Plan     *resume.GrowthPlan
}

// Result holds a built document.
type Result struct {
	Format      Format
	Bytes       []byte
	ContentType string
	Layout      *layout.Plan
}

// Service builds documents in every supported format.
type Service struct {
	HTML   *HTMLBuilder
	PDF    *PDFBuilder
	DOCX   *DOCXBuilder
	XLSX   XLSXBuilder
	Logger *zap.Logger
}

// NewService wires the document builders around one template engine and
// layout planner.
// A nil pdfEngine leaves PDF output unavailable.
func NewService(source *TemplateSource, engine *template.Engine, pdfEngine PDFEngine, pdfOptions PDFOptions, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	html := NewHTMLBuilder(source, engine, logger)
	return &Service{
		HTML:   html,
		PDF:    &PDFBuilder{HTML: html, Engine: pdfEngine, Options: pdfOptions},
		DOCX:   NewDOCXBuilder(html.Planner, logger),
		Logger: logger,
	}
}

// Render builds the requested document
func (s *Service) Render(ctx context.Context, req Request) (*Result, error) {
	format := req.Format
	if format == "" {
		format = FormatHTML
	}
	start := time.Now()

	var (
		out  []byte
		plan *layout.Plan
		err  error
	)

	switch format {
	case FormatHTML:
		if req.Data == nil {
			return nil, NewError(KindValidation, "html output requires resume data", nil)
		}
		out, plan, err = s.HTML.Build(ctx, req.Data, req.Template)
	case FormatPDF:
		if req.Data == nil {
			return nil, NewError(KindValidation, "pdf output requires resume data", nil)
		}
		if s.PDF == nil {
			return nil, NewError(KindNotImpl, "pdf output is not configured", nil)
		}
		out, plan, err = s.PDF.Build(ctx, req.Data, req.Template)
	case FormatDOCX:
		if req.Data == nil {
			return nil, NewError(KindValidation, "docx output requires resume data", nil)
		}
		if s.DOCX == nil {
			return nil, NewError(KindNotImpl, "docx output is not configured", nil)
		}
		out, plan, err = s.DOCX.Build(ctx, req.Data)
	case FormatXLSX:
		out, err = s.XLSX.Build(ctx, req.Plan)
	default:
		return nil, NewError(KindValidation, "unsupported format: "+string(format), nil)
	}

	if err != nil {
		s.Logger.Error("document build failed",
			zap.String("format", string(format)),
			zap.String("kind", string(KindFromError(err))),
			zap.Error(err),
		)
		return nil, err
	}

	s.Logger.Info("document built",
		zap.String("format", string(format)),
		zap.Int("bytes", len(out)),
		zap.Duration("duration", time.Since(start)),
	)

	return &Result{
		Format:      format,
		Bytes:       out,
		ContentType: format.ContentType(),
		Layout:      plan,
	}, nil
}
