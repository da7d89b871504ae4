package document

import (
	"context"

	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/eval/template"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/layout"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/resume"
	"go.uber.org/zap"
)

// HTMLBuilder renders resume data into an HTML page
type HTMLBuilder struct {
	Source  *TemplateSource
	Engine  *template.Engine
	Planner *layout.Planner
	Layout  *layout.Config // nil uses layout.DefaultConfig
	Logger  *zap.Logger
}

// NewHTMLBuilder wires a builder with default layout rules
func NewHTMLBuilder(source *TemplateSource, engine *template.Engine, logger *zap.Logger) *HTMLBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTMLBuilder{
		Source:  source,
		Engine:  engine,
		Planner: layout.NewPlanner(logger),
		Logger:  logger,
	}
}

// Build plans the section order, applies it to the template and renders data
func (b *HTMLBuilder) Build(ctx context.Context, data template.Context, templateName string) ([]byte, *layout.Plan, error) {
	if b.Source == nil || b.Engine == nil || b.Planner == nil {
		return nil, nil, NewError(KindInternal, "html builder is not configured", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	tmpl, err := b.Source.Load(templateName)
	if err != nil {
		return nil, nil, err
	}

	plan, err := b.Planner.Plan(ctx, data, b.Layout)
	if err != nil {
		return nil, nil, NewError(KindValidation, "layout planning failed", err)
	}

	tmpl = layout.ReorderSections(tmpl, plan.Order)
	out := b.Engine.Render(tmpl, resume.Prepare(data, plan))

	b.Logger.Debug("html resume rendered",
		zap.String("template", TemplateFile(templateName)),
		zap.String("hint", plan.Hint),
		zap.Int("bytes", len(out)),
	)

	return []byte(out), plan, nil
}
