package resume

import (
	"strings"

	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/eval/template"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/layout"
)

// Keys added to the resume data before rendering
const (
	KeySectionOrderHint = "_section_order_hint"
	KeySectionOrder     = "_section_order"
	KeyContact          = "contact"
)

var contactFields = []string{"phone", "email", "location"}

// ContactLine joins the non-empty phone, email and location with " | "
func ContactLine(data template.Context) string {
	parts := make([]string, 0, len(contactFields))
	for _, key := range contactFields {
		v, ok := data.Lookup(key)
		if !ok || !v.Truthy() {
			continue
		}
		parts = append(parts, v.String())
	}
	return strings.Join(parts, " | ")
}

// Prepare returns a copy of data with the layout hints and derived fields set.
// The input is not modified; an existing contact value is kept.
func Prepare(data template.Context, plan *layout.Plan) template.Context {
	out := data.Clone()

	if plan != nil {
		out[KeySectionOrderHint] = template.String(plan.Hint)
		order := make([]template.Value, len(plan.Order))
		for i, name := range plan.Order {
			order[i] = template.String(name)
		}
		out[KeySectionOrder] = template.Seq(order...)
	}

	if _, ok := out[KeyContact]; !ok {
		if line := ContactLine(data); line != "" {
			out[KeyContact] = template.String(line)
		}
	}

	return out
}
