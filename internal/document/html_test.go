package document

import (
	"context"
	"strings"
	"testing"

	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/eval/template"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResume(fresh bool) template.Context {
	return template.NewContext(map[string]any{
		"name":              "李明",
		"title":             "后端工程师",
		"phone":             "13800000000",
		"email":             "liming@example.com",
		"is_fresh_graduate": fresh,
		"summary":           "热爱技术",
		"experience": []any{
			map[string]any{
				"company":      "Company A",
				"position":     "Engineer",
				"period":       "2022-2024",
				"achievements": []any{"Shipped <v2>", "Cut latency 30%"},
			},
		},
		"education": []any{
			map[string]any{"school": "清华大学", "degree": "本科", "period": "2018-2022"},
		},
		"skills": []any{map[string]any{"category": "Languages", "items": "Go, SQL"}},
	})
}

func newTestHTMLBuilder(opts ...template.Option) *HTMLBuilder {
	return NewHTMLBuilder(NewTemplateSource(""), template.NewEngine(nil, opts...), nil)
}

func TestHTMLBuilder_ExperiencedLayout(t *testing.T) {
	out, plan, err := newTestHTMLBuilder().Build(context.Background(), sampleResume(false), "")
	require.NoError(t, err)

	html := string(out)
	assert.Equal(t, layout.HintExperienceFirst, plan.Hint)
	assert.Contains(t, html, `data-layout="experience_first"`)
	assert.Contains(t, html, "13800000000 | liming@example.com")
	assert.Contains(t, html, "<li>Cut latency 30%</li>")
	assert.NotContains(t, html, "{{")
	assert.NotContains(t, html, `id="projects"`)
	assert.Less(t, strings.Index(html, `id="experience"`), strings.Index(html, `id="education"`))
}

func TestHTMLBuilder_FreshGraduateLayout(t *testing.T) {
	out, plan, err := newTestHTMLBuilder().Build(context.Background(), sampleResume(true), "modern")
	require.NoError(t, err)

	html := string(out)
	assert.Equal(t, layout.HintEducationFirst, plan.Hint)
	assert.Less(t, strings.Index(html, `id="summary"`), strings.Index(html, `id="education"`))
	assert.Less(t, strings.Index(html, `id="education"`), strings.Index(html, `id="experience"`))
}

func TestHTMLBuilder_EscapeHTML(t *testing.T) {
	out, _, err := newTestHTMLBuilder(template.WithEscapeHTML(true)).Build(context.Background(), sampleResume(false), "")
	require.NoError(t, err)

	assert.Contains(t, string(out), "<li>Shipped &lt;v2&gt;</li>")
}

func TestHTMLBuilder_UnknownTemplate(t *testing.T) {
	_, _, err := newTestHTMLBuilder().Build(context.Background(), sampleResume(false), "classic")

	assert.Equal(t, KindNotFound, KindFromError(err))
}
