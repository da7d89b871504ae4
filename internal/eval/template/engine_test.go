package template

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedEngine(opts ...Option) (*Engine, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewEngine(zap.New(core), opts...), logs
}

func TestEngine_RenderMatchesPackageRender(t *testing.T) {
	engine, _ := newObservedEngine()
	ctx := NewContext(map[string]any{"name": "Ana", "items": []any{"a", "b"}})
	tmpl := "{{name}}:{{#each items}}{{this}}{{/each}}"

	assert.Equal(t, Render(tmpl, ctx), engine.Render(tmpl, ctx))
}

func TestEngine_LogsUnresolvedDirectives(t *testing.T) {
	engine, logs := newObservedEngine()

	out := engine.Render("{{#if open}}never closed {{typo}}", Context{})

	assert.Equal(t, "{{#if open}}never closed ", out)

	warnings := logs.FilterMessage("unresolved template directive").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, zapcore.WarnLevel, warnings[0].Level)
	assert.Equal(t, string(DiagUnmatchedBlock), warnings[0].ContextMap()["kind"])

	missing := logs.FilterMessage("unresolved template key").All()
	require.Len(t, missing, 1)
	assert.Equal(t, zapcore.DebugLevel, missing[0].Level)
	assert.Equal(t, "typo", missing[0].ContextMap()["name"])
}

func TestEngine_EscapeHTMLOption(t *testing.T) {
	engine := NewEngine(nil, WithEscapeHTML(true))

	out := engine.Render("<p>{{bio}}</p>", NewContext(map[string]any{"bio": "<script>x</script>"}))

	assert.Equal(t, "<p>&lt;script&gt;x&lt;/script&gt;</p>", out)
}

func TestEngine_Validate(t *testing.T) {
	engine := NewEngine(nil)

	require.NoError(t, engine.Validate("Hi {{name}}{{#each items}}{{this}}{{/each}}"))
	require.Error(t, engine.Validate("{{#each items}}never closed"))

	// cached result is stable
	require.Error(t, engine.Validate("{{#each items}}never closed"))

	engine.ClearCache()
	require.NoError(t, engine.Validate("{{#if a}}x{{/if}}"))
}

func TestEngine_LintCacheIsBounded(t *testing.T) {
	engine := NewEngine(nil, WithLint(true), WithLintCacheSize(3))

	for i := 0; i < 10; i++ {
		tmpl := fmt.Sprintf("<p>%d {{name}}</p>", i)
		assert.Equal(t, fmt.Sprintf("<p>%d Ana</p>", i), engine.Render(tmpl, NewContext(map[string]any{"name": "Ana"})))
		assert.LessOrEqual(t, len(engine.cache), 3)
	}

	require.Error(t, engine.Validate("{{#if a}}open"))
	assert.LessOrEqual(t, len(engine.cache), 3)
}

func TestEngine_LintWarnsWithoutChangingOutput(t *testing.T) {
	engine, logs := newObservedEngine(WithLint(true))
	ctx := NewContext(map[string]any{"x": []any{"1"}})

	out := engine.Render("{{#each x}}body", ctx)

	assert.Equal(t, "{{#each x}}body", out)
	assert.Equal(t, 1, logs.FilterMessage("template failed handlebars validation").Len())
}
