package template

import (
	"html"
	"regexp"
	"strings"
)

const (
	// DefaultMaxRewrites bounds the block replacements of a single render
	DefaultMaxRewrites = 10000

	// DefaultMaxDepth bounds how deeply block bodies are rendered recursively
	DefaultMaxDepth = 64
)

// DiagnosticKind classifies a directive the engine could not resolve
type DiagnosticKind string

const (
	DiagUnmatchedBlock DiagnosticKind = "unmatched_block"
	DiagMissingKey     DiagnosticKind = "missing_key"
	DiagRewriteLimit   DiagnosticKind = "rewrite_limit"
	DiagDepthLimit     DiagnosticKind = "depth_limit"
)

// Diagnostic reports an unresolved directive. Offset is relative to the text
// being processed at the nesting level where it was found.
type Diagnostic struct {
	Kind      DiagnosticKind `json:"kind"`
	Directive string         `json:"directive"`
	Name      string         `json:"name,omitempty"`
	Offset    int            `json:"offset"`
}

// Options tunes a render. The zero value renders with the defaults.
type Options struct {
	EscapeHTML  bool
	MaxRewrites int
	MaxDepth    int
}

type blockKind struct {
	directive string
	opener    *regexp.Regexp
	openTag   string
	closeTag  string
}

var (
	eachBlock = blockKind{
		directive: "each",
		opener:    regexp.MustCompile(`\{\{#each\s+(\w+)\}\}`),
		openTag:   "{{#each",
		closeTag:  "{{/each}}",
	}
	ifBlock = blockKind{
		directive: "if",
		opener:    regexp.MustCompile(`\{\{#if\s+(\w+)\}\}`),
		openTag:   "{{#if",
		closeTag:  "{{/if}}",
	}

	// first inner character is neither '#' nor '/'
	variablePattern = regexp.MustCompile(`\{\{([^#/}][^}]*)\}\}`)
)

// Render substitutes every resolvable directive of tmpl against ctx.
// It never fails: unmatched blocks stay verbatim and missing keys render empty.
func Render(tmpl string, ctx Context) string {
	out, _ := RenderWithDiagnostics(tmpl, ctx, Options{})
	return out
}

// RenderWithDiagnostics renders like Render and also reports what it could not resolve.
// The output does not depend on whether diagnostics are inspected.
func RenderWithDiagnostics(tmpl string, ctx Context, opts Options) (string, []Diagnostic) {
	if opts.MaxRewrites <= 0 {
		opts.MaxRewrites = DefaultMaxRewrites
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if ctx == nil {
		ctx = Context{}
	}

	r := &renderer{opts: opts}
	out := r.process(tmpl, ctx, 0)
	return out, r.diagnostics
}

// renderer holds the per-call budget and collected diagnostics
type renderer struct {
	opts        Options
	rewrites    int
	exhausted   bool
	diagnostics []Diagnostic
}

// report records the first occurrence of each unresolved directive; an unmatched
// opener is seen again, possibly at a new offset, on every restart.
func (r *renderer) report(d Diagnostic) {
	for _, seen := range r.diagnostics {
		if seen.Kind == d.Kind && seen.Directive == d.Directive && seen.Name == d.Name {
			return
		}
	}
	r.diagnostics = append(r.diagnostics, d)
}

// process runs the each pass, then the if pass, restarting from the top after
// every replacement, and finishes with variable substitution.
func (r *renderer) process(text string, ctx Context, depth int) string {
	if depth > r.opts.MaxDepth {
		r.report(Diagnostic{Kind: DiagDepthLimit, Offset: 0})
		return r.substitute(text, ctx)
	}

	for !r.exhausted {
		if next, ok := r.rewrite(text, ctx, depth, eachBlock); ok {
			text = next
			continue
		}
		if next, ok := r.rewrite(text, ctx, depth, ifBlock); ok {
			text = next
			continue
		}
		break
	}

	return r.substitute(text, ctx)
}

// rewrite replaces the first opener of kind with its rendered block.
// It reports false when there is no opener or the first opener has no closer.
func (r *renderer) rewrite(text string, ctx Context, depth int, kind blockKind) (string, bool) {
	loc := kind.opener.FindStringSubmatchIndex(text)
	if loc == nil {
		return text, false
	}
	name := text[loc[2]:loc[3]]
	bodyStart := loc[1]

	end := findMatchingEnd(text, bodyStart, kind.openTag, kind.closeTag)
	if end < 0 {
		r.report(Diagnostic{Kind: DiagUnmatchedBlock, Directive: kind.directive, Name: name, Offset: loc[0]})
		return text, false
	}

	if r.rewrites >= r.opts.MaxRewrites {
		r.exhausted = true
		r.report(Diagnostic{Kind: DiagRewriteLimit, Directive: kind.directive, Name: name, Offset: loc[0]})
		return text, false
	}
	r.rewrites++

	body := text[bodyStart:end]
	value, found := ctx.Lookup(name)
	if !found {
		r.report(Diagnostic{Kind: DiagMissingKey, Directive: kind.directive, Name: name, Offset: loc[0]})
	}

	var replacement string
	switch kind.directive {
	case "each":
		replacement = r.renderEach(body, value, ctx, depth)
	default:
		if value.Truthy() {
			replacement = r.process(body, ctx, depth+1)
		}
	}

	return text[:loc[0]] + replacement + text[end+len(kind.closeTag):], true
}

func (r *renderer) renderEach(body string, value Value, ctx Context, depth int) string {
	items, ok := value.AsSeq()
	if !ok || len(items) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(r.process(body, ctx.child(item), depth+1))
	}
	return sb.String()
}

// substitute replaces the remaining simple variable directives
func (r *renderer) substitute(text string, ctx Context) string {
	matches := variablePattern.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		sb.WriteString(text[last:m[0]])
		key := strings.TrimSpace(text[m[2]:m[3]])
		value, found := ctx.Lookup(key)
		if !found {
			r.report(Diagnostic{Kind: DiagMissingKey, Directive: "variable", Name: key, Offset: m[0]})
		}
		s := value.String()
		if r.opts.EscapeHTML {
			s = html.EscapeString(s)
		}
		sb.WriteString(s)
		last = m[1]
	}
	sb.WriteString(text[last:])
	return sb.String()
}

// findMatchingEnd returns the index of the closer that balances an opener whose
// body starts at start, counting nested openers of the same kind. -1 when none.
func findMatchingEnd(text string, start int, openTag, closeTag string) int {
	depth := 1
	pos := start

	for depth > 0 && pos < len(text) {
		nextEnd := strings.Index(text[pos:], closeTag)
		if nextEnd < 0 {
			return -1
		}
		nextEnd += pos

		nextStart := strings.Index(text[pos:], openTag)
		if nextStart >= 0 {
			nextStart += pos
		}

		if nextStart >= 0 && nextStart < nextEnd {
			depth++
			pos = nextStart + len(openTag)
			continue
		}

		depth--
		if depth == 0 {
			return nextEnd
		}
		pos = nextEnd + len(closeTag)
	}

	return -1
}
