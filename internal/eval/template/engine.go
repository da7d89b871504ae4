package template

import (
	"fmt"
	"sync"

	"github.com/aymerick/raymond"
	"go.uber.org/zap"
)

// DefaultLintCacheSize bounds the lint results an Engine remembers
const DefaultLintCacheSize = 128

// Engine renders resume templates and reports unresolved directives to its logger
type Engine struct {
	logger *zap.Logger
	opts   Options
	lint   bool

	// lint results per template source; nil error means the template parsed
	cache     map[string]error
	cacheSize int
	mu        sync.RWMutex
}

// Option configures an Engine
type Option func(*Engine)

// WithEscapeHTML turns on HTML escaping of substituted variables
func WithEscapeHTML(escape bool) Option {
	return func(e *Engine) { e.opts.EscapeHTML = escape }
}

// WithMaxRewrites caps the block replacements of one render
func WithMaxRewrites(n int) Option {
	return func(e *Engine) { e.opts.MaxRewrites = n }
}

// WithMaxDepth caps recursive block rendering
func WithMaxDepth(n int) Option {
	return func(e *Engine) { e.opts.MaxDepth = n }
}

// WithLint validates every distinct template once with a Handlebars parser and
// logs the failures. Rendering output is unaffected. Results are cached by
// template text; once the cache holds WithLintCacheSize entries it is emptied, so
// inline templates that change on every call are re-parsed instead of piling up.
func WithLint(lint bool) Option {
	return func(e *Engine) { e.lint = lint }
}

// WithLintCacheSize caps the lint cache (default DefaultLintCacheSize)
func WithLintCacheSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.cacheSize = n
		}
	}
}

// NewEngine creates a new template engine
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := &Engine{
		logger:    logger,
		cache:     make(map[string]error),
		cacheSize: DefaultLintCacheSize,
	}
	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

// Render renders a template with the given data
func (e *Engine) Render(templateStr string, data Context) string {
	if e.lint {
		if err := e.Validate(templateStr); err != nil {
			e.logger.Warn("template failed handlebars validation", zap.Error(err))
		}
	}

	out, diagnostics := RenderWithDiagnostics(templateStr, data, e.opts)
	for _, d := range diagnostics {
		fields := []zap.Field{
			zap.String("kind", string(d.Kind)),
			zap.String("directive", d.Directive),
			zap.String("name", d.Name),
			zap.Int("offset", d.Offset),
		}
		if d.Kind == DiagMissingKey {
			e.logger.Debug("unresolved template key", fields...)
			continue
		}
		e.logger.Warn("unresolved template directive", fields...)
	}

	return out
}

// Validate checks a template against the Handlebars grammar.
// Unclosed or mismatched blocks are reported here even though Render tolerates them.
func (e *Engine) Validate(templateStr string) error {
	// Check cache first (read lock)
	e.mu.RLock()
	if err, ok := e.cache[templateStr]; ok {
		e.mu.RUnlock()
		return err
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	// Check again in case another goroutine parsed it
	if err, ok := e.cache[templateStr]; ok {
		return err
	}

	var err error
	if _, parseErr := raymond.Parse(templateStr); parseErr != nil {
		err = fmt.Errorf("parse error: %w", parseErr)
	}
	if len(e.cache) >= e.cacheSize {
		e.cache = make(map[string]error)
	}
	e.cache[templateStr] = err

	return err
}

// ClearCache clears the validation cache
func (e *Engine) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[string]error)
}
