// Package template provides the substitution engine used to render HTML resumes.
//
// Templates mix literal text with three directives:
//
//	{{ key }}                      variable, whitespace inside the braces is ignored
//	{{#if key}} ... {{/if}}        conditional block
//	{{#each key}} ... {{/each}}    iteration block
//
// Blocks nest, including blocks of the same kind. Inside {{#each}} a mapping item
// exposes its fields as top-level keys, any other item is bound to {{this}}.
//
// Example usage:
//
//	data := template.NewContext(map[string]interface{}{
//	    "name":  "Ana",
//	    "title": "Engineer",
//	    "skills": []interface{}{"Go", "SQL"},
//	})
//
//	out := template.Render("Hi {{name}}{{#if title}}, {{title}}{{/if}}!", data)
//	// Output: Hi Ana, Engineer!
//
// Rendering never fails. A block opener without a matching closer is left in the
// output verbatim, and a missing or null key renders as the empty string. Use
// RenderWithDiagnostics, or an Engine with a logger, to find out what was left
// unresolved:
//
//	engine := template.NewEngine(logger, template.WithLint(true))
//	html := engine.Render(source, data)
//
// Values are not HTML-escaped unless the engine is built with WithEscapeHTML(true).
package template
