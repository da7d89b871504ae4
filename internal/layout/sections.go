package layout

import (
	"regexp"
	"strings"
)

var sectionOpen = regexp.MustCompile(`<!-- section:([\w-]+) -->`)

func sectionClose(name string) string {
	return "<!-- /section:" + name + " -->"
}

type sectionSpan struct {
	name       string
	start, end int
}

// ReorderSections rewrites the marked sections of html so they appear in order.
// Sections are delimited by <!-- section:NAME --> and <!-- /section:NAME -->;
// each keeps its markers and the slots they occupied are refilled in plan order.
// Sections missing from order keep their relative position after the ordered ones.
// html is returned unchanged when it has no markers, an unterminated marker or a
// section name used twice.
func ReorderSections(html string, order []string) string {
	spans, ok := findSections(html)
	if !ok || len(spans) < 2 {
		return html
	}

	byName := make(map[string]sectionSpan, len(spans))
	for _, s := range spans {
		byName[s.name] = s
	}

	arranged := make([]sectionSpan, 0, len(spans))
	placed := make(map[string]bool, len(spans))
	for _, name := range order {
		if s, exists := byName[name]; exists && !placed[name] {
			arranged = append(arranged, s)
			placed[name] = true
		}
	}
	for _, s := range spans {
		if !placed[s.name] {
			arranged = append(arranged, s)
		}
	}

	var sb strings.Builder
	sb.Grow(len(html))
	last := 0
	for i, slot := range spans {
		sb.WriteString(html[last:slot.start])
		sb.WriteString(html[arranged[i].start:arranged[i].end])
		last = slot.end
	}
	sb.WriteString(html[last:])
	return sb.String()
}

// SectionNames returns the top-level section names of html in document order
func SectionNames(html string) []string {
	spans, ok := findSections(html)
	if !ok {
		return nil
	}
	names := make([]string, len(spans))
	for i, s := range spans {
		names[i] = s.name
	}
	return names
}

// findSections returns the top-level sections in document order.
// Sections nested inside another are carried along with their parent.
func findSections(html string) ([]sectionSpan, bool) {
	var spans []sectionSpan
	seen := make(map[string]bool)
	pos := 0

	for pos < len(html) {
		loc := sectionOpen.FindStringSubmatchIndex(html[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		name := html[pos+loc[2] : pos+loc[3]]
		closer := sectionClose(name)

		idx := strings.Index(html[pos+loc[1]:], closer)
		if idx < 0 {
			return nil, false
		}
		end := pos + loc[1] + idx + len(closer)

		if seen[name] {
			return nil, false
		}
		seen[name] = true

		spans = append(spans, sectionSpan{name: name, start: start, end: end})
		pos = end
	}

	return spans, true
}
