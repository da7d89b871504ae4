package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const markedTemplate = `<main>
<!-- section:summary -->S<!-- /section:summary -->
<!-- section:experience -->X<!-- /section:experience -->
<!-- section:projects -->P<!-- /section:projects -->
<!-- section:education -->E<!-- /section:education -->
</main>`

func TestReorderSections(t *testing.T) {
	out := ReorderSections(markedTemplate, DefaultConfig().Rules[0].Order)

	want := `<main>
<!-- section:summary -->S<!-- /section:summary -->
<!-- section:education -->E<!-- /section:education -->
<!-- section:experience -->X<!-- /section:experience -->
<!-- section:projects -->P<!-- /section:projects -->
</main>`
	assert.Equal(t, want, out)
	assert.Equal(t, []string{"summary", "education", "experience", "projects"}, SectionNames(out))
}

func TestReorderSections_AlreadyOrdered(t *testing.T) {
	order := []string{"summary", "experience", "projects", "education", "skills", "other"}

	assert.Equal(t, markedTemplate, ReorderSections(markedTemplate, order))
}

func TestReorderSections_UnlistedSectionsKeepRelativeOrder(t *testing.T) {
	out := ReorderSections(markedTemplate, []string{"education"})

	assert.Equal(t, []string{"education", "summary", "experience", "projects"}, SectionNames(out))
}

func TestReorderSections_NestedSectionsMoveWithParent(t *testing.T) {
	html := `<!-- section:a -->A<!-- section:inner -->I<!-- /section:inner --><!-- /section:a -->|<!-- section:b -->B<!-- /section:b -->`

	out := ReorderSections(html, []string{"b", "a"})

	assert.Equal(t, `<!-- section:b -->B<!-- /section:b -->|<!-- section:a -->A<!-- section:inner -->I<!-- /section:inner --><!-- /section:a -->`, out)
}

func TestReorderSections_Unchanged(t *testing.T) {
	order := []string{"education", "experience"}

	tests := []struct {
		name string
		html string
	}{
		{"no markers", "<p>{{name}}</p>"},
		{"single section", "<!-- section:education -->E<!-- /section:education -->"},
		{"unterminated", "<!-- section:experience -->X<!-- section:education -->E<!-- /section:education -->"},
		{"duplicate name", "<!-- section:education -->1<!-- /section:education --><!-- section:education -->2<!-- /section:education -->"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.html, ReorderSections(tc.html, order))
		})
	}
}
