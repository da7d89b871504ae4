package resume

import (
	"strconv"
	"strings"
	"unicode"
)

// DefaultTimelineWeeks is used when a timeline cannot be parsed
const DefaultTimelineWeeks = 12

// GrowthPlan is an ability improvement plan toward a target position
type GrowthPlan struct {
	TargetPosition string  `json:"target_position"`
	Timeline       string  `json:"timeline"`
	Phases         []Phase `json:"phases"`
}

// Phase is one stage of a growth plan. Older plans name it with "phase".
type Phase struct {
	Title     string `json:"title,omitempty"`
	Phase     string `json:"phase,omitempty"`
	Milestone string `json:"milestone,omitempty"`
	Tasks     []Task `json:"tasks,omitempty"`
}

// Name returns the title, falling back to the phase field
func (p Phase) Name() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Phase
}

// Task is a unit of work inside a phase. Older plans name it with "name".
type Task struct {
	Task      string   `json:"task,omitempty"`
	Name      string   `json:"name,omitempty"`
	Deadline  string   `json:"deadline,omitempty"`
	Resources []string `json:"resources,omitempty"`
}

// Label returns the task text, falling back to the name field
func (t Task) Label() string {
	if t.Task != "" {
		return t.Task
	}
	return t.Name
}

// Weeks returns the plan duration in weeks
func (g *GrowthPlan) Weeks() int {
	return ParseTimelineWeeks(g.Timeline)
}

// WeeksPerPhase splits the duration evenly across phases, 4 when there are none
func (g *GrowthPlan) WeeksPerPhase() int {
	if len(g.Phases) == 0 {
		return 4
	}
	return g.Weeks() / len(g.Phases)
}

// PhaseWeeks returns the first and last week of the phase at index i (0-based)
func (g *GrowthPlan) PhaseWeeks(i int) (start, end int) {
	per := g.WeeksPerPhase()
	return i*per + 1, (i + 1) * per
}

// ParseTimelineWeeks converts "3个月", "3 months", "12周" or "12 weeks" into weeks.
// A month counts as four weeks. Anything else yields DefaultTimelineWeeks.
func ParseTimelineWeeks(timeline string) int {
	lower := strings.ToLower(timeline)

	var digits strings.Builder
	for _, r := range lower {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil || n <= 0 {
		return DefaultTimelineWeeks
	}

	switch {
	case strings.Contains(lower, "个月") || strings.Contains(lower, "month"):
		return n * 4
	case strings.Contains(lower, "周") || strings.Contains(lower, "week"):
		return n
	default:
		return DefaultTimelineWeeks
	}
}

// ResourceType guesses the kind of a learning resource from its name
func ResourceType(resource string) string {
	switch {
	case strings.Contains(resource, "Udemy") || strings.Contains(resource, "Coursera"):
		return "在线课程"
	case strings.Contains(resource, "《"):
		return "书籍"
	case strings.Contains(resource, "B站") || strings.Contains(resource, "YouTube"):
		return "视频"
	default:
		return "文档"
	}
}

func isBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
