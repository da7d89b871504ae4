package layout

import (
	"context"
	"fmt"

	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/eval/cel"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/eval/template"
	"go.uber.org/zap"
)

// Resume sections a template can arrange
const (
	SectionSummary    = "summary"
	SectionEducation  = "education"
	SectionExperience = "experience"
	SectionProjects   = "projects"
	SectionSkills     = "skills"
	SectionOther      = "other"
)

// Sections lists every known section in template order
var Sections = []string{
	SectionSummary,
	SectionEducation,
	SectionExperience,
	SectionProjects,
	SectionSkills,
	SectionOther,
}

// Section order hints exposed to templates as _section_order_hint
const (
	HintEducationFirst  = "education_first"
	HintExperienceFirst = "experience_first"
)

// Path taken by a plan
const (
	PathRule     = "rule"
	PathFallback = "fallback"
)

// Config represents the layout rules for a template
type Config struct {
	Rules    []Rule `json:"rules,omitempty"`
	Fallback Rule   `json:"fallback"`
}

// Rule represents a CEL-based layout rule. The fallback rule has no condition.
type Rule struct {
	Condition string   `json:"condition,omitempty"`
	Order     []string `json:"order"`
	Hint      string   `json:"hint,omitempty"`
}

// Plan represents the result of a layout decision
type Plan struct {
	Order     []string `json:"order"`
	Hint      string   `json:"hint"`
	Reasoning string   `json:"reasoning"`
	PathTaken string   `json:"path_taken"` // "rule" or "fallback"
}

// FreshGraduateCondition matches resumes flagged as fresh graduates
const FreshGraduateCondition = "has(resume.is_fresh_graduate) && resume.is_fresh_graduate == true"

// DefaultConfig puts education before experience for fresh graduates and
// experience first for everyone else.
func DefaultConfig() *Config {
	return &Config{
		Rules: []Rule{
			{
				Condition: FreshGraduateCondition,
				Order: []string{
					SectionSummary, SectionEducation, SectionExperience,
					SectionProjects, SectionSkills, SectionOther,
				},
				Hint: HintEducationFirst,
			},
		},
		Fallback: Rule{
			Order: []string{
				SectionSummary, SectionExperience, SectionProjects,
				SectionEducation, SectionSkills, SectionOther,
			},
			Hint: HintExperienceFirst,
		},
	}
}

// Planner decides the section order of a resume
type Planner struct {
	celEvaluator *cel.Evaluator
	logger       *zap.Logger
}

// NewPlanner creates a new planner
func NewPlanner(logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		celEvaluator: cel.NewEvaluator(),
		logger:       logger,
	}
}

// Plan evaluates the rules in order against data. The first rule whose condition
// is true supplies the order; rules that fail or do not yield a bool are skipped.
// A nil config uses DefaultConfig.
func (p *Planner) Plan(ctx context.Context, data template.Context, config *Config) (*Plan, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := p.validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid layout config: %w", err)
	}

	vars := data.Interface()

	for i, rule := range config.Rules {
		p.logger.Debug("evaluating layout rule",
			zap.Int("rule_index", i),
			zap.String("condition", rule.Condition),
		)

		result, err := p.celEvaluator.EvaluateResume(ctx, rule.Condition, vars)
		if err != nil {
			p.logger.Warn("layout rule evaluation error",
				zap.Int("rule_index", i),
				zap.String("condition", rule.Condition),
				zap.Error(err),
			)
			continue
		}

		matched, ok := result.(bool)
		if !ok {
			p.logger.Warn("layout rule condition did not return boolean",
				zap.Int("rule_index", i),
				zap.String("condition", rule.Condition),
				zap.Any("result", result),
			)
			continue
		}

		if matched {
			p.logger.Debug("layout rule matched",
				zap.Int("rule_index", i),
				zap.String("hint", rule.Hint),
			)
			return &Plan{
				Order:     completeOrder(rule.Order),
				Hint:      rule.Hint,
				Reasoning: fmt.Sprintf("matched rule %d: %s", i, rule.Condition),
				PathTaken: PathRule,
			}, nil
		}
	}

	p.logger.Debug("no layout rules matched, using fallback",
		zap.String("hint", config.Fallback.Hint),
	)

	return &Plan{
		Order:     completeOrder(config.Fallback.Order),
		Hint:      config.Fallback.Hint,
		Reasoning: "no rules matched",
		PathTaken: PathFallback,
	}, nil
}

// validateConfig validates the layout configuration
func (p *Planner) validateConfig(config *Config) error {
	for i, rule := range config.Rules {
		if rule.Condition == "" {
			return fmt.Errorf("rule %d: condition is required", i)
		}
		if err := validateOrder(rule.Order); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}
	if config.Fallback.Condition != "" {
		return fmt.Errorf("fallback must not have a condition")
	}
	if err := validateOrder(config.Fallback.Order); err != nil {
		return fmt.Errorf("fallback: %w", err)
	}
	return nil
}

func validateOrder(order []string) error {
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if !isSection(name) {
			return fmt.Errorf("unknown section %q", name)
		}
		if seen[name] {
			return fmt.Errorf("duplicate section %q", name)
		}
		seen[name] = true
	}
	return nil
}

func isSection(name string) bool {
	for _, s := range Sections {
		if s == name {
			return true
		}
	}
	return false
}

// completeOrder appends the sections a rule left out, in template order
func completeOrder(order []string) []string {
	out := make([]string, 0, len(Sections))
	seen := make(map[string]bool, len(Sections))
	for _, name := range order {
		out = append(out, name)
		seen[name] = true
	}
	for _, name := range Sections {
		if !seen[name] {
			out = append(out, name)
		}
	}
	return out
}
