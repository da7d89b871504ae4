// Package layout decides the order of resume sections and applies it to templates.
//
// Layout rules are CEL expressions over the resume data, evaluated in order.
// The first rule that evaluates to true supplies the section order, otherwise the
// fallback order applies. The default config reproduces the usual resume advice:
// fresh graduates lead with education, everyone else with work experience.
//
// Example:
//
//	config := &Config{
//	    Rules: []Rule{
//	        {Condition: "size(resume.experience) == 0", Order: []string{"summary", "education"}, Hint: "education_first"},
//	    },
//	    Fallback: Rule{Order: []string{"summary", "experience"}, Hint: "experience_first"},
//	}
//	plan, err := planner.Plan(ctx, data, config)
//	html = ReorderSections(html, plan.Order)
//
// Templates mark their sections with HTML comments:
//
//	<!-- section:education -->
//	...
//	<!-- /section:education -->
package layout
