// Package cel provides a CEL (Common Expression Language) evaluator for resume layout rules.
//
// CEL is a non-Turing complete expression language that provides fast, safe evaluation
// of conditions. The resume data is exposed as the map variable "resume".
//
// Example usage:
//
//	evaluator := cel.NewEvaluator()
//
//	data := map[string]interface{}{
//	    "is_fresh_graduate": true,
//	    "experience": []interface{}{},
//	}
//
//	result, err := evaluator.EvaluateResume(ctx, "resume.is_fresh_graduate == true", data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	matched := result.(bool) // true
//
// Supported operations:
//   - Comparisons: ==, !=, <, <=, >, >=
//   - Boolean logic: &&, ||, !
//   - Field presence: has(resume.field)
//   - List operations: in, size
//   - Map access: resume.field, resume["field"]
package cel
