package cel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluator_EvaluateResume(t *testing.T) {
	evaluator := NewEvaluator()
	ctx := context.Background()

	data := map[string]interface{}{
		"name":              "李明",
		"is_fresh_graduate": true,
		"years":             3.0,
		"experience":        []interface{}{"a", "b"},
	}

	tests := []struct {
		name       string
		expression string
		want       interface{}
	}{
		{"bool field", "resume.is_fresh_graduate == true", true},
		{"presence", "has(resume.gpa)", false},
		{"list size", "size(resume.experience) == 2", true},
		{"double compare", "resume.years > 2.0", true},
		{"string", "resume.name", "李明"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := evaluator.EvaluateResume(ctx, tc.expression, data)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluator_MissingFieldIsAnError(t *testing.T) {
	evaluator := NewEvaluator()

	_, err := evaluator.EvaluateResume(context.Background(), "resume.is_fresh_graduate == true", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "evaluation failed")
}

func TestEvaluator_CompileError(t *testing.T) {
	evaluator := NewEvaluator()

	_, err := evaluator.EvaluateResume(context.Background(), "resume.name ==", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile expression")
	assert.Equal(t, 0, evaluator.CacheSize())
}

func TestEvaluator_Cache(t *testing.T) {
	evaluator := NewEvaluator()
	ctx := context.Background()
	data := map[string]interface{}{"x": true}

	for i := 0; i < 3; i++ {
		_, err := evaluator.EvaluateResume(ctx, "resume.x", data)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, evaluator.CacheSize())

	evaluator.ClearCache()
	assert.Equal(t, 0, evaluator.CacheSize())
}

func TestEvaluator_ValidateExpression(t *testing.T) {
	evaluator := NewEvaluator()

	assert.NoError(t, evaluator.ValidateExpression("resume.is_fresh_graduate == true"))
	assert.NoError(t, evaluator.ValidateExpression("resume.flag"))
	assert.Error(t, evaluator.ValidateExpression("1 + 2"))
	assert.Error(t, evaluator.ValidateExpression("unknown_var == 1"))
}
