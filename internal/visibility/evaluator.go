package visibility

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/talentflow/pipeline/internal/entities"
)

// IsVisible reports whether a question should currently be shown given the
// answer map. A question without a rule is always visible. A guarded
// question defaults to hidden until its controlling question has any answer
// at all, regardless of operator. Unknown operators fall back to visible
// rather than erroring, so a malformed rule never blanks a form.
func IsVisible(question entities.Question, answers map[string]any) bool {
	rule := question.VisibleIf
	if rule == nil {
		return true
	}

	answer, ok := answers[rule.QuestionID]
	if !ok || answer == nil || answer == "" {
		return false
	}

	switch rule.Operator {
	case entities.OpEq:
		return equals(answer, rule.Value)
	case entities.OpNeq:
		return !equals(answer, rule.Value)
	case entities.OpIncludes:
		return includes(answer, rule.Value)
	case entities.OpExcludes:
		return !includes(answer, rule.Value)
	default:
		return true
	}
}

// Filter returns the questions of a section that are currently visible,
// preserving order. O(n); meant to be called fresh on every answer change.
func Filter(questions []entities.Question, answers map[string]any) []entities.Question {
	visible := make([]entities.Question, 0, len(questions))
	for _, question := range questions {
		if IsVisible(question, answers) {
			visible = append(visible, question)
		}
	}
	return visible
}

// VisibleQuestions filters one section's questions.
func VisibleQuestions(section entities.Section, answers map[string]any) []entities.Question {
	return Filter(section.Questions, answers)
}

func equals(answer, value any) bool {
	if fa, ok := toFloat(answer); ok {
		if fv, ok := toFloat(value); ok {
			return fa == fv
		}
		return false
	}
	// DeepEqual instead of == so a multi-select answer compared against a
	// scalar is simply unequal rather than a panic.
	return reflect.DeepEqual(answer, value)
}

// includes does a membership test when the controlling answer is a
// multi-select array, and a substring test on the stringified values
// otherwise.
func includes(answer, value any) bool {
	switch arr := answer.(type) {
	case []any:
		for _, item := range arr {
			if equals(item, value) {
				return true
			}
		}
		return false
	case []string:
		for _, item := range arr {
			if equals(item, value) {
				return true
			}
		}
		return false
	default:
		return strings.Contains(stringify(answer), stringify(value))
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
