package visibility

import "github.com/talentflow/pipeline/internal/entities"

// RuleError describes a visibility rule the builder should not have saved.
type RuleError struct {
	QuestionID string
	Reason     string
}

func (e *RuleError) Error() string {
	return "invalid visibility rule on question " + e.QuestionID + ": " + e.Reason
}

// ValidateRules checks every visibility rule of an assessment at save time:
// the controlling question must exist, must not be the question itself, and
// rule chains must not form a cycle. The runtime evaluator stays permissive
// for data that predates this check; only saving is gated.
func ValidateRules(sections []entities.Section) error {
	dependsOn := map[string]string{}
	known := map[string]bool{}

	for _, section := range sections {
		for _, question := range section.Questions {
			known[question.ID] = true
			if question.VisibleIf != nil {
				dependsOn[question.ID] = question.VisibleIf.QuestionID
			}
		}
	}

	for id, target := range dependsOn {
		if id == target {
			return &RuleError{QuestionID: id, Reason: "rule references the question itself"}
		}
		if !known[target] {
			return &RuleError{QuestionID: id, Reason: "rule references unknown question " + target}
		}
	}

	// Walk each dependency chain; chains are single-edged so a plain
	// visited set per start node finds any cycle.
	for start := range dependsOn {
		seen := map[string]bool{start: true}
		current := start
		for {
			next, guarded := dependsOn[current]
			if !guarded {
				break
			}
			if seen[next] {
				return &RuleError{QuestionID: start, Reason: "rule chain forms a cycle"}
			}
			seen[next] = true
			current = next
		}
	}

	return nil
}
