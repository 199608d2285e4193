package engine

import "github.com/Laz627/life-rpg/internal/storage"

// TaskKind is the task-shape variant driving success evaluation.
type TaskKind int

const (
	// KindStandard always succeeds on completion.
	KindStandard TaskKind = iota
	// KindNumericGoal succeeds when a positive value was logged.
	KindNumericGoal
	// KindNegativeHabit is a behavior to avoid; staying at or under the
	// ceiling counts as success.
	KindNegativeHabit
)

// KindOf classifies a task. A numeric unit marks the numeric-goal shape;
// negative habits always carry one (defaulting to "occurrence" at creation).
func KindOf(t *storage.Task) TaskKind {
	if t.IsNegativeHabit {
		return KindNegativeHabit
	}
	if t.NumericUnit != nil {
		return KindNumericGoal
	}
	return KindStandard
}

// EvaluateSuccess applies the per-variant "was it actually accomplished"
// check to the logged value.
func EvaluateSuccess(t *storage.Task, logged *float64) bool {
	switch KindOf(t) {
	case KindNegativeHabit:
		ceiling := 0.0
		if t.NumericValue != nil {
			ceiling = *t.NumericValue
		}
		return logged != nil && *logged <= ceiling
	case KindNumericGoal:
		return logged != nil && *logged > 0
	default:
		return true
	}
}
