package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Laz627/life-rpg/internal/storage"
)

type AddTaskInput struct {
	Date        string // defaults to today
	Description string
	TaskType    string // defaults to "general"
	Attribute   string // catalog attribute name, optional
	Subskill    string // subskill name under the attribute, optional
	// Difficulty maps to XP (easy/medium/hard/extra_hard); ExplicitXP wins
	// when positive. Negative habits always get XP 0.
	Difficulty      string
	ExplicitXP      int
	StressEffect    int
	IsNegativeHabit bool
	NumericValue    *float64
	NumericUnit     *string
}

type CompleteResult struct {
	TaskID      int64
	WasSuccess  bool
	XPAwarded   int
	LevelBefore int
	LevelAfter  int
	LevelUp     bool
}

func (s *Service) AddTask(ctx context.Context, userID int64, in AddTaskInput) (int64, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return 0, fmt.Errorf("description is required: %w", ErrInvalidInput)
	}
	date := in.Date
	if date == "" {
		date = s.today()
	}
	if err := validDate(date); err != nil {
		return 0, err
	}

	taskType := in.TaskType
	if taskType == "" {
		taskType = "general"
	}

	xp := 0
	if !in.IsNegativeHabit {
		switch {
		case in.ExplicitXP > 0:
			xp = in.ExplicitXP
		default:
			var ok bool
			xp, ok = difficultyXP[strings.ToLower(strings.TrimSpace(in.Difficulty))]
			if !ok {
				xp = DefaultTaskXP
			}
		}
	}

	unit := in.NumericUnit
	if unit == nil && in.IsNegativeHabit {
		u := "occurrence"
		unit = &u
	}

	defer s.lockUser(userID)()

	attrID, subID, err := s.resolveAttributeRefs(ctx, userID, in.Attribute, in.Subskill)
	if err != nil {
		return 0, err
	}

	return s.tasks.Insert(ctx, storage.TaskInsert{
		UserID:          userID,
		Date:            date,
		Description:     desc,
		TaskType:        taskType,
		AttributeID:     attrID,
		SubskillID:      subID,
		XPGained:        xp,
		StressEffect:    in.StressEffect,
		IsNegativeHabit: in.IsNegativeHabit,
		NumericValue:    in.NumericValue,
		NumericUnit:     unit,
	})
}

// resolveAttributeRefs maps attribute/subskill names to row IDs. Unknown
// names resolve to no link, matching the forgiving creation behavior.
func (s *Service) resolveAttributeRefs(ctx context.Context, userID int64, attribute, subskill string) (*int64, *int64, error) {
	if attribute == "" {
		return nil, nil, nil
	}
	attr, err := s.attrs.GetByName(ctx, userID, attribute)
	if err != nil {
		return nil, nil, err
	}
	if attr == nil {
		return nil, nil, nil
	}
	attrID := attr.ID
	if subskill == "" {
		return &attrID, nil, nil
	}
	sub, err := s.attrs.GetSubskillByName(ctx, attr.ID, subskill)
	if err != nil {
		return nil, nil, err
	}
	if sub == nil {
		return &attrID, nil, nil
	}
	subID := sub.ID
	return &attrID, &subID, nil
}

// CompleteTask moves a pending task to completed, evaluates the per-kind
// success criterion against the logged value, grants rewards, couples
// negative habits to the Stress stat, and accumulates the day's ledger row.
// Already-completed and skipped tasks are a Conflict.
func (s *Service) CompleteTask(ctx context.Context, userID, taskID int64, logged *float64) (*CompleteResult, error) {
	defer s.lockUser(userID)()

	var res CompleteResult
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		tasks := storage.NewTaskRepo(tx)
		attrs := storage.NewAttributeRepo(tx)
		chars := storage.NewCharStatRepo(tx)
		stats := storage.NewStatRepo(tx)
		miles := storage.NewMilestoneRepo(tx)

		t, err := ownedTask(ctx, tasks, userID, taskID)
		if err != nil {
			return err
		}
		if t.IsCompleted || t.IsSkipped {
			return fmt.Errorf("task %d already completed or skipped: %w", taskID, ErrConflict)
		}

		success := EvaluateSuccess(t, logged)

		// For negative habits, record the outcome: true means the bad
		// behavior happened, false means it was avoided.
		var negDone *bool
		if t.IsNegativeHabit {
			v := !success
			negDone = &v
		}
		if err := tasks.MarkCompleted(ctx, taskID, logged, negDone); err != nil {
			return err
		}

		res = CompleteResult{TaskID: taskID, WasSuccess: success}

		if success {
			if err := s.grantReward(ctx, attrs, miles, t, &res); err != nil {
				return err
			}
			if t.IsNegativeHabit {
				if err := chars.Adjust(ctx, userID, storage.StressStat, -stressRelief); err != nil {
					return err
				}
			}
		} else if t.IsNegativeHabit && t.StressEffect != 0 {
			delta := t.StressEffect
			if delta < 0 {
				delta = -delta
			}
			if err := chars.Adjust(ctx, userID, storage.StressStat, delta); err != nil {
				return err
			}
		}

		// Every completion counts toward the day; only successful rewarded
		// ones add XP to the cached ledger.
		xpDelta := 0
		if success && !t.IsNegativeHabit {
			xpDelta = t.XPGained
		}
		return stats.Accumulate(ctx, userID, s.today(), 1, xpDelta)
	})
	if err != nil {
		return nil, err
	}

	if res.LevelUp {
		s.log.Info("level up",
			zap.Int64("user_id", userID),
			zap.Int64("task_id", taskID),
			zap.Int("level", res.LevelAfter))
	}
	return &res, nil
}

// grantReward adds the task's XP to its linked attribute and subskill and
// records a milestone when the attribute crosses a level boundary.
func (s *Service) grantReward(ctx context.Context, attrs *storage.AttributeRepo, miles *storage.MilestoneRepo, t *storage.Task, res *CompleteResult) error {
	res.XPAwarded = t.XPGained
	if t.XPGained <= 0 {
		return nil
	}

	if t.AttributeID != nil {
		attr, err := attrs.Get(ctx, *t.AttributeID)
		if err != nil {
			return err
		}
		if attr == nil {
			return fmt.Errorf("task %d attribute %d missing: %w", t.ID, *t.AttributeID, ErrInternal)
		}
		res.LevelBefore = LevelForXP(attr.CurrentXP)
		res.LevelAfter = LevelForXP(attr.CurrentXP + t.XPGained)
		if err := attrs.AddXP(ctx, attr.ID, t.XPGained); err != nil {
			return err
		}
		if res.LevelAfter > res.LevelBefore {
			res.LevelUp = true
			attrID := attr.ID
			_, err := miles.Insert(ctx, storage.MilestoneInsert{
				UserID:          t.UserID,
				Date:            s.today(),
				Title:           fmt.Sprintf("Reached Level %d in %s", res.LevelAfter, attr.Name),
				Description:     fmt.Sprintf("Your %s attribute advanced to level %d.", attr.Name, res.LevelAfter),
				AttributeID:     &attrID,
				AchievementType: "level_up",
			})
			if err != nil {
				return err
			}
		}
	}
	if t.SubskillID != nil {
		if err := attrs.AddSubskillXP(ctx, *t.SubskillID, t.XPGained); err != nil {
			return err
		}
	}
	return nil
}

// SkipTask moves a pending task to skipped. No XP or stat side effects.
func (s *Service) SkipTask(ctx context.Context, userID, taskID int64) error {
	defer s.lockUser(userID)()

	t, err := ownedTask(ctx, s.tasks, userID, taskID)
	if err != nil {
		return err
	}
	if t.IsCompleted || t.IsSkipped {
		return fmt.Errorf("task %d already completed or skipped: %w", taskID, ErrConflict)
	}
	return s.tasks.MarkSkipped(ctx, taskID)
}

// DeleteTask removes a task, first reversing the XP it granted: a completed
// non-negative-habit task with positive reward subtracts that amount back
// from its attribute and subskill, floored at zero. The day's cached
// DailyStat is deliberately left untouched; it records "ever completed".
func (s *Service) DeleteTask(ctx context.Context, userID, taskID int64) error {
	defer s.lockUser(userID)()

	return storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		tasks := storage.NewTaskRepo(tx)
		attrs := storage.NewAttributeRepo(tx)

		t, err := ownedTask(ctx, tasks, userID, taskID)
		if err != nil {
			return err
		}
		if t.IsCompleted && !t.IsNegativeHabit && t.XPGained > 0 {
			if t.AttributeID != nil {
				if err := attrs.AddXP(ctx, *t.AttributeID, -t.XPGained); err != nil {
					return err
				}
			}
			if t.SubskillID != nil {
				if err := attrs.AddSubskillXP(ctx, *t.SubskillID, -t.XPGained); err != nil {
					return err
				}
			}
		}
		return tasks.Delete(ctx, taskID)
	})
}
