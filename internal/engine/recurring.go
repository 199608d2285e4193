package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Laz627/life-rpg/internal/storage"
)

type AddRecurringInput struct {
	Description     string
	Attribute       string
	Subskill        string
	Difficulty      string
	ExplicitXP      int
	StressEffect    int
	IsNegativeHabit bool
	StartDate       string // defaults to today
	NumericValue    *float64
	NumericUnit     *string
}

// ListTasks returns a user's tasks for a day, first materializing any due
// recurring templates. Materialization is idempotent: a template stamps at
// most one task per day, keyed on the day's existing descriptions, so the
// read can be repeated freely.
func (s *Service) ListTasks(ctx context.Context, userID int64, date string) ([]storage.Task, error) {
	if date == "" {
		date = s.today()
	}
	if err := validDate(date); err != nil {
		return nil, err
	}

	defer s.lockUser(userID)()

	materialized := 0
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		tasks := storage.NewTaskRepo(tx)
		recur := storage.NewRecurringRepo(tx)

		due, err := recur.ListDueForDate(ctx, userID, date)
		if err != nil {
			return err
		}
		for _, rt := range due {
			exists, err := tasks.ExistsByDateDescription(ctx, userID, date, rt.Description)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			_, err = tasks.Insert(ctx, storage.TaskInsert{
				UserID:          userID,
				Date:            date,
				Description:     rt.Description,
				TaskType:        "recurring",
				AttributeID:     rt.AttributeID,
				SubskillID:      rt.SubskillID,
				XPGained:        rt.XPValue,
				StressEffect:    rt.StressEffect,
				IsNegativeHabit: rt.IsNegativeHabit,
				NumericValue:    rt.NumericValue,
				NumericUnit:     rt.NumericUnit,
			})
			if err != nil {
				return err
			}
			if err := recur.SetLastAdded(ctx, rt.ID, date); err != nil {
				return err
			}
			materialized++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if materialized > 0 {
		s.log.Debug("materialized recurring tasks",
			zap.Int64("user_id", userID),
			zap.String("date", date),
			zap.Int("count", materialized))
	}
	return s.tasks.ListByDate(ctx, userID, date)
}

func (s *Service) AddRecurringTask(ctx context.Context, userID int64, in AddRecurringInput) (int64, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return 0, fmt.Errorf("description is required: %w", ErrInvalidInput)
	}
	start := in.StartDate
	if start == "" {
		start = s.today()
	}
	if err := validDate(start); err != nil {
		return 0, err
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

	return s.recur.Insert(ctx, storage.RecurringInsert{
		UserID:          userID,
		Description:     desc,
		AttributeID:     attrID,
		SubskillID:      subID,
		XPValue:         xp,
		StressEffect:    in.StressEffect,
		IsNegativeHabit: in.IsNegativeHabit,
		StartDate:       start,
		NumericValue:    in.NumericValue,
		NumericUnit:     unit,
	})
}

func (s *Service) ListRecurringTasks(ctx context.Context, userID int64) ([]storage.RecurringTask, error) {
	return s.recur.ListByUser(ctx, userID)
}

// ToggleRecurringTask flips a template's active flag and returns the new
// state. Inactive templates stop materializing but keep their history.
func (s *Service) ToggleRecurringTask(ctx context.Context, userID, recurringID int64) (bool, error) {
	defer s.lockUser(userID)()

	rt, err := s.ownedRecurring(ctx, userID, recurringID)
	if err != nil {
		return false, err
	}
	if err := s.recur.SetActive(ctx, recurringID, !rt.IsActive); err != nil {
		return false, err
	}
	return !rt.IsActive, nil
}

// DeleteRecurringTask removes a template. Tasks it already materialized are
// not retroactively removed.
func (s *Service) DeleteRecurringTask(ctx context.Context, userID, recurringID int64) error {
	defer s.lockUser(userID)()

	if _, err := s.ownedRecurring(ctx, userID, recurringID); err != nil {
		return err
	}
	return s.recur.Delete(ctx, recurringID)
}

func (s *Service) ownedRecurring(ctx context.Context, userID, recurringID int64) (*storage.RecurringTask, error) {
	rt, err := s.recur.Get(ctx, recurringID)
	if err != nil {
		return nil, err
	}
	if rt == nil || rt.UserID != userID {
		return nil, fmt.Errorf("recurring task %d: %w", recurringID, ErrNotFound)
	}
	return rt, nil
}
