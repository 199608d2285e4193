package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type TaskRepo struct {
	db DBTX
}

func NewTaskRepo(db DBTX) *TaskRepo {
	return &TaskRepo{db: db}
}

type TaskInsert struct {
	UserID          int64
	Date            string
	Description     string
	TaskType        string
	AttributeID     *int64
	SubskillID      *int64
	XPGained        int
	StressEffect    int
	IsNegativeHabit bool
	NumericValue    *float64
	NumericUnit     *string
}

const taskColumns = `task_id, user_id, date, description, task_type, attribute_id, subskill_id,
	xp_gained, stress_effect, is_completed, is_skipped, is_negative_habit,
	negative_habit_done, numeric_value, numeric_unit, logged_numeric_value`

func (r *TaskRepo) Insert(ctx context.Context, in TaskInsert) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (
			user_id, date, description, task_type, attribute_id, subskill_id,
			xp_gained, stress_effect, is_negative_habit, numeric_value, numeric_unit
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, in.UserID, in.Date, in.Description, in.TaskType, in.AttributeID, in.SubskillID,
		in.XPGained, in.StressEffect, boolToInt(in.IsNegativeHabit), in.NumericValue, in.NumericUnit)
	if err != nil {
		return 0, fmt.Errorf("task insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("task last insert id: %w", err)
	}
	return id, nil
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (*Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE task_id = ?`, id)
	return scanTaskRow(row)
}

// ListByDate returns a user's tasks for one calendar day, pending first.
func (r *TaskRepo) ListByDate(ctx context.Context, userID int64, date string) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = ? AND date = ?
		ORDER BY is_completed ASC, is_skipped ASC, task_id DESC
	`, userID, date)
	if err != nil {
		return nil, fmt.Errorf("task list by date: %w", err)
	}
	return collectTasks(rows)
}

// ExistsByDateDescription reports whether a task with the same description
// already exists for the day. Materialization idempotence keys on this.
func (r *TaskRepo) ExistsByDateDescription(ctx context.Context, userID int64, date, description string) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM tasks WHERE user_id = ? AND date = ? AND description = ? LIMIT 1
	`, userID, date, description)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("task exists: %w", err)
	}
	return true, nil
}

func (r *TaskRepo) MarkCompleted(ctx context.Context, id int64, logged *float64, negativeHabitDone *bool) error {
	var done *int
	if negativeHabitDone != nil {
		v := boolToInt(*negativeHabitDone)
		done = &v
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET is_completed = 1, logged_numeric_value = ?, negative_habit_done = ?
		WHERE task_id = ?
	`, logged, done, id)
	if err != nil {
		return fmt.Errorf("task mark completed: %w", err)
	}
	return nil
}

func (r *TaskRepo) MarkSkipped(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tasks SET is_skipped = 1 WHERE task_id = ?`, id)
	if err != nil {
		return fmt.Errorf("task mark skipped: %w", err)
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE task_id = ?`, id)
	if err != nil {
		return fmt.Errorf("task delete: %w", err)
	}
	return nil
}

func (r *TaskRepo) DeleteByDate(ctx context.Context, userID int64, date string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE user_id = ? AND date = ?`, userID, date)
	if err != nil {
		return 0, fmt.Errorf("task delete by date: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("task delete rows affected: %w", err)
	}
	return n, nil
}

// ListCompletedRewarded returns the day's completed non-negative-habit tasks,
// the set whose XP grants a day reset must reverse.
func (r *TaskRepo) ListCompletedRewarded(ctx context.Context, userID int64, date string) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = ? AND date = ? AND is_completed = 1 AND is_negative_habit = 0
		ORDER BY task_id ASC
	`, userID, date)
	if err != nil {
		return nil, fmt.Errorf("task list completed rewarded: %w", err)
	}
	return collectTasks(rows)
}

func (r *TaskRepo) CountCompleted(ctx context.Context, userID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM tasks WHERE user_id = ? AND is_completed = 1`, userID)
}

// CountNegativeHabit counts completed negative-habit tasks by recorded
// outcome (done = the bad behavior happened).
func (r *TaskRepo) CountNegativeHabit(ctx context.Context, userID int64, done bool) (int, error) {
	return r.count(ctx, `
		SELECT COUNT(*) FROM tasks
		WHERE user_id = ? AND is_completed = 1 AND is_negative_habit = 1 AND negative_habit_done = ?
	`, userID, boolToInt(done))
}

func (r *TaskRepo) CountSkippedOnDate(ctx context.Context, userID int64, date string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM tasks WHERE user_id = ? AND date = ? AND is_skipped = 1`, userID, date)
}

func (r *TaskRepo) CountPendingOnDate(ctx context.Context, userID int64, date string) (int, error) {
	return r.count(ctx, `
		SELECT COUNT(*) FROM tasks
		WHERE user_id = ? AND date = ? AND is_completed = 0 AND is_skipped = 0
	`, userID, date)
}

func (r *TaskRepo) count(ctx context.Context, query string, args ...any) (int, error) {
	row := r.db.QueryRowContext(ctx, query, args...)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("task count: %w", err)
	}
	return n, nil
}

// NumericStats aggregates logged values for one habit description over an
// inclusive date range.
func (r *TaskRepo) NumericStats(ctx context.Context, userID int64, description, start, end string) (total, avg float64, err error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(logged_numeric_value), 0), COALESCE(AVG(logged_numeric_value), 0)
		FROM tasks
		WHERE user_id = ? AND description = ? AND is_completed = 1
			AND logged_numeric_value IS NOT NULL AND date >= ? AND date <= ?
	`, userID, description, start, end)
	if err := row.Scan(&total, &avg); err != nil {
		return 0, 0, fmt.Errorf("task numeric stats: %w", err)
	}
	return total, avg, nil
}

// DistinctNumericDescriptions lists habit descriptions that carry a numeric
// unit, the candidates for trend reporting.
func (r *TaskRepo) DistinctNumericDescriptions(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT description FROM tasks
		WHERE user_id = ? AND numeric_unit IS NOT NULL
		ORDER BY description ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("task numeric descriptions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("task description scan: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task description rows: %w", err)
	}
	return out, nil
}

// FirstByDescription returns any task carrying the description, used to
// recover a habit's shape when no template exists.
func (r *TaskRepo) FirstByDescription(ctx context.Context, userID int64, description string) (*Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = ? AND description = ?
		ORDER BY task_id ASC LIMIT 1
	`, userID, description)
	return scanTaskRow(row)
}

// XPByDateForAttribute sums completed non-negative XP per day for one
// attribute, feeding the level-history replay.
func (r *TaskRepo) XPByDateForAttribute(ctx context.Context, userID, attributeID int64, start, end string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, COALESCE(SUM(xp_gained), 0) FROM tasks
		WHERE user_id = ? AND attribute_id = ? AND is_completed = 1 AND is_negative_habit = 0
			AND date >= ? AND date <= ?
		GROUP BY date
	`, userID, attributeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("task xp by date: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var date string
		var xp int
		if err := rows.Scan(&date, &xp); err != nil {
			return nil, fmt.Errorf("task xp scan: %w", err)
		}
		out[date] = xp
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task xp rows: %w", err)
	}
	return out, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTaskRow(row scanner) (*Task, error) {
	var (
		t           Task
		attrID      sql.NullInt64
		subID       sql.NullInt64
		isCompleted int
		isSkipped   int
		isNegative  int
		negDone     sql.NullInt64
		numValue    sql.NullFloat64
		numUnit     sql.NullString
		logged      sql.NullFloat64
	)

	if err := row.Scan(
		&t.ID, &t.UserID, &t.Date, &t.Description, &t.TaskType, &attrID, &subID,
		&t.XPGained, &t.StressEffect, &isCompleted, &isSkipped, &isNegative,
		&negDone, &numValue, &numUnit, &logged,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("task scan: %w", err)
	}

	if attrID.Valid {
		v := attrID.Int64
		t.AttributeID = &v
	}
	if subID.Valid {
		v := subID.Int64
		t.SubskillID = &v
	}
	t.IsCompleted = isCompleted != 0
	t.IsSkipped = isSkipped != 0
	t.IsNegativeHabit = isNegative != 0
	if negDone.Valid {
		v := negDone.Int64 != 0
		t.NegativeHabitDone = &v
	}
	if numValue.Valid {
		v := numValue.Float64
		t.NumericValue = &v
	}
	if numUnit.Valid {
		v := numUnit.String
		t.NumericUnit = &v
	}
	if logged.Valid {
		v := logged.Float64
		t.LoggedNumericValue = &v
	}
	return &t, nil
}

func collectTasks(rows *sql.Rows) ([]Task, error) {
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task rows: %w", err)
	}
	return out, nil
}
