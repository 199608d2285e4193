package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type RecurringRepo struct {
	db DBTX
}

func NewRecurringRepo(db DBTX) *RecurringRepo {
	return &RecurringRepo{db: db}
}

type RecurringInsert struct {
	UserID          int64
	Description     string
	AttributeID     *int64
	SubskillID      *int64
	XPValue         int
	StressEffect    int
	IsNegativeHabit bool
	StartDate       string
	NumericValue    *float64
	NumericUnit     *string
}

const recurringColumns = `recurring_task_id, user_id, description, attribute_id, subskill_id,
	xp_value, stress_effect, is_negative_habit, start_date, last_added_date, is_active,
	numeric_value, numeric_unit`

func (r *RecurringRepo) Insert(ctx context.Context, in RecurringInsert) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO recurring_tasks (
			user_id, description, attribute_id, subskill_id, xp_value, stress_effect,
			is_negative_habit, start_date, is_active, numeric_value, numeric_unit
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`, in.UserID, in.Description, in.AttributeID, in.SubskillID, in.XPValue, in.StressEffect,
		boolToInt(in.IsNegativeHabit), in.StartDate, in.NumericValue, in.NumericUnit)
	if err != nil {
		return 0, fmt.Errorf("recurring insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("recurring last insert id: %w", err)
	}
	return id, nil
}

func (r *RecurringRepo) Get(ctx context.Context, id int64) (*RecurringTask, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recurringColumns+` FROM recurring_tasks WHERE recurring_task_id = ?`, id)
	return scanRecurringRow(row)
}

func (r *RecurringRepo) FirstByDescription(ctx context.Context, userID int64, description string) (*RecurringTask, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recurringColumns+` FROM recurring_tasks
		WHERE user_id = ? AND description = ?
		ORDER BY recurring_task_id ASC LIMIT 1
	`, userID, description)
	return scanRecurringRow(row)
}

// ListDueForDate returns active templates whose start_date is on or before
// the given day, the candidates for materialization.
func (r *RecurringRepo) ListDueForDate(ctx context.Context, userID int64, date string) ([]RecurringTask, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recurringColumns+` FROM recurring_tasks
		WHERE user_id = ? AND is_active = 1 AND start_date <= ?
		ORDER BY recurring_task_id ASC
	`, userID, date)
	if err != nil {
		return nil, fmt.Errorf("recurring due list: %w", err)
	}
	return collectRecurring(rows)
}

func (r *RecurringRepo) ListByUser(ctx context.Context, userID int64) ([]RecurringTask, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recurringColumns+` FROM recurring_tasks
		WHERE user_id = ?
		ORDER BY is_active DESC, description ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("recurring list: %w", err)
	}
	return collectRecurring(rows)
}

func (r *RecurringRepo) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE recurring_tasks SET is_active = ? WHERE recurring_task_id = ?`, boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("recurring set active: %w", err)
	}
	return nil
}

func (r *RecurringRepo) SetLastAdded(ctx context.Context, id int64, date string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE recurring_tasks SET last_added_date = ? WHERE recurring_task_id = ?`, date, id)
	if err != nil {
		return fmt.Errorf("recurring set last added: %w", err)
	}
	return nil
}

// Delete removes the template only; already-materialized task instances
// survive.
func (r *RecurringRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM recurring_tasks WHERE recurring_task_id = ?`, id)
	if err != nil {
		return fmt.Errorf("recurring delete: %w", err)
	}
	return nil
}

func scanRecurringRow(row scanner) (*RecurringTask, error) {
	var (
		rt         RecurringTask
		attrID     sql.NullInt64
		subID      sql.NullInt64
		isNegative int
		lastAdded  sql.NullString
		isActive   int
		numValue   sql.NullFloat64
		numUnit    sql.NullString
	)

	if err := row.Scan(
		&rt.ID, &rt.UserID, &rt.Description, &attrID, &subID,
		&rt.XPValue, &rt.StressEffect, &isNegative, &rt.StartDate, &lastAdded, &isActive,
		&numValue, &numUnit,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("recurring scan: %w", err)
	}

	if attrID.Valid {
		v := attrID.Int64
		rt.AttributeID = &v
	}
	if subID.Valid {
		v := subID.Int64
		rt.SubskillID = &v
	}
	rt.IsNegativeHabit = isNegative != 0
	if lastAdded.Valid {
		v := lastAdded.String
		rt.LastAddedDate = &v
	}
	rt.IsActive = isActive != 0
	if numValue.Valid {
		v := numValue.Float64
		rt.NumericValue = &v
	}
	if numUnit.Valid {
		v := numUnit.String
		rt.NumericUnit = &v
	}
	return &rt, nil
}

func collectRecurring(rows *sql.Rows) ([]RecurringTask, error) {
	defer rows.Close()

	var out []RecurringTask
	for rows.Next() {
		rt, err := scanRecurringRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recurring rows: %w", err)
	}
	return out, nil
}
