package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// StatRepo manages the denormalized per-(user, date) completion ledger. The
// cache serves calendar views; authoritative counts come from task scans.
type StatRepo struct {
	db DBTX
}

func NewStatRepo(db DBTX) *StatRepo {
	return &StatRepo{db: db}
}

func (r *StatRepo) Get(ctx context.Context, userID int64, date string) (*DailyStat, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, date, stress_level, tasks_completed, total_xp_gained
		FROM daily_stats WHERE user_id = ? AND date = ?
	`, userID, date)
	var s DailyStat
	if err := row.Scan(&s.ID, &s.UserID, &s.Date, &s.StressLevel, &s.TasksCompleted, &s.TotalXPGained); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("daily stat get: %w", err)
	}
	return &s, nil
}

// Accumulate increments the day's counters, creating the zeroed row on first
// completion for that date.
func (r *StatRepo) Accumulate(ctx context.Context, userID int64, date string, completedDelta, xpDelta int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO daily_stats (user_id, date, tasks_completed, total_xp_gained)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			tasks_completed = tasks_completed + excluded.tasks_completed,
			total_xp_gained = total_xp_gained + excluded.total_xp_gained
	`, userID, date, completedDelta, xpDelta)
	if err != nil {
		return fmt.Errorf("daily stat accumulate: %w", err)
	}
	return nil
}

func (r *StatRepo) Delete(ctx context.Context, userID int64, date string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM daily_stats WHERE user_id = ? AND date = ?`, userID, date)
	if err != nil {
		return fmt.Errorf("daily stat delete: %w", err)
	}
	return nil
}

// ListRange returns stats for start <= date < end, ordered by date.
func (r *StatRepo) ListRange(ctx context.Context, userID int64, start, end string) ([]DailyStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, date, stress_level, tasks_completed, total_xp_gained
		FROM daily_stats
		WHERE user_id = ? AND date >= ? AND date < ?
		ORDER BY date ASC
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("daily stat range: %w", err)
	}
	defer rows.Close()

	var out []DailyStat
	for rows.Next() {
		var s DailyStat
		if err := rows.Scan(&s.ID, &s.UserID, &s.Date, &s.StressLevel, &s.TasksCompleted, &s.TotalXPGained); err != nil {
			return nil, fmt.Errorf("daily stat scan: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("daily stat rows: %w", err)
	}
	return out, nil
}
