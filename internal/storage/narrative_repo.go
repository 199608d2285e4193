package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type NarrativeRepo struct {
	db DBTX
}

func NewNarrativeRepo(db DBTX) *NarrativeRepo {
	return &NarrativeRepo{db: db}
}

func (r *NarrativeRepo) InsertProgress(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO narrative_progress (user_id) VALUES (?)`, userID)
	if err != nil {
		return fmt.Errorf("narrative progress insert: %w", err)
	}
	return nil
}

func (r *NarrativeRepo) GetProgress(ctx context.Context, userID int64) (*NarrativeProgress, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, current_location, main_quest, companions, recent_events, story_day, updated_at
		FROM narrative_progress WHERE user_id = ?
	`, userID)
	var p NarrativeProgress
	if err := row.Scan(&p.ID, &p.UserID, &p.CurrentLocation, &p.MainQuest, &p.Companions, &p.RecentEvents, &p.StoryDay, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("narrative progress get: %w", err)
	}
	return &p, nil
}

func (r *NarrativeRepo) UpdateProgress(ctx context.Context, p *NarrativeProgress) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE narrative_progress
		SET current_location = ?, main_quest = ?, companions = ?, recent_events = ?, story_day = ?, updated_at = ?
		WHERE user_id = ?
	`, p.CurrentLocation, p.MainQuest, p.Companions, p.RecentEvents, p.StoryDay, time.Now().UTC(), p.UserID)
	if err != nil {
		return fmt.Errorf("narrative progress update: %w", err)
	}
	return nil
}

func (r *NarrativeRepo) GetDaily(ctx context.Context, userID int64, date string) (*DailyNarrative, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, date, narrative FROM daily_narratives
		WHERE user_id = ? AND date = ?
	`, userID, date)
	var n DailyNarrative
	if err := row.Scan(&n.ID, &n.UserID, &n.Date, &n.Narrative); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("daily narrative get: %w", err)
	}
	return &n, nil
}

// LatestDaily returns the most recent entry, used as yesterday's context for
// the next generation.
func (r *NarrativeRepo) LatestDaily(ctx context.Context, userID int64) (*DailyNarrative, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, date, narrative FROM daily_narratives
		WHERE user_id = ? ORDER BY date DESC LIMIT 1
	`, userID)
	var n DailyNarrative
	if err := row.Scan(&n.ID, &n.UserID, &n.Date, &n.Narrative); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("latest narrative get: %w", err)
	}
	return &n, nil
}

// UpsertDaily stores the prose for a day, replacing any earlier generation.
func (r *NarrativeRepo) UpsertDaily(ctx context.Context, userID int64, date, narrative string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO daily_narratives (user_id, date, narrative) VALUES (?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET narrative = excluded.narrative
	`, userID, date, narrative)
	if err != nil {
		return fmt.Errorf("daily narrative upsert: %w", err)
	}
	return nil
}

func (r *NarrativeRepo) DeleteDaily(ctx context.Context, userID int64, date string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM daily_narratives WHERE user_id = ? AND date = ?`, userID, date)
	if err != nil {
		return fmt.Errorf("daily narrative delete: %w", err)
	}
	return nil
}

func (r *NarrativeRepo) ListDaily(ctx context.Context, userID int64, limit, offset int) ([]DailyNarrative, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, date, narrative FROM daily_narratives
		WHERE user_id = ? ORDER BY date DESC LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("daily narrative list: %w", err)
	}
	defer rows.Close()

	var out []DailyNarrative
	for rows.Next() {
		var n DailyNarrative
		if err := rows.Scan(&n.ID, &n.UserID, &n.Date, &n.Narrative); err != nil {
			return nil, fmt.Errorf("daily narrative scan: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("daily narrative rows: %w", err)
	}
	return out, nil
}
