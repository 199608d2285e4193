package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// StressStat is the character stat negative habits push against.
const StressStat = "Stress"

type CharStatRepo struct {
	db DBTX
}

func NewCharStatRepo(db DBTX) *CharStatRepo {
	return &CharStatRepo{db: db}
}

func (r *CharStatRepo) Insert(ctx context.Context, userID int64, name string, value int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO character_stats (user_id, stat_name, value) VALUES (?, ?, ?)
	`, userID, name, value)
	if err != nil {
		return fmt.Errorf("character stat insert: %w", err)
	}
	return nil
}

func (r *CharStatRepo) Get(ctx context.Context, userID int64, name string) (*CharacterStat, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, stat_name, value FROM character_stats
		WHERE user_id = ? AND stat_name = ?
	`, userID, name)
	var s CharacterStat
	if err := row.Scan(&s.ID, &s.UserID, &s.StatName, &s.Value); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("character stat get: %w", err)
	}
	return &s, nil
}

// Adjust shifts a stat by delta, floored at zero. There is no upper bound.
func (r *CharStatRepo) Adjust(ctx context.Context, userID int64, name string, delta int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE character_stats SET value = MAX(0, value + ?)
		WHERE user_id = ? AND stat_name = ?
	`, delta, userID, name)
	if err != nil {
		return fmt.Errorf("character stat adjust: %w", err)
	}
	return nil
}

func (r *CharStatRepo) ListByUser(ctx context.Context, userID int64) ([]CharacterStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, stat_name, value FROM character_stats
		WHERE user_id = ? ORDER BY stat_name ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("character stat list: %w", err)
	}
	defer rows.Close()

	var out []CharacterStat
	for rows.Next() {
		var s CharacterStat
		if err := rows.Scan(&s.ID, &s.UserID, &s.StatName, &s.Value); err != nil {
			return nil, fmt.Errorf("character stat scan: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("character stat rows: %w", err)
	}
	return out, nil
}
