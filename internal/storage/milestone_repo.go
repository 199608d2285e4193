package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type MilestoneRepo struct {
	db DBTX
}

func NewMilestoneRepo(db DBTX) *MilestoneRepo {
	return &MilestoneRepo{db: db}
}

type MilestoneInsert struct {
	UserID          int64
	Date            string
	Title           string
	Description     string
	AttributeID     *int64
	AchievementType string
}

func (r *MilestoneRepo) Insert(ctx context.Context, in MilestoneInsert) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO milestones (user_id, date, title, description, attribute_id, achievement_type)
		VALUES (?, ?, ?, ?, ?, ?)
	`, in.UserID, in.Date, in.Title, in.Description, in.AttributeID, in.AchievementType)
	if err != nil {
		return 0, fmt.Errorf("milestone insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("milestone last insert id: %w", err)
	}
	return id, nil
}

func (r *MilestoneRepo) Get(ctx context.Context, id int64) (*Milestone, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT milestone_id, user_id, date, title, description, attribute_id, achievement_type
		FROM milestones WHERE milestone_id = ?
	`, id)
	var m Milestone
	var attrID sql.NullInt64
	if err := row.Scan(&m.ID, &m.UserID, &m.Date, &m.Title, &m.Description, &attrID, &m.AchievementType); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("milestone get: %w", err)
	}
	if attrID.Valid {
		v := attrID.Int64
		m.AttributeID = &v
	}
	return &m, nil
}

// List pages through milestones newest-first.
func (r *MilestoneRepo) List(ctx context.Context, userID int64, limit, offset int) ([]Milestone, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT milestone_id, user_id, date, title, description, attribute_id, achievement_type
		FROM milestones WHERE user_id = ?
		ORDER BY date DESC, milestone_id DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("milestone list: %w", err)
	}
	defer rows.Close()

	var out []Milestone
	for rows.Next() {
		var m Milestone
		var attrID sql.NullInt64
		if err := rows.Scan(&m.ID, &m.UserID, &m.Date, &m.Title, &m.Description, &attrID, &m.AchievementType); err != nil {
			return nil, fmt.Errorf("milestone scan: %w", err)
		}
		if attrID.Valid {
			v := attrID.Int64
			m.AttributeID = &v
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("milestone rows: %w", err)
	}
	return out, nil
}

func (r *MilestoneRepo) Count(ctx context.Context, userID int64) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM milestones WHERE user_id = ?`, userID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("milestone count: %w", err)
	}
	return n, nil
}

func (r *MilestoneRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM milestones WHERE milestone_id = ?`, id)
	if err != nil {
		return fmt.Errorf("milestone delete: %w", err)
	}
	return nil
}
