package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type QuestRepo struct {
	db DBTX
}

func NewQuestRepo(db DBTX) *QuestRepo {
	return &QuestRepo{db: db}
}

type QuestInsert struct {
	UserID         int64
	Title          string
	Description    string
	Difficulty     string
	XPReward       int
	AttributeFocus string
	StartDate      string
	DueDate        *string
}

const questColumns = `quest_id, user_id, title, description, difficulty, xp_reward,
	attribute_focus, start_date, due_date, completed_date, status`

func (r *QuestRepo) Insert(ctx context.Context, in QuestInsert) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO quests (user_id, title, description, difficulty, xp_reward, attribute_focus, start_date, due_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'Active')
	`, in.UserID, in.Title, in.Description, in.Difficulty, in.XPReward, in.AttributeFocus, in.StartDate, in.DueDate)
	if err != nil {
		return 0, fmt.Errorf("quest insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("quest last insert id: %w", err)
	}
	return id, nil
}

func (r *QuestRepo) Get(ctx context.Context, id int64) (*Quest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+questColumns+` FROM quests WHERE quest_id = ?`, id)
	return scanQuestRow(row)
}

// ListByUser returns quests with active ones first, then by due date.
func (r *QuestRepo) ListByUser(ctx context.Context, userID int64) ([]Quest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+questColumns+` FROM quests
		WHERE user_id = ?
		ORDER BY (status = 'Active') DESC, due_date ASC, start_date DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("quest list: %w", err)
	}
	defer rows.Close()

	var out []Quest
	for rows.Next() {
		q, err := scanQuestRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("quest rows: %w", err)
	}
	return out, nil
}

func (r *QuestRepo) Update(ctx context.Context, q *Quest) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE quests SET title = ?, description = ?, difficulty = ?, attribute_focus = ?, due_date = ?
		WHERE quest_id = ?
	`, q.Title, q.Description, q.Difficulty, q.AttributeFocus, q.DueDate, q.ID)
	if err != nil {
		return fmt.Errorf("quest update: %w", err)
	}
	return nil
}

func (r *QuestRepo) MarkCompleted(ctx context.Context, id int64, completedDate string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE quests SET status = 'Completed', completed_date = ? WHERE quest_id = ?
	`, completedDate, id)
	if err != nil {
		return fmt.Errorf("quest mark completed: %w", err)
	}
	return nil
}

func (r *QuestRepo) CountByStatus(ctx context.Context, userID int64, status string) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quests WHERE user_id = ? AND status = ?`, userID, status)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("quest count: %w", err)
	}
	return n, nil
}

func (r *QuestRepo) InsertStep(ctx context.Context, questID int64, description string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO quest_steps (quest_id, description) VALUES (?, ?)`, questID, description)
	if err != nil {
		return 0, fmt.Errorf("quest step insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("quest step last insert id: %w", err)
	}
	return id, nil
}

func (r *QuestRepo) GetStep(ctx context.Context, id int64) (*QuestStep, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT quest_step_id, quest_id, description, is_completed FROM quest_steps WHERE quest_step_id = ?
	`, id)
	var s QuestStep
	var done int
	if err := row.Scan(&s.ID, &s.QuestID, &s.Description, &done); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("quest step get: %w", err)
	}
	s.IsCompleted = done != 0
	return &s, nil
}

func (r *QuestRepo) ListSteps(ctx context.Context, questID int64) ([]QuestStep, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT quest_step_id, quest_id, description, is_completed
		FROM quest_steps WHERE quest_id = ? ORDER BY quest_step_id ASC
	`, questID)
	if err != nil {
		return nil, fmt.Errorf("quest step list: %w", err)
	}
	defer rows.Close()

	var out []QuestStep
	for rows.Next() {
		var s QuestStep
		var done int
		if err := rows.Scan(&s.ID, &s.QuestID, &s.Description, &done); err != nil {
			return nil, fmt.Errorf("quest step scan: %w", err)
		}
		s.IsCompleted = done != 0
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("quest step rows: %w", err)
	}
	return out, nil
}

func (r *QuestRepo) SetStepCompleted(ctx context.Context, id int64, completed bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE quest_steps SET is_completed = ? WHERE quest_step_id = ?`, boolToInt(completed), id)
	if err != nil {
		return fmt.Errorf("quest step set completed: %w", err)
	}
	return nil
}

func (r *QuestRepo) DeleteStep(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM quest_steps WHERE quest_step_id = ?`, id)
	if err != nil {
		return fmt.Errorf("quest step delete: %w", err)
	}
	return nil
}

func scanQuestRow(row scanner) (*Quest, error) {
	var (
		q         Quest
		desc      sql.NullString
		diff      sql.NullString
		focus     sql.NullString
		dueDate   sql.NullString
		completed sql.NullString
	)
	if err := row.Scan(&q.ID, &q.UserID, &q.Title, &desc, &diff, &q.XPReward, &focus, &q.StartDate, &dueDate, &completed, &q.Status); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("quest scan: %w", err)
	}
	q.Description = desc.String
	q.Difficulty = diff.String
	q.AttributeFocus = focus.String
	if dueDate.Valid {
		v := dueDate.String
		q.DueDate = &v
	}
	if completed.Valid {
		v := completed.String
		q.CompletedDate = &v
	}
	return &q, nil
}
