package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type AttributeRepo struct {
	db DBTX
}

func NewAttributeRepo(db DBTX) *AttributeRepo {
	return &AttributeRepo{db: db}
}

func (r *AttributeRepo) Insert(ctx context.Context, userID int64, name string, description *string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO attributes (user_id, name, description, current_xp)
		VALUES (?, ?, ?, 0)
	`, userID, name, description)
	if err != nil {
		return 0, fmt.Errorf("attribute insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("attribute last insert id: %w", err)
	}
	return id, nil
}

func (r *AttributeRepo) Get(ctx context.Context, id int64) (*Attribute, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT attribute_id, user_id, name, description, current_xp
		FROM attributes WHERE attribute_id = ?
	`, id)
	return scanAttribute(row)
}

func (r *AttributeRepo) GetByName(ctx context.Context, userID int64, name string) (*Attribute, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT attribute_id, user_id, name, description, current_xp
		FROM attributes WHERE user_id = ? AND name = ?
	`, userID, name)
	return scanAttribute(row)
}

func (r *AttributeRepo) ListByUser(ctx context.Context, userID int64) ([]Attribute, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT attribute_id, user_id, name, description, current_xp
		FROM attributes WHERE user_id = ? ORDER BY name ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("attribute list: %w", err)
	}
	defer rows.Close()

	var out []Attribute
	for rows.Next() {
		var a Attribute
		var desc sql.NullString
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &desc, &a.CurrentXP); err != nil {
			return nil, fmt.Errorf("attribute scan: %w", err)
		}
		if desc.Valid {
			v := desc.String
			a.Description = &v
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("attribute rows: %w", err)
	}
	return out, nil
}

// AddXP adjusts an attribute's XP by delta, clamping at zero. Negative
// deltas are how completed-task rollback reverses a grant.
func (r *AttributeRepo) AddXP(ctx context.Context, id int64, delta int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE attributes SET current_xp = MAX(0, current_xp + ?) WHERE attribute_id = ?
	`, delta, id)
	if err != nil {
		return fmt.Errorf("attribute add xp: %w", err)
	}
	return nil
}

// TotalXP sums current XP over all of a user's attributes.
func (r *AttributeRepo) TotalXP(ctx context.Context, userID int64) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(current_xp), 0) FROM attributes WHERE user_id = ?
	`, userID)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("attribute total xp: %w", err)
	}
	return total, nil
}

func (r *AttributeRepo) InsertSubskill(ctx context.Context, attributeID int64, name string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO subskills (attribute_id, name, current_xp) VALUES (?, ?, 0)
	`, attributeID, name)
	if err != nil {
		return 0, fmt.Errorf("subskill insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("subskill last insert id: %w", err)
	}
	return id, nil
}

func (r *AttributeRepo) GetSubskill(ctx context.Context, id int64) (*Subskill, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT subskill_id, attribute_id, name, current_xp FROM subskills WHERE subskill_id = ?
	`, id)
	var s Subskill
	if err := row.Scan(&s.ID, &s.AttributeID, &s.Name, &s.CurrentXP); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("subskill get: %w", err)
	}
	return &s, nil
}

func (r *AttributeRepo) GetSubskillByName(ctx context.Context, attributeID int64, name string) (*Subskill, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT subskill_id, attribute_id, name, current_xp
		FROM subskills WHERE attribute_id = ? AND name = ?
	`, attributeID, name)
	var s Subskill
	if err := row.Scan(&s.ID, &s.AttributeID, &s.Name, &s.CurrentXP); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("subskill get by name: %w", err)
	}
	return &s, nil
}

func (r *AttributeRepo) ListSubskills(ctx context.Context, attributeID int64) ([]Subskill, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT subskill_id, attribute_id, name, current_xp
		FROM subskills WHERE attribute_id = ? ORDER BY subskill_id ASC
	`, attributeID)
	if err != nil {
		return nil, fmt.Errorf("subskill list: %w", err)
	}
	defer rows.Close()

	var out []Subskill
	for rows.Next() {
		var s Subskill
		if err := rows.Scan(&s.ID, &s.AttributeID, &s.Name, &s.CurrentXP); err != nil {
			return nil, fmt.Errorf("subskill scan: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("subskill rows: %w", err)
	}
	return out, nil
}

// AddSubskillXP adjusts a subskill's XP by delta, clamping at zero.
func (r *AttributeRepo) AddSubskillXP(ctx context.Context, id int64, delta int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subskills SET current_xp = MAX(0, current_xp + ?) WHERE subskill_id = ?
	`, delta, id)
	if err != nil {
		return fmt.Errorf("subskill add xp: %w", err)
	}
	return nil
}

func scanAttribute(row *sql.Row) (*Attribute, error) {
	var a Attribute
	var desc sql.NullString
	if err := row.Scan(&a.ID, &a.UserID, &a.Name, &desc, &a.CurrentXP); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("attribute scan: %w", err)
	}
	if desc.Valid {
		v := desc.String
		a.Description = &v
	}
	return &a, nil
}
