package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"

	"github.com/iliyamo/lift-board/internal/model"
)

// LiftRepo reads the lift inventory.
type LiftRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewLiftRepo constructs a LiftRepo with the given DB handle.
func NewLiftRepo(db *sql.DB) *LiftRepo {
	return &LiftRepo{db: db}
}

// ListActive returns all active lifts ordered by position ascending.
// Lifts with equal positions are ordered by id so the board is stable.
func (r *LiftRepo) ListActive(ctx context.Context) ([]model.Lift, error) {
	const q = `SELECT id, name, position, is_active, created_at, updated_at
               FROM lifts
               WHERE is_active = 1
               ORDER BY position ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Lift, 0)
	for rows.Next() {
		var l model.Lift
		if err := rows.Scan(&l.ID, &l.Name, &l.Position, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
