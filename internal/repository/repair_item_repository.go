package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/lift-board/internal/model"
)

// RepairItemRepo reads repair line items.
type RepairItemRepo struct {
	db *sql.DB
}

// NewRepairItemRepo returns a new RepairItemRepo bound to the given database.
func NewRepairItemRepo(db *sql.DB) *RepairItemRepo { return &RepairItemRepo{db: db} }

// ActiveOrderIDs returns the ids of orders that have at least one repair
// item of the lift-occupying type which is not completed.  The result is
// de-duplicated and ordered by id.  An empty slice means nothing is on
// or waiting for a lift.
func (r *RepairItemRepo) ActiveOrderIDs(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT order_id
               FROM repair_items
               WHERE repair_type = ? AND status <> ?
               ORDER BY order_id`
	rows, err := r.db.QueryContext(ctx, q, model.RepairTypeRepair, model.ItemStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
