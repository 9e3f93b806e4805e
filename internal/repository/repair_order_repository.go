package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/lift-board/internal/model"
)

// RepairOrderRepo reads repair orders.  Orders are owned by the intake
// service; the board never writes them.
type RepairOrderRepo struct {
	db *sql.DB
}

// NewRepairOrderRepo returns a new RepairOrderRepo bound to the given database.
func NewRepairOrderRepo(db *sql.DB) *RepairOrderRepo { return &RepairOrderRepo{db: db} }

const repairOrderColumns = `id, customer_name, vehicle_plate, vehicle_model, status,
                            waiting_for_parts, parts_note, parts_expected_start, parts_expected_end,
                            created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRepairOrder(s rowScanner) (model.RepairOrder, error) {
	var o model.RepairOrder
	var note sql.NullString
	var start, end sql.NullTime
	err := s.Scan(&o.ID, &o.CustomerName, &o.VehiclePlate, &o.VehicleModel, &o.Status,
		&o.WaitingForParts, &note, &start, &end, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return o, err
	}
	o.PartsNote = stringPtr(note)
	o.PartsExpectedStart = timePtr(start)
	o.PartsExpectedEnd = timePtr(end)
	return o, nil
}

// ListOpenByIDs returns the orders with the given ids whose status is not
// completed, oldest first.  Passing no ids returns an empty slice without
// querying the database.
func (r *RepairOrderRepo) ListOpenByIDs(ctx context.Context, ids []string) ([]model.RepairOrder, error) {
	if len(ids) == 0 {
		return []model.RepairOrder{}, nil
	}
	in, args := inClause(ids)
	q := fmt.Sprintf(`SELECT %s FROM repair_orders WHERE id IN (%s) AND status <> ? ORDER BY created_at ASC, id ASC`,
		repairOrderColumns, in)
	args = append(args, model.OrderStatusCompleted)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.RepairOrder, 0, len(ids))
	for rows.Next() {
		o, err := scanRepairOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns a single order or ErrNotFound.
func (r *RepairOrderRepo) GetByID(ctx context.Context, id string) (*model.RepairOrder, error) {
	q := fmt.Sprintf(`SELECT %s FROM repair_orders WHERE id = ?`, repairOrderColumns)
	o, err := scanRepairOrder(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}
