package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/lift-board/internal/model"
)

// WorkerRepo looks up technicians working in-progress repair items.
// Technicians are linked to items in two ways: the worker_assignments
// join table and the older repair_items.worker_id column.  Each lookup
// reads one of them; merging is left to the caller.
type WorkerRepo struct {
	db *sql.DB
}

// NewWorkerRepo returns a new WorkerRepo bound to the given database.
func NewWorkerRepo(db *sql.DB) *WorkerRepo { return &WorkerRepo{db: db} }

// AssignedByOrders returns technicians linked through worker_assignments
// to an in-progress repair item of one of the given orders.  When the
// join table has not been migrated yet the driver error is returned as
// is; use IsSchemaLag to detect it.
func (r *WorkerRepo) AssignedByOrders(ctx context.Context, orderIDs []string) ([]model.OrderWorker, error) {
	if len(orderIDs) == 0 {
		return []model.OrderWorker{}, nil
	}
	in, args := inClause(orderIDs)
	q := fmt.Sprintf(`SELECT ri.order_id, w.id, w.name, w.worker_type
                      FROM repair_items ri
                      JOIN worker_assignments wa ON wa.repair_item_id = ri.id
                      JOIN workers w ON w.id = wa.worker_id
                      WHERE ri.status = ? AND ri.repair_type = ? AND ri.order_id IN (%s)`, in)
	return r.query(ctx, q, append([]any{model.ItemStatusInProgress, model.RepairTypeRepair}, args...))
}

// LegacyByOrders returns technicians referenced directly by
// repair_items.worker_id on an in-progress repair item of one of the
// given orders.  Items pointing at a worker row that no longer exists
// are skipped by the inner join.
func (r *WorkerRepo) LegacyByOrders(ctx context.Context, orderIDs []string) ([]model.OrderWorker, error) {
	if len(orderIDs) == 0 {
		return []model.OrderWorker{}, nil
	}
	in, args := inClause(orderIDs)
	q := fmt.Sprintf(`SELECT ri.order_id, w.id, w.name, w.worker_type
                      FROM repair_items ri
                      JOIN workers w ON w.id = ri.worker_id
                      WHERE ri.status = ? AND ri.repair_type = ? AND ri.order_id IN (%s)`, in)
	return r.query(ctx, q, append([]any{model.ItemStatusInProgress, model.RepairTypeRepair}, args...))
}

func (r *WorkerRepo) query(ctx context.Context, q string, args []any) ([]model.OrderWorker, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.OrderWorker, 0)
	for rows.Next() {
		var ow model.OrderWorker
		if err := rows.Scan(&ow.OrderID, &ow.Worker.WorkerID, &ow.Worker.Name, &ow.Worker.WorkerType); err != nil {
			return nil, err
		}
		out = append(out, ow)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
