package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/lift-board/internal/model"
)

// LiftAssignmentRepo provides data access to the lift_assignments table.
// The table carries a unique key on repair_order_id, so an order never
// has more than one assignment row.  All timestamps are written in UTC.
type LiftAssignmentRepo struct {
	db *sql.DB
}

// NewLiftAssignmentRepo returns a new LiftAssignmentRepo bound to the provided database.
func NewLiftAssignmentRepo(db *sql.DB) *LiftAssignmentRepo { return &LiftAssignmentRepo{db: db} }

const liftAssignmentColumns = `id, repair_order_id, lift_id, scheduled_start, scheduled_end,
                               waiting_for_parts, parts_note, parts_expected_start, parts_expected_end,
                               created_at, updated_at`

func scanLiftAssignment(s rowScanner) (model.LiftAssignment, error) {
	var a model.LiftAssignment
	var liftID, note sql.NullString
	var start, end, partsStart, partsEnd sql.NullTime
	err := s.Scan(&a.ID, &a.RepairOrderID, &liftID, &start, &end,
		&a.WaitingForParts, &note, &partsStart, &partsEnd, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return a, err
	}
	a.LiftID = stringPtr(liftID)
	a.ScheduledStart = timePtr(start)
	a.ScheduledEnd = timePtr(end)
	a.PartsNote = stringPtr(note)
	a.PartsExpectedStart = timePtr(partsStart)
	a.PartsExpectedEnd = timePtr(partsEnd)
	return a, nil
}

// ListByOrderIDs returns the assignment rows of the given orders.  Rows
// with a NULL lift_id are included.  Passing no ids returns an empty
// slice without querying the database.
func (r *LiftAssignmentRepo) ListByOrderIDs(ctx context.Context, orderIDs []string) ([]model.LiftAssignment, error) {
	if len(orderIDs) == 0 {
		return []model.LiftAssignment{}, nil
	}
	in, args := inClause(orderIDs)
	q := fmt.Sprintf(`SELECT %s FROM lift_assignments WHERE repair_order_id IN (%s)`, liftAssignmentColumns, in)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.LiftAssignment, 0, len(orderIDs))
	for rows.Next() {
		a, err := scanLiftAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns the assignment with the given id or ErrNotFound.
func (r *LiftAssignmentRepo) GetByID(ctx context.Context, id string) (*model.LiftAssignment, error) {
	q := fmt.Sprintf(`SELECT %s FROM lift_assignments WHERE id = ?`, liftAssignmentColumns)
	a, err := scanLiftAssignment(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// GetByOrderID returns the assignment of the given order or ErrNotFound.
func (r *LiftAssignmentRepo) GetByOrderID(ctx context.Context, orderID string) (*model.LiftAssignment, error) {
	q := fmt.Sprintf(`SELECT %s FROM lift_assignments WHERE repair_order_id = ?`, liftAssignmentColumns)
	a, err := scanLiftAssignment(r.db.QueryRowContext(ctx, q, orderID))
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// Upsert places an order on a lift in a single statement.  When the
// order has no assignment row one is inserted; otherwise the existing
// row keeps its id and parts-wait data and only the lift and the
// schedule window are replaced.  The stored row is read back and
// returned.  An unknown order or lift yields ErrNotFound.
func (r *LiftAssignmentRepo) Upsert(ctx context.Context, orderID, liftID string, start, end *time.Time) (*model.LiftAssignment, error) {
	const q = `INSERT INTO lift_assignments (id, repair_order_id, lift_id, scheduled_start, scheduled_end, created_at, updated_at)
               VALUES (?, ?, ?, ?, ?, UTC_TIMESTAMP(), UTC_TIMESTAMP())
               ON DUPLICATE KEY UPDATE
                   lift_id = VALUES(lift_id),
                   scheduled_start = VALUES(scheduled_start),
                   scheduled_end = VALUES(scheduled_end),
                   updated_at = UTC_TIMESTAMP()`
	if _, err := r.db.ExecContext(ctx, q, uuid.NewString(), orderID, liftID, nullTime(start), nullTime(end)); err != nil {
		return nil, translate(err)
	}
	return r.GetByOrderID(ctx, orderID)
}

// Update merges the supplied fields onto the assignment row and touches
// updated_at.  It returns ErrNotFound when no row has the given id.
func (r *LiftAssignmentRepo) Update(ctx context.Context, id string, p model.AssignmentPatch) (*model.LiftAssignment, error) {
	sets := make([]string, 0, 8)
	args := make([]any, 0, 8)
	if p.LiftID != nil {
		sets = append(sets, "lift_id = ?")
		args = append(args, *p.LiftID)
	}
	if p.ScheduledStart != nil {
		sets = append(sets, "scheduled_start = ?")
		args = append(args, nullTime(p.ScheduledStart))
	}
	if p.ScheduledEnd != nil {
		sets = append(sets, "scheduled_end = ?")
		args = append(args, nullTime(p.ScheduledEnd))
	}
	if p.WaitingForParts != nil {
		sets = append(sets, "waiting_for_parts = ?")
		args = append(args, *p.WaitingForParts)
	}
	if p.PartsNote != nil {
		sets = append(sets, "parts_note = ?")
		args = append(args, nullString(p.PartsNote))
	}
	if p.PartsExpectedStart != nil {
		sets = append(sets, "parts_expected_start = ?")
		args = append(args, nullTime(p.PartsExpectedStart))
	}
	if p.PartsExpectedEnd != nil {
		sets = append(sets, "parts_expected_end = ?")
		args = append(args, nullTime(p.PartsExpectedEnd))
	}
	sets = append(sets, "updated_at = UTC_TIMESTAMP()")
	args = append(args, id)

	q := `UPDATE lift_assignments SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	return r.execAndReload(ctx, id, q, args...)
}

// Clear takes the order off its lift.  lift_id and the schedule window
// are set to NULL while the row itself, and with it any parts-wait data,
// is kept.  It returns ErrNotFound when no row has the given id.
func (r *LiftAssignmentRepo) Clear(ctx context.Context, id string) (*model.LiftAssignment, error) {
	const q = `UPDATE lift_assignments
               SET lift_id = NULL, scheduled_start = NULL, scheduled_end = NULL, updated_at = UTC_TIMESTAMP()
               WHERE id = ?`
	return r.execAndReload(ctx, id, q, id)
}

func (r *LiftAssignmentRepo) execAndReload(ctx context.Context, id, q string, args ...any) (*model.LiftAssignment, error) {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}
