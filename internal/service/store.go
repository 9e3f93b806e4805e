package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/lift-board/internal/model"
	"github.com/iliyamo/lift-board/internal/repository"
)

// LiftLister lists the lifts shown on the board.
type LiftLister interface {
	ListActive(ctx context.Context) ([]model.Lift, error)
}

// ActiveOrderFinder finds orders with unfinished repair work.
type ActiveOrderFinder interface {
	ActiveOrderIDs(ctx context.Context) ([]string, error)
}

// OrderReader reads repair orders.
type OrderReader interface {
	ListOpenByIDs(ctx context.Context, ids []string) ([]model.RepairOrder, error)
	GetByID(ctx context.Context, id string) (*model.RepairOrder, error)
}

// WorkerFinder reads technician links.  AssignedByOrders reads the join
// table, LegacyByOrders the single worker column on repair items.
type WorkerFinder interface {
	AssignedByOrders(ctx context.Context, orderIDs []string) ([]model.OrderWorker, error)
	LegacyByOrders(ctx context.Context, orderIDs []string) ([]model.OrderWorker, error)
}

// AssignmentReader reads lift assignment rows.
type AssignmentReader interface {
	ListByOrderIDs(ctx context.Context, orderIDs []string) ([]model.LiftAssignment, error)
}

// AssignmentWriter mutates lift assignment rows.  Upsert must be a single
// conditional write keyed on the repair order id.
type AssignmentWriter interface {
	Upsert(ctx context.Context, orderID, liftID string, start, end *time.Time) (*model.LiftAssignment, error)
	Update(ctx context.Context, id string, p model.AssignmentPatch) (*model.LiftAssignment, error)
	Clear(ctx context.Context, id string) (*model.LiftAssignment, error)
}

// AssignmentStore is the full lift assignment collection.
type AssignmentStore interface {
	AssignmentReader
	AssignmentWriter
}

// AppointmentLister lists queued customer bookings.
type AppointmentLister interface {
	ListPending(ctx context.Context) ([]model.Appointment, error)
}

// Store groups the collections the board reads and writes.
type Store struct {
	Lifts        LiftLister
	Items        ActiveOrderFinder
	Orders       OrderReader
	Workers      WorkerFinder
	Assignments  AssignmentStore
	Appointments AppointmentLister
}

// NewSQLStore wires every collection to its MySQL repository.
func NewSQLStore(db *sql.DB) Store {
	return Store{
		Lifts:        repository.NewLiftRepo(db),
		Items:        repository.NewRepairItemRepo(db),
		Orders:       repository.NewRepairOrderRepo(db),
		Workers:      repository.NewWorkerRepo(db),
		Assignments:  repository.NewLiftAssignmentRepo(db),
		Appointments: repository.NewAppointmentRepo(db),
	}
}
