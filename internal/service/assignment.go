package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/lift-board/internal/model"
	"github.com/iliyamo/lift-board/internal/queue"
)

// EventPublisher delivers assignment change notifications.
type EventPublisher interface {
	PublishAssignmentChanged(ctx context.Context, event queue.AssignmentChangedEvent) error
}

// AssignmentService is the only writer of lift assignments.  Every
// operation touches a single row; retrying an identical call leaves the
// row in the same state.
type AssignmentService struct {
	store          AssignmentWriter
	cache          BoardCache
	events         EventPublisher
	logger         *zap.Logger
	publishTimeout time.Duration
	inflight       sync.WaitGroup
}

// NewAssignmentService returns an AssignmentService.  cache and events
// may be nil.
func NewAssignmentService(store AssignmentWriter, cache BoardCache, events EventPublisher, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = NopBoardCache{}
	}
	return &AssignmentService{store: store, cache: cache, events: events, logger: logger, publishTimeout: 5 * time.Second}
}

// UpsertInput places an order on a lift for an optional time window.
type UpsertInput struct {
	OrderID        string
	LiftID         string
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
}

// UpsertAssignment puts the order on the lift.  An existing assignment
// row of the order is updated in place, otherwise one is created.
func (s *AssignmentService) UpsertAssignment(ctx context.Context, in UpsertInput) (*model.LiftAssignment, error) {
	const op = "upsert_assignment"
	orderID := strings.TrimSpace(in.OrderID)
	liftID := strings.TrimSpace(in.LiftID)
	if orderID == "" {
		return nil, invalid(op, "repair_order_id is required")
	}
	if liftID == "" {
		return nil, invalid(op, "lift_id is required")
	}
	if err := checkWindow(op, "scheduled", in.ScheduledStart, in.ScheduledEnd); err != nil {
		return nil, err
	}

	a, err := s.store.Upsert(ctx, orderID, liftID, in.ScheduledStart, in.ScheduledEnd)
	if err != nil {
		return nil, s.failed(ctx, op, err)
	}
	s.changed(ctx, queue.ActionUpserted, a)
	return a, nil
}

// UpdateAssignment merges the supplied fields onto the assignment.
func (s *AssignmentService) UpdateAssignment(ctx context.Context, id string, p model.AssignmentPatch) (*model.LiftAssignment, error) {
	const op = "update_assignment"
	if err := validatePatch(op, id, p); err != nil {
		return nil, err
	}
	if p.LiftID != nil {
		lift := strings.TrimSpace(*p.LiftID)
		p.LiftID = &lift
	}
	a, err := s.store.Update(ctx, strings.TrimSpace(id), p)
	if err != nil {
		return nil, s.failed(ctx, op, err)
	}
	s.changed(ctx, queue.ActionUpdated, a)
	return a, nil
}

// ClearAssignment takes the order off its lift.  The row, and any
// parts-wait data on it, is kept so the order shows up as unassigned.
func (s *AssignmentService) ClearAssignment(ctx context.Context, id string) (*model.LiftAssignment, error) {
	const op = "clear_assignment"
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invalid(op, "assignment id is required")
	}
	a, err := s.store.Clear(ctx, id)
	if err != nil {
		return nil, s.failed(ctx, op, err)
	}
	s.changed(ctx, queue.ActionCleared, a)
	return a, nil
}

// SetPartsWait merges parts-wait fields onto the assignment.
func (s *AssignmentService) SetPartsWait(ctx context.Context, id string, pw model.PartsWait) (*model.LiftAssignment, error) {
	const op = "set_parts_wait"
	p := pw.Patch()
	if err := validatePatch(op, id, p); err != nil {
		return nil, err
	}
	a, err := s.store.Update(ctx, strings.TrimSpace(id), p)
	if err != nil {
		return nil, s.failed(ctx, op, err)
	}
	s.changed(ctx, queue.ActionPartsWait, a)
	return a, nil
}

// Flush waits for pending event publishes.
func (s *AssignmentService) Flush() { s.inflight.Wait() }

func validatePatch(op, id string, p model.AssignmentPatch) error {
	if strings.TrimSpace(id) == "" {
		return invalid(op, "assignment id is required")
	}
	if p.IsEmpty() {
		return invalid(op, "no fields to update")
	}
	if p.LiftID != nil && strings.TrimSpace(*p.LiftID) == "" {
		return invalid(op, "lift_id must not be empty")
	}
	if err := checkWindow(op, "scheduled", p.ScheduledStart, p.ScheduledEnd); err != nil {
		return err
	}
	return checkWindow(op, "parts_expected", p.PartsExpectedStart, p.PartsExpectedEnd)
}

func checkWindow(op, name string, start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return invalid(op, name+"_end must not be before "+name+"_start")
	}
	return nil
}

// failed wraps a store error.  The write may have been applied before
// the row was read back, so the cached board is dropped unless the store
// reported the row as missing.
func (s *AssignmentService) failed(ctx context.Context, op string, err error) error {
	serr := storeErr(op, err)
	if !IsNotFound(serr) {
		if ierr := s.cache.Invalidate(ctx); ierr != nil {
			s.logger.Warn("board cache invalidate failed", zap.String("op", op), zap.Error(ierr))
		}
	}
	return serr
}

// changed drops the cached board and announces the new row.  Neither
// step can fail the mutation.
func (s *AssignmentService) changed(ctx context.Context, action string, a *model.LiftAssignment) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("board cache invalidate failed", zap.String("assignment_id", a.ID), zap.Error(err))
	}
	s.logger.Info("lift assignment changed",
		zap.String("action", action),
		zap.String("assignment_id", a.ID),
		zap.String("repair_order_id", a.RepairOrderID),
		zap.Stringp("lift_id", a.LiftID))

	if s.events == nil {
		return
	}
	ev := newAssignmentEvent(action, a, ActorFrom(ctx))
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		pctx, cancel := context.WithTimeout(context.Background(), s.publishTimeout)
		defer cancel()
		if err := s.events.PublishAssignmentChanged(pctx, ev); err != nil {
			s.logger.Warn("assignment event publish failed", zap.String("assignment_id", ev.AssignmentID), zap.Error(err))
		}
	}()
}

func newAssignmentEvent(action string, a *model.LiftAssignment, actor string) queue.AssignmentChangedEvent {
	ev := queue.AssignmentChangedEvent{
		Action:          action,
		AssignmentID:    a.ID,
		RepairOrderID:   a.RepairOrderID,
		LiftID:          a.LiftID,
		WaitingForParts: a.WaitingForParts,
		ChangedBy:       actor,
		ChangedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	if a.ScheduledStart != nil {
		ev.ScheduledStart = a.ScheduledStart.UTC().Format(time.RFC3339)
	}
	if a.ScheduledEnd != nil {
		ev.ScheduledEnd = a.ScheduledEnd.UTC().Format(time.RFC3339)
	}
	if a.PartsNote != nil {
		ev.PartsNote = *a.PartsNote
	}
	return ev
}

type actorKey struct{}

// WithActor records who is performing a mutation.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor stored by WithActor, or "".
func ActorFrom(ctx context.Context) string {
	s, _ := ctx.Value(actorKey{}).(string)
	return s
}
