package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/lift-board/internal/model"
	"github.com/iliyamo/lift-board/internal/repository"
)

// memStore is an in-memory stand-in for the MySQL repositories.  Upsert
// is keyed on the order id the way the unique key is in the schema.
type memStore struct {
	mu sync.Mutex

	lifts        []model.Lift
	orders       []model.RepairOrder
	items        []itemRow
	workers      map[string]model.ActiveWorker
	links        []linkRow
	assignments  []*model.LiftAssignment
	appointments []model.Appointment
	seq          int

	liftsErr, itemsErr, ordersErr, assignmentsErr, joinErr, legacyErr, appointmentsErr error

	ordersCalls int
}

// itemRow mirrors repair_items; worker is the legacy single-technician
// column.
type itemRow struct {
	id, orderID, repairType, status string
	worker                          *string
}

// linkRow mirrors worker_assignments.
type linkRow struct {
	itemID, workerID string
}

func newMemStore() *memStore {
	return &memStore{workers: map[string]model.ActiveWorker{}}
}

func (m *memStore) store() Store {
	return Store{Lifts: m, Items: m, Orders: m, Workers: m, Assignments: m, Appointments: m}
}

func (m *memStore) addLift(id string, pos int, active bool) {
	m.lifts = append(m.lifts, model.Lift{ID: id, Name: "Lift " + id, Position: pos, IsActive: active})
}

func (m *memStore) addOrder(id, status string) {
	m.orders = append(m.orders, model.RepairOrder{ID: id, CustomerName: "customer " + id, VehiclePlate: "PLATE-" + id, Status: status})
}

func (m *memStore) addItem(id, orderID, repairType, status string, legacyWorker string) {
	it := itemRow{id: id, orderID: orderID, repairType: repairType, status: status}
	if legacyWorker != "" {
		w := legacyWorker
		it.worker = &w
	}
	m.items = append(m.items, it)
}

func (m *memStore) addWorker(id, name, kind string) {
	m.workers[id] = model.ActiveWorker{WorkerID: id, Name: name, WorkerType: kind}
}

func (m *memStore) link(itemID, workerID string) {
	m.links = append(m.links, linkRow{itemID: itemID, workerID: workerID})
}

func (m *memStore) rowsFor(orderID string) []model.LiftAssignment {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.LiftAssignment
	for _, a := range m.assignments {
		if a.RepairOrderID == orderID {
			out = append(out, *a)
		}
	}
	return out
}

func (m *memStore) ListActive(context.Context) ([]model.Lift, error) {
	if m.liftsErr != nil {
		return nil, m.liftsErr
	}
	out := make([]model.Lift, 0, len(m.lifts))
	for _, l := range m.lifts {
		if l.IsActive {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *memStore) ActiveOrderIDs(context.Context) ([]string, error) {
	if m.itemsErr != nil {
		return nil, m.itemsErr
	}
	seen := map[string]bool{}
	ids := []string{}
	for _, it := range m.items {
		occupies := it.repairType == model.RepairTypeRepair && it.status != model.ItemStatusCompleted
		if occupies && !seen[it.orderID] {
			seen[it.orderID] = true
			ids = append(ids, it.orderID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memStore) ListOpenByIDs(_ context.Context, ids []string) ([]model.RepairOrder, error) {
	m.mu.Lock()
	m.ordersCalls++
	m.mu.Unlock()
	if m.ordersErr != nil {
		return nil, m.ordersErr
	}
	want := toSet(ids)
	out := []model.RepairOrder{}
	for _, o := range m.orders {
		if want[o.ID] && o.Status != model.OrderStatusCompleted {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*model.RepairOrder, error) {
	for _, o := range m.orders {
		if o.ID == id {
			o := o
			return &o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) item(id string) (itemRow, bool) {
	for _, it := range m.items {
		if it.id == id {
			return it, true
		}
	}
	return itemRow{}, false
}

func inProgressRepair(it itemRow) bool {
	return it.repairType == model.RepairTypeRepair && it.status == model.ItemStatusInProgress
}

func (m *memStore) AssignedByOrders(_ context.Context, orderIDs []string) ([]model.OrderWorker, error) {
	if m.joinErr != nil {
		return nil, m.joinErr
	}
	want := toSet(orderIDs)
	out := []model.OrderWorker{}
	for _, l := range m.links {
		it, ok := m.item(l.itemID)
		w, wok := m.workers[l.workerID]
		if ok && wok && want[it.orderID] && inProgressRepair(it) {
			out = append(out, model.OrderWorker{OrderID: it.orderID, Worker: w})
		}
	}
	return out, nil
}

func (m *memStore) LegacyByOrders(_ context.Context, orderIDs []string) ([]model.OrderWorker, error) {
	if m.legacyErr != nil {
		return nil, m.legacyErr
	}
	want := toSet(orderIDs)
	out := []model.OrderWorker{}
	for _, it := range m.items {
		if it.worker == nil || !want[it.orderID] || !inProgressRepair(it) {
			continue
		}
		if w, ok := m.workers[*it.worker]; ok {
			out = append(out, model.OrderWorker{OrderID: it.orderID, Worker: w})
		}
	}
	return out, nil
}

func (m *memStore) ListByOrderIDs(_ context.Context, orderIDs []string) ([]model.LiftAssignment, error) {
	if m.assignmentsErr != nil {
		return nil, m.assignmentsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	want := toSet(orderIDs)
	out := []model.LiftAssignment{}
	for _, a := range m.assignments {
		if want[a.RepairOrderID] {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memStore) Upsert(ctx context.Context, orderID, liftID string, start, end *time.Time) (*model.LiftAssignment, error) {
	if _, err := m.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	lift := liftID
	for _, a := range m.assignments {
		if a.RepairOrderID == orderID {
			a.LiftID, a.ScheduledStart, a.ScheduledEnd, a.UpdatedAt = &lift, start, end, now
			cp := *a
			return &cp, nil
		}
	}
	m.seq++
	a := &model.LiftAssignment{
		ID: fmt.Sprintf("asg-%d", m.seq), RepairOrderID: orderID, LiftID: &lift,
		ScheduledStart: start, ScheduledEnd: end, CreatedAt: now, UpdatedAt: now,
	}
	m.assignments = append(m.assignments, a)
	cp := *a
	return &cp, nil
}

func (m *memStore) Update(_ context.Context, id string, p model.AssignmentPatch) (*model.LiftAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assignments {
		if a.ID != id {
			continue
		}
		if p.LiftID != nil {
			a.LiftID = p.LiftID
		}
		if p.ScheduledStart != nil {
			a.ScheduledStart = p.ScheduledStart
		}
		if p.ScheduledEnd != nil {
			a.ScheduledEnd = p.ScheduledEnd
		}
		if p.WaitingForParts != nil {
			a.WaitingForParts = *p.WaitingForParts
		}
		if p.PartsNote != nil {
			a.PartsNote = p.PartsNote
		}
		if p.PartsExpectedStart != nil {
			a.PartsExpectedStart = p.PartsExpectedStart
		}
		if p.PartsExpectedEnd != nil {
			a.PartsExpectedEnd = p.PartsExpectedEnd
		}
		a.UpdatedAt = time.Now().UTC()
		cp := *a
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) Clear(_ context.Context, id string) (*model.LiftAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assignments {
		if a.ID == id {
			a.LiftID, a.ScheduledStart, a.ScheduledEnd = nil, nil, nil
			a.UpdatedAt = time.Now().UTC()
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) ListPending(context.Context) ([]model.Appointment, error) {
	if m.appointmentsErr != nil {
		return nil, m.appointmentsErr
	}
	return append([]model.Appointment(nil), m.appointments...), nil
}

func toSet(ids []string) map[string]bool {
	s := make(map[string]bool, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}
