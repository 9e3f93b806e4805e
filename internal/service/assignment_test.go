package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/lift-board/internal/model"
	"github.com/iliyamo/lift-board/internal/queue"
	"github.com/iliyamo/lift-board/internal/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.AssignmentChangedEvent
	err    error
}

func (p *recordingPublisher) PublishAssignmentChanged(_ context.Context, ev queue.AssignmentChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func floorWithOrder() *memStore {
	m := shop()
	m.addOrder("ord-1", model.OrderStatusInProgress)
	m.addItem("it-1", "ord-1", model.RepairTypeRepair, model.ItemStatusInProgress, "")
	return m
}

func TestUpsertAssignment_Idempotent(t *testing.T) {
	m := floorWithOrder()
	svc := NewAssignmentService(m, nil, nil, nil)
	ctx := context.Background()
	in := UpsertInput{OrderID: "ord-1", LiftID: "lift-1", ScheduledStart: ptrTime(day(1, 8)), ScheduledEnd: ptrTime(day(1, 9))}

	first, err := svc.UpsertAssignment(ctx, in)
	require.NoError(t, err)
	second, err := svc.UpsertAssignment(ctx, in)
	require.NoError(t, err)

	rows := m.rowsFor("ord-1")
	require.Len(t, rows, 1)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "lift-1", *rows[0].LiftID)
	assert.Equal(t, day(1, 8), *rows[0].ScheduledStart)
	assert.Equal(t, day(1, 9), *rows[0].ScheduledEnd)
}

func TestUpsertAssignment_MovesExistingRow(t *testing.T) {
	m := floorWithOrder()
	svc := NewAssignmentService(m, nil, nil, nil)
	ctx := context.Background()

	first, err := svc.UpsertAssignment(ctx, UpsertInput{OrderID: "ord-1", LiftID: "lift-1"})
	require.NoError(t, err)
	moved, err := svc.UpsertAssignment(ctx, UpsertInput{OrderID: "ord-1", LiftID: "lift-3"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, moved.ID)
	assert.Equal(t, "lift-3", *moved.LiftID)
	assert.Len(t, m.rowsFor("ord-1"), 1)
}

func TestUpsertAssignment_UnknownOrder(t *testing.T) {
	svc := NewAssignmentService(floorWithOrder(), nil, nil, nil)
	_, err := svc.UpsertAssignment(context.Background(), UpsertInput{OrderID: "ord-404", LiftID: "lift-1"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestUpsertAssignment_Validation(t *testing.T) {
	svc := NewAssignmentService(floorWithOrder(), nil, nil, nil)
	cases := map[string]UpsertInput{
		"missing order": {LiftID: "lift-1"},
		"missing lift":  {OrderID: "ord-1", LiftID: "  "},
		"window backwards": {
			OrderID: "ord-1", LiftID: "lift-1",
			ScheduledStart: ptrTime(day(1, 10)), ScheduledEnd: ptrTime(day(1, 8)),
		},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.UpsertAssignment(context.Background(), in)
			assert.True(t, IsInvalid(err), "got %v", err)
		})
	}
}

func TestClearAssignment_KeepsRowAndPartsWait(t *testing.T) {
	m := floorWithOrder()
	svc := NewAssignmentService(m, nil, nil, nil)
	board := NewBoardService(m.store(), nil, nil)
	ctx := context.Background()

	a, err := svc.UpsertAssignment(ctx, UpsertInput{OrderID: "ord-1", LiftID: "lift-1", ScheduledStart: ptrTime(day(1, 8))})
	require.NoError(t, err)
	_, err = svc.SetPartsWait(ctx, a.ID, model.PartsWait{WaitingForParts: ptrBool(true), Note: ptrStr("brake pads")})
	require.NoError(t, err)

	cleared, err := svc.ClearAssignment(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared.LiftID)
	assert.Nil(t, cleared.ScheduledStart)
	assert.Nil(t, cleared.ScheduledEnd)
	assert.True(t, cleared.WaitingForParts)
	assert.Equal(t, "brake pads", *cleared.PartsNote)

	rows := m.rowsFor("ord-1")
	require.Len(t, rows, 1)
	assert.Equal(t, a.ID, rows[0].ID)

	snap, err := board.GetBoard(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Assignments)
	require.Len(t, snap.UnassignedOrders, 1)
	assert.Equal(t, "ord-1", snap.UnassignedOrders[0].Order.ID)
}

func TestUpdateAssignment_MergesFields(t *testing.T) {
	m := floorWithOrder()
	svc := NewAssignmentService(m, nil, nil, nil)
	ctx := context.Background()

	a, err := svc.UpsertAssignment(ctx, UpsertInput{OrderID: "ord-1", LiftID: "lift-1", ScheduledStart: ptrTime(day(1, 8)), ScheduledEnd: ptrTime(day(1, 9))})
	require.NoError(t, err)

	got, err := svc.UpdateAssignment(ctx, a.ID, model.AssignmentPatch{ScheduledEnd: ptrTime(day(1, 12))})
	require.NoError(t, err)
	assert.Equal(t, "lift-1", *got.LiftID)
	assert.Equal(t, day(1, 8), *got.ScheduledStart)
	assert.Equal(t, day(1, 12), *got.ScheduledEnd)
}

func TestUpdateAssignment_StoresTrimmedLift(t *testing.T) {
	m := floorWithOrder()
	svc := NewAssignmentService(m, nil, nil, nil)
	ctx := context.Background()

	a, err := svc.UpsertAssignment(ctx, UpsertInput{OrderID: "ord-1", LiftID: "lift-1"})
	require.NoError(t, err)
	got, err := svc.UpdateAssignment(ctx, a.ID, model.AssignmentPatch{LiftID: ptrStr("  lift-3 ")})
	require.NoError(t, err)
	assert.Equal(t, "lift-3", *got.LiftID)

	rows := m.rowsFor("ord-1")
	require.Len(t, rows, 1)
	assert.Equal(t, "lift-3", *rows[0].LiftID)

	snap, err := NewBoardService(m.store(), nil, nil).GetBoard(ctx)
	require.NoError(t, err)
	assigned, _ := boardIDs(snap)
	assert.Equal(t, []string{"ord-1"}, assigned)
}

func TestUpdateAssignment_Errors(t *testing.T) {
	svc := NewAssignmentService(floorWithOrder(), nil, nil, nil)
	ctx := context.Background()

	_, err := svc.UpdateAssignment(ctx, "asg-404", model.AssignmentPatch{LiftID: ptrStr("lift-1")})
	assert.True(t, IsNotFound(err))

	_, err = svc.UpdateAssignment(ctx, "asg-1", model.AssignmentPatch{})
	assert.True(t, IsInvalid(err))

	_, err = svc.UpdateAssignment(ctx, "", model.AssignmentPatch{LiftID: ptrStr("lift-1")})
	assert.True(t, IsInvalid(err))

	_, err = svc.UpdateAssignment(ctx, "asg-1", model.AssignmentPatch{LiftID: ptrStr("")})
	assert.True(t, IsInvalid(err))

	_, err = svc.SetPartsWait(ctx, "asg-1", model.PartsWait{ExpectedStart: ptrTime(day(5, 0)), ExpectedEnd: ptrTime(day(4, 0))})
	assert.True(t, IsInvalid(err))

	_, err = svc.ClearAssignment(ctx, "asg-404")
	assert.True(t, IsNotFound(err))
}

func TestSetPartsWait_LeavesLiftWindowAlone(t *testing.T) {
	m := floorWithOrder()
	svc := NewAssignmentService(m, nil, nil, nil)
	ctx := context.Background()

	a, err := svc.UpsertAssignment(ctx, UpsertInput{OrderID: "ord-1", LiftID: "lift-1", ScheduledStart: ptrTime(day(1, 8))})
	require.NoError(t, err)

	got, err := svc.SetPartsWait(ctx, a.ID, model.PartsWait{
		WaitingForParts: ptrBool(true),
		ExpectedStart:   ptrTime(day(2, 8)),
		ExpectedEnd:     ptrTime(day(3, 8)),
	})
	require.NoError(t, err)
	assert.True(t, got.WaitingForParts)
	assert.Equal(t, "lift-1", *got.LiftID)
	assert.Equal(t, day(1, 8), *got.ScheduledStart)
	assert.Equal(t, day(2, 8), *got.PartsExpectedStart)
}

func TestMutations_InvalidateCacheAndPublish(t *testing.T) {
	m := floorWithOrder()
	cache := &cacheSpy{snaps: map[int64]*model.BoardSnapshot{0: {}}}
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewAssignmentService(m, cache, pub, nil)
	ctx := WithActor(context.Background(), "user-7")

	a, err := svc.UpsertAssignment(ctx, UpsertInput{OrderID: "ord-1", LiftID: "lift-1", ScheduledStart: ptrTime(day(1, 8))})
	require.NoError(t, err)
	_, err = svc.UpdateAssignment(ctx, a.ID, model.AssignmentPatch{LiftID: ptrStr("lift-3")})
	require.NoError(t, err)
	_, err = svc.SetPartsWait(ctx, a.ID, model.PartsWait{WaitingForParts: ptrBool(true)})
	require.NoError(t, err)
	_, err = svc.ClearAssignment(ctx, a.ID)
	require.NoError(t, err)
	svc.Flush()

	assert.Equal(t, 4, cache.invalidated)
	assert.Equal(t, int64(4), cache.gen)

	require.Len(t, pub.events, 4)
	actions := map[string]queue.AssignmentChangedEvent{}
	for _, ev := range pub.events {
		actions[ev.Action] = ev
		assert.Equal(t, a.ID, ev.AssignmentID)
		assert.Equal(t, "ord-1", ev.RepairOrderID)
		assert.Equal(t, "user-7", ev.ChangedBy)
	}
	assert.Contains(t, actions, queue.ActionUpserted)
	assert.Contains(t, actions, queue.ActionUpdated)
	assert.Contains(t, actions, queue.ActionPartsWait)
	assert.Contains(t, actions, queue.ActionCleared)
	assert.Equal(t, "2024-01-01T08:00:00Z", actions[queue.ActionUpserted].ScheduledStart)
	assert.Nil(t, actions[queue.ActionCleared].LiftID)
	assert.True(t, actions[queue.ActionCleared].WaitingForParts)
}

func TestFailedMutationPublishesNothing(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewAssignmentService(floorWithOrder(), nil, pub, nil)

	_, err := svc.ClearAssignment(context.Background(), "asg-404")
	require.Error(t, err)
	svc.Flush()
	assert.Empty(t, pub.events)
}

// failingWriter fails every write with err after the write would have
// been applied.
type failingWriter struct {
	err error
}

func (w failingWriter) Upsert(context.Context, string, string, *time.Time, *time.Time) (*model.LiftAssignment, error) {
	return nil, w.err
}

func (w failingWriter) Update(context.Context, string, model.AssignmentPatch) (*model.LiftAssignment, error) {
	return nil, w.err
}

func (w failingWriter) Clear(context.Context, string) (*model.LiftAssignment, error) {
	return nil, w.err
}

func TestStoreFailureInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	in := UpsertInput{OrderID: "ord-1", LiftID: "lift-1"}

	t.Run("reload failed", func(t *testing.T) {
		cache := &cacheSpy{}
		pub := &recordingPublisher{}
		svc := NewAssignmentService(failingWriter{err: errors.New("read back: connection reset")}, cache, pub, nil)

		_, err := svc.UpsertAssignment(ctx, in)
		assert.Equal(t, KindStoreUnavailable, KindOf(err))
		_, err = svc.UpdateAssignment(ctx, "asg-1", model.AssignmentPatch{LiftID: ptrStr("lift-3")})
		assert.Equal(t, KindStoreUnavailable, KindOf(err))
		_, err = svc.SetPartsWait(ctx, "asg-1", model.PartsWait{WaitingForParts: ptrBool(true)})
		assert.Equal(t, KindStoreUnavailable, KindOf(err))
		_, err = svc.ClearAssignment(ctx, "asg-1")
		assert.Equal(t, KindStoreUnavailable, KindOf(err))
		svc.Flush()

		assert.Equal(t, 4, cache.invalidated)
		assert.Empty(t, pub.events)
	})

	t.Run("row missing", func(t *testing.T) {
		cache := &cacheSpy{}
		svc := NewAssignmentService(failingWriter{err: repository.ErrNotFound}, cache, nil, nil)

		_, err := svc.UpsertAssignment(ctx, in)
		assert.True(t, IsNotFound(err))
		_, err = svc.ClearAssignment(ctx, "asg-404")
		assert.True(t, IsNotFound(err))
		assert.Zero(t, cache.invalidated)
	})
}

func TestActorFrom(t *testing.T) {
	assert.Equal(t, "", ActorFrom(context.Background()))
	assert.Equal(t, "u-1", ActorFrom(WithActor(context.Background(), "u-1")))
}

func TestErrorPublicHidesCause(t *testing.T) {
	err := storeErr("orders", errors.New("dial tcp 10.0.0.5:3306: connection refused"))
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "orders: store_unavailable", se.Public())
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, "upsert_assignment: lift_id is required", invalid("upsert_assignment", "lift_id is required").(*Error).Public())
}
