package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/lift-board/internal/model"
)

// BoardService assembles the shop floor board: active lifts, orders on a
// lift, orders waiting for one and the appointment queue.  Each call
// reads the store afresh (or the short lived cache); there is no
// cross-table transaction, so a board may interleave with a concurrent
// mutation.
type BoardService struct {
	lifts        LiftLister
	orders       OrderReader
	assignments  AssignmentReader
	appointments AppointmentLister
	resolver     *WorkerResolver
	cache        BoardCache
	logger       *zap.Logger
	now          func() time.Time
}

// NewBoardService builds a BoardService over store.  A nil cache disables
// caching.
func NewBoardService(store Store, cache BoardCache, logger *zap.Logger) *BoardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = NopBoardCache{}
	}
	return &BoardService{
		lifts:        store.Lifts,
		orders:       store.Orders,
		assignments:  store.Assignments,
		appointments: store.Appointments,
		resolver:     NewWorkerResolver(store.Items, store.Orders, store.Workers, logger),
		cache:        cache,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Resolver exposes the active-work resolver used by the board.
func (s *BoardService) Resolver() *WorkerResolver { return s.resolver }

// GetBoard returns the current board snapshot.  Failures reading lifts,
// active orders, orders, assignments or appointments are returned as
// *Error with Op naming the failed fetch.  A missing technician join
// table only marks the snapshot as degraded.
func (s *BoardService) GetBoard(ctx context.Context) (*model.BoardSnapshot, error) {
	gen, cacheable := s.cacheGeneration(ctx)
	if cacheable {
		if snap, err := s.cache.Get(ctx, gen); err != nil {
			s.logger.Warn("board cache read failed", zap.Error(err))
		} else if snap != nil {
			return snap, nil
		}
	}

	snap, err := s.buildBoard(ctx)
	if err != nil {
		s.logger.Error("board build failed", zap.Error(err))
		return nil, err
	}
	if cacheable {
		if err := s.cache.Set(ctx, gen, snap); err != nil {
			s.logger.Warn("board cache write failed", zap.Error(err))
		}
	}
	return snap, nil
}

// cacheGeneration reads the generation before any store read.  When it
// cannot be read the board is neither served from nor written to the
// cache.
func (s *BoardService) cacheGeneration(ctx context.Context) (int64, bool) {
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.logger.Warn("board cache generation read failed", zap.Error(err))
		return 0, false
	}
	return gen, true
}

func (s *BoardService) buildBoard(ctx context.Context) (*model.BoardSnapshot, error) {
	lifts, err := s.lifts.ListActive(ctx)
	if err != nil {
		return nil, storeErr("lifts", err)
	}
	snap := &model.BoardSnapshot{
		Lifts:            activeLifts(lifts),
		Assignments:      []model.BoardAssignmentView{},
		UnassignedOrders: []model.BoardOrderView{},
		GeneratedAt:      s.now(),
	}

	ids, err := s.resolver.ActiveOrderIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		appts, err := s.pendingAppointments(ctx)
		if err != nil {
			return nil, err
		}
		snap.Appointments = appts
		return snap, nil
	}

	var (
		orders      []model.RepairOrder
		assignments []model.LiftAssignment
		workers     map[string][]model.ActiveWorker
		degraded    bool
		appts       []model.Appointment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if orders, err = s.orders.ListOpenByIDs(gctx, ids); err != nil {
			return storeErr("orders", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if assignments, err = s.assignments.ListByOrderIDs(gctx, ids); err != nil {
			return storeErr("assignments", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		workers, degraded, err = s.resolver.ActiveWorkers(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		appts, err = s.pendingAppointments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.Assignments, snap.UnassignedOrders = MapOccupancy(orders, assignments, workers)
	snap.Appointments = appts
	snap.Degraded = degraded
	return snap, nil
}

// pendingAppointments returns the queue sorted by date, earliest first.
func (s *BoardService) pendingAppointments(ctx context.Context) ([]model.Appointment, error) {
	appts, err := s.appointments.ListPending(ctx)
	if err != nil {
		return nil, storeErr("appointments", err)
	}
	out := make([]model.Appointment, 0, len(appts))
	for _, a := range appts {
		if a.Status == model.AppointmentStatusPending {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AppointmentDate.Before(out[j].AppointmentDate) })
	return out, nil
}

// activeLifts drops inactive lifts and orders the rest by position.
func activeLifts(lifts []model.Lift) []model.Lift {
	out := make([]model.Lift, 0, len(lifts))
	for _, l := range lifts {
		if l.IsActive {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}
