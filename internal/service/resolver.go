package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/iliyamo/lift-board/internal/model"
	"github.com/iliyamo/lift-board/internal/repository"
)

// WorkerResolver decides which orders are active and which technicians
// are currently working them.
type WorkerResolver struct {
	items   ActiveOrderFinder
	orders  OrderReader
	workers WorkerFinder
	logger  *zap.Logger
}

// NewWorkerResolver returns a resolver over the given collections.
func NewWorkerResolver(items ActiveOrderFinder, orders OrderReader, workers WorkerFinder, logger *zap.Logger) *WorkerResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerResolver{items: items, orders: orders, workers: workers, logger: logger}
}

// ActiveOrderIDs returns the ids of orders with unfinished repair work.
func (r *WorkerResolver) ActiveOrderIDs(ctx context.Context) ([]string, error) {
	ids, err := r.items.ActiveOrderIDs(ctx)
	if err != nil {
		return nil, storeErr("active_orders", err)
	}
	return ids, nil
}

// ActiveWorkers returns, per order, the technicians on an in-progress
// repair item of that order.  Both link paths are read and merged.
//
// A join table that does not exist yet (or lags behind the code) is
// not fatal: degraded is set and only the legacy column is used.
func (r *WorkerResolver) ActiveWorkers(ctx context.Context, orderIDs []string) (workers map[string][]model.ActiveWorker, degraded bool, err error) {
	if len(orderIDs) == 0 {
		return map[string][]model.ActiveWorker{}, false, nil
	}

	assigned, err := r.workers.AssignedByOrders(ctx, orderIDs)
	if err != nil {
		if !repository.IsSchemaLag(err) {
			return nil, false, storeErr("workers", err)
		}
		r.logger.Warn("worker assignment join unavailable, using legacy worker column only",
			zap.String("kind", string(KindDegradedJoin)), zap.Int("orders", len(orderIDs)), zap.Error(err))
		assigned, degraded = nil, true
	}

	legacy, err := r.workers.LegacyByOrders(ctx, orderIDs)
	if err != nil {
		return nil, false, storeErr("workers", err)
	}
	return UnionWorkers(assigned, legacy), degraded, nil
}

// ActiveWorkersForOrder returns the technicians currently working the
// given order.  It returns a KindNotFound error for an unknown order.
func (r *WorkerResolver) ActiveWorkersForOrder(ctx context.Context, orderID string) ([]model.ActiveWorker, error) {
	if _, err := r.orders.GetByID(ctx, orderID); err != nil {
		return nil, storeErr("order", err)
	}
	byOrder, _, err := r.ActiveWorkers(ctx, []string{orderID})
	if err != nil {
		return nil, err
	}
	if ws := byOrder[orderID]; ws != nil {
		return ws, nil
	}
	return []model.ActiveWorker{}, nil
}

// UnionWorkers merges technician rows from any number of sources into a
// per-order set keyed by worker id.  The first occurrence of a worker
// wins; each list is sorted by name, then id.
func UnionWorkers(sources ...[]model.OrderWorker) map[string][]model.ActiveWorker {
	out := make(map[string][]model.ActiveWorker)
	seen := make(map[string]map[string]struct{})
	for _, src := range sources {
		for _, ow := range src {
			if ow.Worker.WorkerID == "" {
				continue
			}
			ids, ok := seen[ow.OrderID]
			if !ok {
				ids = make(map[string]struct{})
				seen[ow.OrderID] = ids
			}
			if _, dup := ids[ow.Worker.WorkerID]; dup {
				continue
			}
			ids[ow.Worker.WorkerID] = struct{}{}
			out[ow.OrderID] = append(out[ow.OrderID], ow.Worker)
		}
	}
	for _, ws := range out {
		sort.Slice(ws, func(i, j int) bool {
			if ws[i].Name != ws[j].Name {
				return ws[i].Name < ws[j].Name
			}
			return ws[i].WorkerID < ws[j].WorkerID
		})
	}
	return out
}
