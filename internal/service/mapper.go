package service

import "github.com/iliyamo/lift-board/internal/model"

// MapOccupancy splits active orders into those on a lift and those
// waiting for one.  An order is on a lift when it has an assignment row
// with a lift id; an order without a row, or whose row has been cleared,
// is unassigned.  Completed orders are dropped.  Both lists follow the
// order of orders.
func MapOccupancy(orders []model.RepairOrder, assignments []model.LiftAssignment, workers map[string][]model.ActiveWorker) ([]model.BoardAssignmentView, []model.BoardOrderView) {
	byOrder := make(map[string]model.LiftAssignment, len(assignments))
	for _, a := range assignments {
		byOrder[a.RepairOrderID] = a
	}

	assigned := make([]model.BoardAssignmentView, 0, len(assignments))
	unassigned := make([]model.BoardOrderView, 0, len(orders))
	for _, o := range orders {
		if o.IsCompleted() {
			continue
		}
		ws := workers[o.ID]
		if ws == nil {
			ws = []model.ActiveWorker{}
		}
		if a, ok := byOrder[o.ID]; ok && a.OnLift() {
			assigned = append(assigned, model.BoardAssignmentView{Assignment: a, Order: o, ActiveWorkers: ws})
			continue
		}
		unassigned = append(unassigned, model.BoardOrderView{Order: o, ActiveWorkers: ws})
	}
	return assigned, unassigned
}
