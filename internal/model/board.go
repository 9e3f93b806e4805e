package model

import "time"

// BoardOrderView is an active order that is not on a lift, together
// with the technicians currently working it.
type BoardOrderView struct {
	Order         RepairOrder    `json:"order"`
	ActiveWorkers []ActiveWorker `json:"active_workers"`
}

// BoardAssignmentView is an active order that occupies a lift.
type BoardAssignmentView struct {
	Assignment    LiftAssignment `json:"assignment"`
	Order         RepairOrder    `json:"order"`
	ActiveWorkers []ActiveWorker `json:"active_workers"`
}

// BoardSnapshot is the reconciled view of the shop floor.  Slices are
// never nil so clients always receive JSON arrays.
//
// Degraded is set when technician data could only be read from the
// legacy worker column.
type BoardSnapshot struct {
	Lifts            []Lift                `json:"lifts"`
	Assignments      []BoardAssignmentView `json:"assignments"`
	UnassignedOrders []BoardOrderView      `json:"unassigned_orders"`
	Appointments     []Appointment         `json:"appointments"`
	Degraded         bool                  `json:"degraded,omitempty"`
	GeneratedAt      time.Time             `json:"generated_at"`
}
