package model

import "time"

// Repair order statuses.  Only completed orders are excluded from the
// board; any other status is treated as open.
const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
)

// RepairOrder is a vehicle intake ticket.  The board never deletes
// orders; it only reads them and joins them against lift assignments.
//
// Fields:
//  ID                 – primary key identifier.
//  CustomerName       – customer shown on the board card.
//  VehiclePlate       – license plate.
//  VehicleModel       – free text make/model.
//  Status             – pending, in_progress, completed, ...
//  WaitingForParts    – order is blocked on a parts delivery.
//  PartsNote          – free text describing the missing parts.
//  PartsExpectedStart – expected parts arrival window start.
//  PartsExpectedEnd   – expected parts arrival window end.
type RepairOrder struct {
	ID                 string     `json:"id"`                             // repair_orders.id
	CustomerName       string     `json:"customer_name"`                  // repair_orders.customer_name
	VehiclePlate       string     `json:"vehicle_plate"`                  // repair_orders.vehicle_plate
	VehicleModel       string     `json:"vehicle_model"`                  // repair_orders.vehicle_model
	Status             string     `json:"status"`                         // repair_orders.status
	WaitingForParts    bool       `json:"waiting_for_parts"`              // repair_orders.waiting_for_parts
	PartsNote          *string    `json:"parts_note,omitempty"`           // repair_orders.parts_note (nullable)
	PartsExpectedStart *time.Time `json:"parts_expected_start,omitempty"` // repair_orders.parts_expected_start (nullable)
	PartsExpectedEnd   *time.Time `json:"parts_expected_end,omitempty"`   // repair_orders.parts_expected_end (nullable)
	CreatedAt          time.Time  `json:"created_at"`                     // repair_orders.created_at
	UpdatedAt          time.Time  `json:"updated_at"`                     // repair_orders.updated_at
}

// IsCompleted reports whether the order has been closed out.
func (o RepairOrder) IsCompleted() bool { return o.Status == OrderStatusCompleted }
