// Package queue defines message payloads exchanged over the message broker.
package queue

// Actions carried by AssignmentChangedEvent.
const (
	ActionUpserted  = "upserted"
	ActionUpdated   = "updated"
	ActionCleared   = "cleared"
	ActionPartsWait = "parts_wait"
)

// AssignmentChangedEvent is published after a lift assignment has been
// written.  It carries the stored state of the row so downstream
// consumers (shop floor screens, chat notifications) do not have to
// query the primary database.
type AssignmentChangedEvent struct {
	Action          string  `json:"action"`
	AssignmentID    string  `json:"assignment_id"`
	RepairOrderID   string  `json:"repair_order_id"`
	LiftID          *string `json:"lift_id"`
	ScheduledStart  string  `json:"scheduled_start,omitempty"`
	ScheduledEnd    string  `json:"scheduled_end,omitempty"`
	WaitingForParts bool    `json:"waiting_for_parts"`
	PartsNote       string  `json:"parts_note,omitempty"`
	ChangedBy       string  `json:"changed_by,omitempty"`
	ChangedAt       string  `json:"changed_at"`
}
