package model

import "time"

// LiftAssignment places a repair order on a lift.  There is at most one
// row per repair order.  A row with a nil LiftID tracks an order that is
// known to the board (usually because of parts-wait data) but is not on
// a lift.
//
// Fields:
//  ID                 – primary key identifier.
//  RepairOrderID      – owning order, unique.
//  LiftID             – occupied lift; nil when cleared.
//  ScheduledStart     – planned start on the lift (nullable).
//  ScheduledEnd       – planned end on the lift (nullable).
//  WaitingForParts    – parts-wait flag copied for board display.
//  PartsNote          – parts-wait note.
//  PartsExpectedStart – expected parts arrival window start.
//  PartsExpectedEnd   – expected parts arrival window end.
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – touched by every mutation.
type LiftAssignment struct {
	ID                 string     `json:"id"`                             // lift_assignments.id
	RepairOrderID      string     `json:"repair_order_id"`                // lift_assignments.repair_order_id
	LiftID             *string    `json:"lift_id"`                        // lift_assignments.lift_id (nullable)
	ScheduledStart     *time.Time `json:"scheduled_start"`                // lift_assignments.scheduled_start (nullable)
	ScheduledEnd       *time.Time `json:"scheduled_end"`                  // lift_assignments.scheduled_end (nullable)
	WaitingForParts    bool       `json:"waiting_for_parts"`              // lift_assignments.waiting_for_parts
	PartsNote          *string    `json:"parts_note,omitempty"`           // lift_assignments.parts_note (nullable)
	PartsExpectedStart *time.Time `json:"parts_expected_start,omitempty"` // lift_assignments.parts_expected_start (nullable)
	PartsExpectedEnd   *time.Time `json:"parts_expected_end,omitempty"`   // lift_assignments.parts_expected_end (nullable)
	CreatedAt          time.Time  `json:"created_at"`                     // lift_assignments.created_at
	UpdatedAt          time.Time  `json:"updated_at"`                     // lift_assignments.updated_at
}

// OnLift reports whether the assignment currently occupies a lift.
func (a LiftAssignment) OnLift() bool { return a.LiftID != nil && *a.LiftID != "" }

// AssignmentPatch carries a partial update of a lift assignment.  A nil
// field is left untouched.
type AssignmentPatch struct {
	LiftID             *string
	ScheduledStart     *time.Time
	ScheduledEnd       *time.Time
	WaitingForParts    *bool
	PartsNote          *string
	PartsExpectedStart *time.Time
	PartsExpectedEnd   *time.Time
}

// IsEmpty reports whether no field is supplied.
func (p AssignmentPatch) IsEmpty() bool {
	return p.LiftID == nil && p.ScheduledStart == nil && p.ScheduledEnd == nil &&
		p.WaitingForParts == nil && p.PartsNote == nil &&
		p.PartsExpectedStart == nil && p.PartsExpectedEnd == nil
}

// PartsWait is the parts-wait block of an assignment.
type PartsWait struct {
	WaitingForParts *bool
	Note            *string
	ExpectedStart   *time.Time
	ExpectedEnd     *time.Time
}

// Patch converts the parts-wait block into an AssignmentPatch that
// leaves the lift window alone.
func (p PartsWait) Patch() AssignmentPatch {
	return AssignmentPatch{
		WaitingForParts:    p.WaitingForParts,
		PartsNote:          p.Note,
		PartsExpectedStart: p.ExpectedStart,
		PartsExpectedEnd:   p.ExpectedEnd,
	}
}
