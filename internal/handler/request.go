package handler

import "github.com/iliyamo/lift-board/internal/model"

type upsertRequest struct {
	RepairOrderID  string     `json:"repair_order_id"`
	LiftID         string     `json:"lift_id"`
	ScheduledStart *timestamp `json:"scheduled_start"`
	ScheduledEnd   *timestamp `json:"scheduled_end"`
}

// patchRequest fields left out of the JSON body stay nil and are not
// written.
type patchRequest struct {
	LiftID             *string    `json:"lift_id"`
	ScheduledStart     *timestamp `json:"scheduled_start"`
	ScheduledEnd       *timestamp `json:"scheduled_end"`
	WaitingForParts    *bool      `json:"waiting_for_parts"`
	PartsNote          *string    `json:"parts_note"`
	PartsExpectedStart *timestamp `json:"parts_expected_start"`
	PartsExpectedEnd   *timestamp `json:"parts_expected_end"`
}

func (r patchRequest) patch() model.AssignmentPatch {
	return model.AssignmentPatch{
		LiftID:             r.LiftID,
		ScheduledStart:     r.ScheduledStart.ptr(),
		ScheduledEnd:       r.ScheduledEnd.ptr(),
		WaitingForParts:    r.WaitingForParts,
		PartsNote:          r.PartsNote,
		PartsExpectedStart: r.PartsExpectedStart.ptr(),
		PartsExpectedEnd:   r.PartsExpectedEnd.ptr(),
	}
}

type partsWaitRequest struct {
	WaitingForParts *bool      `json:"waiting_for_parts"`
	PartsNote       *string    `json:"parts_note"`
	ExpectedStart   *timestamp `json:"parts_expected_start"`
	ExpectedEnd     *timestamp `json:"parts_expected_end"`
}

func (r partsWaitRequest) partsWait() model.PartsWait {
	return model.PartsWait{
		WaitingForParts: r.WaitingForParts,
		Note:            r.PartsNote,
		ExpectedStart:   r.ExpectedStart.ptr(),
		ExpectedEnd:     r.ExpectedEnd.ptr(),
	}
}
