package model

// RepairTypeRepair is the only item category that occupies a lift.
// Parts sales, washes and inspections do not.  An order needs a lift
// while it has at least one repair item of this type that is not
// completed.
const RepairTypeRepair = "sua_chua"

// Repair item statuses.  Technicians count as active only on
// in-progress items.
const (
	ItemStatusPending    = "pending"
	ItemStatusInProgress = "in_progress"
	ItemStatusCompleted  = "completed"
)
