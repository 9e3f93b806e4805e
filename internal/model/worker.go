package model

// ActiveWorker is a technician currently working an in-progress repair
// item of an order.  Technicians reach an item either through the
// worker_assignments join table or through the legacy
// repair_items.worker_id column; both are merged into one list.
type ActiveWorker struct {
	WorkerID   string `json:"worker_id"`   // workers.id
	Name       string `json:"name"`        // workers.name
	WorkerType string `json:"worker_type"` // workers.worker_type
}

// OrderWorker is one row of a worker lookup: the order the technician
// is active on and the technician itself.
type OrderWorker struct {
	OrderID string
	Worker  ActiveWorker
}
