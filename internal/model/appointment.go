package model

import "time"

// AppointmentStatusPending marks a booking that has not arrived yet.
// Only pending appointments are queued on the board.
const AppointmentStatusPending = "pending"

// Appointment is a customer booking for a future visit.
type Appointment struct {
	ID              string    `json:"id"`               // appointments.id
	CustomerName    string    `json:"customer_name"`    // appointments.customer_name
	Phone           string    `json:"phone"`            // appointments.phone
	VehiclePlate    string    `json:"vehicle_plate"`    // appointments.vehicle_plate
	AppointmentDate time.Time `json:"appointment_date"` // appointments.appointment_date
	Status          string    `json:"status"`           // appointments.status
	Note            *string   `json:"note,omitempty"`   // appointments.note (nullable)
}
