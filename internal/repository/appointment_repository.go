package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/lift-board/internal/model"
)

// AppointmentRepo reads customer bookings.
type AppointmentRepo struct {
	db *sql.DB
}

// NewAppointmentRepo returns a new AppointmentRepo bound to the given database.
func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{db: db} }

// ListPending returns pending appointments ordered by appointment date
// ascending, earliest first.
func (r *AppointmentRepo) ListPending(ctx context.Context) ([]model.Appointment, error) {
	const q = `SELECT id, customer_name, phone, vehicle_plate, appointment_date, status, note
               FROM appointments
               WHERE status = ?
               ORDER BY appointment_date ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, model.AppointmentStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Appointment, 0)
	for rows.Next() {
		var a model.Appointment
		var note sql.NullString
		if err := rows.Scan(&a.ID, &a.CustomerName, &a.Phone, &a.VehiclePlate, &a.AppointmentDate, &a.Status, &note); err != nil {
			return nil, err
		}
		a.AppointmentDate = a.AppointmentDate.UTC()
		a.Note = stringPtr(note)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
