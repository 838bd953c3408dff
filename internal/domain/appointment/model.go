package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Status is the appointment lifecycle state. The numeric values are part of
// the wire and storage format; patient-side "future" maps to Booked and
// "past" to Completed.
type Status int

const (
	StatusBooked     Status = 0
	StatusCompleted  Status = 1
	StatusPrescribed Status = 2
)

func (s Status) Valid() bool {
	switch s {
	case StatusBooked, StatusCompleted, StatusPrescribed:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	switch s {
	case StatusBooked:
		return "booked"
	case StatusCompleted:
		return "completed"
	case StatusPrescribed:
		return "prescribed"
	default:
		return "unknown"
	}
}

// Appointment maps to the appointment table. Every appointment lasts one
// hour; ends_at is derived, never stored.
type Appointment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	StartsAt  time.Time `db:"starts_at" json:"starts_at"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (a *Appointment) EndsAt() time.Time {
	return a.StartsAt.Add(time.Hour)
}

// Detail is the joined row returned by appointment listings: the appointment
// plus the doctor and patient fields the clients render.
type Detail struct {
	ID             uuid.UUID `json:"id"`
	DoctorID       uuid.UUID `json:"doctor_id"`
	DoctorName     string    `json:"doctor_name"`
	PatientID      uuid.UUID `json:"patient_id"`
	PatientName    string    `json:"patient_name"`
	PatientEmail   string    `json:"patient_email"`
	PatientPhone   string    `json:"patient_phone"`
	PatientAddress string    `json:"patient_address"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	Status         Status    `json:"status"`
}
