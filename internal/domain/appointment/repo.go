package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByDoctor(ctx context.Context, doctorID uuid.UUID) error

	// BookedTimes returns the start times of the doctor's appointments on a
	// calendar date. Feeds the availability engine.
	BookedTimes(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]time.Time, error)

	// ListConflicts returns the doctor's appointments starting within
	// [from, to] inclusive.
	ListConflicts(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*Appointment, error)

	// DetailsByDoctorDay lists joined rows for a doctor's day, optionally
	// narrowed by a case-insensitive patient-name substring.
	DetailsByDoctorDay(ctx context.Context, doctorID uuid.UUID, date time.Time, patientName string) ([]*Detail, error)

	// DetailsByPatient lists joined rows for a patient ordered by start time,
	// optionally narrowed by status and a doctor-name substring.
	DetailsByPatient(ctx context.Context, patientID uuid.UUID, status *Status, doctorName string) ([]*Detail, error)
}
