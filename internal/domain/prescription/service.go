package prescription

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/misterunderhilll/clinic-scheduler/internal/platform/apperr"
)

// StatusMarker flips an appointment into its prescribed state. Implemented
// by the appointment service.
type StatusMarker interface {
	MarkPrescribed(ctx context.Context, appointmentID uuid.UUID) error
}

type Service struct {
	prescriptions Repository
	appts         StatusMarker
}

func NewService(prescriptions Repository, appts StatusMarker) *Service {
	return &Service{prescriptions: prescriptions, appts: appts}
}

// Save issues a prescription against an appointment. The appointment is
// marked Prescribed first, so a storage failure on the insert leaves the
// status flipped; the unique index on prescription(appointment_id) is the
// final arbiter against concurrent saves.
func (s *Service) Save(ctx context.Context, p *Prescription) error {
	exists, err := s.prescriptions.ExistsByAppointment(ctx, p.AppointmentID)
	if err != nil {
		return fmt.Errorf("checking existing prescription: %w", err)
	}
	if exists {
		return fmt.Errorf("appointment %s: %w", p.AppointmentID, apperr.ErrConflict)
	}
	if err := s.appts.MarkPrescribed(ctx, p.AppointmentID); err != nil {
		return fmt.Errorf("marking appointment prescribed: %w", err)
	}
	return s.prescriptions.Create(ctx, p)
}

// Get returns the prescription issued for an appointment, or ErrNotFound
// when none was saved yet.
func (s *Service) Get(ctx context.Context, appointmentID uuid.UUID) (*Prescription, error) {
	return s.prescriptions.GetByAppointment(ctx, appointmentID)
}
