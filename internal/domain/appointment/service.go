package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/misterunderhilll/clinic-scheduler/internal/platform/apperr"
)

// DoctorDirectory is the slice of the doctor service the booking flow needs.
type DoctorDirectory interface {
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	IDByEmail(ctx context.Context, email string) (uuid.UUID, error)
	Availability(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error)
}

// AvailabilityInvalidator drops cached availability for a doctor-day after a
// booking mutation.
type AvailabilityInvalidator interface {
	Invalidate(doctorID uuid.UUID, date time.Time)
}

type Service struct {
	appts   Repository
	doctors DoctorDirectory
	cache   AvailabilityInvalidator
}

func NewService(appts Repository, doctors DoctorDirectory, cache AvailabilityInvalidator) *Service {
	return &Service{appts: appts, doctors: doctors, cache: cache}
}

func (s *Service) invalidate(doctorID uuid.UUID, at time.Time) {
	if s.cache != nil {
		s.cache.Invalidate(doctorID, at)
	}
}

// Book creates an appointment. The outcome is three-way: unknown doctor,
// slot not currently available, or booked. The availability check and the
// insert are not atomic; the schema's unique index catches the race.
func (s *Service) Book(ctx context.Context, patientID, doctorID uuid.UUID, startsAt time.Time) (*Appointment, error) {
	exists, err := s.doctors.ExistsByID(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("check doctor: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("doctor not found: %w", apperr.ErrNotFound)
	}
	if !startsAt.After(time.Now()) {
		return nil, fmt.Errorf("appointment time must be in the future: %w", apperr.ErrInvalid)
	}

	open, err := s.doctors.Availability(ctx, doctorID, startsAt)
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}
	slot := startsAt.Format("15:04")
	free := false
	for _, o := range open {
		if o == slot {
			free = true
			break
		}
	}
	if !free {
		return nil, fmt.Errorf("slot %s is not available: %w", slot, apperr.ErrSlotUnavailable)
	}

	a := &Appointment{
		DoctorID:  doctorID,
		PatientID: patientID,
		StartsAt:  startsAt,
		Status:    StatusBooked,
	}
	if err := s.appts.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	s.invalidate(doctorID, startsAt)
	return a, nil
}

// Update moves an owned appointment to a new time. The doctor must not have
// another appointment within 59 minutes either side of the new start; the
// appointment being moved does not conflict with itself.
func (s *Service) Update(ctx context.Context, appointmentID, patientID uuid.UUID, startsAt time.Time, status Status) error {
	existing, err := s.appts.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if existing.PatientID != patientID {
		return fmt.Errorf("appointment belongs to another patient: %w", apperr.ErrForbidden)
	}
	if !status.Valid() {
		return fmt.Errorf("invalid status %d: %w", status, apperr.ErrInvalid)
	}

	window := 59 * time.Minute
	neighbors, err := s.appts.ListConflicts(ctx, existing.DoctorID, startsAt.Add(-window), startsAt.Add(window))
	if err != nil {
		return fmt.Errorf("check conflicts: %w", err)
	}
	for _, n := range neighbors {
		if n.ID != appointmentID {
			return fmt.Errorf("doctor already has an appointment at that time: %w", apperr.ErrConflict)
		}
	}

	oldStart := existing.StartsAt
	existing.StartsAt = startsAt
	existing.Status = status
	if err := s.appts.Update(ctx, existing); err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	s.invalidate(existing.DoctorID, oldStart)
	s.invalidate(existing.DoctorID, startsAt)
	return nil
}

// Cancel deletes an owned appointment.
func (s *Service) Cancel(ctx context.Context, appointmentID, patientID uuid.UUID) error {
	existing, err := s.appts.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if existing.PatientID != patientID {
		return fmt.Errorf("appointment belongs to another patient: %w", apperr.ErrForbidden)
	}
	if err := s.appts.Delete(ctx, appointmentID); err != nil {
		return err
	}
	s.invalidate(existing.DoctorID, existing.StartsAt)
	return nil
}

// ChangeStatus sets the status with no transition rules beyond enum
// membership.
func (s *Service) ChangeStatus(ctx context.Context, appointmentID uuid.UUID, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %d: %w", status, apperr.ErrInvalid)
	}
	return s.appts.UpdateStatus(ctx, appointmentID, status)
}

// MarkPrescribed flips an appointment to Prescribed. Called by the
// prescription flow before the prescription row is written.
func (s *Service) MarkPrescribed(ctx context.Context, appointmentID uuid.UUID) error {
	return s.appts.UpdateStatus(ctx, appointmentID, StatusPrescribed)
}

// Get returns one appointment by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appts.GetByID(ctx, id)
}

// DoctorDay lists a doctor's appointments on a date with an optional
// patient-name substring.
func (s *Service) DoctorDay(ctx context.Context, doctorID uuid.UUID, date time.Time, patientName string) ([]*Detail, error) {
	return s.appts.DetailsByDoctorDay(ctx, doctorID, date, patientName)
}

// PatientAppointments lists a patient's appointments, optionally narrowed by
// status and doctor-name substring.
func (s *Service) PatientAppointments(ctx context.Context, patientID uuid.UUID, status *Status, doctorName string) ([]*Detail, error) {
	return s.appts.DetailsByPatient(ctx, patientID, status, doctorName)
}

// DoctorIDByEmail resolves a doctor token subject for the doctor-facing
// routes.
func (s *Service) DoctorIDByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	return s.doctors.IDByEmail(ctx, email)
}

// DeleteByDoctor removes all of a doctor's appointments. The doctor service
// calls this while cascading a doctor delete.
func (s *Service) DeleteByDoctor(ctx context.Context, doctorID uuid.UUID) error {
	return s.appts.DeleteByDoctor(ctx, doctorID)
}
