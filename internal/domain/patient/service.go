package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/misterunderhilll/clinic-scheduler/internal/domain/appointment"
	"github.com/misterunderhilll/clinic-scheduler/internal/platform/apperr"
	"github.com/misterunderhilll/clinic-scheduler/internal/platform/auth"
)

// AppointmentLister is the slice of the appointment service used by the
// patient-facing listings.
type AppointmentLister interface {
	PatientAppointments(ctx context.Context, patientID uuid.UUID, status *appointment.Status, doctorName string) ([]*appointment.Detail, error)
}

type Service struct {
	patients Repository
	appts    AppointmentLister
	tokens   *auth.TokenService
}

func NewService(patients Repository, appts AppointmentLister, tokens *auth.TokenService) *Service {
	return &Service{patients: patients, appts: appts, tokens: tokens}
}

// Register creates a patient record. Duplicate email or phone is a conflict.
func (s *Service) Register(ctx context.Context, p *Patient, password string) error {
	taken, err := s.patients.ExistsByEmailOrPhone(ctx, p.Email, p.Phone)
	if err != nil {
		return fmt.Errorf("check duplicates: %w", err)
	}
	if taken {
		return fmt.Errorf("patient with that email or phone already exists: %w", apperr.ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	p.PasswordHash = string(hash)
	return s.patients.Create(ctx, p)
}

// Login verifies email/password and issues a credential with the patient's
// email as subject.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	p, err := s.patients.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", apperr.ErrUnauthorized
		}
		return "", fmt.Errorf("lookup patient: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return "", apperr.ErrUnauthorized
	}
	token, err := s.tokens.Issue(p.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Exists is the token subject resolver for the patient role.
func (s *Service) Exists(ctx context.Context, email string) (bool, error) {
	_, err := s.patients.GetByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Profile returns the patient behind a token subject.
func (s *Service) Profile(ctx context.Context, email string) (*Patient, error) {
	return s.patients.GetByEmail(ctx, email)
}

// IDByEmail resolves a token subject to the patient's id.
func (s *Service) IDByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	p, err := s.patients.GetByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

// Appointments lists all of a patient's appointments.
func (s *Service) Appointments(ctx context.Context, patientID uuid.UUID) ([]*appointment.Detail, error) {
	return s.appts.PatientAppointments(ctx, patientID, nil, "")
}

// FilterAppointments narrows a patient's appointments by condition and
// doctor name, both optional. "future" selects booked appointments, "past"
// completed ones; any other non-empty condition is invalid.
func (s *Service) FilterAppointments(ctx context.Context, patientID uuid.UUID, condition, doctorName string) ([]*appointment.Detail, error) {
	var status *appointment.Status
	switch strings.ToLower(condition) {
	case "":
		// no condition
	case "future":
		st := appointment.StatusBooked
		status = &st
	case "past":
		st := appointment.StatusCompleted
		status = &st
	default:
		return nil, fmt.Errorf("condition must be past or future: %w", apperr.ErrInvalid)
	}
	return s.appts.PatientAppointments(ctx, patientID, status, doctorName)
}
