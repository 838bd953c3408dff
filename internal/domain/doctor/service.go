package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/misterunderhilll/clinic-scheduler/internal/platform/apperr"
	"github.com/misterunderhilll/clinic-scheduler/internal/platform/auth"
)

// BookedTimesLister reports the start times already booked for a doctor on a
// calendar date. Implemented by the appointment repository.
type BookedTimesLister interface {
	BookedTimes(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]time.Time, error)
}

// AppointmentPurger removes every appointment belonging to a doctor.
// Deleting a doctor cascades through this before the doctor row goes.
type AppointmentPurger interface {
	DeleteByDoctor(ctx context.Context, doctorID uuid.UUID) error
}

type Service struct {
	doctors    Repository
	booked     BookedTimesLister
	purger     AppointmentPurger
	tokens     *auth.TokenService
	availCache *AvailabilityCache
}

func NewService(doctors Repository, booked BookedTimesLister, purger AppointmentPurger,
	tokens *auth.TokenService, cache *AvailabilityCache) *Service {
	return &Service{doctors: doctors, booked: booked, purger: purger, tokens: tokens, availCache: cache}
}

// Login verifies email/password and issues a credential with the doctor's
// email as subject.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	d, err := s.doctors.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", apperr.ErrUnauthorized
		}
		return "", fmt.Errorf("lookup doctor: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(password)) != nil {
		return "", apperr.ErrUnauthorized
	}
	token, err := s.tokens.Issue(d.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Exists is the token subject resolver for the doctor role.
func (s *Service) Exists(ctx context.Context, email string) (bool, error) {
	_, err := s.doctors.GetByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

// ExistsByID reports whether a doctor row exists. Used by the booking flow's
// doctor-not-found branch.
func (s *Service) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.doctors.GetByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IDByEmail resolves a token subject to the doctor's id.
func (s *Service) IDByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	d, err := s.doctors.GetByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, err
	}
	return d.ID, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Doctor, error) {
	return s.doctors.GetByEmail(ctx, email)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, limit, offset)
}

// Filter composes the optional criteria conjunctively: name is a
// case-insensitive substring, specialty a case-insensitive exact match, and
// period ("AM"/"PM") keeps a doctor when any declared slot falls in that half
// of the day. Empty arguments mean the criterion is absent; all absent
// returns every doctor.
func (s *Service) Filter(ctx context.Context, name, specialty, period string) ([]*Doctor, error) {
	doctors, err := s.doctors.Search(ctx, name, specialty)
	if err != nil {
		return nil, fmt.Errorf("search doctors: %w", err)
	}
	if period == "" {
		return doctors, nil
	}

	filtered := make([]*Doctor, 0, len(doctors))
	for _, d := range doctors {
		if d.AvailableInPeriod(period) {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

// Availability returns the doctor's declared slots with that day's booked
// times removed, preserving declaration order. An unknown doctor yields an
// empty list, not an error.
func (s *Service) Availability(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	if s.availCache != nil {
		if slots, ok := s.availCache.Get(doctorID, date); ok {
			return slots, nil
		}
	}

	d, err := s.doctors.GetByID(ctx, doctorID)
	if errors.Is(err, apperr.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup doctor: %w", err)
	}

	bookedAt, err := s.booked.BookedTimes(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("list booked times: %w", err)
	}
	taken := make(map[string]bool, len(bookedAt))
	for _, t := range bookedAt {
		taken[t.Format("15:04")] = true
	}

	free := make([]string, 0, len(d.AvailableTimes))
	for _, slot := range d.AvailableTimes {
		if !taken[slot] {
			free = append(free, slot)
		}
	}

	if s.availCache != nil {
		s.availCache.Put(doctorID, date, free)
	}
	return free, nil
}

// Register creates a doctor record. Duplicate email or phone is a conflict.
func (s *Service) Register(ctx context.Context, d *Doctor, password string) error {
	taken, err := s.doctors.ExistsByEmailOrPhone(ctx, d.Email, d.Phone)
	if err != nil {
		return fmt.Errorf("check duplicates: %w", err)
	}
	if taken {
		return fmt.Errorf("doctor with that email or phone already exists: %w", apperr.ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	d.PasswordHash = string(hash)
	return s.doctors.Create(ctx, d)
}

// Update replaces the doctor's mutable fields. The password hash is left
// untouched.
func (s *Service) Update(ctx context.Context, d *Doctor) error {
	if err := s.doctors.Update(ctx, d); err != nil {
		return err
	}
	if s.availCache != nil {
		s.availCache.InvalidateDoctor(d.ID)
	}
	return nil
}

// Delete removes the doctor and every appointment booked with them.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.doctors.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.purger.DeleteByDoctor(ctx, id); err != nil {
		return fmt.Errorf("purge appointments: %w", err)
	}
	if err := s.doctors.Delete(ctx, id); err != nil {
		return err
	}
	if s.availCache != nil {
		s.availCache.InvalidateDoctor(id)
	}
	return nil
}
