package appointment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/misterunderhilll/clinic-scheduler/internal/platform/apperr"
)

// -- Mock Repository --

type mockRepo struct {
	appts map[uuid.UUID]*Appointment
	// doctor/patient names for detail rows
	doctorNames  map[uuid.UUID]string
	patientNames map[uuid.UUID]string
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		appts:        make(map[uuid.UUID]*Appointment),
		doctorNames:  make(map[uuid.UUID]string),
		patientNames: make(map[uuid.UUID]string),
	}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.appts[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return a, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	if _, ok := m.appts[a.ID]; !ok {
		return apperr.ErrNotFound
	}
	m.appts[a.ID] = a
	return nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status Status) error {
	a, ok := m.appts[id]
	if !ok {
		return apperr.ErrNotFound
	}
	a.Status = status
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.appts[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(m.appts, id)
	return nil
}

func (m *mockRepo) DeleteByDoctor(_ context.Context, doctorID uuid.UUID) error {
	for id, a := range m.appts {
		if a.DoctorID == doctorID {
			delete(m.appts, id)
		}
	}
	return nil
}

func (m *mockRepo) BookedTimes(_ context.Context, doctorID uuid.UUID, date time.Time) ([]time.Time, error) {
	var times []time.Time
	for _, a := range m.appts {
		if a.DoctorID == doctorID && sameDay(a.StartsAt, date) {
			times = append(times, a.StartsAt)
		}
	}
	return times, nil
}

func (m *mockRepo) ListConflicts(_ context.Context, doctorID uuid.UUID, from, to time.Time) ([]*Appointment, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if a.DoctorID == doctorID && !a.StartsAt.Before(from) && !a.StartsAt.After(to) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockRepo) DetailsByDoctorDay(_ context.Context, doctorID uuid.UUID, date time.Time, patientName string) ([]*Detail, error) {
	var result []*Detail
	for _, a := range m.appts {
		if a.DoctorID != doctorID || !sameDay(a.StartsAt, date) {
			continue
		}
		name := m.patientNames[a.PatientID]
		if patientName != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(patientName)) {
			continue
		}
		result = append(result, m.detail(a))
	}
	return result, nil
}

func (m *mockRepo) DetailsByPatient(_ context.Context, patientID uuid.UUID, status *Status, doctorName string) ([]*Detail, error) {
	var result []*Detail
	for _, a := range m.appts {
		if a.PatientID != patientID {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		dname := m.doctorNames[a.DoctorID]
		if doctorName != "" && !strings.Contains(strings.ToLower(dname), strings.ToLower(doctorName)) {
			continue
		}
		result = append(result, m.detail(a))
	}
	return result, nil
}

func (m *mockRepo) detail(a *Appointment) *Detail {
	return &Detail{
		ID:          a.ID,
		DoctorID:    a.DoctorID,
		DoctorName:  m.doctorNames[a.DoctorID],
		PatientID:   a.PatientID,
		PatientName: m.patientNames[a.PatientID],
		StartsAt:    a.StartsAt,
		EndsAt:      a.EndsAt(),
		Status:      a.Status,
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// -- Mock doctor directory --

type mockDoctors struct {
	slots  map[uuid.UUID][]string
	emails map[string]uuid.UUID
	repo   *mockRepo
}

func newMockDoctors(repo *mockRepo) *mockDoctors {
	return &mockDoctors{
		slots:  make(map[uuid.UUID][]string),
		emails: make(map[string]uuid.UUID),
		repo:   repo,
	}
}

func (m *mockDoctors) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.slots[id]
	return ok, nil
}

func (m *mockDoctors) IDByEmail(_ context.Context, email string) (uuid.UUID, error) {
	id, ok := m.emails[email]
	if !ok {
		return uuid.Nil, apperr.ErrNotFound
	}
	return id, nil
}

// Availability mirrors the real engine: declared slots minus booked times.
func (m *mockDoctors) Availability(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	declared, ok := m.slots[doctorID]
	if !ok {
		return []string{}, nil
	}
	booked, err := m.repo.BookedTimes(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool)
	for _, t := range booked {
		taken[t.Format("15:04")] = true
	}
	var free []string
	for _, s := range declared {
		if !taken[s] {
			free = append(free, s)
		}
	}
	return free, nil
}

type recordingInvalidator struct {
	keys []string
}

func (r *recordingInvalidator) Invalidate(doctorID uuid.UUID, date time.Time) {
	r.keys = append(r.keys, doctorID.String()+"|"+date.Format("2006-01-02"))
}

func newTestService() (*Service, *mockRepo, *mockDoctors, *recordingInvalidator) {
	repo := newMockRepo()
	doctors := newMockDoctors(repo)
	inv := &recordingInvalidator{}
	return NewService(repo, doctors, inv), repo, doctors, inv
}

func addDoctor(doctors *mockDoctors, repo *mockRepo, name, email string, slots []string) uuid.UUID {
	id := uuid.New()
	doctors.slots[id] = slots
	doctors.emails[email] = id
	repo.doctorNames[id] = name
	return id
}

func futureAt(hour, min int) time.Time {
	day := time.Now().AddDate(0, 0, 7)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, time.UTC)
}

// -- Book --

func TestBook_Success(t *testing.T) {
	svc, repo, doctors, inv := newTestService()
	docID := addDoctor(doctors, repo, "House", "house@clinic.test", []string{"09:00", "10:00"})
	patientID := uuid.New()

	a, err := svc.Book(context.Background(), patientID, docID, futureAt(9, 0))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if a.Status != StatusBooked {
		t.Errorf("new appointment status = %v, want booked", a.Status)
	}
	if len(inv.keys) != 1 {
		t.Errorf("expected one cache invalidation, got %d", len(inv.keys))
	}
}

func TestBook_UnknownDoctor(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Book(context.Background(), uuid.New(), uuid.New(), futureAt(9, 0))
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBook_SlotTaken(t *testing.T) {
	svc, repo, doctors, _ := newTestService()
	docID := addDoctor(doctors, repo, "House", "house@clinic.test", []string{"09:00"})

	if _, err := svc.Book(context.Background(), uuid.New(), docID, futureAt(9, 0)); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	_, err := svc.Book(context.Background(), uuid.New(), docID, futureAt(9, 0))
	if !errors.Is(err, apperr.ErrSlotUnavailable) {
		t.Errorf("expected ErrSlotUnavailable, got %v", err)
	}
}

func TestBook_UndeclaredSlot(t *testing.T) {
	svc, repo, doctors, _ := newTestService()
	docID := addDoctor(doctors, repo, "House", "house@clinic.test", []string{"09:00"})

	_, err := svc.Book(context.Background(), uuid.New(), docID, futureAt(13, 30))
	if !errors.Is(err, apperr.ErrSlotUnavailable) {
		t.Errorf("expected ErrSlotUnavailable for undeclared slot, got %v", err)
	}
}

func TestBook_PastStart(t *testing.T) {
	svc, repo, doctors, _ := newTestService()
	docID := addDoctor(doctors, repo, "House", "house@clinic.test", []string{"09:00"})

	past := time.Now().AddDate(0, 0, -1)
	_, err := svc.Book(context.Background(), uuid.New(), docID, past)
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("expected ErrInvalid for past start, got %v", err)
	}
}

// The check-then-insert in Book is not atomic: two bookings that both pass
// the availability check before either inserts will both succeed at this
// layer. The schema's unique index on (doctor_id, starts_at) is the actual
// arbiter.
func TestBook_CheckThenInsertIsNotAtomic(t *testing.T) {
	svc, repo, doctors, _ := newTestService()
	docID := addDoctor(doctors, repo, "House", "house@clinic.test", []string{"09:00"})
	at := futureAt(9, 0)

	open, err := svc.doctors.Availability(context.Background(), docID, at)
	if err != nil || len(open) != 1 {
		t.Fatalf("availability precheck: %v %v", open, err)
	}

	// Both "requests" observed the slot as free; both inserts succeed.
	first := &Appointment{DoctorID: docID, PatientID: uuid.New(), StartsAt: at, Status: StatusBooked}
	second := &Appointment{DoctorID: docID, PatientID: uuid.New(), StartsAt: at, Status: StatusBooked}
	if err := repo.Create(context.Background(), first); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := repo.Create(context.Background(), second); err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if len(repo.appts) != 2 {
		t.Fatalf("expected the double booking to land at the application layer, got %d rows", len(repo.appts))
	}
}

// -- Update --

func TestUpdate_OwnershipAndConflict(t *testing.T) {
	svc, repo, doctors, _ := newTestService()
	docID := addDoctor(doctors, repo, "House", "house@clinic.test", []string{"09:00", "10:00", "11:00"})
	owner := uuid.New()

	a, err := svc.Book(context.Background(), owner, docID, futureAt(9, 0))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	other, err := svc.Book(context.Background(), uuid.New(), docID, futureAt(11, 0))
	if err != nil {
		t.Fatalf("Book other: %v", err)
	}
	_ = other

	// Not the owner.
	err = svc.Update(context.Background(), a.ID, uuid.New(), futureAt(10, 0), StatusBooked)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	// New time within 59 minutes of the 11:00 appointment.
	err = svc.Update(context.Background(), a.ID, owner, futureAt(10, 30), StatusBooked)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected ErrConflict near another appointment, got %v", err)
	}

	// Moving within its own window must not conflict with itself.
	if err := svc.Update(context.Background(), a.ID, owner, futureAt(9, 30), StatusBooked); err != nil {
		t.Errorf("self-overlap should be allowed: %v", err)
	}

	moved, err := repo.GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if moved.StartsAt != futureAt(9, 30) {
		t.Errorf("start not updated: %v", moved.StartsAt)
	}
}

func TestUpdate_UnknownAppointment(t *testing.T) {
	svc, _, _, _ := newTestService()

	err := svc.Update(context.Background(), uuid.New(), uuid.New(), futureAt(9, 0), StatusBooked)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// -- Cancel --

func TestCancel(t *testing.T) {
	svc, repo, doctors, _ := newTestService()
	docID := addDoctor(doctors, repo, "House", "house@clinic.test", []string{"09:00"})
	owner := uuid.New()

	a, err := svc.Book(context.Background(), owner, docID, futureAt(9, 0))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	if err := svc.Cancel(context.Background(), a.ID, uuid.New()); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected ErrForbidden for foreign cancel, got %v", err)
	}
	if err := svc.Cancel(context.Background(), a.ID, owner); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), a.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Error("expected appointment row to be gone")
	}
	if err := svc.Cancel(context.Background(), a.ID, owner); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound for repeated cancel, got %v", err)
	}
}

// -- Status --

func TestChangeStatus(t *testing.T) {
	svc, repo, doctors, _ := newTestService()
	docID := addDoctor(doctors, repo, "House", "house@clinic.test", []string{"09:00"})

	a, err := svc.Book(context.Background(), uuid.New(), docID, futureAt(9, 0))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	if err := svc.ChangeStatus(context.Background(), a.ID, StatusCompleted); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	got, _ := repo.GetByID(context.Background(), a.ID)
	if got.Status != StatusCompleted {
		t.Errorf("status = %v, want completed", got.Status)
	}

	if err := svc.ChangeStatus(context.Background(), a.ID, Status(7)); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("expected ErrInvalid for out-of-enum status, got %v", err)
	}
}

// -- Listings --

func TestDoctorDay(t *testing.T) {
	svc, repo, doctors, _ := newTestService()
	docID := addDoctor(doctors, repo, "House", "house@clinic.test", []string{"09:00", "10:00"})
	alice, bob := uuid.New(), uuid.New()
	repo.patientNames[alice] = "Alice Smith"
	repo.patientNames[bob] = "Bob Jones"

	if _, err := svc.Book(context.Background(), alice, docID, futureAt(9, 0)); err != nil {
		t.Fatalf("Book: %v", err)
	}
	if _, err := svc.Book(context.Background(), bob, docID, futureAt(10, 0)); err != nil {
		t.Fatalf("Book: %v", err)
	}

	day := futureAt(0, 0)
	all, err := svc.DoctorDay(context.Background(), docID, day, "")
	if err != nil {
		t.Fatalf("DoctorDay: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 appointments, got %d", len(all))
	}

	named, err := svc.DoctorDay(context.Background(), docID, day, "ali")
	if err != nil {
		t.Fatalf("DoctorDay: %v", err)
	}
	if len(named) != 1 || named[0].PatientName != "Alice Smith" {
		t.Errorf("name filter: got %d rows", len(named))
	}
	if !named[0].EndsAt.Equal(named[0].StartsAt.Add(time.Hour)) {
		t.Error("expected derived one-hour end time")
	}
}
