package prescription

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/misterunderhilll/clinic-scheduler/internal/platform/apperr"
)

type mockRepo struct {
	byAppointment map[uuid.UUID]*Prescription
}

func newMockRepo() *mockRepo {
	return &mockRepo{byAppointment: make(map[uuid.UUID]*Prescription)}
}

func (m *mockRepo) Create(_ context.Context, p *Prescription) error {
	p.ID = uuid.New()
	m.byAppointment[p.AppointmentID] = p
	return nil
}

func (m *mockRepo) GetByAppointment(_ context.Context, appointmentID uuid.UUID) (*Prescription, error) {
	p, ok := m.byAppointment[appointmentID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) ExistsByAppointment(_ context.Context, appointmentID uuid.UUID) (bool, error) {
	_, ok := m.byAppointment[appointmentID]
	return ok, nil
}

type mockMarker struct {
	marked []uuid.UUID
	err    error
}

func (m *mockMarker) MarkPrescribed(_ context.Context, appointmentID uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.marked = append(m.marked, appointmentID)
	return nil
}

func TestSave_MarksAppointmentAndStores(t *testing.T) {
	repo := newMockRepo()
	marker := &mockMarker{}
	svc := NewService(repo, marker)

	apptID := uuid.New()
	p := &Prescription{
		AppointmentID: apptID,
		PatientName:   "Jane Roe",
		Medication:    "Amoxicillin",
		Dosage:        "500mg twice daily",
	}
	if err := svc.Save(context.Background(), p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(marker.marked) != 1 || marker.marked[0] != apptID {
		t.Fatalf("expected appointment %s marked prescribed, got %v", apptID, marker.marked)
	}
	stored, err := svc.Get(context.Background(), apptID)
	if err != nil {
		t.Fatalf("Get after Save: %v", err)
	}
	if stored.Medication != "Amoxicillin" {
		t.Fatalf("stored medication = %q", stored.Medication)
	}
}

func TestSave_SecondPrescriptionConflicts(t *testing.T) {
	repo := newMockRepo()
	marker := &mockMarker{}
	svc := NewService(repo, marker)

	apptID := uuid.New()
	first := &Prescription{AppointmentID: apptID, Medication: "Ibuprofen", Dosage: "200mg"}
	if err := svc.Save(context.Background(), first); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	second := &Prescription{AppointmentID: apptID, Medication: "Paracetamol", Dosage: "500mg"}
	err := svc.Save(context.Background(), second)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if len(marker.marked) != 1 {
		t.Fatalf("duplicate save must not re-mark the appointment, marked %d times", len(marker.marked))
	}
	kept, _ := svc.Get(context.Background(), apptID)
	if kept.Medication != "Ibuprofen" {
		t.Fatalf("duplicate save overwrote the original prescription: %q", kept.Medication)
	}
}

func TestSave_UnknownAppointment(t *testing.T) {
	repo := newMockRepo()
	marker := &mockMarker{err: apperr.ErrNotFound}
	svc := NewService(repo, marker)

	p := &Prescription{AppointmentID: uuid.New(), Medication: "Ibuprofen", Dosage: "200mg"}
	err := svc.Save(context.Background(), p)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(repo.byAppointment) != 0 {
		t.Fatal("no prescription row should be written when the status update fails")
	}
}

func TestGet_NoneSaved(t *testing.T) {
	svc := NewService(newMockRepo(), &mockMarker{})

	_, err := svc.Get(context.Background(), uuid.New())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
