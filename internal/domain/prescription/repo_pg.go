package prescription

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/misterunderhilll/clinic-scheduler/internal/platform/apperr"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const prescriptionCols = `id, appointment_id, patient_name, medication, dosage, doctor_notes, created_at`

func scanPrescription(row pgx.Row) (*Prescription, error) {
	var p Prescription
	err := row.Scan(&p.ID, &p.AppointmentID, &p.PatientName, &p.Medication, &p.Dosage, &p.DoctorNotes, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO prescription (id, appointment_id, patient_name, medication, dosage, doctor_notes)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.AppointmentID, p.PatientName, p.Medication, p.Dosage, p.DoctorNotes)
	return err
}

func (r *repoPG) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Prescription, error) {
	return scanPrescription(r.pool.QueryRow(ctx,
		`SELECT `+prescriptionCols+` FROM prescription WHERE appointment_id = $1`, appointmentID))
}

func (r *repoPG) ExistsByAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM prescription WHERE appointment_id = $1)`, appointmentID).Scan(&exists)
	return exists, err
}
