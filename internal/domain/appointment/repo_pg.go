package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/misterunderhilll/clinic-scheduler/internal/platform/apperr"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const apptCols = `id, doctor_id, patient_id, starts_at, status, created_at, updated_at`

// detailQuery joins the denormalized doctor/patient fields the listing
// endpoints return.
const detailQuery = `
	SELECT a.id, a.doctor_id, d.name, a.patient_id, p.name, p.email, p.phone, p.address,
	       a.starts_at, a.status
	FROM appointment a
	JOIN doctor d ON d.id = a.doctor_id
	JOIN patient p ON p.id = a.patient_id`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.StartsAt, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointment (id, doctor_id, patient_id, starts_at, status)
		VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.DoctorID, a.PatientID, a.StartsAt, a.Status)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointment SET starts_at=$2, status=$3, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.StartsAt, a.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE appointment SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *repoPG) DeleteByDoctor(ctx context.Context, doctorID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM appointment WHERE doctor_id = $1`, doctorID)
	return err
}

func dayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.Add(24*time.Hour - time.Second)
}

func (r *repoPG) BookedTimes(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]time.Time, error) {
	start, end := dayBounds(date)
	rows, err := r.pool.Query(ctx, `
		SELECT starts_at FROM appointment
		WHERE doctor_id = $1 AND starts_at BETWEEN $2 AND $3`,
		doctorID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

func (r *repoPG) ListConflicts(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE doctor_id = $1 AND starts_at BETWEEN $2 AND $3`,
		doctorID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repoPG) DetailsByDoctorDay(ctx context.Context, doctorID uuid.UUID, date time.Time, patientName string) ([]*Detail, error) {
	start, end := dayBounds(date)
	query := detailQuery + ` WHERE a.doctor_id = $1 AND a.starts_at BETWEEN $2 AND $3`
	args := []interface{}{doctorID, start, end}
	if patientName != "" {
		query += ` AND p.name ILIKE $4`
		args = append(args, "%"+patientName+"%")
	}
	query += ` ORDER BY a.starts_at`
	return r.queryDetails(ctx, query, args...)
}

func (r *repoPG) DetailsByPatient(ctx context.Context, patientID uuid.UUID, status *Status, doctorName string) ([]*Detail, error) {
	query := detailQuery + ` WHERE a.patient_id = $1`
	args := []interface{}{patientID}
	idx := 2
	if status != nil {
		query += fmt.Sprintf(` AND a.status = $%d`, idx)
		args = append(args, *status)
		idx++
	}
	if doctorName != "" {
		query += fmt.Sprintf(` AND d.name ILIKE $%d`, idx)
		args = append(args, "%"+doctorName+"%")
		idx++
	}
	query += ` ORDER BY a.starts_at`
	return r.queryDetails(ctx, query, args...)
}

func (r *repoPG) queryDetails(ctx context.Context, query string, args ...interface{}) ([]*Detail, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Detail
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.ID, &d.DoctorID, &d.DoctorName, &d.PatientID,
			&d.PatientName, &d.PatientEmail, &d.PatientPhone, &d.PatientAddress,
			&d.StartsAt, &d.Status); err != nil {
			return nil, err
		}
		d.EndsAt = d.StartsAt.Add(time.Hour)
		items = append(items, &d)
	}
	return items, rows.Err()
}
