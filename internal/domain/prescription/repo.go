package prescription

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Prescription, error)
	ExistsByAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error)
}
