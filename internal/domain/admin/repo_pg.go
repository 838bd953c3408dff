package admin

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

const adminCols = `id, username, password_hash, created_at`

func scanAdmin(row pgx.Row) (*Admin, error) {
	var a Admin
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Admin) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO admin (id, username, password_hash)
		VALUES ($1, $2, $3)`,
		a.ID, a.Username, a.PasswordHash)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Admin, error) {
	return scanAdmin(r.pool.QueryRow(ctx, `SELECT `+adminCols+` FROM admin WHERE id = $1`, id))
}

func (r *repoPG) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	return scanAdmin(r.pool.QueryRow(ctx, `SELECT `+adminCols+` FROM admin WHERE username = $1`, username))
}
