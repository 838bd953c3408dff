package admin

import (
	"time"

	"github.com/google/uuid"
)

// Admin maps to the admin table. Admins sign in with a username rather than
// an email; the username is also the token subject.
type Admin struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
