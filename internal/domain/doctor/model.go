package doctor

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Doctor maps to the doctor table. AvailableTimes holds the declared daily
// slots as "15:04" strings in the order they were registered; the same order
// is preserved through availability results.
type Doctor struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Phone          string    `db:"phone" json:"phone"`
	Specialty      string    `db:"specialty" json:"specialty"`
	AvailableTimes []string  `db:"available_times" json:"available_times"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// SlotInPeriod reports whether a declared "15:04" slot falls in the AM or PM
// half of the day. AM is strictly before noon, PM is noon and later.
// Unparseable slots and unknown periods never match.
func SlotInPeriod(slot, period string) bool {
	t, err := time.Parse("15:04", slot)
	if err != nil {
		return false
	}
	switch {
	case strings.EqualFold(period, "AM"):
		return t.Hour() < 12
	case strings.EqualFold(period, "PM"):
		return t.Hour() >= 12
	default:
		return false
	}
}

// ValidPeriod reports whether period names a recognized half-day.
func ValidPeriod(period string) bool {
	return strings.EqualFold(period, "AM") || strings.EqualFold(period, "PM")
}

// AvailableInPeriod reports whether any declared slot matches the period.
func (d *Doctor) AvailableInPeriod(period string) bool {
	for _, slot := range d.AvailableTimes {
		if SlotInPeriod(slot, period) {
			return true
		}
	}
	return false
}
