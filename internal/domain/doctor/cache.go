package doctor

import (
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// AvailabilityCache memoizes per-day availability results. Entries are keyed
// by doctor and calendar date, and must be invalidated whenever a booking
// mutation touches that doctor's day. In-process only.
type AvailabilityCache struct {
	entries *lru.Cache[string, []string]
}

func NewAvailabilityCache(size int) (*AvailabilityCache, error) {
	entries, err := lru.New[string, []string](size)
	if err != nil {
		return nil, err
	}
	return &AvailabilityCache{entries: entries}, nil
}

// Dates are normalized to UTC before keying: availability lookups parse the
// path date as UTC, while booking mutations carry whatever offset the client
// sent, and both must land on the same entry.
func cacheKey(doctorID uuid.UUID, date time.Time) string {
	return doctorID.String() + "|" + date.UTC().Format("2006-01-02")
}

func (c *AvailabilityCache) Get(doctorID uuid.UUID, date time.Time) ([]string, bool) {
	return c.entries.Get(cacheKey(doctorID, date))
}

func (c *AvailabilityCache) Put(doctorID uuid.UUID, date time.Time, slots []string) {
	c.entries.Add(cacheKey(doctorID, date), slots)
}

// Invalidate drops the cached availability for one doctor-day.
func (c *AvailabilityCache) Invalidate(doctorID uuid.UUID, date time.Time) {
	c.entries.Remove(cacheKey(doctorID, date))
}

// InvalidateDoctor drops every cached day for a doctor. Used when the doctor
// record itself changes or is deleted.
func (c *AvailabilityCache) InvalidateDoctor(doctorID uuid.UUID) {
	prefix := doctorID.String() + "|"
	for _, key := range c.entries.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.entries.Remove(key)
		}
	}
}
