package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Snapshot is one fully loaded and merged dataset. Records are immutable
// after construction; every view the dashboard serves is derived from it.
type Snapshot struct {
	ID       string
	LoadedAt time.Time
	Records  []PlayerRecord
}

// NewSnapshot stamps a record set with a fresh snapshot identity.
func NewSnapshot(records []PlayerRecord) *Snapshot {
	return &Snapshot{
		ID:       uuid.New().String(),
		LoadedAt: time.Now().UTC(),
		Records:  records,
	}
}

// Count returns the number of records in the snapshot.
func (s *Snapshot) Count() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// FatigueBounds returns the min and max fatigue score across the snapshot.
// Returns (0, 0, false) on an empty snapshot.
func (s *Snapshot) FatigueBounds() (lo, hi float64, ok bool) {
	if s.Count() == 0 {
		return 0, 0, false
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, r := range s.Records {
		lo = math.Min(lo, r.FatigueScore)
		hi = math.Max(hi, r.FatigueScore)
	}
	return lo, hi, true
}
