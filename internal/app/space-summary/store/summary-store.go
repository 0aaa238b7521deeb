// Package store holds the most recently computed space summary for the lifetime of the
// process.
package store

import (
	"slices"
	"sync/atomic"
	"time"

	"github.com/init-pkg/space-summary/domain/app"
)

// Placeholder is what Read returns before any upload has succeeded.
var Placeholder = app.SummaryRecord{Name: "No data yet", Value: 0}

// Snapshot is one complete, immutable summary. Replace swaps whole snapshots, so a reader
// sees either the previous or the new one.
type Snapshot struct {
	UploadID    string
	Filename    string
	Records     []app.SummaryRecord
	AreaColumn  string
	UsageColumn string
	RowCount    int
	UpdatedAt   time.Time
}

type SummaryStore struct {
	current atomic.Pointer[Snapshot]
}

func New() *SummaryStore {
	return &SummaryStore{}
}

// Replace installs snap as the current summary. The records are copied, so callers may
// keep using their slice.
func (s *SummaryStore) Replace(snap Snapshot) {
	snap.Records = slices.Clone(snap.Records)
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now()
	}
	s.current.Store(&snap)
}

// Read returns a copy of the current records, or a single Placeholder record when nothing
// has been stored yet.
func (s *SummaryStore) Read() []app.SummaryRecord {
	snap := s.current.Load()
	if snap == nil {
		return []app.SummaryRecord{Placeholder}
	}
	return slices.Clone(snap.Records)
}

// Snapshot returns the current snapshot and false if nothing has been stored yet.
func (s *SummaryStore) Snapshot() (Snapshot, bool) {
	snap := s.current.Load()
	if snap == nil {
		return Snapshot{}, false
	}
	out := *snap
	out.Records = slices.Clone(snap.Records)
	return out, true
}
