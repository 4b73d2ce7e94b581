package model

import (
	"time"

	"github.com/samber/lo"
)

// Entry is a persisted preference value in its raw text form.
type Entry struct {
	Key      string
	Kind     Kind
	Raw      string
	Modified time.Time
}

// Snapshot is an immutable view of a namespace mapping.
// Writers build a new snapshot instead of mutating an existing one.
type Snapshot struct {
	Version uint64
	Entries map[string]Entry
}

func NewSnapshot(version uint64, entries map[string]Entry) *Snapshot {
	return &Snapshot{
		Version: version,
		Entries: lo.Assign(entries),
	}
}

func (s *Snapshot) Get(key string) (Entry, bool) {
	e, found := s.Entries[key]
	return e, found
}

// With returns the next snapshot with e put in place.
func (s *Snapshot) With(e Entry) *Snapshot {
	return &Snapshot{
		Version: s.Version + 1,
		Entries: lo.Assign(s.Entries, map[string]Entry{e.Key: e}),
	}
}

// Without returns the next snapshot with key removed.
func (s *Snapshot) Without(key string) *Snapshot {
	return &Snapshot{
		Version: s.Version + 1,
		Entries: lo.OmitByKeys(s.Entries, []string{key}),
	}
}
