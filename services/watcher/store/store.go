// Package store persists the set of act identifiers already seen by
// previous runs, with enough metadata to inspect them later.
package store

import "context"

type Entry struct {
	Numero  string `json:"numero"`
	Oggetto string `json:"oggetto"`
}

// Snapshot maps act id to its recorded metadata. ids are only ever
// added across runs, never removed.
type Snapshot map[string]Entry

func (s Snapshot) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Store reads and replaces the snapshot as a whole. a run loads it
// once at start and saves it back at most once at the end.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}
