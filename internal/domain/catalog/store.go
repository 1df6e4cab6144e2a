package catalog

import (
	"sync/atomic"

	ierr "github.com/flexprice/entitlement-engine/internal/errors"
)

// Store holds the current catalog snapshot. Readers call Load once per
// operation and keep using that snapshot even if a newer one is swapped in.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a store serving the given snapshot
func NewStore(initial *Catalog) (*Store, error) {
	if err := checkSnapshot(initial); err != nil {
		return nil, err
	}
	s := &Store{}
	s.current.Store(initial)
	return s, nil
}

// Load returns the current snapshot
func (s *Store) Load() *Catalog {
	return s.current.Load()
}

// Swap atomically installs next and returns the snapshot it replaced
func (s *Store) Swap(next *Catalog) (*Catalog, error) {
	if err := checkSnapshot(next); err != nil {
		return nil, err
	}
	return s.current.Swap(next), nil
}

// checkSnapshot rejects catalogs that were not produced by New
func checkSnapshot(c *Catalog) error {
	if c == nil || c.revision == "" {
		return ierr.NewError("catalog snapshot is not initialised").
			WithHint("Build catalog snapshots with catalog.New").
			Mark(ierr.ErrConfiguration)
	}
	return nil
}
