package data

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Store owns the process-wide geo database handle. The database is opened
// lazily on the first Get and reused by every later caller; it is never
// reopened while the Store is alive.
type Store struct {
	path string
	open OpenFunc

	lookup atomic.Pointer[storedLookup]
	group  singleflight.Group
	opens  atomic.Int64

	closeOnce sync.Once
}

type storedLookup struct {
	CountryLookup
}

// NewStore returns a Store that opens path with open on first use.
// A nil open defaults to OpenMmdb.
func NewStore(path string, open OpenFunc) *Store {
	if open == nil {
		open = OpenMmdb
	}
	return &Store{path: path, open: open}
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Get returns the shared handle, opening the database if needed.
//
// Concurrent callers share a single in-flight open. A caller whose ctx ends
// first returns ctx.Err(), while the open still completes for the others.
// A failed open is not remembered: the next Get tries again.
func (s *Store) Get(ctx context.Context) (CountryLookup, error) {
	if l := s.lookup.Load(); l != nil {
		return l.CountryLookup, nil
	}

	ch := s.group.DoChan("open", func() (any, error) {
		// A previous flight may have finished between Load and DoChan.
		if l := s.lookup.Load(); l != nil {
			return l.CountryLookup, nil
		}
		s.opens.Add(1)
		lookup, err := s.open(s.path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDatabaseUnavailable, s.path, err)
		}
		s.lookup.Store(&storedLookup{lookup})
		return lookup, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(CountryLookup), nil
	}
}

// Ready reports whether the database can be opened.
func (s *Store) Ready(ctx context.Context) error {
	_, err := s.Get(ctx)
	return err
}

// Opens returns how many times the database has been opened.
func (s *Store) Opens() int64 { return s.opens.Load() }

// Close releases the handle if one was opened. It is meant for process
// shutdown; a closed Store must not be used again.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if l := s.lookup.Load(); l != nil {
			err = l.Close()
		}
	})
	return err
}
