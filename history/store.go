// Package history stores captured pages by integer index.
//
// A Store owns its pages: Put clones nothing, so callers must not mutate a
// page after handing it over. Surfaces bridge the store to a live drawing
// target for capture and replay.
//
// The store does no locking. Callers that share it across goroutines
// serialise access themselves.
package history

import (
	"slices"

	"github.com/gogpu/gd/scene"
)

// Surface is a live drawing target that can be captured and restored.
type Surface interface {
	// Snapshot returns a copy of the surface's current page. It reports
	// false when there is nothing to capture.
	Snapshot() (*scene.Page, bool)
	// Replay replaces the surface contents with p.
	Replay(p *scene.Page)
}

// Store maps indices to page snapshots. Gaps are allowed and removal does
// not renumber other entries.
type Store struct {
	pages map[int]*scene.Page
	last  int
	has   bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{pages: make(map[int]*scene.Page)}
}

// Put inserts or overwrites the page at index i.
func (s *Store) Put(i int, p *scene.Page) {
	if s.pages == nil {
		s.pages = make(map[int]*scene.Page)
	}
	s.pages[i] = p
	s.last = i
	s.has = true
}

// PutCurrent captures the surface's current state at index i. It reports
// false and leaves the store untouched when the surface has no snapshot.
func (s *Store) PutCurrent(i int, sf Surface) bool {
	p, ok := sf.Snapshot()
	if !ok {
		return false
	}
	s.Put(i, p)
	return true
}

// PutLast replaces the most recently inserted entry with the surface's
// current state. When the most recent entry has been removed, or nothing
// was inserted yet, the snapshot is stored at index i.
func (s *Store) PutLast(i int, sf Surface) bool {
	p, ok := sf.Snapshot()
	if !ok {
		return false
	}
	if s.has {
		if _, live := s.pages[s.last]; live {
			i = s.last
		}
	}
	s.Put(i, p)
	return true
}

// Get returns the page at index i.
func (s *Store) Get(i int) (*scene.Page, bool) {
	p, ok := s.pages[i]
	return p, ok
}

// Remove deletes the entry at index i and reports whether it existed.
func (s *Store) Remove(i int) bool {
	if _, ok := s.pages[i]; !ok {
		return false
	}
	delete(s.pages, i)
	return true
}

// Clear removes every entry.
func (s *Store) Clear() {
	clear(s.pages)
	s.has = false
	s.last = 0
}

// Play replays the page at index i onto the surface. It reports false and
// does not touch the surface when the index is absent.
func (s *Store) Play(i int, sf Surface) bool {
	p, ok := s.pages[i]
	if !ok {
		return false
	}
	sf.Replay(p.Clone())
	return true
}

// Len returns the number of stored entries.
func (s *Store) Len() int { return len(s.pages) }

// Indices returns the occupied indices in ascending order.
func (s *Store) Indices() []int {
	out := make([]int, 0, len(s.pages))
	for i := range s.pages {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}
