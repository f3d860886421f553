// Package favourites keeps the user's favourited transit objects, keyed by
// object type and the type's natural id (train code, station code, bus
// route, bus stop id, Luas stop id).
package favourites

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iompar/iompar/storage"
)

// Store is the favourites mapping. Every mutation persists the full mapping
// through a single async writer, so a slow store never blocks the next
// toggle and an older write never clobbers a newer one.
type Store struct {
	mu    sync.Mutex
	items map[string]map[string]struct{}

	writer *storage.AsyncWriter
	log    zerolog.Logger
}

// NewStore builds a Store backed by st, loading any persisted mapping.
func NewStore(st storage.Store, ttl time.Duration, log zerolog.Logger) *Store {
	s := &Store{
		items:  map[string]map[string]struct{}{},
		writer: storage.NewAsyncWriter(st, storage.KeyFavourites, ttl),
		log:    log,
	}
	if raw, ok := st.Get(storage.KeyFavourites); ok {
		var decoded map[string][]string
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			log.Warn().Err(err).Msg("discarding unreadable persisted favourites")
		} else {
			for objectType, ids := range decoded {
				set := map[string]struct{}{}
				for _, id := range ids {
					set[id] = struct{}{}
				}
				s.items[objectType] = set
			}
		}
	}
	return s
}

// Toggle adds the (objectType, id) pair if absent and removes it if present,
// then persists. Returns whether the pair is a favourite afterwards.
func (s *Store) Toggle(objectType, id string) bool {
	s.mu.Lock()
	set, ok := s.items[objectType]
	if !ok {
		set = map[string]struct{}{}
		s.items[objectType] = set
	}
	_, present := set[id]
	if present {
		delete(set, id)
	} else {
		set[id] = struct{}{}
	}
	// Submitting under the lock keeps writes ordered with the toggles
	// that produced them, so an older snapshot can never win.
	s.writer.Write(s.encodeLocked())
	s.mu.Unlock()

	return !present
}

// IsFavourite reports whether the (objectType, id) pair is favourited.
func (s *Store) IsFavourite(objectType, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[objectType][id]
	return ok
}

// Count returns the total number of favourited pairs.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, set := range s.items {
		n += len(set)
	}
	return n
}

func (s *Store) encodeLocked() string {
	out := map[string][]string{}
	for objectType, set := range s.items {
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out[objectType] = ids
	}
	b, err := json.Marshal(out)
	if err != nil {
		s.log.Error().Err(err).Msg("encoding favourites")
		return "{}"
	}
	return string(b)
}
