// Package store holds the deduplicated set of imported records for one
// import session.
package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"address-reconciler/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrRecordNotFound is returned when a point update targets an unknown id.
var ErrRecordNotFound = errors.New("record not found")

// ErrIncompleteGeo is returned when a geocode update lacks one of
// longitude, latitude or geo-info.
var ErrIncompleteGeo = errors.New("longitude, latitude and geo-info must be set together")

// Listener receives the records that changed. It is called outside the
// store's lock and must not retain the slice.
type Listener func(records []models.Record)

// Store is the record store. The zero value is not usable; call New.
type Store struct {
	mu        sync.RWMutex
	records   []models.Record
	listeners []Listener
	newID     func() string
}

// New creates an empty store.
func New() *Store {
	return &Store{newID: uuid.NewString}
}

// Subscribe registers l to receive every emitted delta.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Store merges incoming into the store, assigns ids to records that lack
// one, and emits and returns only the delta.
func (s *Store) Store(incoming []models.Record) []models.Record {
	prepared := make([]models.Record, 0, len(incoming))
	for _, r := range incoming {
		c := r.Clone()
		if c == nil {
			continue
		}
		prepared = append(prepared, c)
	}

	s.mu.Lock()
	merged, delta := reconcile(prepared, s.records, s.newID)
	s.records = merged
	listeners := s.listeners
	s.mu.Unlock()

	log.Debug().Int("incoming", len(incoming)).Int("delta", len(delta)).Int("total", len(merged)).Msg("records stored")
	s.emit(listeners, delta)
	return delta
}

// Load replaces the store content without emitting, used to seed a session
// from persisted state.
func (s *Store) Load(records []models.Record) {
	merged, _ := reconcile(records, nil, nil)
	s.mu.Lock()
	s.records = merged
	s.mu.Unlock()
}

// Snapshot returns a copy of all records in store order.
func (s *Store) Snapshot() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Clone())
	}
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (models.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.records[i].Clone(), true
	}
	return nil, false
}

// Lookup returns the first record whose fields equal every filter value,
// compared trimmed and case-insensitively.
func (s *Store) Lookup(filter map[string]string) (models.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if matchesFilter(r, filter) {
			return r.Clone(), true
		}
	}
	return nil, false
}

func matchesFilter(r models.Record, filter map[string]string) bool {
	for k, v := range filter {
		if !strings.EqualFold(strings.TrimSpace(r[k]), strings.TrimSpace(v)) {
			return false
		}
	}
	return true
}

// PointUpdate applies changes to the record with the given id and emits the
// changed record. An empty value removes the field. The id itself cannot be
// changed.
func (s *Store) PointUpdate(id string, changes map[string]string) (models.Record, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		log.Error().Str("id", id).Msg("update against missing record")
		return nil, fmt.Errorf("store: update %q: %w", id, ErrRecordNotFound)
	}
	r := s.records[i]
	for k, v := range changes {
		if k == models.FieldID {
			continue
		}
		if v == "" {
			delete(r, k)
			continue
		}
		r[k] = v
	}
	updated := r.Clone()
	listeners := s.listeners
	s.mu.Unlock()

	s.emit(listeners, []models.Record{updated})
	return updated, nil
}

// SetGeo records a geocode result on a record. Longitude, latitude and
// geo-info are written together.
func (s *Store) SetGeo(id, lon, lat, geoInfo string) (models.Record, error) {
	if lon == "" || lat == "" || geoInfo == "" {
		return nil, fmt.Errorf("store: set geo on %q: %w", id, ErrIncompleteGeo)
	}
	return s.PointUpdate(id, map[string]string{
		models.FieldLongitude: lon,
		models.FieldLatitude:  lat,
		models.FieldGeoInfo:   geoInfo,
	})
}

// ClearGeo removes longitude, latitude and geo-info from a record.
func (s *Store) ClearGeo(id string) (models.Record, error) {
	return s.PointUpdate(id, map[string]string{
		models.FieldLongitude: "",
		models.FieldLatitude:  "",
		models.FieldGeoInfo:   "",
	})
}

// Clear drops every record. Listeners stay registered.
func (s *Store) Clear() {
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, r := range s.records {
		if r.ID() == id {
			return i
		}
	}
	return -1
}

func (s *Store) emit(listeners []Listener, records []models.Record) {
	if len(records) == 0 {
		return
	}
	for _, l := range listeners {
		l(records)
	}
}
