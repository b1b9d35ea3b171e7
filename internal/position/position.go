// Package position keeps one resolved map position per matched record, so
// that repeated or partial geocoding passes update a marker instead of
// creating a second one.
package position

import (
	"errors"
	"fmt"
	"sync"

	"address-reconciler/internal/models"
	"address-reconciler/internal/normalize"

	"github.com/google/uuid"
)

// ErrPositionNotFound is returned for an unknown position id.
var ErrPositionNotFound = errors.New("position not found")

// UserLocationID is the fixed id of the live user-location position.
const UserLocationID = "user-location"

// ChangeListener receives added and updated positions.
type ChangeListener func(kind models.PositionEventKind, p models.Position)

// RemoveListener receives removed positions.
type RemoveListener func(p models.Position)

// Store holds positions keyed by generated id.
type Store struct {
	mu        sync.RWMutex
	positions []models.Position
	byRecord  map[string]string
	toRecord  map[string]string
	changed   []ChangeListener
	removed   []RemoveListener
	newID     func() string
}

// New creates an empty position store.
func New() *Store {
	return &Store{
		byRecord: make(map[string]string),
		toRecord: make(map[string]string),
		newID:    uuid.NewString,
	}
}

// OnChange registers a listener for added and updated positions.
func (s *Store) OnChange(l ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changed = append(s.changed, l)
}

// OnRemove registers a listener for removed positions.
func (s *Store) OnRemove(l RemoveListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, l)
}

// Resolve records a geocoded position. With a record, an existing position
// for the same record or the same address is updated in place; coordinates
// are only overwritten by non-zero values. Without a record a new anonymous
// position is always created.
func (s *Store) Resolve(lon, lat float64, displayName string, record models.Record, geoInfo string) models.Position {
	var address models.Address
	recordID := ""
	if record != nil {
		recordID = record.ID()
		if a, ok := normalize.DeriveAddress(record); ok {
			address = a
		} else {
			address, _ = normalize.ExtractAddress(record)
		}
	}

	s.mu.Lock()
	i := -1
	if record != nil {
		if id, ok := s.byRecord[recordID]; ok && recordID != "" {
			i = s.indexOf(id)
		}
		if i < 0 {
			i = s.findByAddress(address, recordID)
		}
	}

	kind := models.PositionUpdated
	if i >= 0 {
		p := &s.positions[i]
		if lon != 0 {
			p.Longitude = lon
		}
		if lat != 0 {
			p.Latitude = lat
		}
		if displayName != "" {
			p.DisplayName = displayName
		}
		if geoInfo != "" {
			p.GeoInfo = geoInfo
		}
		if p.RecordID == "" && recordID != "" {
			p.RecordID = recordID
			s.link(p.ID, recordID)
		}
	} else {
		kind = models.PositionAdded
		s.positions = append(s.positions, models.Position{
			ID:          s.newID(),
			Longitude:   lon,
			Latitude:    lat,
			DisplayName: displayName,
			GeoInfo:     geoInfo,
			RecordID:    recordID,
			Address:     address,
		})
		i = len(s.positions) - 1
		if recordID != "" {
			s.link(s.positions[i].ID, recordID)
		}
	}
	p := s.positions[i]
	listeners := s.changed
	s.mu.Unlock()

	for _, l := range listeners {
		l(kind, p)
	}
	return p
}

// UpdateUserLocation moves the live user-location position, creating it on
// first use.
func (s *Store) UpdateUserLocation(lon, lat float64) models.Position {
	s.mu.Lock()
	kind := models.PositionUpdated
	i := s.indexOf(UserLocationID)
	if i < 0 {
		kind = models.PositionAdded
		s.positions = append(s.positions, models.Position{ID: UserLocationID, DisplayName: "you are here"})
		i = len(s.positions) - 1
	}
	s.positions[i].Longitude = lon
	s.positions[i].Latitude = lat
	p := s.positions[i]
	listeners := s.changed
	s.mu.Unlock()

	for _, l := range listeners {
		l(kind, p)
	}
	return p
}

// GetByID returns the position with the given id.
func (s *Store) GetByID(id string) (models.Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.positions[i], true
	}
	return models.Position{}, false
}

// GetByAddress finds a position by address, tolerating suffixed or
// hyphenated house numbers and one disagreeing field among street, city and
// postcode.
func (s *Store) GetByAddress(a models.Address) (models.Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.findByAddress(a, ""); i >= 0 {
		return s.positions[i], true
	}
	return models.Position{}, false
}

// ForRecord returns the position linked to a record id.
func (s *Store) ForRecord(recordID string) (models.Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byRecord[recordID]
	if !ok {
		return models.Position{}, false
	}
	if i := s.indexOf(id); i >= 0 {
		return s.positions[i], true
	}
	return models.Position{}, false
}

// RecordID returns the id of the record a position was resolved for.
func (s *Store) RecordID(positionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.toRecord[positionID]
	return id, ok
}

// RemoveByID deletes a position and notifies the remove listeners.
func (s *Store) RemoveByID(id string) (models.Position, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Position{}, fmt.Errorf("position: remove %q: %w", id, ErrPositionNotFound)
	}
	p := s.positions[i]
	s.positions = append(s.positions[:i], s.positions[i+1:]...)
	if recordID, ok := s.toRecord[id]; ok {
		delete(s.byRecord, recordID)
		delete(s.toRecord, id)
	}
	listeners := s.removed
	s.mu.Unlock()

	for _, l := range listeners {
		l(p)
	}
	return p, nil
}

// All returns a copy of every position.
func (s *Store) All() []models.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Position, len(s.positions))
	copy(out, s.positions)
	return out
}

// Load replaces the content with persisted positions without notifying
// listeners.
func (s *Store) Load(positions []models.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions = append([]models.Position(nil), positions...)
	s.byRecord = make(map[string]string)
	s.toRecord = make(map[string]string)
	for _, p := range s.positions {
		if p.RecordID != "" {
			s.link(p.ID, p.RecordID)
		}
	}
}

// Clear drops every position without notifying listeners.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions = nil
	s.byRecord = make(map[string]string)
	s.toRecord = make(map[string]string)
}

func (s *Store) link(positionID, recordID string) {
	s.byRecord[recordID] = positionID
	s.toRecord[positionID] = recordID
}

func (s *Store) indexOf(id string) int {
	for i, p := range s.positions {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// findByAddress walks the house-number modes from strictest to loosest; in
// each mode two of street, city and postcode must agree. With a recordID,
// the digits-only mode skips positions linked to another record, so "12"
// and "12A" keep separate markers.
func (s *Store) findByAddress(a models.Address, recordID string) int {
	if a.HouseNumber == "" {
		return -1
	}
	for _, mode := range normalize.HouseModes {
		for i, p := range s.positions {
			if !normalize.HouseNumberEqual(p.Address.HouseNumber, a.HouseNumber, mode) {
				continue
			}
			if mode == normalize.HouseDigits && recordID != "" && p.RecordID != "" && p.RecordID != recordID {
				continue
			}
			street := normalize.LooseEqual(p.Address.Street, a.Street)
			city := normalize.LooseEqual(p.Address.City, a.City)
			postcode := normalize.PostcodeEqual(p.Address.Postcode, a.Postcode)
			if (street && city) || (postcode && street) || (postcode && city) {
				return i
			}
		}
	}
	return -1
}
