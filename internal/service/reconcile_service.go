package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"address-reconciler/internal/matcher"
	"address-reconciler/internal/models"
	"address-reconciler/internal/normalize"
	"address-reconciler/internal/position"
	"address-reconciler/internal/semaphore"
	"address-reconciler/internal/store"

	"github.com/rs/zerolog/log"
)

// ErrGeocoderTimeout is returned when the previous geocoder request was not
// answered within the configured timeout.
var ErrGeocoderTimeout = errors.New("geocoder did not answer in time")

// ErrInvalidCoordinates is returned for a latitude or longitude out of range.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// DefaultGeocoderTimeout bounds the wait for the previous response.
const DefaultGeocoderTimeout = 30 * time.Second

// Geocoder submits a free-text query to the external geocoder. The answer
// is delivered later through ReconcileService.HandleResponse.
type Geocoder interface {
	Submit(ctx context.Context, query string) error
}

// Options tunes the geocoding batch driver.
type Options struct {
	Timeout time.Duration
	Country string
}

// ReconcileService ties the record store, the matcher and the position
// store to the external geocoder. Requests are serialized so that every
// response can be attributed to the request that preceded it.
type ReconcileService struct {
	records   *store.Store
	positions *position.Store
	matcher   *matcher.Matcher
	sem       *semaphore.Semaphore
	geocoder  Geocoder
	opts      Options

	mu         sync.Mutex
	pending    string
	inFlight   bool
	repo       Repository
	persistCtx context.Context
}

// NewReconcileService creates a new reconcile service. The geocoder is
// considered busy until Ready is called.
func NewReconcileService(records *store.Store, positions *position.Store, geocoder Geocoder, opts Options) *ReconcileService {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultGeocoderTimeout
	}
	return &ReconcileService{
		records:   records,
		positions: positions,
		matcher:   matcher.New(records),
		sem:       semaphore.New(),
		geocoder:  geocoder,
		opts:      opts,
	}
}

// Ready marks the geocoder as available for the first request.
func (s *ReconcileService) Ready() {
	s.sem.Release()
}

// Import merges imported rows into the record store and returns the delta.
// A non-empty sheet name is stored on rows that carry none.
func (s *ReconcileService) Import(rows []models.Record, sheet string) []models.Record {
	stamped := rows
	if sheet != "" {
		stamped = make([]models.Record, len(rows))
		for i, r := range rows {
			if r[models.FieldSheet] == "" {
				r = r.Clone()
				r[models.FieldSheet] = sheet
			}
			stamped[i] = r
		}
	}
	delta := s.records.Store(stamped)
	log.Info().Int("rows", len(rows)).Int("changed", len(delta)).Str("sheet", sheet).Msg("import merged")
	return delta
}

// Snapshot returns a copy of every stored record.
func (s *ReconcileService) Snapshot() []models.Record {
	return s.records.Snapshot()
}

// Lookup returns the first record matching every filter field.
func (s *ReconcileService) Lookup(filter map[string]string) (models.Record, bool) {
	return s.records.Lookup(filter)
}

// UpdateRecord applies a point update to one record.
func (s *ReconcileService) UpdateRecord(id string, changes map[string]string) (models.Record, error) {
	r, err := s.records.PointUpdate(id, changes)
	if err != nil {
		return nil, fmt.Errorf("service: failed to update record: %w", err)
	}
	return r, nil
}

// Match runs the cascading matcher without touching any store.
func (s *ReconcileService) Match(q matcher.Query) models.MatchResult {
	return s.matcher.Match(q)
}

// Query renders the geocoder query for an address.
func (s *ReconcileService) Query(a models.Address) string {
	q := a.String()
	if s.opts.Country != "" {
		q += ", " + s.opts.Country
	}
	return q
}

// Search submits one free-text query, waiting for the geocoder like a batch
// request does.
func (s *ReconcileService) Search(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("service: query cannot be empty")
	}
	if err := s.acquire(ctx); err != nil {
		return err
	}
	return s.submit(ctx, query)
}

// GeocodeBatch submits one query per record that has a usable address and
// no coordinates yet. Each submit waits until the previous response has
// been handled. It returns the number of submitted queries.
func (s *ReconcileService) GeocodeBatch(ctx context.Context, records []models.Record) (int, error) {
	submitted := 0
	for _, r := range records {
		if r.Geocoded() {
			continue
		}
		a, ok := normalize.DeriveAddress(r)
		if !ok {
			log.Debug().Str("id", r.ID()).Msg("skipping record without usable address")
			continue
		}
		if err := s.acquire(ctx); err != nil {
			return submitted, err
		}
		if err := s.submit(ctx, s.Query(a)); err != nil {
			log.Error().Err(err).Str("id", r.ID()).Msg("geocoder submit failed")
			continue
		}
		submitted++
	}
	return submitted, nil
}

func (s *ReconcileService) acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	if err := s.sem.Acquire(waitCtx); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("service: geocoding cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("service: waiting for geocoder: %w", ErrGeocoderTimeout)
	}
	return nil
}

func (s *ReconcileService) submit(ctx context.Context, query string) error {
	s.mu.Lock()
	s.pending = query
	s.inFlight = true
	s.mu.Unlock()

	if err := s.geocoder.Submit(ctx, query); err != nil {
		s.mu.Lock()
		s.pending = ""
		s.inFlight = false
		s.mu.Unlock()
		s.sem.Release()
		return fmt.Errorf("service: failed to submit query: %w", err)
	}
	return nil
}

// geoInfo is stored on matched records and positions.
type geoInfo struct {
	DisplayName string                   `json:"display_name"`
	Properties  models.GeocodeProperties `json:"properties"`
	Strategy    models.MatchStrategy     `json:"strategy"`
	Diagnostic  string                   `json:"diagnostic,omitempty"`
}

// HandleResponse processes one geocoder answer: it finds the record the
// answer belongs to, stores its coordinates and resolves its position. When
// the answer belongs to an outstanding request, the next request is released
// once processing is complete; unsolicited answers leave the queue alone.
func (s *ReconcileService) HandleResponse(resp models.GeocodeResponse) models.MatchResult {
	s.mu.Lock()
	solicited := s.inFlight && (resp.Query == "" || resp.Query == s.pending)
	if solicited {
		if resp.Query == "" {
			resp.Query = s.pending
		}
		s.pending = ""
		s.inFlight = false
	}
	s.mu.Unlock()
	if solicited {
		defer s.sem.Release()
	}

	if resp.Longitude == 0 && resp.Latitude == 0 {
		log.Warn().Str("query", resp.Query).Msg("geocoder returned no result")
		return models.MatchResult{
			Strategy:   models.StrategyNone,
			Diagnostic: fmt.Sprintf("geocoder returned no result for %q", resp.Query),
		}
	}

	result := s.matcher.Match(matcher.QueryFromResponse(resp))
	info, err := json.Marshal(geoInfo{
		DisplayName: resp.DisplayName,
		Properties:  resp.Properties,
		Strategy:    result.Strategy,
		Diagnostic:  result.Diagnostic,
	})
	if err != nil {
		log.Error().Err(err).Msg("cannot encode geo-info")
	}

	if !result.Matched() {
		log.Warn().Str("query", resp.Query).Msg(result.Diagnostic)
		s.positions.Resolve(resp.Longitude, resp.Latitude, resp.DisplayName, nil, string(info))
		return result
	}

	if result.Diagnostic != "" {
		log.Info().Str("id", result.Record.ID()).Str("strategy", string(result.Strategy)).Msg(result.Diagnostic)
	}

	updated, err := s.records.SetGeo(result.Record.ID(), formatCoord(resp.Longitude), formatCoord(resp.Latitude), string(info))
	if err != nil {
		log.Error().Err(err).Str("id", result.Record.ID()).Msg("cannot store coordinates")
	} else {
		result.Record = updated
	}
	s.positions.Resolve(resp.Longitude, resp.Latitude, resp.DisplayName, result.Record, string(info))
	return result
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Positions returns every resolved position.
func (s *ReconcileService) Positions() []models.Position {
	return s.positions.All()
}

// RemovePosition removes a position and clears the coordinates of the
// record it was resolved for.
func (s *ReconcileService) RemovePosition(id string) (models.Position, error) {
	recordID, linked := s.positions.RecordID(id)
	p, err := s.positions.RemoveByID(id)
	if err != nil {
		return models.Position{}, fmt.Errorf("service: failed to remove position: %w", err)
	}
	if linked {
		if _, err := s.records.ClearGeo(recordID); err != nil {
			log.Error().Err(err).Str("id", recordID).Msg("cannot clear coordinates")
		}
	}
	return p, nil
}

// UpdateUserLocation moves the user-location marker.
func (s *ReconcileService) UpdateUserLocation(lon, lat float64) (models.Position, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return models.Position{}, err
	}
	return s.positions.UpdateUserLocation(lon, lat), nil
}

// Clear resets the session state, including the persisted copy.
func (s *ReconcileService) Clear() error {
	s.records.Clear()
	s.positions.Clear()

	s.mu.Lock()
	repo, ctx := s.repo, s.persistCtx
	s.mu.Unlock()
	if repo != nil {
		if err := repo.Clear(ctx); err != nil {
			return fmt.Errorf("service: failed to clear repository: %w", err)
		}
	}
	log.Info().Msg("session cleared")
	return nil
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("service: latitude %f: %w", lat, ErrInvalidCoordinates)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("service: longitude %f: %w", lon, ErrInvalidCoordinates)
	}
	return nil
}
