package store

import (
	"strconv"
	"testing"

	"address-reconciler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	s := New()
	n := 0
	s.newID = func() string {
		n++
		return "r" + strconv.Itoa(n)
	}
	return s
}

func TestStore_EmitsOnlyDelta(t *testing.T) {
	s := newTestStore()
	var emitted [][]models.Record
	s.Subscribe(func(records []models.Record) {
		emitted = append(emitted, records)
	})

	first := s.Store([]models.Record{
		{"street": "Main", "housenumber": "1", "city": "A", "postcode": "1000"},
		{"street": "Main", "housenumber": "2", "city": "A", "postcode": "1000"},
	})
	second := s.Store([]models.Record{
		{"street": "Main", "housenumber": "1", "city": "A", "postcode": "1000"},
		{"street": "Main", "housenumber": "3", "city": "A", "postcode": "1000"},
	})

	assert.Len(t, first, 2)
	require.Len(t, second, 1)
	assert.Equal(t, "3", second[0]["housenumber"])
	assert.Equal(t, 3, s.Len())
	require.Len(t, emitted, 2)
	assert.Len(t, emitted[1], 1)
}

func TestStore_AssignsIDs(t *testing.T) {
	s := newTestStore()

	delta := s.Store([]models.Record{{"street": "Main", "housenumber": "1", "city": "A", "postcode": "1000"}})

	require.Len(t, delta, 1)
	assert.Equal(t, "r1", delta[0].ID())

	// a re-import of the same row keeps the original id
	s.Store([]models.Record{{"street": "Main", "housenumber": "1", "city": "A", "postcode": "1000", "x": "y"}})
	r, ok := s.Get("r1")
	require.True(t, ok)
	assert.Equal(t, "y", r["x"])
	assert.Equal(t, 1, s.Len())
}

func TestStore_ReimportWithoutAddressIsIdempotent(t *testing.T) {
	s := newTestStore()
	rows := []models.Record{{"name": "no address here", "note": "x"}}

	first := s.Store(rows)
	second := s.Store(rows)

	require.Len(t, first, 1)
	assert.Equal(t, "r1", first[0].ID())
	assert.Empty(t, second)
	assert.Equal(t, 1, s.Len())
	assert.Empty(t, rows[0].ID())
}

func TestStore_StoringSnapshotIsNoop(t *testing.T) {
	s := newTestStore()
	s.Store([]models.Record{
		{"street": "Main", "housenumber": "1", "city": "A", "postcode": "1000"},
		{"name": "orphan"},
	})
	calls := 0
	s.Subscribe(func([]models.Record) { calls++ })

	delta := s.Store(s.Snapshot())

	assert.Empty(t, delta)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 2, s.Len())
}

func TestStore_Lookup(t *testing.T) {
	s := newTestStore()
	s.Store([]models.Record{
		{"street": "Main", "housenumber": "1", "city": "Amsterdam", "postcode": "1000"},
		{"street": "Main", "housenumber": "2", "city": "Amsterdam", "postcode": "1000"},
	})

	tests := []struct {
		name     string
		filter   map[string]string
		expected string
		found    bool
	}{
		{name: "case and space insensitive", filter: map[string]string{"city": " AMSTERDAM ", "housenumber": "2"}, expected: "r2", found: true},
		{name: "first match wins", filter: map[string]string{"street": "main"}, expected: "r1", found: true},
		{name: "no partial match", filter: map[string]string{"city": "Amster"}, found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := s.Lookup(tt.filter)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.expected, r.ID())
			}
		})
	}
}

func TestStore_PointUpdate(t *testing.T) {
	s := newTestStore()
	s.Store([]models.Record{{"street": "Main", "housenumber": "1", "city": "A", "postcode": "1000", "note": "old"}})
	var emitted []models.Record
	s.Subscribe(func(records []models.Record) { emitted = records })

	updated, err := s.PointUpdate("r1", map[string]string{"note": "", "phone": "123", "id": "hijack"})

	require.NoError(t, err)
	assert.Equal(t, "r1", updated.ID())
	assert.Equal(t, "123", updated["phone"])
	_, hasNote := updated["note"]
	assert.False(t, hasNote)
	assert.Equal(t, []models.Record{updated}, emitted)
}

func TestStore_PointUpdateMissingID(t *testing.T) {
	s := newTestStore()

	_, err := s.PointUpdate("nope", map[string]string{"a": "b"})

	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestStore_GeoInvariant(t *testing.T) {
	s := newTestStore()
	s.Store([]models.Record{{"street": "Main", "housenumber": "1", "city": "A", "postcode": "1000"}})

	_, err := s.SetGeo("r1", "5.1", "", "{}")
	assert.ErrorIs(t, err, ErrIncompleteGeo)

	r, err := s.SetGeo("r1", "5.1", "52.1", "{}")
	require.NoError(t, err)
	assert.True(t, r.Geocoded())

	r, err = s.ClearGeo("r1")
	require.NoError(t, err)
	assert.Equal(t, "", r["lon"]+r["lat"]+r["geoinfo"])
}

func TestStore_ClearAndLoad(t *testing.T) {
	s := newTestStore()
	s.Store([]models.Record{{"street": "Main", "housenumber": "1", "city": "A", "postcode": "1000"}})

	s.Clear()
	assert.Equal(t, 0, s.Len())

	s.Load([]models.Record{{"id": "p1", "name": "x"}})
	_, ok := s.Get("p1")
	assert.True(t, ok)
}
