//go:build integration

package repository

import (
	"context"
	"testing"

	"address-reconciler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jackc/pgx/v5/pgxpool"
)

func setupTestDatabase(t *testing.T) *pgxpool.Pool {
	ctx := context.Background()

	// Start PostgreSQL container with PostGIS
	req := testcontainers.ContainerRequest{
		Image:        "postgis/postgis:16-3.4",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		postgresC.Terminate(ctx)
	})

	host, err := postgresC.Host(ctx)
	require.NoError(t, err)

	port, err := postgresC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := "postgres://testuser:testpass@" + host + ":" + port.Port() + "/testdb?sslmode=disable"

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
	})

	return pool
}

func TestRepository_Records(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewRepository(pool)
	ctx := context.Background()
	require.NoError(t, repo.Migrate(ctx))
	require.NoError(t, repo.Migrate(ctx))

	err := repo.SaveRecords(ctx, []models.Record{
		{"id": "r1", "street": "Main", "housenumber": "1"},
		{"id": "r2", "address": "Side 2, B"},
		{"street": "no id"},
	})
	require.NoError(t, err)

	err = repo.SaveRecords(ctx, []models.Record{{"id": "r1", "street": "Main", "housenumber": "1", "lon": "5.1"}})
	require.NoError(t, err)

	records, err := repo.LoadRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Record{
		{"id": "r1", "street": "Main", "housenumber": "1", "lon": "5.1"},
		{"id": "r2", "address": "Side 2, B"},
	}, records)

	require.NoError(t, repo.ReplaceRecords(ctx, []models.Record{{"id": "r3", "city": "C"}}))
	records, err = repo.LoadRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Record{{"id": "r3", "city": "C"}}, records)
}

func TestRepository_Positions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewRepository(pool)
	ctx := context.Background()
	require.NoError(t, repo.Migrate(ctx))

	utrecht := models.Position{
		ID:          "p1",
		Longitude:   5.1214,
		Latitude:    52.0907,
		DisplayName: "Main 1, Utrecht",
		RecordID:    "r1",
		Address:     models.Address{Street: "Main", HouseNumber: "1", City: "Utrecht"},
	}
	amsterdam := models.Position{ID: "p2", Longitude: 4.9041, Latitude: 52.3676, DisplayName: "Dam, Amsterdam"}

	require.NoError(t, repo.SavePosition(ctx, utrecht))
	require.NoError(t, repo.SavePosition(ctx, amsterdam))
	utrecht.DisplayName = "Main 1, 3511 Utrecht"
	require.NoError(t, repo.SavePosition(ctx, utrecht))

	positions, err := repo.LoadPositions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, "Main 1, 3511 Utrecht", positions[0].DisplayName)
	assert.Equal(t, utrecht.Address, positions[0].Address)
	assert.InDelta(t, 5.1214, positions[0].Longitude, 1e-9)
	assert.Empty(t, positions[1].RecordID)

	tests := []struct {
		name     string
		lat      float64
		lon      float64
		expected string
	}{
		{name: "near utrecht", lat: 52.09, lon: 5.12, expected: "p1"},
		{name: "near amsterdam", lat: 52.37, lon: 4.90, expected: "p2"},
		{name: "nothing within range", lat: 35.68, lon: 139.76},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := repo.FindNearestPosition(ctx, tt.lat, tt.lon)
			require.NoError(t, err)
			if tt.expected == "" {
				assert.Nil(t, p)
				return
			}
			require.NotNil(t, p)
			assert.Equal(t, tt.expected, p.ID)
		})
	}

	require.NoError(t, repo.DeletePosition(ctx, "p2"))
	require.NoError(t, repo.Clear(ctx))
	positions, err = repo.LoadPositions(ctx)
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestRepository_LoadPositionsKeepsInsertionOrder(t *testing.T) {
	pool := setupTestDatabase(t)
	repo := NewRepository(pool)
	ctx := context.Background()
	require.NoError(t, repo.Migrate(ctx))

	for _, id := range []string{"zz", "aa", "mm"} {
		require.NoError(t, repo.SavePosition(ctx, models.Position{ID: id, Longitude: 5.1, Latitude: 52.1}))
	}
	require.NoError(t, repo.SavePosition(ctx, models.Position{ID: "zz", Longitude: 5.2, Latitude: 52.2}))

	positions, err := repo.LoadPositions(ctx)
	require.NoError(t, err)

	var ids []string
	for _, p := range positions {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"zz", "aa", "mm"}, ids)
}
