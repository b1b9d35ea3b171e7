package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"address-reconciler/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// nearestRadius limits FindNearestPosition, in meters.
const nearestRadius float64 = 10000

const schemaSQL = `
	CREATE EXTENSION IF NOT EXISTS postgis;

	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		seq BIGSERIAL,
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS positions (
		id TEXT PRIMARY KEY,
		seq BIGSERIAL,
		record_id TEXT,
		display_name TEXT NOT NULL DEFAULT '',
		geoinfo TEXT NOT NULL DEFAULT '',
		address JSONB NOT NULL DEFAULT '{}',
		geom GEOGRAPHY(POINT, 4326)
	);

	CREATE INDEX IF NOT EXISTS positions_geom_idx ON positions USING GIST (geom);
`

// Repository persists records and positions in PostgreSQL
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Migrate creates the tables if they do not exist
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// SaveRecords upserts records by id
func (r *Repository) SaveRecords(ctx context.Context, records []models.Record) error {
	batch := &pgx.Batch{}
	for _, rec := range records {
		if rec.ID() == "" {
			continue
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("repository: failed to encode record %q: %w", rec.ID(), err)
		}
		batch.Queue(`
			INSERT INTO records (id, data) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
		`, rec.ID(), data)
	}
	if batch.Len() == 0 {
		return nil
	}

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("repository: failed to save records: %w", err)
	}
	return nil
}

// ReplaceRecords deletes every stored record and bulk-inserts records
func (r *Repository) ReplaceRecords(ctx context.Context, records []models.Record) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("repository: failed to delete records: %w", err)
	}

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"records"},
		[]string{"id", "data"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			data, err := json.Marshal(records[i])
			if err != nil {
				return nil, err
			}
			return []any{records[i].ID(), string(data)}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("repository: failed to copy records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit: %w", err)
	}
	return nil
}

// LoadRecords returns every stored record in insertion order
func (r *Repository) LoadRecords(ctx context.Context) ([]models.Record, error) {
	rows, err := r.db.Query(ctx, "SELECT data FROM records ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query records: %w", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("repository: failed to scan record: %w", err)
		}
		var rec models.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("repository: failed to decode record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return records, nil
}

// SavePosition upserts a position by id
func (r *Repository) SavePosition(ctx context.Context, p models.Position) error {
	address, err := json.Marshal(p.Address)
	if err != nil {
		return fmt.Errorf("repository: failed to encode address: %w", err)
	}

	sql := `
		INSERT INTO positions (id, record_id, display_name, geoinfo, address, geom)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, ST_SetSRID(ST_MakePoint($6, $7), 4326)::geography)
		ON CONFLICT (id) DO UPDATE SET
			record_id = EXCLUDED.record_id,
			display_name = EXCLUDED.display_name,
			geoinfo = EXCLUDED.geoinfo,
			address = EXCLUDED.address,
			geom = EXCLUDED.geom
	`
	_, err = r.db.Exec(ctx, sql, p.ID, p.RecordID, p.DisplayName, p.GeoInfo, string(address), p.Longitude, p.Latitude)
	if err != nil {
		return fmt.Errorf("repository: failed to save position %q: %w", p.ID, err)
	}
	return nil
}

// DeletePosition removes a position by id
func (r *Repository) DeletePosition(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM positions WHERE id = $1", id); err != nil {
		return fmt.Errorf("repository: failed to delete position %q: %w", id, err)
	}
	return nil
}

const positionColumns = `
	id,
	COALESCE(record_id, ''),
	display_name,
	geoinfo,
	address,
	ST_Y(geom::geometry) as latitude,
	ST_X(geom::geometry) as longitude
`

func scanPosition(row pgx.Row) (models.Position, error) {
	var (
		p       models.Position
		address []byte
	)
	if err := row.Scan(&p.ID, &p.RecordID, &p.DisplayName, &p.GeoInfo, &address, &p.Latitude, &p.Longitude); err != nil {
		return models.Position{}, err
	}
	if err := json.Unmarshal(address, &p.Address); err != nil {
		return models.Position{}, fmt.Errorf("decode address: %w", err)
	}
	return p, nil
}

// LoadPositions returns every stored position
func (r *Repository) LoadPositions(ctx context.Context) ([]models.Position, error) {
	rows, err := r.db.Query(ctx, "SELECT "+positionColumns+" FROM positions ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []models.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return positions, nil
}

// FindNearestPosition performs a spatial query to find the position nearest
// to the given coordinates. It returns nil when none is within range.
func (r *Repository) FindNearestPosition(ctx context.Context, lat, lon float64) (*models.Position, error) {
	sql := `
		SELECT ` + positionColumns + `
		FROM positions
		WHERE ST_DWithin(geom, ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography, $3)
		ORDER BY geom <-> ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography
		LIMIT 1
	`

	p, err := scanPosition(r.db.QueryRow(ctx, sql, lat, lon, nearestRadius))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to execute spatial query: %w", err)
	}

	return &p, nil
}

// Clear deletes every record and position
func (r *Repository) Clear(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, "TRUNCATE records, positions"); err != nil {
		return fmt.Errorf("repository: failed to clear: %w", err)
	}
	return nil
}
