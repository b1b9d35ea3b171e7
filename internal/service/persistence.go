package service

import (
	"context"
	"fmt"

	"address-reconciler/internal/models"

	"github.com/rs/zerolog/log"
)

// Repository persists the session state.
type Repository interface {
	LoadRecords(ctx context.Context) ([]models.Record, error)
	SaveRecords(ctx context.Context, records []models.Record) error
	LoadPositions(ctx context.Context) ([]models.Position, error)
	SavePosition(ctx context.Context, p models.Position) error
	DeletePosition(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// Persist seeds the stores from repo and writes every later change back.
// ctx must live as long as the service.
func (s *ReconcileService) Persist(ctx context.Context, repo Repository) error {
	records, err := repo.LoadRecords(ctx)
	if err != nil {
		return fmt.Errorf("service: failed to load records: %w", err)
	}
	positions, err := repo.LoadPositions(ctx)
	if err != nil {
		return fmt.Errorf("service: failed to load positions: %w", err)
	}
	s.records.Load(records)
	s.positions.Load(positions)

	s.records.Subscribe(func(changed []models.Record) {
		if err := repo.SaveRecords(ctx, changed); err != nil {
			log.Error().Err(err).Int("records", len(changed)).Msg("cannot persist records")
		}
	})
	s.positions.OnChange(func(_ models.PositionEventKind, p models.Position) {
		if err := repo.SavePosition(ctx, p); err != nil {
			log.Error().Err(err).Str("position", p.ID).Msg("cannot persist position")
		}
	})
	s.positions.OnRemove(func(p models.Position) {
		if err := repo.DeletePosition(ctx, p.ID); err != nil {
			log.Error().Err(err).Str("position", p.ID).Msg("cannot delete position")
		}
	})

	s.mu.Lock()
	s.repo = repo
	s.persistCtx = ctx
	s.mu.Unlock()

	log.Info().Int("records", len(records)).Int("positions", len(positions)).Msg("session restored")
	return nil
}
