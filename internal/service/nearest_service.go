package service

import (
	"context"
	"fmt"

	"address-reconciler/internal/models"
)

// NearestPositionService finds the persisted position closest to a point
type NearestPositionService struct {
	repo NearestPositionRepository
}

// NearestPositionRepository interface for dependency injection
type NearestPositionRepository interface {
	FindNearestPosition(ctx context.Context, lat, lon float64) (*models.Position, error)
}

// NewNearestPositionService creates a new nearest position service
func NewNearestPositionService(repo NearestPositionRepository) *NearestPositionService {
	return &NearestPositionService{repo: repo}
}

// NearestPosition returns the closest position using a spatial query, or nil
// when none is within range.
func (s *NearestPositionService) NearestPosition(ctx context.Context, lat, lon float64) (*models.Position, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	p, err := s.repo.FindNearestPosition(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("service: failed to find nearest position: %w", err)
	}

	return p, nil
}
