package service

import (
	"context"
	"testing"
	"time"

	"address-reconciler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) LoadRecords(ctx context.Context) ([]models.Record, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Record), args.Error(1)
}

func (m *MockRepository) SaveRecords(ctx context.Context, records []models.Record) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockRepository) LoadPositions(ctx context.Context) ([]models.Position, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Position), args.Error(1)
}

func (m *MockRepository) SavePosition(ctx context.Context, p models.Position) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) DeletePosition(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestReconcileService_Persist(t *testing.T) {
	// Setup
	repo := new(MockRepository)
	svc := newTestService(new(MockGeocoder), time.Second)
	stored := models.Record{"id": "r1", "street": "Main", "housenumber": "1", "city": "A", "postcode": "1000"}
	repo.On("LoadRecords", mock.Anything).Return([]models.Record{stored}, nil)
	repo.On("LoadPositions", mock.Anything).Return([]models.Position{}, nil)
	repo.On("SaveRecords", mock.Anything, mock.Anything).Return(nil)
	repo.On("SavePosition", mock.Anything, mock.Anything).Return(nil)
	repo.On("DeletePosition", mock.Anything, mock.Anything).Return(nil)
	repo.On("Clear", mock.Anything).Return(nil)

	// Execute
	require.NoError(t, svc.Persist(context.Background(), repo))

	// Assert
	assert.Equal(t, []models.Record{stored}, svc.Snapshot())
	repo.AssertNotCalled(t, "SaveRecords", mock.Anything, mock.Anything)

	svc.Import([]models.Record{{"street": "Side", "housenumber": "2", "city": "A", "postcode": "1000"}}, "")
	repo.AssertNumberOfCalls(t, "SaveRecords", 1)

	result := svc.HandleResponse(answer("Main 1, 1000 A"))
	require.True(t, result.Matched())
	repo.AssertNumberOfCalls(t, "SaveRecords", 2)
	repo.AssertNumberOfCalls(t, "SavePosition", 1)

	p := svc.Positions()[0]
	_, err := svc.RemovePosition(p.ID)
	require.NoError(t, err)
	repo.AssertCalled(t, "DeletePosition", mock.Anything, p.ID)

	require.NoError(t, svc.Clear())
	repo.AssertCalled(t, "Clear", mock.Anything)
}

func TestReconcileService_PersistLoadError(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(new(MockGeocoder), time.Second)
	repo.On("LoadRecords", mock.Anything).Return([]models.Record(nil), assert.AnError)

	err := svc.Persist(context.Background(), repo)

	assert.ErrorIs(t, err, assert.AnError)
	repo.AssertNotCalled(t, "LoadPositions", mock.Anything)
}
