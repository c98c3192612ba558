package options

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOptionRepository struct {
	mock.Mock
}

func (m *MockOptionRepository) List(ctx context.Context, routeID *int64) ([]domain.Option, error) {
	args := m.Called(ctx, routeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Option), args.Error(1)
}

func (m *MockOptionRepository) GetByID(ctx context.Context, id int64) (*domain.Option, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Option), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetOptions(ctx context.Context, routeID *int64) ([]domain.Option, error) {
	args := m.Called(ctx, routeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Option), args.Error(1)
}

func (m *MockCache) SetOptions(ctx context.Context, routeID *int64, options []domain.Option) error {
	args := m.Called(ctx, routeID, options)
	return args.Error(0)
}

func TestOptionService_List(t *testing.T) {
	routeID := int64(7)
	global := domain.Option{ID: 1, Name: "Child seat", Price: 5, MaxQuantity: 2}
	scoped := domain.Option{ID: 2, Name: "Meet and greet", Price: 20, RouteID: &routeID}

	t.Run("cache hit", func(t *testing.T) {
		repo, cache := &MockOptionRepository{}, &MockCache{}
		logger, _ := test.NewNullLogger()
		service := NewOptionService(repo, cache, logger)
		ctx := context.Background()

		cache.On("GetOptions", ctx, &routeID).Return([]domain.Option{global, scoped}, nil).Once()

		result, err := service.List(ctx, &routeID)
		require.NoError(t, err)
		assert.Len(t, result, 2)
		repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("miss reads repository and caches", func(t *testing.T) {
		repo, cache := &MockOptionRepository{}, &MockCache{}
		logger, hook := test.NewNullLogger()
		service := NewOptionService(repo, cache, logger)
		ctx := context.Background()

		cache.On("GetOptions", ctx, (*int64)(nil)).Return(nil, errors.New("redis down")).Once()
		repo.On("List", ctx, (*int64)(nil)).Return([]domain.Option{global}, nil).Once()
		cache.On("SetOptions", ctx, (*int64)(nil), []domain.Option{global}).Return(errors.New("redis down")).Once()

		result, err := service.List(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, []domain.Option{global}, result)
		assert.Len(t, hook.Entries, 1)
		cache.AssertExpectations(t)
	})

	t.Run("no options is not an error", func(t *testing.T) {
		repo := &MockOptionRepository{}
		logger, _ := test.NewNullLogger()
		service := NewOptionService(repo, nil, logger)
		ctx := context.Background()

		repo.On("List", ctx, &routeID).Return([]domain.Option{}, nil).Once()

		result, err := service.List(ctx, &routeID)
		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := &MockOptionRepository{}
		logger, _ := test.NewNullLogger()
		service := NewOptionService(repo, nil, logger)
		ctx := context.Background()

		repo.On("List", ctx, &routeID).Return(nil, errors.New("db down")).Once()

		_, err := service.List(ctx, &routeID)
		assert.EqualError(t, err, "db down")
	})
}

func TestOptionService_GetByID(t *testing.T) {
	repo := &MockOptionRepository{}
	logger, _ := test.NewNullLogger()
	service := NewOptionService(repo, nil, logger)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(3)).Return(nil, domain.NotFoundError{Resource: "option 3"}).Once()

	_, err := service.GetByID(ctx, 3)
	assert.True(t, domain.IsNotFound(err))
}
