package routes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRouteRepository struct {
	mock.Mock
}

func (m *MockRouteRepository) List(ctx context.Context) ([]domain.Route, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Route), args.Error(1)
}

func (m *MockRouteRepository) GetByID(ctx context.Context, id int64) (*domain.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Route), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetRoutes(ctx context.Context) ([]domain.Route, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Route), args.Error(1)
}

func (m *MockCache) SetRoutes(ctx context.Context, routes []domain.Route) error {
	args := m.Called(ctx, routes)
	return args.Error(0)
}

func (m *MockCache) GetRoute(ctx context.Context, id int64) (*domain.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Route), args.Error(1)
}

func (m *MockCache) SetRoute(ctx context.Context, route *domain.Route) error {
	args := m.Called(ctx, route)
	return args.Error(0)
}

func newService(repo *MockRouteRepository, opts ...RouteServiceOption) *RouteService {
	logger, _ := test.NewNullLogger()
	opts = append([]RouteServiceOption{WithRetry(3, time.Millisecond)}, opts...)
	return NewRouteService(repo, logger, opts...)
}

func TestRouteService_List_FromCache(t *testing.T) {
	repo := &MockRouteRepository{}
	cache := &MockCache{}
	service := newService(repo, WithCache(cache))
	ctx := context.Background()

	cached := []domain.Route{{ID: 1, Origin: "Airport", Destination: "Old Town"}}
	cache.On("GetRoutes", ctx).Return(cached, nil).Once()

	result, err := service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, cached, result)
	repo.AssertNotCalled(t, "List", mock.Anything)
}

func TestRouteService_List_CacheMissFillsCache(t *testing.T) {
	repo := &MockRouteRepository{}
	cache := &MockCache{}
	service := newService(repo, WithCache(cache))
	ctx := context.Background()

	routes := []domain.Route{{ID: 1}, {ID: 2}}
	cache.On("GetRoutes", ctx).Return(nil, nil).Once()
	repo.On("List", ctx).Return(routes, nil).Once()
	cache.On("SetRoutes", ctx, routes).Return(nil).Once()

	result, err := service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, routes, result)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestRouteService_List_RetriesThreeTimes(t *testing.T) {
	tests := []struct {
		name     string
		failures int
		wantErr  bool
	}{
		{"first attempt", 0, false},
		{"third attempt", 2, false},
		{"gives up after three", 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRouteRepository{}
			service := newService(repo)
			ctx := context.Background()
			down := errors.New("connection reset")

			if tt.failures > 0 {
				repo.On("List", ctx).Return(nil, down).Times(tt.failures)
			}
			if !tt.wantErr {
				repo.On("List", ctx).Return([]domain.Route{{ID: 1}}, nil).Once()
			}

			result, err := service.List(ctx)
			if tt.wantErr {
				assert.ErrorIs(t, err, down)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Len(t, result, 1)
			}
			repo.AssertExpectations(t)
			repo.AssertNumberOfCalls(t, "List", min(tt.failures+1, 3))
		})
	}
}

func TestRouteService_List_StopsOnCancelledContext(t *testing.T) {
	repo := &MockRouteRepository{}
	service := newService(repo, WithRetry(3, time.Hour))
	ctx, cancel := context.WithCancel(context.Background())

	repo.On("List", ctx).Return(nil, errors.New("timeout")).Run(func(mock.Arguments) { cancel() }).Once()

	_, err := service.List(ctx)
	assert.Error(t, err)
	repo.AssertNumberOfCalls(t, "List", 1)
}

func TestRouteService_GetByID(t *testing.T) {
	repo := &MockRouteRepository{}
	cache := &MockCache{}
	service := newService(repo, WithCache(cache))
	ctx := context.Background()

	route := &domain.Route{ID: 7, Origin: "Airport"}
	cache.On("GetRoute", ctx, int64(7)).Return(nil, nil).Once()
	repo.On("GetByID", ctx, int64(7)).Return(route, nil).Once()
	cache.On("SetRoute", ctx, route).Return(errors.New("redis down")).Once()

	result, err := service.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, route, result)
	cache.AssertExpectations(t)
}

func TestRouteService_GetByID_NotFoundFailsFast(t *testing.T) {
	repo := &MockRouteRepository{}
	service := newService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(99)).Return(nil, domain.NotFoundError{Resource: "route 99"}).Once()

	result, err := service.GetByID(ctx, 99)
	assert.True(t, domain.IsNotFound(err))
	assert.Nil(t, result)
	repo.AssertNumberOfCalls(t, "GetByID", 1)
}
