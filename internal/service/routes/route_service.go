package routes

import (
	"context"
	"time"

	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/Domenick1991/transferbooking/internal/repository"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

type RouteUseCase interface {
	List(ctx context.Context) ([]domain.Route, error)
	GetByID(ctx context.Context, id int64) (*domain.Route, error)
}

// Cache returns nil, nil on a miss.
type Cache interface {
	GetRoutes(ctx context.Context) ([]domain.Route, error)
	SetRoutes(ctx context.Context, routes []domain.Route) error
	GetRoute(ctx context.Context, id int64) (*domain.Route, error)
	SetRoute(ctx context.Context, route *domain.Route) error
}

type RouteService struct {
	repo     repository.RouteRepository
	cache    Cache
	attempts int
	interval time.Duration
	log      logrus.FieldLogger
}

type RouteServiceOption func(*RouteService)

func WithCache(cache Cache) RouteServiceOption {
	return func(s *RouteService) {
		s.cache = cache
	}
}

// WithRetry sets how many times the route list is fetched before giving up and the first backoff interval.
func WithRetry(attempts int, initialInterval time.Duration) RouteServiceOption {
	return func(s *RouteService) {
		if attempts > 0 {
			s.attempts = attempts
		}
		if initialInterval > 0 {
			s.interval = initialInterval
		}
	}
}

func NewRouteService(repo repository.RouteRepository, log logrus.FieldLogger, opts ...RouteServiceOption) *RouteService {
	s := &RouteService{repo: repo, attempts: 3, interval: 200 * time.Millisecond, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RouteService) List(ctx context.Context) ([]domain.Route, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetRoutes(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	var routes []domain.Route
	err := backoff.RetryNotify(func() error {
		var err error
		routes, err = s.repo.List(ctx)
		return err
	}, s.backoff(ctx), func(err error, wait time.Duration) {
		s.log.WithError(err).WithField("retry_in", wait).Warn("list routes failed, retrying")
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetRoutes(ctx, routes); err != nil {
			s.log.WithError(err).Warn("cache routes")
		}
	}
	return routes, nil
}

// GetByID fails fast; only the list is retried.
func (s *RouteService) GetByID(ctx context.Context, id int64) (*domain.Route, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetRoute(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	route, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetRoute(ctx, route); err != nil {
			s.log.WithError(err).WithField("route_id", id).Warn("cache route")
		}
	}
	return route, nil
}

func (s *RouteService) backoff(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.interval
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.attempts-1)), ctx)
}

var _ RouteUseCase = (*RouteService)(nil)
