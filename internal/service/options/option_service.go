package options

import (
	"context"

	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/Domenick1991/transferbooking/internal/repository"
	"github.com/sirupsen/logrus"
)

type OptionUseCase interface {
	List(ctx context.Context, routeID *int64) ([]domain.Option, error)
	GetByID(ctx context.Context, id int64) (*domain.Option, error)
}

// Cache returns nil, nil on a miss.
type Cache interface {
	GetOptions(ctx context.Context, routeID *int64) ([]domain.Option, error)
	SetOptions(ctx context.Context, routeID *int64, options []domain.Option) error
}

type OptionService struct {
	repo  repository.OptionRepository
	cache Cache
	log   logrus.FieldLogger
}

func NewOptionService(repo repository.OptionRepository, cache Cache, log logrus.FieldLogger) *OptionService {
	return &OptionService{repo: repo, cache: cache, log: log}
}

// List returns the add-ons offered for routeID: global ones plus those scoped to the route. An empty
// list is a normal answer.
func (s *OptionService) List(ctx context.Context, routeID *int64) ([]domain.Option, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetOptions(ctx, routeID); err == nil && cached != nil {
			return cached, nil
		}
	}

	options, err := s.repo.List(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetOptions(ctx, routeID, options); err != nil {
			s.log.WithError(err).Warn("cache options")
		}
	}
	return options, nil
}

func (s *OptionService) GetByID(ctx context.Context, id int64) (*domain.Option, error) {
	return s.repo.GetByID(ctx, id)
}

var _ OptionUseCase = (*OptionService)(nil)
