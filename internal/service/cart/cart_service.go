package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/Domenick1991/transferbooking/internal/kafka"
	"github.com/Domenick1991/transferbooking/internal/repository"
	"github.com/Domenick1991/transferbooking/internal/service/wizard"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrIncomplete = domain.ValidationError{Field: "step", Code: "incomplete", Msg: "booking is incomplete or its price is out of date"}

var errInterrupted = errors.New("previous submission was interrupted")

type CartUseCase interface {
	Submit(ctx context.Context, sessionID string) (*domain.CartItem, error)
	GetItem(ctx context.Context, token string) (*domain.CartItem, error)
	ExpireHeldItems(ctx context.Context) ([]domain.CartItem, error)
}

// Drafts is the part of the wizard the cart needs.
type Drafts interface {
	Mutate(ctx context.Context, id string, fn func(*wizard.Draft) error) (*wizard.Draft, error)
	Discard(ctx context.Context, id string) error
	StepValidator() *wizard.StepValidator
}

type SubmitLocker interface {
	AcquireSubmitLock(ctx context.Context, id string, ttl time.Duration) (token string, ok bool, err error)
	ReleaseSubmitLock(ctx context.Context, id, token string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type Service struct {
	drafts   Drafts
	items    repository.CartRepository
	locks    SubmitLocker
	producer Producer
	topic    string
	holdTTL  time.Duration
	lockTTL  time.Duration
	now      func() time.Time
	log      logrus.FieldLogger
}

type ServiceOption func(*Service)

func WithProducer(p Producer, topic string) ServiceOption {
	return func(s *Service) {
		s.producer = p
		s.topic = topic
	}
}

func WithHoldTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.holdTTL = ttl
		}
	}
}

func WithLockTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(drafts Drafts, items repository.CartRepository, locks SubmitLocker, log logrus.FieldLogger, opts ...ServiceOption) *Service {
	s := &Service{
		drafts:  drafts,
		items:   items,
		locks:   locks,
		holdTTL: 30 * time.Minute,
		lockTTL: 30 * time.Second,
		now:     time.Now,
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit hands the draft to the cart. On success the draft is deleted; on failure it keeps
// its data with status error so the user can retry.
func (s *Service) Submit(ctx context.Context, sessionID string) (*domain.CartItem, error) {
	token, ok, err := s.locks.AcquireSubmitLock(ctx, sessionID, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire submit lock: %w", err)
	}
	if !ok {
		return nil, wizard.ErrSubmissionInProgress
	}
	defer func() {
		if err := s.locks.ReleaseSubmitLock(context.WithoutCancel(ctx), sessionID, token); err != nil {
			s.log.WithError(err).WithField("draft_id", sessionID).Warn("release submit lock")
		}
	}()

	var item *domain.CartItem
	var incomplete bool
	steps := s.drafts.StepValidator()
	if _, err := s.drafts.Mutate(ctx, sessionID, func(d *wizard.Draft) error {
		// the submit lock is ours, so a draft still marked submitting was left by a failed save
		interrupted := d.SubmissionStatus() == domain.SubmissionSubmitting
		if interrupted {
			d.MarkSubmitFailed(errInterrupted)
		}
		if !steps.IsStepValid(d, domain.StepSummary) {
			if interrupted {
				// keep the reset so the draft can be edited again
				incomplete = true
				return nil
			}
			return ErrIncomplete
		}
		if err := d.MarkSubmitting(); err != nil {
			return err
		}
		built, err := s.BuildItem(d)
		if err != nil {
			return err
		}
		item = built
		return nil
	}); err != nil {
		return nil, err
	}
	if incomplete {
		return nil, ErrIncomplete
	}

	logger := s.log.WithFields(logrus.Fields{"draft_id": sessionID, "token": item.Token})
	if err := s.items.CreateHeld(ctx, item); err != nil {
		logger.WithError(err).Warn("cart submission failed")
		if _, markErr := s.drafts.Mutate(context.WithoutCancel(ctx), sessionID, func(d *wizard.Draft) error {
			d.MarkSubmitFailed(err)
			return nil
		}); markErr != nil {
			logger.WithError(markErr).Error("record submission failure")
		}
		return nil, err
	}

	if err := s.drafts.Discard(ctx, sessionID); err != nil {
		logger.WithError(err).Warn("discard submitted draft")
	}
	if err := s.publish(ctx, kafka.EventTransferAddedToCart, item); err != nil {
		logger.WithError(err).Warn("publish cart event")
	}
	logger.WithField("total", item.TotalPrice).Info("transfer booking added to cart")
	return item, nil
}

// BuildItem serializes a priced draft into a held cart item.
func (s *Service) BuildItem(d *wizard.Draft) (*domain.CartItem, error) {
	booking, err := NewTransferBooking(d)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(booking)
	if err != nil {
		return nil, fmt.Errorf("marshal transfer booking: %w", err)
	}
	return &domain.CartItem{
		Token:       uuid.NewString(),
		SessionID:   d.ID(),
		ProductType: booking.ProductType(),
		Payload:     payload,
		TotalPrice:  booking.TotalPrice(),
		Currency:    booking.Currency(),
		ContactName: booking.ContactName,
		Phone:       booking.ContactPhone,
		Status:      domain.CartItemStatusHeld,
		ExpiresAt:   s.now().Add(s.holdTTL),
	}, nil
}

func (s *Service) GetItem(ctx context.Context, token string) (*domain.CartItem, error) {
	return s.items.GetByToken(ctx, token)
}

// ExpireHeldItems releases every item whose hold has passed.
func (s *Service) ExpireHeldItems(ctx context.Context) ([]domain.CartItem, error) {
	expired, err := s.items.ExpireHeldBefore(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("expire held items: %w", err)
	}
	for i := range expired {
		if err := s.publish(ctx, kafka.EventCartItemExpired, &expired[i]); err != nil {
			s.log.WithError(err).WithField("token", expired[i].Token).Warn("publish cart event")
		}
	}
	if len(expired) > 0 {
		s.log.WithField("count", len(expired)).Info("expired held cart items")
	}
	return expired, nil
}

func (s *Service) publish(ctx context.Context, eventType string, item *domain.CartItem) error {
	if s.producer == nil || s.topic == "" {
		return nil
	}
	return s.producer.Publish(ctx, s.topic, item.Token, NewEvent(eventType, item))
}

func NewEvent(eventType string, item *domain.CartItem) kafka.CartEvent {
	event := kafka.CartEvent{
		Type:        eventType,
		Token:       item.Token,
		SessionID:   item.SessionID,
		ProductType: string(item.ProductType),
		ContactName: item.ContactName,
		Phone:       item.Phone,
		TotalPrice:  item.TotalPrice,
		Currency:    item.Currency,
		Status:      string(item.Status),
		ExpiresAt:   item.ExpiresAt,
	}
	if p, err := DecodeProduct(*item); err == nil {
		event.Summary = p.Summary()
	}
	return event
}

var _ CartUseCase = (*Service)(nil)
