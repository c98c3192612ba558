package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/Domenick1991/transferbooking/internal/service/pricing"
	"github.com/Domenick1991/transferbooking/internal/service/schedule"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Leg string

const (
	LegOutbound Leg = "outbound"
	LegReturn   Leg = "return"
)

type ContactInput struct {
	Name                string `json:"name"`
	Phone               string `json:"phone"`
	SpecialRequirements string `json:"special_requirements"`
}

type WizardUseCase interface {
	Start(ctx context.Context) (*DraftView, error)
	Get(ctx context.Context, id string) (*DraftView, error)
	Abandon(ctx context.Context, id string) error
	SelectRoute(ctx context.Context, id string, routeID int64) (*DraftView, error)
	SelectVehicle(ctx context.Context, id, vehicleType string) (*DraftView, error)
	SetTripType(ctx context.Context, id string, tripType domain.TripType) (*DraftView, error)
	SetOutbound(ctx context.Context, id, date, clock string) (*DraftView, error)
	SetReturn(ctx context.Context, id, date, clock string) (*DraftView, error)
	SetPassengers(ctx context.Context, id string, passengers, luggage int) (*DraftView, error)
	AddOption(ctx context.Context, id string, optionID int64, quantity int) (*DraftView, error)
	UpdateOption(ctx context.Context, id string, optionID int64, quantity int) (*DraftView, error)
	RemoveOption(ctx context.Context, id string, optionID int64) (*DraftView, error)
	SetContact(ctx context.Context, id string, in ContactInput) (*DraftView, error)
	Steps(ctx context.Context, id string) ([]StepState, error)
	Next(ctx context.Context, id string) (*DraftView, error)
	Back(ctx context.Context, id string) (*DraftView, error)
	GoTo(ctx context.Context, id string, step domain.Step) (*DraftView, error)
	TimeSlots(ctx context.Context, id string, leg Leg, date string) ([]schedule.Slot, error)
	Price(ctx context.Context, id string) (*DraftView, error)
	SaveForResume(ctx context.Context, id, userKey string) error
	Resume(ctx context.Context, userKey string) (*DraftView, error)
}

// DraftStore keeps drafts between requests. GetDraft and TakeResumeSnapshot return nil, nil when nothing is stored.
type DraftStore interface {
	GetDraft(ctx context.Context, id string) (*domain.DraftSnapshot, error)
	SaveDraft(ctx context.Context, snap domain.DraftSnapshot, ttl time.Duration) error
	DeleteDraft(ctx context.Context, id string) error
	AcquireDraftLock(ctx context.Context, id string, ttl time.Duration) (token string, ok bool, err error)
	ReleaseDraftLock(ctx context.Context, id, token string) error
	SaveResumeSnapshot(ctx context.Context, userKey string, snap domain.DraftSnapshot, ttl time.Duration) error
	TakeResumeSnapshot(ctx context.Context, userKey string) (*domain.DraftSnapshot, error)
}

type RouteProvider interface {
	GetByID(ctx context.Context, id int64) (*domain.Route, error)
}

type OptionProvider interface {
	GetByID(ctx context.Context, id int64) (*domain.Option, error)
}

// Schedule validates legs and lists the selectable slots.
type Schedule interface {
	DateTimeValidator
	OutboundSlots(date string, hours domain.BusinessHours) ([]schedule.Slot, error)
	ReturnSlots(outDate, outClock, retDate string, hours domain.BusinessHours) ([]schedule.Slot, error)
}

type Settings struct {
	DraftTTL  time.Duration
	LockTTL   time.Duration
	ResumeTTL time.Duration
}

type WizardService struct {
	store    DraftStore
	routes   RouteProvider
	options  OptionProvider
	pricer   pricing.PricingUseCase
	schedule Schedule
	steps    *StepValidator
	settings Settings
	log      logrus.FieldLogger
	now      func() time.Time
}

type WizardServiceOption func(*WizardService)

func WithClock(now func() time.Time) WizardServiceOption {
	return func(s *WizardService) {
		s.now = now
	}
}

func WithSettings(settings Settings) WizardServiceOption {
	return func(s *WizardService) {
		if settings.DraftTTL > 0 {
			s.settings.DraftTTL = settings.DraftTTL
		}
		if settings.LockTTL > 0 {
			s.settings.LockTTL = settings.LockTTL
		}
		if settings.ResumeTTL > 0 {
			s.settings.ResumeTTL = settings.ResumeTTL
		}
	}
}

func NewWizardService(
	store DraftStore,
	routes RouteProvider,
	options OptionProvider,
	pricer pricing.PricingUseCase,
	sched Schedule,
	log logrus.FieldLogger,
	opts ...WizardServiceOption,
) *WizardService {
	s := &WizardService{
		store:    store,
		routes:   routes,
		options:  options,
		pricer:   pricer,
		schedule: sched,
		steps:    NewStepValidator(sched),
		settings: Settings{DraftTTL: 2 * time.Hour, LockTTL: 5 * time.Second, ResumeTTL: 24 * time.Hour},
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *WizardService) StepValidator() *StepValidator { return s.steps }

func (s *WizardService) Start(ctx context.Context) (*DraftView, error) {
	d := NewDraft(uuid.NewString(), s.now())
	if err := s.save(ctx, d); err != nil {
		return nil, err
	}
	s.log.WithField("draft_id", d.ID()).Debug("transfer booking draft started")
	return s.view(d), nil
}

func (s *WizardService) Get(ctx context.Context, id string) (*DraftView, error) {
	d, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(d), nil
}

func (s *WizardService) Abandon(ctx context.Context, id string) error {
	if err := s.Discard(ctx, id); err != nil {
		return err
	}
	s.log.WithField("draft_id", id).Info("transfer booking draft abandoned")
	return nil
}

func (s *WizardService) SelectRoute(ctx context.Context, id string, routeID int64) (*DraftView, error) {
	route, err := s.routes.GetByID(ctx, routeID)
	if err != nil {
		return nil, err
	}
	return s.mutateView(ctx, id, func(d *Draft) error {
		return d.SetRoute(route)
	})
}

func (s *WizardService) SelectVehicle(ctx context.Context, id, vehicleType string) (*DraftView, error) {
	return s.mutateView(ctx, id, func(d *Draft) error {
		return d.SetVehicleType(strings.TrimSpace(vehicleType))
	})
}

func (s *WizardService) SetTripType(ctx context.Context, id string, tripType domain.TripType) (*DraftView, error) {
	return s.mutateView(ctx, id, func(d *Draft) error {
		return d.SetTripType(tripType)
	})
}

func (s *WizardService) SetOutbound(ctx context.Context, id, date, clock string) (*DraftView, error) {
	return s.mutateView(ctx, id, func(d *Draft) error {
		return d.SetOutbound(date, clock)
	})
}

func (s *WizardService) SetReturn(ctx context.Context, id, date, clock string) (*DraftView, error) {
	return s.mutateView(ctx, id, func(d *Draft) error {
		return d.SetReturn(date, clock)
	})
}

func (s *WizardService) SetPassengers(ctx context.Context, id string, passengers, luggage int) (*DraftView, error) {
	return s.mutateView(ctx, id, func(d *Draft) error {
		return d.SetPassengers(passengers, luggage)
	})
}

func (s *WizardService) AddOption(ctx context.Context, id string, optionID int64, quantity int) (*DraftView, error) {
	opt, err := s.options.GetByID(ctx, optionID)
	if err != nil {
		return nil, err
	}
	return s.mutateView(ctx, id, func(d *Draft) error {
		return d.AddOption(*opt, quantity)
	})
}

func (s *WizardService) UpdateOption(ctx context.Context, id string, optionID int64, quantity int) (*DraftView, error) {
	return s.mutateView(ctx, id, func(d *Draft) error {
		return d.UpdateOptionQuantity(optionID, quantity)
	})
}

func (s *WizardService) RemoveOption(ctx context.Context, id string, optionID int64) (*DraftView, error) {
	return s.mutateView(ctx, id, func(d *Draft) error {
		return d.RemoveOption(optionID)
	})
}

func (s *WizardService) SetContact(ctx context.Context, id string, in ContactInput) (*DraftView, error) {
	return s.mutateView(ctx, id, func(d *Draft) error {
		return d.SetContact(in.Name, in.Phone, in.SpecialRequirements)
	})
}

func (s *WizardService) Steps(ctx context.Context, id string) ([]StepState, error) {
	d, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.steps.Steps(d), nil
}

// Next advances the wizard and, on reaching the summary, prices the draft if needed.
func (s *WizardService) Next(ctx context.Context, id string) (*DraftView, error) {
	d, err := s.Mutate(ctx, id, func(d *Draft) error {
		return d.Next(s.steps)
	})
	if err != nil {
		return nil, err
	}
	return s.enterStep(ctx, d)
}

func (s *WizardService) Back(ctx context.Context, id string) (*DraftView, error) {
	return s.mutateView(ctx, id, func(d *Draft) error {
		d.Back()
		return nil
	})
}

func (s *WizardService) GoTo(ctx context.Context, id string, step domain.Step) (*DraftView, error) {
	d, err := s.Mutate(ctx, id, func(d *Draft) error {
		return d.GoTo(step, s.steps)
	})
	if err != nil {
		return nil, err
	}
	return s.enterStep(ctx, d)
}

func (s *WizardService) enterStep(ctx context.Context, d *Draft) (*DraftView, error) {
	if d.CurrentStep() != domain.StepSummary || !d.PricingStale() {
		return s.view(d), nil
	}
	v, err := s.Price(ctx, d.ID())
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, ErrStalePricing) || errors.Is(err, ErrDraftBusy):
		// A newer change is being applied; the client re-prices on its next summary render.
		return s.Get(ctx, d.ID())
	default:
		// the step move is already saved; the summary stays unpriced until the client asks again
		s.log.WithError(err).WithField("draft_id", d.ID()).Warn("price on entering summary")
		return s.view(d), nil
	}
}

// TimeSlots lists the departure or return times that can be selected on date.
func (s *WizardService) TimeSlots(ctx context.Context, id string, leg Leg, date string) ([]schedule.Slot, error) {
	d, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	hours := d.Route().BusinessHours()

	var slots []schedule.Slot
	switch leg {
	case LegOutbound:
		slots, err = s.schedule.OutboundSlots(date, hours)
	case LegReturn:
		if !d.RoundTrip() {
			return nil, domain.ValidationError{Field: "leg", Code: "one_way", Msg: "one way trips have no return leg"}
		}
		outDate, outClock := d.Outbound()
		slots, err = s.schedule.ReturnSlots(outDate, outClock, date, hours)
	default:
		return nil, domain.ValidationError{Field: "leg", Code: "invalid", Msg: fmt.Sprintf("unknown leg %q", leg)}
	}
	if err != nil {
		return nil, domain.ValidationError{Field: "date", Code: schedule.Code(err), Msg: err.Error(), Err: err}
	}
	return slots, nil
}

// Price computes the breakdown without holding the draft lock, then applies it only if the draft
// has not changed in the meantime.
func (s *WizardService) Price(ctx context.Context, id string) (*DraftView, error) {
	d, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	in, version := d.PriceRequest()

	var b *domain.PricingBreakdown
	if d.Vehicle() != nil {
		b, err = s.pricer.Price(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("price transfer: %w", err)
		}
	}

	d, err = s.Mutate(ctx, id, func(d *Draft) error {
		return d.ApplyPricing(version, b)
	})
	if err != nil {
		if errors.Is(err, ErrStalePricing) {
			s.log.WithFields(logrus.Fields{"draft_id": id, "version": version}).Info("discarding stale price result")
		}
		return nil, err
	}
	return s.view(d), nil
}

func (s *WizardService) SaveForResume(ctx context.Context, id, userKey string) error {
	userKey = strings.TrimSpace(userKey)
	if userKey == "" {
		return domain.ValidationError{Field: "user_key", Code: "required", Msg: "user key is required"}
	}
	d, err := s.Load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.SaveResumeSnapshot(ctx, userKey, d.Snapshot(), s.settings.ResumeTTL); err != nil {
		return fmt.Errorf("save resume snapshot: %w", err)
	}
	return nil
}

// Resume replays a saved snapshot into a new session. The snapshot is consumed.
func (s *WizardService) Resume(ctx context.Context, userKey string) (*DraftView, error) {
	userKey = strings.TrimSpace(userKey)
	if userKey == "" {
		return nil, domain.ValidationError{Field: "user_key", Code: "required", Msg: "user key is required"}
	}
	snap, err := s.store.TakeResumeSnapshot(ctx, userKey)
	if err != nil {
		return nil, fmt.Errorf("take resume snapshot: %w", err)
	}
	if snap == nil {
		return nil, domain.NotFoundError{Resource: "resume snapshot"}
	}

	saved := *snap
	snap.ID = uuid.NewString()
	snap.SubmissionStatus = domain.SubmissionIdle
	snap.SubmissionError = ""
	d := Restore(*snap)
	d.touch(s.now())
	if err := s.save(ctx, d); err != nil {
		// put the snapshot back so the user can try again
		if putErr := s.store.SaveResumeSnapshot(context.WithoutCancel(ctx), userKey, saved, s.settings.ResumeTTL); putErr != nil {
			s.log.WithError(putErr).WithField("user_key", userKey).Error("restore resume snapshot")
		}
		return nil, err
	}
	s.log.WithField("draft_id", d.ID()).Info("transfer booking draft resumed")
	return s.view(d), nil
}

func (s *WizardService) Load(ctx context.Context, id string) (*Draft, error) {
	snap, err := s.store.GetDraft(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if snap == nil {
		return nil, domain.NotFoundError{Resource: "draft"}
	}
	return Restore(*snap), nil
}

// Mutate applies fn to the stored draft under the per-draft lock. The draft is saved only if fn succeeds.
func (s *WizardService) Mutate(ctx context.Context, id string, fn func(*Draft) error) (*Draft, error) {
	token, ok, err := s.store.AcquireDraftLock(ctx, id, s.settings.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire draft lock: %w", err)
	}
	if !ok {
		return nil, ErrDraftBusy
	}
	defer func() {
		if err := s.store.ReleaseDraftLock(context.WithoutCancel(ctx), id, token); err != nil {
			s.log.WithError(err).WithField("draft_id", id).Warn("release draft lock")
		}
	}()

	d, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	d.touch(s.now())
	if err := s.save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *WizardService) Discard(ctx context.Context, id string) error {
	if err := s.store.DeleteDraft(ctx, id); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func (s *WizardService) mutateView(ctx context.Context, id string, fn func(*Draft) error) (*DraftView, error) {
	d, err := s.Mutate(ctx, id, fn)
	if err != nil {
		return nil, err
	}
	return s.view(d), nil
}

func (s *WizardService) save(ctx context.Context, d *Draft) error {
	if err := s.store.SaveDraft(ctx, d.Snapshot(), s.settings.DraftTTL); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *WizardService) view(d *Draft) *DraftView {
	return NewDraftView(d, s.steps)
}

var _ WizardUseCase = (*WizardService)(nil)
