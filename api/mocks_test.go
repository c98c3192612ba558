package api

import (
	"context"

	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/Domenick1991/transferbooking/internal/service/schedule"
	"github.com/Domenick1991/transferbooking/internal/service/wizard"
	"github.com/stretchr/testify/mock"
)

type MockRouteUseCase struct {
	mock.Mock
}

func (m *MockRouteUseCase) List(ctx context.Context) ([]domain.Route, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Route), args.Error(1)
}

func (m *MockRouteUseCase) GetByID(ctx context.Context, id int64) (*domain.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Route), args.Error(1)
}

type MockOptionUseCase struct {
	mock.Mock
}

func (m *MockOptionUseCase) List(ctx context.Context, routeID *int64) ([]domain.Option, error) {
	args := m.Called(ctx, routeID)
	return args.Get(0).([]domain.Option), args.Error(1)
}

func (m *MockOptionUseCase) GetByID(ctx context.Context, id int64) (*domain.Option, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Option), args.Error(1)
}

type MockCartUseCase struct {
	mock.Mock
}

func (m *MockCartUseCase) Submit(ctx context.Context, sessionID string) (*domain.CartItem, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}

func (m *MockCartUseCase) GetItem(ctx context.Context, token string) (*domain.CartItem, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}

func (m *MockCartUseCase) ExpireHeldItems(ctx context.Context) ([]domain.CartItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.CartItem), args.Error(1)
}

type MockWizardUseCase struct {
	mock.Mock
}

func (m *MockWizardUseCase) view(args mock.Arguments) (*wizard.DraftView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wizard.DraftView), args.Error(1)
}

func (m *MockWizardUseCase) Start(ctx context.Context) (*wizard.DraftView, error) {
	return m.view(m.Called(ctx))
}

func (m *MockWizardUseCase) Get(ctx context.Context, id string) (*wizard.DraftView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockWizardUseCase) Abandon(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockWizardUseCase) SelectRoute(ctx context.Context, id string, routeID int64) (*wizard.DraftView, error) {
	return m.view(m.Called(ctx, id, routeID))
}

func (m *MockWizardUseCase) SelectVehicle(ctx context.Context, id, vehicleType string) (*wizard.DraftView, error) {
	return m.view(m.Called(ctx, id, vehicleType))
}

func (m *MockWizardUseCase) SetTripType(ctx context.Context, id string, tripType domain.TripType) (*wizard.DraftView, error) {
	return m.view(m.Called(ctx, id, tripType))
}

func (m *MockWizardUseCase) SetOutbound(ctx context.Context, id, date, clock string) (*wizard.DraftView, error) {
	return m.view(m.Called(ctx, id, date, clock))
}

func (m *MockWizardUseCase) SetReturn(ctx context.Context, id, date, clock string) (*wizard.DraftView, error) {
	return m.view(m.Called(ctx, id, date, clock))
}

func (m *MockWizardUseCase) SetPassengers(ctx context.Context, id string, passengers, luggage int) (*wizard.DraftView, error) {
	return m.view(m.Called(ctx, id, passengers, luggage))
}

func (m *MockWizardUseCase) AddOption(ctx context.Context, id string, optionID int64, quantity int) (*wizard.DraftView, error) {
	return m.view(m.Called(ctx, id, optionID, quantity))
}

func (m *MockWizardUseCase) UpdateOption(ctx context.Context, id string, optionID int64, quantity int) (*wizard.DraftView, error) {
	return m.view(m.Called(ctx, id, optionID, quantity))
}

func (m *MockWizardUseCase) RemoveOption(ctx context.Context, id string, optionID int64) (*wizard.DraftView, error) {
	return m.view(m.Called(ctx, id, optionID))
}

func (m *MockWizardUseCase) SetContact(ctx context.Context, id string, in wizard.ContactInput) (*wizard.DraftView, error) {
	return m.view(m.Called(ctx, id, in))
}

func (m *MockWizardUseCase) Steps(ctx context.Context, id string) ([]wizard.StepState, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wizard.StepState), args.Error(1)
}

func (m *MockWizardUseCase) Next(ctx context.Context, id string) (*wizard.DraftView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockWizardUseCase) Back(ctx context.Context, id string) (*wizard.DraftView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockWizardUseCase) GoTo(ctx context.Context, id string, step domain.Step) (*wizard.DraftView, error) {
	return m.view(m.Called(ctx, id, step))
}

func (m *MockWizardUseCase) TimeSlots(ctx context.Context, id string, leg wizard.Leg, date string) ([]schedule.Slot, error) {
	args := m.Called(ctx, id, leg, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schedule.Slot), args.Error(1)
}

func (m *MockWizardUseCase) Price(ctx context.Context, id string) (*wizard.DraftView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockWizardUseCase) SaveForResume(ctx context.Context, id, userKey string) error {
	return m.Called(ctx, id, userKey).Error(0)
}

func (m *MockWizardUseCase) Resume(ctx context.Context, userKey string) (*wizard.DraftView, error) {
	return m.view(m.Called(ctx, userKey))
}
