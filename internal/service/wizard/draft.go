package wizard

import (
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/Domenick1991/transferbooking/internal/service/pricing"
)

var (
	ErrStepInvalid          = domain.ValidationError{Field: "step", Code: "step_invalid", Msg: "current step is not complete"}
	ErrLastStep             = domain.ValidationError{Field: "step", Code: "last_step", Msg: "already on the last step"}
	ErrStalePricing         = domain.ConflictError{Resource: "pricing", Msg: "booking changed while the price was computed"}
	ErrDraftBusy            = domain.ConflictError{Resource: "draft", Msg: "another change is in progress"}
	ErrSubmissionInProgress = domain.ConflictError{Resource: "submission", Msg: "booking is already being submitted"}
)

// Draft is an in-progress transfer booking. Fields change only through the setters below; every
// setter touching a price input bumps the inputs version, which marks the cached pricing stale.
type Draft struct {
	id                  string
	route               *domain.Route
	vehicleType         string
	tripType            domain.TripType
	outboundDate        string
	outboundTime        string
	returnDate          string
	returnTime          string
	passengerCount      int
	luggageCount        int
	options             []domain.SelectedOption
	contactName         string
	contactPhone        string
	specialRequirements string

	pricing       *domain.PricingBreakdown
	priced        bool
	pricedVersion int64
	inputsVersion int64

	currentStep      domain.Step
	submissionStatus domain.SubmissionStatus
	submissionError  string

	createdAt time.Time
	updatedAt time.Time
}

func NewDraft(id string, now time.Time) *Draft {
	return &Draft{
		id:               id,
		tripType:         domain.TripTypeOneWay,
		passengerCount:   1,
		currentStep:      domain.StepRoute,
		submissionStatus: domain.SubmissionIdle,
		createdAt:        now,
		updatedAt:        now,
	}
}

func (d *Draft) ID() string                                { return d.id }
func (d *Draft) Route() *domain.Route                      { return d.route }
func (d *Draft) VehicleType() string                       { return d.vehicleType }
func (d *Draft) TripType() domain.TripType                 { return d.tripType }
func (d *Draft) Outbound() (date, clock string)            { return d.outboundDate, d.outboundTime }
func (d *Draft) Return() (date, clock string)              { return d.returnDate, d.returnTime }
func (d *Draft) PassengerCount() int                       { return d.passengerCount }
func (d *Draft) LuggageCount() int                         { return d.luggageCount }
func (d *Draft) ContactName() string                       { return d.contactName }
func (d *Draft) ContactPhone() string                      { return d.contactPhone }
func (d *Draft) SpecialRequirements() string               { return d.specialRequirements }
func (d *Draft) Pricing() *domain.PricingBreakdown         { return d.pricing }
func (d *Draft) CurrentStep() domain.Step                  { return d.currentStep }
func (d *Draft) SubmissionStatus() domain.SubmissionStatus { return d.submissionStatus }
func (d *Draft) SubmissionError() string                   { return d.submissionError }
func (d *Draft) InputsVersion() int64                      { return d.inputsVersion }
func (d *Draft) CreatedAt() time.Time                      { return d.createdAt }
func (d *Draft) UpdatedAt() time.Time                      { return d.updatedAt }

func (d *Draft) Options() []domain.SelectedOption {
	out := make([]domain.SelectedOption, len(d.options))
	copy(out, d.options)
	return out
}

func (d *Draft) RoundTrip() bool {
	return d.tripType == domain.TripTypeRoundTrip
}

// Vehicle is the pricing entry of the selected vehicle on the selected route.
func (d *Draft) Vehicle() *domain.VehiclePricing {
	return d.route.Vehicle(d.vehicleType)
}

// PricingStale reports whether the cached pricing is missing or was computed for older inputs.
func (d *Draft) PricingStale() bool {
	return !d.priced || d.pricedVersion != d.inputsVersion
}

func (d *Draft) invalidate() {
	d.inputsVersion++
}

// checkEditable rejects changes while the draft is being handed to the cart; the cart item is
// built from the state frozen at that point.
func (d *Draft) checkEditable() error {
	if d.submissionStatus == domain.SubmissionSubmitting {
		return ErrSubmissionInProgress
	}
	return nil
}

// SetRoute selects the route, dropping a vehicle it does not price and add-ons scoped to another route.
func (d *Draft) SetRoute(route *domain.Route) error {
	if err := d.checkEditable(); err != nil {
		return err
	}
	if route == nil {
		return domain.ValidationError{Field: "route", Code: "required", Msg: "route is required"}
	}
	d.route = route
	if d.vehicleType != "" && route.Vehicle(d.vehicleType) == nil {
		d.vehicleType = ""
	}
	kept := d.options[:0]
	for _, o := range d.options {
		if o.RouteID == nil || *o.RouteID == route.ID {
			kept = append(kept, o)
		}
	}
	d.options = kept
	d.invalidate()
	return nil
}

func (d *Draft) SetVehicleType(vehicleType string) error {
	if err := d.checkEditable(); err != nil {
		return err
	}
	if d.route == nil {
		return domain.ValidationError{Field: "vehicle_type", Code: "route_required", Msg: "select a route first"}
	}
	if d.route.Vehicle(vehicleType) == nil {
		return domain.ValidationError{Field: "vehicle_type", Code: "not_available", Msg: fmt.Sprintf("vehicle %q is not available on this route", vehicleType)}
	}
	d.vehicleType = vehicleType
	d.invalidate()
	return nil
}

// SetTripType switches the trip type; switching to one way drops the return leg.
func (d *Draft) SetTripType(t domain.TripType) error {
	if err := d.checkEditable(); err != nil {
		return err
	}
	if !t.IsValid() {
		return domain.ValidationError{Field: "trip_type", Code: "invalid", Msg: fmt.Sprintf("unknown trip type %q", t)}
	}
	d.tripType = t
	if t == domain.TripTypeOneWay {
		d.returnDate, d.returnTime = "", ""
	}
	d.invalidate()
	return nil
}

// SetOutbound stores the departure as entered; rule violations surface through the datetime step.
func (d *Draft) SetOutbound(date, clock string) error {
	if err := d.checkEditable(); err != nil {
		return err
	}
	d.outboundDate = strings.TrimSpace(date)
	d.outboundTime = strings.TrimSpace(clock)
	d.invalidate()
	return nil
}

func (d *Draft) SetReturn(date, clock string) error {
	if err := d.checkEditable(); err != nil {
		return err
	}
	if !d.RoundTrip() {
		return domain.ValidationError{Field: "return", Code: "one_way", Msg: "one way trips have no return leg"}
	}
	d.returnDate = strings.TrimSpace(date)
	d.returnTime = strings.TrimSpace(clock)
	d.invalidate()
	return nil
}

// SetPassengers rejects counts that no vehicle could carry and, once a vehicle is chosen, counts above its capacity.
func (d *Draft) SetPassengers(passengers, luggage int) error {
	if err := d.checkEditable(); err != nil {
		return err
	}
	if passengers < 1 {
		return domain.ValidationError{Field: "passenger_count", Code: "too_few", Msg: "at least one passenger is required"}
	}
	if luggage < 0 {
		return domain.ValidationError{Field: "luggage_count", Code: "negative", Msg: "luggage count cannot be negative"}
	}
	if v := d.Vehicle(); v != nil {
		if passengers > v.MaxPassengers {
			return domain.ValidationError{Field: "passenger_count", Code: "too_many", Msg: fmt.Sprintf("%s carries at most %d passengers", v.Name, v.MaxPassengers)}
		}
		if luggage > v.MaxLuggage {
			return domain.ValidationError{Field: "luggage_count", Code: "too_many", Msg: fmt.Sprintf("%s carries at most %d pieces of luggage", v.Name, v.MaxLuggage)}
		}
	}
	d.passengerCount = passengers
	d.luggageCount = luggage
	d.invalidate()
	return nil
}

// AddOption selects an add-on, or replaces the quantity if it is already selected.
func (d *Draft) AddOption(opt domain.Option, quantity int) error {
	if err := d.checkEditable(); err != nil {
		return err
	}
	if opt.RouteID != nil && (d.route == nil || *opt.RouteID != d.route.ID) {
		return domain.ValidationError{Field: "option_id", Code: "not_available", Msg: fmt.Sprintf("option %q is not offered on this route", opt.Name)}
	}
	selected := domain.SelectedOption{
		OptionID:    opt.ID,
		Quantity:    quantity,
		Name:        opt.Name,
		Price:       opt.Price,
		MaxQuantity: opt.MaxQuantity,
		RouteID:     opt.RouteID,
	}
	if !selected.QuantityValid() {
		return quantityError(selected)
	}
	if i := d.optionIndex(opt.ID); i >= 0 {
		d.options[i] = selected
	} else {
		d.options = append(d.options, selected)
	}
	d.invalidate()
	return nil
}

func (d *Draft) UpdateOptionQuantity(optionID int64, quantity int) error {
	if err := d.checkEditable(); err != nil {
		return err
	}
	i := d.optionIndex(optionID)
	if i < 0 {
		return domain.NotFoundError{Resource: "selected option"}
	}
	updated := d.options[i]
	updated.Quantity = quantity
	if !updated.QuantityValid() {
		return quantityError(updated)
	}
	d.options[i] = updated
	d.invalidate()
	return nil
}

func (d *Draft) RemoveOption(optionID int64) error {
	if err := d.checkEditable(); err != nil {
		return err
	}
	i := d.optionIndex(optionID)
	if i < 0 {
		return domain.NotFoundError{Resource: "selected option"}
	}
	d.options = append(d.options[:i], d.options[i+1:]...)
	d.invalidate()
	return nil
}

func (d *Draft) optionIndex(optionID int64) int {
	for i, o := range d.options {
		if o.OptionID == optionID {
			return i
		}
	}
	return -1
}

func quantityError(o domain.SelectedOption) error {
	msg := "quantity must be at least 1"
	if o.MaxQuantity > 0 {
		msg = fmt.Sprintf("quantity must be between 1 and %d", o.MaxQuantity)
	}
	return domain.ValidationError{Field: "quantity", Code: "out_of_range", Msg: msg}
}

// SetContact does not affect the price.
func (d *Draft) SetContact(name, phone, specialRequirements string) error {
	if err := d.checkEditable(); err != nil {
		return err
	}
	d.contactName = strings.TrimSpace(name)
	d.contactPhone = strings.TrimSpace(phone)
	d.specialRequirements = strings.TrimSpace(specialRequirements)
	return nil
}

// PriceRequest returns the pricing input for the current state together with the inputs version it
// was taken at. The version must be handed back to ApplyPricing.
func (d *Draft) PriceRequest() (pricing.Input, int64) {
	in := pricing.Input{
		Route:        d.route,
		VehicleType:  d.vehicleType,
		TripType:     d.tripType,
		OutboundDate: d.outboundDate,
		OutboundTime: d.outboundTime,
		Options:      d.Options(),
	}
	if d.RoundTrip() {
		in.ReturnDate = d.returnDate
		in.ReturnTime = d.returnTime
	}
	return in, d.inputsVersion
}

// ApplyPricing stores a computed breakdown. A result computed for an older inputs version is
// discarded with ErrStalePricing. A nil breakdown records that the vehicle has no price.
func (d *Draft) ApplyPricing(version int64, b *domain.PricingBreakdown) error {
	if err := d.checkEditable(); err != nil {
		return err
	}
	if version != d.inputsVersion {
		return ErrStalePricing
	}
	d.pricing = b
	d.priced = true
	d.pricedVersion = version
	return nil
}

// Next advances one step if the current step is complete.
func (d *Draft) Next(steps *StepValidator) error {
	i := d.currentStep.Index()
	if i >= len(domain.Steps)-1 {
		return ErrLastStep
	}
	if !steps.IsStepValid(d, d.currentStep) {
		return ErrStepInvalid
	}
	d.currentStep = domain.Steps[i+1]
	return nil
}

// Back moves one step back; on the first step it stays put.
func (d *Draft) Back() {
	if i := d.currentStep.Index(); i > 0 {
		d.currentStep = domain.Steps[i-1]
	}
}

// GoTo jumps backward freely and forward only when every step before the target is complete.
func (d *Draft) GoTo(target domain.Step, steps *StepValidator) error {
	ti := target.Index()
	if ti < 0 {
		return domain.ValidationError{Field: "step", Code: "invalid", Msg: fmt.Sprintf("unknown step %q", target)}
	}
	if ti <= d.currentStep.Index() {
		d.currentStep = target
		return nil
	}
	for _, s := range domain.Steps[:ti] {
		if !steps.IsStepValid(d, s) {
			return ErrStepInvalid
		}
	}
	d.currentStep = target
	return nil
}

func (d *Draft) MarkSubmitting() error {
	if d.submissionStatus == domain.SubmissionSubmitting {
		return ErrSubmissionInProgress
	}
	d.submissionStatus = domain.SubmissionSubmitting
	d.submissionError = ""
	return nil
}

func (d *Draft) MarkSubmitFailed(err error) {
	d.submissionStatus = domain.SubmissionFailed
	if err != nil {
		d.submissionError = err.Error()
	}
}

func (d *Draft) MarkSubmitted() {
	d.submissionStatus = domain.SubmissionSucceeded
	d.submissionError = ""
}

func (d *Draft) touch(now time.Time) {
	d.updatedAt = now
}

func (d *Draft) Snapshot() domain.DraftSnapshot {
	return domain.DraftSnapshot{
		ID:                  d.id,
		Route:               d.route,
		VehicleType:         d.vehicleType,
		TripType:            d.tripType,
		OutboundDate:        d.outboundDate,
		OutboundTime:        d.outboundTime,
		ReturnDate:          d.returnDate,
		ReturnTime:          d.returnTime,
		PassengerCount:      d.passengerCount,
		LuggageCount:        d.luggageCount,
		Options:             d.Options(),
		ContactName:         d.contactName,
		ContactPhone:        d.contactPhone,
		SpecialRequirements: d.specialRequirements,
		Pricing:             d.pricing,
		Priced:              d.priced,
		PricedVersion:       d.pricedVersion,
		InputsVersion:       d.inputsVersion,
		CurrentStep:         d.currentStep,
		SubmissionStatus:    d.submissionStatus,
		SubmissionError:     d.submissionError,
		CreatedAt:           d.createdAt,
		UpdatedAt:           d.updatedAt,
	}
}

// Restore rebuilds a draft from its persisted form.
func Restore(s domain.DraftSnapshot) *Draft {
	d := &Draft{
		id:                  s.ID,
		route:               s.Route,
		vehicleType:         s.VehicleType,
		tripType:            s.TripType,
		outboundDate:        s.OutboundDate,
		outboundTime:        s.OutboundTime,
		returnDate:          s.ReturnDate,
		returnTime:          s.ReturnTime,
		passengerCount:      s.PassengerCount,
		luggageCount:        s.LuggageCount,
		options:             append([]domain.SelectedOption(nil), s.Options...),
		contactName:         s.ContactName,
		contactPhone:        s.ContactPhone,
		specialRequirements: s.SpecialRequirements,
		pricing:             s.Pricing,
		priced:              s.Priced,
		pricedVersion:       s.PricedVersion,
		inputsVersion:       s.InputsVersion,
		currentStep:         s.CurrentStep,
		submissionStatus:    s.SubmissionStatus,
		submissionError:     s.SubmissionError,
		createdAt:           s.CreatedAt,
		updatedAt:           s.UpdatedAt,
	}
	if !d.tripType.IsValid() {
		d.tripType = domain.TripTypeOneWay
	}
	if !d.currentStep.IsValid() {
		d.currentStep = domain.StepRoute
	}
	if d.submissionStatus == "" {
		d.submissionStatus = domain.SubmissionIdle
	}
	return d
}
