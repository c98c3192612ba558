package wizard

import (
	"github.com/Domenick1991/transferbooking/internal/domain"
)

// DateTimeValidator is the date and time rule set the datetime step is checked against.
type DateTimeValidator interface {
	ValidateOutbound(date, clock string, hours domain.BusinessHours) error
	ValidateReturn(outDate, outClock, retDate, retClock string, hours domain.BusinessHours) error
}

type StepState struct {
	Step  domain.Step `json:"step"`
	Valid bool        `json:"valid"`
}

// StepValidator decides whether a wizard step has enough data to move past it. It never mutates the draft.
type StepValidator struct {
	dates DateTimeValidator
}

func NewStepValidator(dates DateTimeValidator) *StepValidator {
	return &StepValidator{dates: dates}
}

func (v *StepValidator) IsStepValid(d *Draft, step domain.Step) bool {
	switch step {
	case domain.StepRoute:
		return d.route != nil
	case domain.StepVehicle:
		return d.Vehicle() != nil
	case domain.StepDateTime:
		out, ret := v.DateTimeErrors(d)
		return out == nil && ret == nil
	case domain.StepPassengers:
		vehicle := d.Vehicle()
		if vehicle == nil {
			return false
		}
		return d.passengerCount >= 1 && d.passengerCount <= vehicle.MaxPassengers &&
			d.luggageCount >= 0 && d.luggageCount <= vehicle.MaxLuggage
	case domain.StepOptions:
		for _, o := range d.options {
			if !o.QuantityValid() {
				return false
			}
		}
		return true
	case domain.StepContact:
		return d.contactName != "" && d.contactPhone != ""
	case domain.StepSummary:
		for _, s := range domain.Steps[:domain.StepSummary.Index()] {
			if !v.IsStepValid(d, s) {
				return false
			}
		}
		return d.pricing != nil && !d.PricingStale()
	default:
		return false
	}
}

// DateTimeErrors returns the rule violation for each leg, nil when the leg passes. The return leg
// is only checked for round trips.
func (v *StepValidator) DateTimeErrors(d *Draft) (outbound, inbound error) {
	hours := d.route.BusinessHours()
	outbound = v.dates.ValidateOutbound(d.outboundDate, d.outboundTime, hours)
	if d.RoundTrip() {
		inbound = v.dates.ValidateReturn(d.outboundDate, d.outboundTime, d.returnDate, d.returnTime, hours)
	}
	return outbound, inbound
}

func (v *StepValidator) Steps(d *Draft) []StepState {
	states := make([]StepState, 0, len(domain.Steps))
	for _, s := range domain.Steps {
		states = append(states, StepState{Step: s, Valid: v.IsStepValid(d, s)})
	}
	return states
}

// FirstInvalid returns the earliest incomplete step, or false when the whole draft is complete.
func (v *StepValidator) FirstInvalid(d *Draft) (domain.Step, bool) {
	for _, s := range domain.Steps {
		if !v.IsStepValid(d, s) {
			return s, true
		}
	}
	return "", false
}
