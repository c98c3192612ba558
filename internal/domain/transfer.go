package domain

import "fmt"

type TripType string

const (
	TripTypeOneWay    TripType = "one_way"
	TripTypeRoundTrip TripType = "round_trip"
)

func (t TripType) IsValid() bool {
	return t == TripTypeOneWay || t == TripTypeRoundTrip
}

func ParseTripType(s string) (TripType, error) {
	t := TripType(s)
	if !t.IsValid() {
		return "", ValidationError{Field: "trip_type", Msg: fmt.Sprintf("unknown trip type %q", s)}
	}
	return t, nil
}

// Step is one page of the transfer booking wizard.
type Step string

const (
	StepRoute      Step = "route"
	StepVehicle    Step = "vehicle"
	StepDateTime   Step = "datetime"
	StepPassengers Step = "passengers"
	StepOptions    Step = "options"
	StepContact    Step = "contact"
	StepSummary    Step = "summary"
)

// Steps lists the wizard steps in navigation order.
var Steps = []Step{StepRoute, StepVehicle, StepDateTime, StepPassengers, StepOptions, StepContact, StepSummary}

func (s Step) Index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

func (s Step) IsValid() bool {
	return s.Index() >= 0
}

func ParseStep(s string) (Step, error) {
	step := Step(s)
	if !step.IsValid() {
		return "", ValidationError{Field: "step", Msg: fmt.Sprintf("unknown step %q", s)}
	}
	return step, nil
}

type SelectedOption struct {
	OptionID    int64   `json:"option_id"`
	Quantity    int     `json:"quantity"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	MaxQuantity int     `json:"max_quantity,omitempty"`
	RouteID     *int64  `json:"route_id,omitempty"`
}

// QuantityValid reports whether the quantity is within [1, MaxQuantity]; a zero MaxQuantity means unbounded.
func (o SelectedOption) QuantityValid() bool {
	if o.Quantity < 1 {
		return false
	}
	return o.MaxQuantity <= 0 || o.Quantity <= o.MaxQuantity
}

type SurchargeType string

const (
	SurchargeNormal   SurchargeType = "normal"
	SurchargePeak     SurchargeType = "peak"
	SurchargeMidnight SurchargeType = "midnight"
)

type PricingSource string

const (
	PricingSourceServer PricingSource = "server"
	PricingSourceLocal  PricingSource = "local"
)

type PricingBreakdown struct {
	BasePrice             float64       `json:"base_price"`
	OutboundSurcharge     float64       `json:"outbound_surcharge"`
	OutboundSurchargeType SurchargeType `json:"outbound_surcharge_type"`
	ReturnSurcharge       float64       `json:"return_surcharge"`
	ReturnSurchargeType   SurchargeType `json:"return_surcharge_type,omitempty"`
	RoundTripDiscount     float64       `json:"round_trip_discount"`
	OptionsTotal          float64       `json:"options_total"`
	Subtotal              float64       `json:"subtotal"`
	FinalPrice            float64       `json:"final_price"`
	Currency              string        `json:"currency"`
	Source                PricingSource `json:"source"`
}
