package domain

import "time"

const (
	DefaultCurrency           = "USD"
	DefaultBusinessHoursStart = 6
	DefaultBusinessHoursEnd   = 23
)

type VehiclePricing struct {
	Name          string   `json:"name"`
	BasePrice     float64  `json:"base_price"`
	MaxPassengers int      `json:"max_passengers"`
	MaxLuggage    int      `json:"max_luggage"`
	Features      []string `json:"features,omitempty"`
}

type CancellationPolicy struct {
	HoursBefore   int     `json:"hours_before"`
	RefundPercent float64 `json:"refund_percent"`
	Description   string  `json:"description"`
}

// Route is a transfer route as returned by the route lookup.
type Route struct {
	ID                       int64                     `json:"id"`
	Origin                   string                    `json:"origin"`
	Destination              string                    `json:"destination"`
	Currency                 string                    `json:"currency"`
	Pricing                  map[string]VehiclePricing `json:"pricing"`
	PeakHourSurchargePercent float64                   `json:"peak_hour_surcharge_percent"`
	MidnightSurchargePercent float64                   `json:"midnight_surcharge_percent"`
	RoundTripDiscountEnabled bool                      `json:"round_trip_discount_enabled"`
	RoundTripDiscountPercent float64                   `json:"round_trip_discount_percent"`
	BusinessHoursStart       *int                      `json:"business_hours_start,omitempty"`
	BusinessHoursEnd         *int                      `json:"business_hours_end,omitempty"`
	CancellationPolicies     []CancellationPolicy      `json:"cancellation_policies,omitempty"`
	CreatedAt                time.Time                 `json:"created_at"`
	UpdatedAt                time.Time                 `json:"updated_at"`
}

// Vehicle returns the pricing entry for vehicleType, or nil if the route does not offer it.
func (r *Route) Vehicle(vehicleType string) *VehiclePricing {
	if r == nil || vehicleType == "" {
		return nil
	}
	vp, ok := r.Pricing[vehicleType]
	if !ok {
		return nil
	}
	return &vp
}

func (r *Route) CurrencyOrDefault() string {
	if r == nil || r.Currency == "" {
		return DefaultCurrency
	}
	return r.Currency
}

// BusinessHours returns the route's [start, end) booking window, falling back to 06–23.
func (r *Route) BusinessHours() BusinessHours {
	h := BusinessHours{Start: DefaultBusinessHoursStart, End: DefaultBusinessHoursEnd}
	if r == nil {
		return h
	}
	if r.BusinessHoursStart != nil {
		h.Start = *r.BusinessHoursStart
	}
	if r.BusinessHoursEnd != nil {
		h.End = *r.BusinessHoursEnd
	}
	return h
}

type BusinessHours struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Option is an add-on that can be attached to a transfer booking.
type Option struct {
	ID          int64   `json:"id"`
	RouteID     *int64  `json:"route_id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	MaxQuantity int     `json:"max_quantity,omitempty"`
}
