package pricing

import (
	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/Domenick1991/transferbooking/internal/service/schedule"
)

// Input is everything the transfer price depends on.
type Input struct {
	Route        *domain.Route
	VehicleType  string
	TripType     domain.TripType
	OutboundDate string
	OutboundTime string
	ReturnDate   string
	ReturnTime   string
	Options      []domain.SelectedOption
}

func (in Input) roundTrip() bool {
	return in.TripType == domain.TripTypeRoundTrip
}

// Calculate computes the breakdown locally. It returns nil when the route has no pricing for the
// vehicle, which callers must present as "not available" rather than as a zero price.
//
// The round trip discount is a percentage of the base price only; surcharges and options are not discounted.
func Calculate(in Input) *domain.PricingBreakdown {
	vehicle := in.Route.Vehicle(in.VehicleType)
	if vehicle == nil {
		return nil
	}
	base := vehicle.BasePrice

	b := &domain.PricingBreakdown{
		BasePrice: base,
		Currency:  in.Route.CurrencyOrDefault(),
		Source:    domain.PricingSourceLocal,
	}

	b.OutboundSurchargeType, b.OutboundSurcharge = surcharge(in.Route, in.OutboundTime, base)
	if in.roundTrip() {
		b.ReturnSurchargeType, b.ReturnSurcharge = surcharge(in.Route, in.ReturnTime, base)
		if in.Route.RoundTripDiscountEnabled {
			b.RoundTripDiscount = base * (in.Route.RoundTripDiscountPercent / 100)
		}
	}
	b.OptionsTotal = OptionsTotal(in.Options)
	b.Subtotal = Subtotal(b.BasePrice, b.OutboundSurcharge, b.ReturnSurcharge, b.OptionsTotal, b.RoundTripDiscount)
	b.FinalPrice = b.Subtotal
	return b
}

func surcharge(route *domain.Route, clock string, base float64) (domain.SurchargeType, float64) {
	t, err := schedule.Classify(clock)
	if err != nil {
		return domain.SurchargeNormal, 0
	}
	return t, base * (schedule.SurchargePercent(route, t) / 100)
}

func OptionsTotal(options []domain.SelectedOption) float64 {
	var total float64
	for _, o := range options {
		total += o.Price * float64(o.Quantity)
	}
	return total
}

func Subtotal(base, outboundSurcharge, returnSurcharge, optionsTotal, discount float64) float64 {
	return base + outboundSurcharge + returnSurcharge + optionsTotal - discount
}
