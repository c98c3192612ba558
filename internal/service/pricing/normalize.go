package pricing

import "github.com/Domenick1991/transferbooking/internal/domain"

// ServerBreakdown is the price computation API response. Fields the server omits stay nil.
type ServerBreakdown struct {
	BasePrice             *float64 `json:"base_price"`
	OutboundSurcharge     *float64 `json:"outbound_surcharge"`
	OutboundSurchargeType string   `json:"outbound_surcharge_type"`
	ReturnSurcharge       *float64 `json:"return_surcharge"`
	ReturnSurchargeType   string   `json:"return_surcharge_type"`
	RoundTripDiscount     *float64 `json:"round_trip_discount"`
	OptionsTotal          *float64 `json:"options_total"`
	Subtotal              *float64 `json:"subtotal"`
	FinalPrice            *float64 `json:"final_price"`
	Currency              string   `json:"currency"`
}

// Normalize shapes a server breakdown into the local structure. Missing components are zero,
// missing subtotal and final price are derived with the same formula as Calculate. A server
// breakdown without a base price is unusable and local is returned instead.
func Normalize(server *ServerBreakdown, local *domain.PricingBreakdown) *domain.PricingBreakdown {
	if server == nil || server.BasePrice == nil {
		return local
	}

	b := &domain.PricingBreakdown{
		BasePrice:             *server.BasePrice,
		OutboundSurcharge:     value(server.OutboundSurcharge),
		OutboundSurchargeType: domain.SurchargeType(server.OutboundSurchargeType),
		ReturnSurcharge:       value(server.ReturnSurcharge),
		ReturnSurchargeType:   domain.SurchargeType(server.ReturnSurchargeType),
		RoundTripDiscount:     value(server.RoundTripDiscount),
		OptionsTotal:          value(server.OptionsTotal),
		Currency:              server.Currency,
		Source:                domain.PricingSourceServer,
	}

	if server.Subtotal != nil {
		b.Subtotal = *server.Subtotal
	} else {
		b.Subtotal = Subtotal(b.BasePrice, b.OutboundSurcharge, b.ReturnSurcharge, b.OptionsTotal, b.RoundTripDiscount)
	}
	if server.FinalPrice != nil {
		b.FinalPrice = *server.FinalPrice
	} else {
		b.FinalPrice = b.Subtotal
	}

	if local != nil {
		if b.Currency == "" {
			b.Currency = local.Currency
		}
		if b.OutboundSurchargeType == "" {
			b.OutboundSurchargeType = local.OutboundSurchargeType
		}
		if b.ReturnSurchargeType == "" {
			b.ReturnSurchargeType = local.ReturnSurchargeType
		}
	}
	if b.Currency == "" {
		b.Currency = domain.DefaultCurrency
	}
	return b
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
