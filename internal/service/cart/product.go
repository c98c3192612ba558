package cart

import (
	"encoding/json"
	"fmt"

	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/Domenick1991/transferbooking/internal/service/wizard"
)

// Product is anything the cart can hold. Transfers are the only kind this service produces.
type Product interface {
	ProductType() domain.ProductType
	Summary() string
	TotalPrice() float64
	Currency() string
}

// TransferBooking is the payload stored with a transfer cart item.
type TransferBooking struct {
	RouteID             int64                   `json:"route_id"`
	Origin              string                  `json:"origin"`
	Destination         string                  `json:"destination"`
	VehicleType         string                  `json:"vehicle_type"`
	VehicleName         string                  `json:"vehicle_name"`
	TripType            domain.TripType         `json:"trip_type"`
	OutboundDate        string                  `json:"outbound_date"`
	OutboundTime        string                  `json:"outbound_time"`
	ReturnDate          string                  `json:"return_date,omitempty"`
	ReturnTime          string                  `json:"return_time,omitempty"`
	PassengerCount      int                     `json:"passenger_count"`
	LuggageCount        int                     `json:"luggage_count"`
	Options             []domain.SelectedOption `json:"options"`
	ContactName         string                  `json:"contact_name"`
	ContactPhone        string                  `json:"contact_phone"`
	SpecialRequirements string                  `json:"special_requirements,omitempty"`
	Pricing             domain.PricingBreakdown `json:"pricing"`
}

// NewTransferBooking freezes a priced draft into a booking.
func NewTransferBooking(d *wizard.Draft) (*TransferBooking, error) {
	route := d.Route()
	vehicle := d.Vehicle()
	if route == nil || vehicle == nil {
		return nil, domain.ValidationError{Field: "vehicle_type", Code: "required", Msg: "route and vehicle must be selected"}
	}
	if d.Pricing() == nil {
		return nil, domain.ValidationError{Field: "pricing", Code: "required", Msg: "booking has no price"}
	}

	b := &TransferBooking{
		RouteID:             route.ID,
		Origin:              route.Origin,
		Destination:         route.Destination,
		VehicleType:         d.VehicleType(),
		VehicleName:         vehicle.Name,
		TripType:            d.TripType(),
		PassengerCount:      d.PassengerCount(),
		LuggageCount:        d.LuggageCount(),
		Options:             d.Options(),
		ContactName:         d.ContactName(),
		ContactPhone:        d.ContactPhone(),
		SpecialRequirements: d.SpecialRequirements(),
		Pricing:             *d.Pricing(),
	}
	b.OutboundDate, b.OutboundTime = d.Outbound()
	if d.RoundTrip() {
		b.ReturnDate, b.ReturnTime = d.Return()
	}
	if b.Options == nil {
		b.Options = []domain.SelectedOption{}
	}
	return b, nil
}

func (b *TransferBooking) ProductType() domain.ProductType { return domain.ProductTypeTransfer }

func (b *TransferBooking) Summary() string {
	s := fmt.Sprintf("%s to %s, %s %s", b.Origin, b.Destination, b.OutboundDate, b.OutboundTime)
	if b.TripType == domain.TripTypeRoundTrip {
		s += fmt.Sprintf(", return %s %s", b.ReturnDate, b.ReturnTime)
	}
	return s
}

func (b *TransferBooking) TotalPrice() float64 { return b.Pricing.FinalPrice }

func (b *TransferBooking) Currency() string { return b.Pricing.Currency }

// DecodeProduct restores the product stored in a cart item payload.
func DecodeProduct(item domain.CartItem) (Product, error) {
	switch item.ProductType {
	case domain.ProductTypeTransfer:
		var b TransferBooking
		if err := json.Unmarshal(item.Payload, &b); err != nil {
			return nil, fmt.Errorf("decode transfer payload: %w", err)
		}
		return &b, nil
	default:
		return nil, fmt.Errorf("unknown product type %q", item.ProductType)
	}
}

var _ Product = (*TransferBooking)(nil)
