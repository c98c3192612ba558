package pricing

import (
	"context"
	"math"

	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/sirupsen/logrus"
)

type PricingUseCase interface {
	Price(ctx context.Context, in Input) (*domain.PricingBreakdown, error)
}

// Quoter is the remote price computation API. A nil breakdown with a nil error means the server had no quote.
type Quoter interface {
	Quote(ctx context.Context, req QuoteRequest) (*ServerBreakdown, error)
}

type QuoteRequest struct {
	RouteID      int64         `json:"route_id"`
	VehicleType  string        `json:"vehicle_type"`
	TripType     string        `json:"trip_type"`
	OutboundDate string        `json:"outbound_date"`
	OutboundTime string        `json:"outbound_time"`
	ReturnDate   string        `json:"return_date,omitempty"`
	ReturnTime   string        `json:"return_time,omitempty"`
	Options      []QuoteOption `json:"options,omitempty"`
}

type QuoteOption struct {
	OptionID int64 `json:"option_id"`
	Quantity int   `json:"quantity"`
}

type PricingService struct {
	quoter Quoter
	log    logrus.FieldLogger
}

type PricingServiceOption func(*PricingService)

func WithQuoter(q Quoter) PricingServiceOption {
	return func(s *PricingService) {
		s.quoter = q
	}
}

func NewPricingService(log logrus.FieldLogger, opts ...PricingServiceOption) *PricingService {
	s := &PricingService{log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Price prefers the server quote and falls back to the local formula when the server is not
// configured, fails, or has nothing to say. A nil breakdown means the vehicle is not priced on the route.
func (s *PricingService) Price(ctx context.Context, in Input) (*domain.PricingBreakdown, error) {
	local := Calculate(in)
	if local == nil {
		return nil, nil
	}
	if s.quoter == nil {
		return local, nil
	}

	server, err := s.quoter.Quote(ctx, toQuoteRequest(in))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.WithError(err).WithField("route_id", in.Route.ID).Warn("price quote failed, using local calculation")
		return local, nil
	}

	b := Normalize(server, local)
	if b.Source == domain.PricingSourceServer && math.Abs(b.FinalPrice-local.FinalPrice) > 0.005 {
		s.log.WithFields(logrus.Fields{
			"route_id":     in.Route.ID,
			"vehicle_type": in.VehicleType,
			"server_final": b.FinalPrice,
			"local_final":  local.FinalPrice,
		}).Warn("server and local price diverge")
	}
	return b, nil
}

func toQuoteRequest(in Input) QuoteRequest {
	req := QuoteRequest{
		RouteID:      in.Route.ID,
		VehicleType:  in.VehicleType,
		TripType:     string(in.TripType),
		OutboundDate: in.OutboundDate,
		OutboundTime: in.OutboundTime,
	}
	if in.roundTrip() {
		req.ReturnDate = in.ReturnDate
		req.ReturnTime = in.ReturnTime
	}
	for _, o := range in.Options {
		req.Options = append(req.Options, QuoteOption{OptionID: o.OptionID, Quantity: o.Quantity})
	}
	return req
}

var _ PricingUseCase = (*PricingService)(nil)
