package wizard

import (
	"time"

	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/Domenick1991/transferbooking/internal/service/schedule"
)

type LegView struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	ErrorCode string `json:"error_code,omitempty"`
	Error     string `json:"error,omitempty"`
}

type ContactView struct {
	Name                string `json:"name"`
	Phone               string `json:"phone"`
	SpecialRequirements string `json:"special_requirements,omitempty"`
}

type SubmissionView struct {
	Status domain.SubmissionStatus `json:"status"`
	Error  string                  `json:"error,omitempty"`
}

// DraftView is what the wizard UI renders from: the draft plus everything derived from it.
type DraftView struct {
	ID               string                   `json:"id"`
	CurrentStep      domain.Step              `json:"current_step"`
	Route            *domain.Route            `json:"route"`
	VehicleType      string                   `json:"vehicle_type,omitempty"`
	Vehicle          *domain.VehiclePricing   `json:"vehicle,omitempty"`
	TripType         domain.TripType          `json:"trip_type"`
	Outbound         LegView                  `json:"outbound"`
	Return           *LegView                 `json:"return,omitempty"`
	PassengerCount   int                      `json:"passenger_count"`
	LuggageCount     int                      `json:"luggage_count"`
	Options          []domain.SelectedOption  `json:"options"`
	Contact          ContactView              `json:"contact"`
	Pricing          *domain.PricingBreakdown `json:"pricing"`
	PricingStale     bool                     `json:"pricing_stale"`
	PricingAvailable bool                     `json:"available"`
	Steps            []StepState              `json:"steps"`
	Submission       SubmissionView           `json:"submission"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

func NewDraftView(d *Draft, steps *StepValidator) *DraftView {
	outErr, retErr := steps.DateTimeErrors(d)
	v := &DraftView{
		ID:               d.id,
		CurrentStep:      d.currentStep,
		Route:            d.route,
		VehicleType:      d.vehicleType,
		Vehicle:          d.Vehicle(),
		TripType:         d.tripType,
		Outbound:         legView(d.outboundDate, d.outboundTime, outErr),
		PassengerCount:   d.passengerCount,
		LuggageCount:     d.luggageCount,
		Options:          d.Options(),
		Contact:          ContactView{Name: d.contactName, Phone: d.contactPhone, SpecialRequirements: d.specialRequirements},
		Pricing:          d.pricing,
		PricingStale:     d.PricingStale(),
		PricingAvailable: d.Vehicle() != nil,
		Steps:            steps.Steps(d),
		Submission:       SubmissionView{Status: d.submissionStatus, Error: d.submissionError},
		CreatedAt:        d.createdAt,
		UpdatedAt:        d.updatedAt,
	}
	if d.RoundTrip() {
		ret := legView(d.returnDate, d.returnTime, retErr)
		v.Return = &ret
	}
	return v
}

// legView reports rule violations only once the leg has been entered, so an untouched field shows no error.
func legView(date, clock string, err error) LegView {
	lv := LegView{Date: date, Time: clock}
	if err != nil && date != "" && clock != "" {
		lv.ErrorCode = schedule.Code(err)
		lv.Error = err.Error()
	}
	return lv
}
