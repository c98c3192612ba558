package domain

import "time"

type SubmissionStatus string

const (
	SubmissionIdle       SubmissionStatus = "idle"
	SubmissionSubmitting SubmissionStatus = "submitting"
	SubmissionSucceeded  SubmissionStatus = "success"
	SubmissionFailed     SubmissionStatus = "error"
)

// DraftSnapshot is the persisted form of an in-progress transfer booking.
type DraftSnapshot struct {
	ID                  string            `json:"id"`
	Route               *Route            `json:"route,omitempty"`
	VehicleType         string            `json:"vehicle_type,omitempty"`
	TripType            TripType          `json:"trip_type"`
	OutboundDate        string            `json:"outbound_date,omitempty"`
	OutboundTime        string            `json:"outbound_time,omitempty"`
	ReturnDate          string            `json:"return_date,omitempty"`
	ReturnTime          string            `json:"return_time,omitempty"`
	PassengerCount      int               `json:"passenger_count"`
	LuggageCount        int               `json:"luggage_count"`
	Options             []SelectedOption  `json:"options,omitempty"`
	ContactName         string            `json:"contact_name,omitempty"`
	ContactPhone        string            `json:"contact_phone,omitempty"`
	SpecialRequirements string            `json:"special_requirements,omitempty"`
	Pricing             *PricingBreakdown `json:"pricing,omitempty"`
	Priced              bool              `json:"priced"`
	PricedVersion       int64             `json:"priced_version"`
	InputsVersion       int64             `json:"inputs_version"`
	CurrentStep         Step              `json:"current_step"`
	SubmissionStatus    SubmissionStatus  `json:"submission_status"`
	SubmissionError     string            `json:"submission_error,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}
