package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/transferbooking/internal/domain"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrInvalidDate          = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidTime          = errors.New("time must be in HH:MM format")
	ErrPastDate             = errors.New("date is in the past")
	ErrTooSoonToday         = errors.New("same-day bookings need more lead time")
	ErrOutsideBusinessHours = errors.New("time is outside business hours")
	ErrReturnBeforeOutbound = errors.New("return date is before the outbound date")
	ErrTooCloseToOutbound   = errors.New("return time is too close to the outbound time")
	ErrReturnTooFar         = errors.New("return date is too far after the outbound date")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrInvalidDate, "invalid_date"},
	{ErrInvalidTime, "invalid_time"},
	{ErrPastDate, "past_date"},
	{ErrTooSoonToday, "too_soon_today"},
	{ErrOutsideBusinessHours, "outside_business_hours"},
	{ErrReturnBeforeOutbound, "return_before_outbound"},
	{ErrTooCloseToOutbound, "too_close_to_outbound"},
	{ErrReturnTooFar, "return_too_far"},
}

// Code maps a rule violation to the stable code shown next to the field. Empty for nil or unknown errors.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

type Rules struct {
	MinLeadTime         time.Duration
	MinReturnGap        time.Duration
	MaxReturnWindowDays int
	SlotInterval        time.Duration
}

func DefaultRules() Rules {
	return Rules{
		MinLeadTime:         2 * time.Hour,
		MinReturnGap:        120 * time.Minute,
		MaxReturnWindowDays: 30,
		SlotInterval:        30 * time.Minute,
	}
}

type Validator struct {
	rules Rules
	loc   *time.Location
	now   func() time.Time
}

type Option func(*Validator)

func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

func NewValidator(rules Rules, loc *time.Location, opts ...Option) *Validator {
	def := DefaultRules()
	if rules.MinLeadTime <= 0 {
		rules.MinLeadTime = def.MinLeadTime
	}
	if rules.MinReturnGap <= 0 {
		rules.MinReturnGap = def.MinReturnGap
	}
	if rules.MaxReturnWindowDays <= 0 {
		rules.MaxReturnWindowDays = def.MaxReturnWindowDays
	}
	if rules.SlotInterval <= 0 {
		rules.SlotInterval = def.SlotInterval
	}
	if loc == nil {
		loc = time.Local
	}
	v := &Validator{rules: rules, loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Validator) Rules() Rules { return v.rules }

// ValidateOutbound checks a departure date and time against the past-date, lead-time and business-hour rules.
func (v *Validator) ValidateOutbound(date, clock string, hours domain.BusinessHours) error {
	now := v.now().In(v.loc)
	_, _, err := v.checkLeg(now, date, clock, hours)
	return err
}

// ValidateReturn applies the single-leg rules to the return and then checks its ordering, spacing
// and window relative to the outbound leg.
func (v *Validator) ValidateReturn(outDate, outClock, retDate, retClock string, hours domain.BusinessHours) error {
	now := v.now().In(v.loc)
	return v.checkReturn(now, outDate, outClock, retDate, retClock, hours)
}

func (v *Validator) checkReturn(now time.Time, outDate, outClock, retDate, retClock string, hours domain.BusinessHours) error {
	outDay, err := ParseDate(outDate)
	if err != nil {
		return fmt.Errorf("outbound: %w", err)
	}
	outMinutes, err := ParseClock(outClock)
	if err != nil {
		return fmt.Errorf("outbound: %w", err)
	}

	retDay, retMinutes, err := v.checkLeg(now, retDate, retClock, hours)
	if err != nil {
		return err
	}

	if retDay.Before(outDay) {
		return ErrReturnBeforeOutbound
	}
	if retDay.Equal(outDay) && time.Duration(retMinutes-outMinutes)*time.Minute < v.rules.MinReturnGap {
		return ErrTooCloseToOutbound
	}
	if DaysBetween(outDay, retDay) > v.rules.MaxReturnWindowDays {
		return ErrReturnTooFar
	}
	return nil
}

func (v *Validator) checkLeg(now time.Time, date, clock string, hours domain.BusinessHours) (time.Time, int, error) {
	day, err := ParseDate(date)
	if err != nil {
		return time.Time{}, 0, err
	}
	minutes, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, 0, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(today) {
		return day, minutes, ErrPastDate
	}
	if day.Equal(today) {
		at := time.Date(now.Year(), now.Month(), now.Day(), minutes/60, minutes%60, 0, 0, v.loc)
		if at.Before(now.Add(v.rules.MinLeadTime)) {
			return day, minutes, ErrTooSoonToday
		}
	}
	hour := minutes / 60
	if hour < hours.Start || hour >= hours.End {
		return day, minutes, ErrOutsideBusinessHours
	}
	return day, minutes, nil
}

// ParseDate parses a calendar date as UTC midnight so day arithmetic ignores DST.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// ParseClock returns minutes since midnight for an HH:MM string.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, ErrInvalidTime
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
