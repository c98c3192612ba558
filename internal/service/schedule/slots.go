package schedule

import (
	"time"

	"github.com/Domenick1991/transferbooking/internal/domain"
)

type Slot struct {
	Time      string               `json:"time"`
	Surcharge domain.SurchargeType `json:"surcharge"`
}

// OutboundSlots lists the selectable departure times for date; a slot is offered only if ValidateOutbound would accept it.
func (v *Validator) OutboundSlots(date string, hours domain.BusinessHours) ([]Slot, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	now := v.now().In(v.loc)
	return v.slots(func(clock string) error {
		_, _, err := v.checkLeg(now, date, clock, hours)
		return err
	}), nil
}

// ReturnSlots lists the selectable return times for retDate given the chosen outbound leg.
func (v *Validator) ReturnSlots(outDate, outClock, retDate string, hours domain.BusinessHours) ([]Slot, error) {
	if _, err := ParseDate(retDate); err != nil {
		return nil, err
	}
	if _, err := ParseDate(outDate); err != nil {
		return nil, err
	}
	if _, err := ParseClock(outClock); err != nil {
		return nil, err
	}
	now := v.now().In(v.loc)
	return v.slots(func(clock string) error {
		return v.checkReturn(now, outDate, outClock, retDate, clock, hours)
	}), nil
}

func (v *Validator) slots(accept func(clock string) error) []Slot {
	step := int(v.rules.SlotInterval / time.Minute)
	if step <= 0 {
		step = 30
	}
	slots := make([]Slot, 0, 24*60/step)
	for m := 0; m < 24*60; m += step {
		clock := FormatClock(m)
		if accept(clock) != nil {
			continue
		}
		slots = append(slots, Slot{Time: clock, Surcharge: ClassifyHour(m / 60)})
	}
	return slots
}
