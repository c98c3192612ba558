package schedule

import "github.com/Domenick1991/transferbooking/internal/domain"

// ClassifyHour buckets a departure hour: 07–09 and 17–19 are peak, 22–23 and 00–06 are midnight.
func ClassifyHour(hour int) domain.SurchargeType {
	switch {
	case (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19):
		return domain.SurchargePeak
	case hour >= 22 || (hour >= 0 && hour <= 6):
		return domain.SurchargeMidnight
	default:
		return domain.SurchargeNormal
	}
}

func Classify(clock string) (domain.SurchargeType, error) {
	minutes, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	return ClassifyHour(minutes / 60), nil
}

// SurchargePercent returns the route percentage for a surcharge type; unset percentages are 0.
func SurchargePercent(route *domain.Route, t domain.SurchargeType) float64 {
	if route == nil {
		return 0
	}
	switch t {
	case domain.SurchargePeak:
		return route.PeakHourSurchargePercent
	case domain.SurchargeMidnight:
		return route.MidnightSurchargePercent
	default:
		return 0
	}
}
