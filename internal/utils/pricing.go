package utils

import (
	"fmt"
	"math"
	"time"

	"evstation-backend/internal/domain"
)

// minBillableHours floors a fare at one minute of usage.
const minBillableHours = 1.0 / 60.0

// Round2 rounds a currency amount to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeFare prices elapsed usage by the hour. Usage shorter than one
// minute is billed as one minute.
func ComputeFare(start, end time.Time, pricePerHour float64) float64 {
	hours := end.Sub(start).Hours()
	if hours < minBillableHours {
		hours = minBillableHours
	}
	return Round2(hours * pricePerHour)
}

// CombineDateTime joins a yyyy-mm-dd date and an HH:MM clock time.
func CombineDateTime(date, clock string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", date, clock, err)
	}
	return t, nil
}

// QuoteScheduled prices the scheduled rental period ahead of usage: exact
// hours (minimum 1) in hour mode, whole days rounded up (minimum 1) in day
// mode.
func QuoteScheduled(mode domain.RentalMode, pickupDate, returnDate, pickupTime, returnTime string, pricePerHour, pricePerDay float64) (float64, error) {
	start, err := CombineDateTime(pickupDate, pickupTime)
	if err != nil {
		return 0, err
	}
	end, err := CombineDateTime(returnDate, returnTime)
	if err != nil {
		return 0, err
	}
	if end.Before(start) {
		return 0, fmt.Errorf("return time is before pickup time")
	}

	switch mode {
	case domain.RentalModeDay:
		days := math.Ceil(end.Sub(start).Hours() / 24)
		if days < 1 {
			days = 1
		}
		return Round2(days * pricePerDay), nil
	default:
		hours := end.Sub(start).Hours()
		if hours < 1 {
			hours = 1
		}
		return Round2(hours * pricePerHour), nil
	}
}

// DurationLabel renders the scheduled period for contract text.
func DurationLabel(mode domain.RentalMode, pickupDate, returnDate, pickupTime, returnTime string) string {
	start, err1 := CombineDateTime(pickupDate, pickupTime)
	end, err2 := CombineDateTime(returnDate, returnTime)
	if err1 != nil || err2 != nil || end.Before(start) {
		return ""
	}
	d := end.Sub(start)

	if mode == domain.RentalModeDay {
		days := int(math.Ceil(d.Hours() / 24))
		if days < 1 {
			days = 1
		}
		return fmt.Sprintf("%d day(s)", days)
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if minutes > 0 {
		return fmt.Sprintf("%d hour(s) %d minute(s)", hours, minutes)
	}
	return fmt.Sprintf("%d hour(s)", hours)
}
