// Package schedule normalizes the booking time slots the storefront
// offers (12-hour wall-clock strings) into the ISO-8601 values the
// payment server expects.
package schedule

import (
	"fmt"
	"time"
)

const (
	slotLayout = "03:04 PM"
	dateLayout = "2006-01-02"
)

// ValidSlot reports whether s parses as a 12-hour time like "09:00 AM".
func ValidSlot(s string) bool {
	_, err := time.Parse(slotLayout, s)
	return err == nil
}

// To24Hour converts a 12-hour slot to "HH:MM:SS". Noon stays 12,
// midnight becomes 00.
func To24Hour(slot string) (string, error) {
	t, err := time.Parse(slotLayout, slot)
	if err != nil {
		return "", fmt.Errorf("parse time slot %q: %w", slot, err)
	}
	return t.Format("15:04:05"), nil
}

// ScheduledDate combines a calendar date and a 12-hour slot into the
// combined ISO-8601 value submitted with the booking intent.
func ScheduledDate(date, slot string) (string, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}
	hhmmss, err := To24Hour(slot)
	if err != nil {
		return "", err
	}
	return date + "T" + hhmmss, nil
}
