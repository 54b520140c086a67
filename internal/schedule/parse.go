package schedule

import (
	"time"
)

const (
	// DateLayout is the layout of every date string (YYYY-MM-DD).
	DateLayout = "2006-01-02"

	// SlotLayout is the layout of every slot string (HH:MM).
	SlotLayout = "15:04"

	// Available is the status of a slot no meeting occupies.
	Available = "available"

	dateTimeLayout = DateLayout + " " + SlotLayout
)

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ParseSlot parses an HH:MM string.
func ParseSlot(s string) (time.Time, error) {
	return time.Parse(SlotLayout, s)
}

// ParseDateTime parses a date and an HH:MM time into a single instant.
func ParseDateTime(date, slot string) (time.Time, error) {
	return time.Parse(dateTimeLayout, date+" "+slot)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatSlot renders t as HH:MM.
func FormatSlot(t time.Time) string {
	return t.Format(SlotLayout)
}

// NormalizeSlot parses s and renders it back in canonical HH:MM form,
// so "9:00" becomes "09:00".
func NormalizeSlot(s string) (string, error) {
	t, err := ParseSlot(s)
	if err != nil {
		return "", err
	}
	return FormatSlot(t), nil
}
