package host

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Slots maps slot strings (HH:MM) to statuses in insertion order.
type Slots = orderedmap.OrderedMap[string, string]

// Days maps date strings (YYYY-MM-DD) to their slots in insertion order.
type Days = orderedmap.OrderedMap[string, *Slots]

// NewSlots returns an empty slot map.
func NewSlots() *Slots {
	return orderedmap.New[string, string]()
}

// NewDays returns an empty day map.
func NewDays() *Days {
	return orderedmap.New[string, *Slots]()
}

// Availability is the partition of one day's slots into free and booked.
type Availability struct {
	Date string

	// Scheduled is false when the host has no slots on Date.
	Scheduled bool

	// AvailableSlots lists free slots in schedule order.
	AvailableSlots []string

	// BookedSlots maps occupied slots to their meeting names in schedule order.
	BookedSlots *Slots
}

// Message returns the user-facing summary of the availability.
func (a *Availability) Message() string {
	if !a.Scheduled {
		return fmt.Sprintf("The host is not available on %s.", a.Date)
	}
	return fmt.Sprintf("Host availability for %s.", a.Date)
}

// BookingRequest describes a meeting to place on the host schedule.
type BookingRequest struct {
	Date        string
	StartTime   string
	EndTime     string
	MeetingName string
}

// Booking is a committed meeting.
type Booking struct {
	BookingRequest

	// Slots are the hourly slots now holding the meeting name.
	Slots []string
}

// Message returns the user-facing booking confirmation.
func (b *Booking) Message() string {
	return fmt.Sprintf("Success! The meeting '%s' has been booked from %s to %s on %s.",
		b.MeetingName, b.StartTime, b.EndTime, b.Date)
}

// Action selects how ManageRequest slots are applied.
type Action string

const (
	// ActionUpdate writes slots into an existing date.
	ActionUpdate Action = "update"

	// ActionAdd inserts a new date with exactly the given slots.
	ActionAdd Action = "add"
)

// ManageRequest is a bulk update or addition of slots for one date.
type ManageRequest struct {
	Date string

	// Slots maps HH:MM keys to statuses ("available" or a meeting name).
	Slots map[string]string

	// Action defaults to ActionUpdate when empty.
	Action Action
}

// ManageResult reports what a management call changed.
type ManageResult struct {
	Date   string
	Action Action

	// Count is the number of slots written, created and overwritten alike.
	Count int
}

// Message returns the user-facing confirmation.
func (r *ManageResult) Message() string {
	if r.Action == ActionAdd {
		return fmt.Sprintf("Successfully added %s to the schedule with %d time slots.", r.Date, r.Count)
	}
	return fmt.Sprintf("Successfully updated %d time slots for %s.", r.Count, r.Date)
}
