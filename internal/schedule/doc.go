// Package schedule holds the conventions shared by the host schedule and the
// coaching calendar: date and slot string layouts, the "available" status
// sentinel, and the error kinds every scheduling operation reports.
//
// Dates are always YYYY-MM-DD and slots are always HH:MM. All schedule logic
// assumes hour-aligned slots; nothing here deals in timezones.
package schedule
