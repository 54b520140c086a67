// Package coaching provides the read-only coaching calendar: for each day of
// a rolling window starting today, a sorted set of hourly slots during which
// a coaching session can be held.
//
// The calendar is generated once when the process starts and never changes
// afterwards, so a Calendar can be shared freely between goroutines.
package coaching
