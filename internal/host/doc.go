// Package host implements the host schedule store: a per-date map of hourly
// slots to statuses, where a status is either the "available" sentinel or
// the name of the meeting occupying the slot.
//
// The store is seeded with one week of mock data and mutated in place by
// booking and availability management. Slot order is insertion order, so
// listings follow the seed (or creation) order rather than map iteration
// order.
//
// All operations are safe for concurrent use. Booking and management hold
// the write lock across their whole check-then-commit sequence, so a failed
// call never leaves a partial write behind.
package host
