package host

import (
	"sort"
	"sync"
	"time"

	"github.com/teemow/slotkeeper/internal/logging"
	"github.com/teemow/slotkeeper/internal/schedule"
)

// Store is the host schedule. The zero value is not usable; use NewStore.
type Store struct {
	mu     sync.RWMutex
	days   *Days
	logger logging.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for mutation events.
func WithLogger(logger logging.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDays replaces the initial schedule. The store takes ownership of days.
func WithDays(days *Days) Option {
	return func(s *Store) {
		if days != nil {
			s.days = days
		}
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		days:   NewDays(),
		logger: logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSeededStore creates a store holding the built-in mock week.
func NewSeededStore(opts ...Option) (*Store, error) {
	days, err := DefaultSeed()
	if err != nil {
		return nil, err
	}
	return NewStore(append([]Option{WithDays(days)}, opts...)...), nil
}

// Dates returns the scheduled dates in insertion order.
func (s *Store) Dates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dates := make([]string, 0, s.days.Len())
	for pair := s.days.Oldest(); pair != nil; pair = pair.Next() {
		dates = append(dates, pair.Key)
	}
	return dates
}

// Snapshot returns a deep copy of the whole schedule.
func (s *Store) Snapshot() *Days {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := NewDays()
	for pair := s.days.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, copySlots(pair.Value))
	}
	return out
}

// ListAvailability partitions the slots of date into available and booked.
// A date the host has no slots on is not an error: the result has
// Scheduled set to false.
func (s *Store) ListAvailability(date string) (*Availability, error) {
	if _, err := schedule.ParseDate(date); err != nil {
		return nil, schedule.Errorf(schedule.KindInvalidFormat, "Invalid date format. Please use YYYY-MM-DD.")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := &Availability{
		Date:           date,
		AvailableSlots: []string{},
		BookedSlots:    NewSlots(),
	}

	slots, ok := s.days.Get(date)
	if !ok || slots.Len() == 0 {
		return result, nil
	}

	result.Scheduled = true
	for pair := slots.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == schedule.Available {
			result.AvailableSlots = append(result.AvailableSlots, pair.Key)
		} else {
			result.BookedSlots.Set(pair.Key, pair.Value)
		}
	}
	return result, nil
}

// Book writes req.MeetingName into every hourly slot from StartTime
// (inclusive) to EndTime (exclusive). Every slot is checked before any is
// written, so a conflict leaves the schedule untouched.
func (s *Store) Book(req BookingRequest) (*Booking, error) {
	start, errStart := schedule.ParseDateTime(req.Date, req.StartTime)
	end, errEnd := schedule.ParseDateTime(req.Date, req.EndTime)
	if errStart != nil || errEnd != nil {
		return nil, schedule.Errorf(schedule.KindInvalidFormat, "Invalid date or time format. Please use YYYY-MM-DD and HH:MM.")
	}
	if !start.Before(end) {
		return nil, schedule.Errorf(schedule.KindInvalidRange, "Start time must be before end time.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slots, ok := s.days.Get(req.Date)
	if !ok {
		return nil, schedule.Errorf(schedule.KindUnknownDate, "The host is not available on %s.", req.Date)
	}
	if req.MeetingName == "" {
		return nil, schedule.Errorf(schedule.KindMissingName, "Cannot book a meeting without a meeting name.")
	}

	required := requiredSlots(start, end)
	for _, slot := range required {
		status, exists := slots.Get(slot)
		if !exists {
			return nil, schedule.Errorf(schedule.KindSlotConflict,
				"The time slot %s on %s is not on the host's schedule.", slot, req.Date)
		}
		if status != schedule.Available {
			return nil, schedule.Errorf(schedule.KindSlotConflict,
				"The time slot %s on %s is already booked for %s.", slot, req.Date, status)
		}
	}

	for _, slot := range required {
		slots.Set(slot, req.MeetingName)
	}

	s.logger.Debug("booked host meeting",
		logging.KeyDate, req.Date,
		"meeting", req.MeetingName,
		"slots", len(required))

	return &Booking{BookingRequest: req, Slots: required}, nil
}

// Manage applies req.Slots to req.Date. With ActionAdd the date must be new
// and receives exactly the given slots. With ActionUpdate the date must
// exist; unknown slots are created and known ones overwritten.
func (s *Store) Manage(req ManageRequest) (*ManageResult, error) {
	if _, err := schedule.ParseDate(req.Date); err != nil {
		return nil, schedule.Errorf(schedule.KindInvalidFormat, "Invalid date format. Please use YYYY-MM-DD.")
	}

	// Keys are validated in sorted order so the reported key is stable.
	keys := make([]string, 0, len(req.Slots))
	for key := range req.Slots {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]slotEntry, 0, len(keys))
	for _, key := range keys {
		slot, err := schedule.NormalizeSlot(key)
		if err != nil {
			return nil, schedule.Errorf(schedule.KindInvalidFormat, "Invalid time format '%s'. Please use HH:MM.", key)
		}
		entries = append(entries, slotEntry{slot: slot, status: req.Slots[key]})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].slot < entries[j].slot })
	for i := 1; i < len(entries); i++ {
		if entries[i].slot == entries[i-1].slot {
			return nil, schedule.Errorf(schedule.KindInvalidFormat,
				"Duplicate time slot '%s'. Each time slot may appear only once.", entries[i].slot)
		}
	}

	action := req.Action
	if action == "" {
		action = ActionUpdate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch action {
	case ActionAdd:
		if _, exists := s.days.Get(req.Date); exists {
			return nil, schedule.Errorf(schedule.KindDateExists,
				"Date %s already exists in the schedule. Use action='update' to modify existing dates.", req.Date)
		}
		slots := NewSlots()
		for _, e := range entries {
			slots.Set(e.slot, e.status)
		}
		s.days.Set(req.Date, slots)

		s.logger.Debug("added host date", logging.KeyDate, req.Date, "slots", slots.Len())
		return &ManageResult{Date: req.Date, Action: ActionAdd, Count: len(entries)}, nil

	case ActionUpdate:
		slots, exists := s.days.Get(req.Date)
		if !exists {
			return nil, schedule.Errorf(schedule.KindUnknownDate,
				"Date %s not found in schedule. Use action='add' to create new dates.", req.Date)
		}
		updated := 0
		for _, e := range entries {
			slots.Set(e.slot, e.status)
			updated++
		}

		s.logger.Debug("updated host date", logging.KeyDate, req.Date, "slots", updated)
		return &ManageResult{Date: req.Date, Action: ActionUpdate, Count: updated}, nil

	default:
		return nil, schedule.Errorf(schedule.KindInvalidAction, "Invalid action '%s'. Use 'update' or 'add'.", req.Action)
	}
}

type slotEntry struct {
	slot   string
	status string
}

// requiredSlots lists every slot from start up to, but excluding, end in
// one-hour steps.
func requiredSlots(start, end time.Time) []string {
	var slots []string
	for current := start; current.Before(end); current = current.Add(time.Hour) {
		slots = append(slots, schedule.FormatSlot(current))
	}
	return slots
}

func copySlots(src *Slots) *Slots {
	dst := NewSlots()
	for pair := src.Oldest(); pair != nil; pair = pair.Next() {
		dst.Set(pair.Key, pair.Value)
	}
	return dst
}
