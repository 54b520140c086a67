package coaching

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/teemow/slotkeeper/internal/schedule"
)

// Defaults used by Generate when Options leaves a field zero.
const (
	DefaultDays        = 7
	DefaultSlotsPerDay = 8
	DefaultFirstHour   = 8
	DefaultLastHour    = 20
)

// MaxQueryDays bounds how many days a single Availability query may span,
// both ends included.
const MaxQueryDays = 366

// Options controls calendar generation.
type Options struct {
	// Days is the length of the window starting today (default: 7).
	Days int

	// SlotsPerDay is how many distinct hours are open each day (default: 8).
	SlotsPerDay int

	// FirstHour and LastHour bound the candidate hours, both inclusive
	// (default: 8 and 20).
	FirstHour int
	LastHour  int

	// Rand picks the open hours. A nil Rand uses a randomly seeded source.
	Rand *rand.Rand

	// Now returns the current time. A nil Now uses time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Days <= 0 {
		o.Days = DefaultDays
	}
	if o.SlotsPerDay <= 0 {
		o.SlotsPerDay = DefaultSlotsPerDay
	}
	if o.FirstHour == 0 && o.LastHour == 0 {
		o.FirstHour, o.LastHour = DefaultFirstHour, DefaultLastHour
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Calendar maps dates to their open coaching slots.
type Calendar struct {
	dates []string
	slots map[string][]string
}

// Generate builds a calendar for opts.Days days starting at the current date.
func Generate(opts Options) (*Calendar, error) {
	opts = opts.withDefaults()

	if opts.FirstHour < 0 || opts.LastHour > 23 || opts.FirstHour > opts.LastHour {
		return nil, fmt.Errorf("invalid coaching hours %d-%d", opts.FirstHour, opts.LastHour)
	}
	candidates := opts.LastHour - opts.FirstHour + 1
	if opts.SlotsPerDay > candidates {
		return nil, fmt.Errorf("cannot pick %d coaching slots from %d candidate hours", opts.SlotsPerDay, candidates)
	}

	now := opts.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	c := &Calendar{
		dates: make([]string, 0, opts.Days),
		slots: make(map[string][]string, opts.Days),
	}
	for i := 0; i < opts.Days; i++ {
		date := schedule.FormatDate(today.AddDate(0, 0, i))

		hours := opts.Rand.Perm(candidates)[:opts.SlotsPerDay]
		sort.Ints(hours)

		day := make([]string, len(hours))
		for j, h := range hours {
			day[j] = fmt.Sprintf("%02d:00", opts.FirstHour+h)
		}
		c.dates = append(c.dates, date)
		c.slots[date] = day
	}
	return c, nil
}

// Dates returns the generated dates in ascending order.
func (c *Calendar) Dates() []string {
	return append([]string(nil), c.dates...)
}

// Slots returns the open slots on date, or nil if the date is outside the
// generated window.
func (c *Calendar) Slots(date string) []string {
	day, ok := c.slots[date]
	if !ok {
		return nil
	}
	return append([]string(nil), day...)
}

// Day is one date of the calendar.
type Day struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

// Snapshot returns every generated day in ascending date order.
func (c *Calendar) Snapshot() []Day {
	days := make([]Day, 0, len(c.dates))
	for _, date := range c.dates {
		days = append(days, Day{Date: date, Slots: c.Slots(date)})
	}
	return days
}

// Availability describes every day from start to end inclusive, one line
// per day in ascending order.
func (c *Calendar) Availability(start, end string) (string, error) {
	from, errFrom := schedule.ParseDate(start)
	to, errTo := schedule.ParseDate(end)
	if errFrom != nil || errTo != nil {
		return "", schedule.Errorf(schedule.KindInvalidFormat,
			"Invalid date format. Please use YYYY-MM-DD for both start and end dates.")
	}
	if from.After(to) {
		return "", schedule.Errorf(schedule.KindInvalidRange,
			"Invalid date range. The start date cannot be after the end date.")
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > MaxQueryDays {
		return "", schedule.Errorf(schedule.KindInvalidRange,
			"Invalid date range. Queries may cover at most %d days.", MaxQueryDays)
	}

	var lines []string
	for current := from; !current.After(to); current = current.AddDate(0, 0, 1) {
		date := schedule.FormatDate(current)
		if slots := c.slots[date]; len(slots) > 0 {
			lines = append(lines, fmt.Sprintf("On %s, coaching sessions are available at: %s.", date, strings.Join(slots, ", ")))
		} else {
			lines = append(lines, fmt.Sprintf("No coaching sessions available on %s.", date))
		}
	}
	return strings.Join(lines, "\n"), nil
}
