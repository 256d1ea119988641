package ics

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/coursecal/coursecal/internal/core/model"
)

const defaultMaxOccurrences = 100

var rruleWeekdays = map[string]rrule.Weekday{
	"MO": rrule.MO, "TU": rrule.TU, "WE": rrule.WE, "TH": rrule.TH,
	"FR": rrule.FR, "SA": rrule.SA, "SU": rrule.SU,
}

// Occurrence is one concrete instance of a (possibly recurring) record.
type Occurrence struct {
	UID   string `json:"uid"`
	Title string `json:"title"`
	Date  string `json:"date"`
	Time  string `json:"time,omitempty"`
}

// Expand turns a record into its concrete occurrences within [from,
// until]. Non-recurring records yield at most one occurrence; undated
// records yield none. max caps runaway expansions (0 means the
// default cap).
func Expand(rec model.CalendarRecord, from, until time.Time, max int) ([]Occurrence, error) {
	if rec.Date == "" {
		return nil, nil
	}
	if max <= 0 {
		max = defaultMaxOccurrences
	}

	start, err := time.Parse("2006-01-02", rec.Date)
	if err != nil {
		return nil, fmt.Errorf("bad date '%s': %w", rec.Date, err)
	}

	if rec.Recurrence == nil || len(rec.Recurrence.ByDay) == 0 {
		if start.Before(from) || start.After(until) {
			return nil, nil
		}
		return []Occurrence{occurrence(rec, start)}, nil
	}

	byweekday := make([]rrule.Weekday, 0, len(rec.Recurrence.ByDay))
	for _, code := range rec.Recurrence.ByDay {
		wd, ok := rruleWeekdays[code]
		if !ok {
			return nil, fmt.Errorf("unknown weekday code '%s'", code)
		}
		byweekday = append(byweekday, wd)
	}

	opt := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   start,
		Byweekday: byweekday,
	}
	if rec.Recurrence.Until != "" {
		u, err := time.Parse("2006-01-02", rec.Recurrence.Until)
		if err != nil {
			return nil, fmt.Errorf("bad until date '%s': %w", rec.Recurrence.Until, err)
		}
		opt.Until = u.AddDate(0, 0, 1).Add(-time.Second)
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("failed to build recurrence rule: %w", err)
	}

	times := r.Between(from, until, true)
	if len(times) > max {
		times = times[:max]
	}

	out := make([]Occurrence, 0, len(times))
	for _, t := range times {
		out = append(out, occurrence(rec, t))
	}
	return out, nil
}

func occurrence(rec model.CalendarRecord, t time.Time) Occurrence {
	return Occurrence{
		UID:   rec.UID,
		Title: rec.Title,
		Date:  t.Format("2006-01-02"),
		Time:  rec.Time,
	}
}
