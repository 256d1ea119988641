// Package ics serializes calendar records into RFC-5545 bytes and
// expands recurring records into concrete occurrences for previews.
package ics

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/coursecal/coursecal/internal/core/model"
)

const prodID = "-//coursecal//course outline parser//EN"

// defaultDuration is applied to timed events; outlines rarely state an
// end time.
const defaultDuration = time.Hour

// Encode serializes the records into an ICS calendar. Records without
// a resolved date cannot be placed on a calendar and are skipped here;
// they still appear in the JSON preview.
func Encode(records []model.CalendarRecord) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetProductId(prodID)

	count := 0
	for _, rec := range records {
		if rec.Date == "" {
			continue
		}
		if err := addEvent(cal, rec); err != nil {
			return nil, fmt.Errorf("failed to encode event '%s': %w", rec.Title, err)
		}
		count++
	}

	if count == 0 {
		return nil, fmt.Errorf("no dated events to encode")
	}

	return []byte(cal.Serialize()), nil
}

func addEvent(cal *ical.Calendar, rec model.CalendarRecord) error {
	start, err := time.Parse("2006-01-02", rec.Date)
	if err != nil {
		return fmt.Errorf("bad date '%s': %w", rec.Date, err)
	}

	ev := cal.AddEvent(rec.UID)
	ev.SetSummary(rec.Title)
	if rec.Description != "" {
		ev.SetDescription(rec.Description)
	}
	ev.SetProperty(ical.ComponentProperty(ical.PropertyCategories), strings.ToUpper(string(rec.Type)))

	if rec.Time != "" {
		clock, err := time.Parse("15:04", rec.Time)
		if err == nil {
			st := time.Date(start.Year(), start.Month(), start.Day(),
				clock.Hour(), clock.Minute(), 0, 0, time.UTC)
			ev.SetStartAt(st)
			ev.SetEndAt(st.Add(defaultDuration))
		} else {
			ev.SetAllDayStartAt(start)
			ev.SetAllDayEndAt(start.AddDate(0, 0, 1))
		}
	} else {
		ev.SetAllDayStartAt(start)
		ev.SetAllDayEndAt(start.AddDate(0, 0, 1))
	}

	if rec.Recurrence != nil && len(rec.Recurrence.ByDay) > 0 {
		rule := fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s", strings.Join(rec.Recurrence.ByDay, ","))
		if rec.Recurrence.Until != "" {
			if until, err := time.Parse("2006-01-02", rec.Recurrence.Until); err == nil {
				rule += ";UNTIL=" + until.Format("20060102") + "T235959Z"
			}
		}
		ev.AddRrule(rule)
	}

	return nil
}
