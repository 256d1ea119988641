package ics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecal/coursecal/internal/core/model"
)

func window() (time.Time, time.Time) {
	return time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
}

func TestExpandSingleEvent(t *testing.T) {
	from, until := window()
	rec := model.CalendarRecord{UID: "q1", Title: "Quiz 1", Date: "2026-01-14", Time: "10:00"}

	occ, err := Expand(rec, from, until, 0)
	require.NoError(t, err)
	require.Len(t, occ, 1)
	assert.Equal(t, "2026-01-14", occ[0].Date)
	assert.Equal(t, "10:00", occ[0].Time)
	assert.Equal(t, "q1", occ[0].UID)
}

func TestExpandSingleEventOutsideWindow(t *testing.T) {
	from, until := window()
	rec := model.CalendarRecord{UID: "f", Title: "Final", Date: "2026-04-20"}

	occ, err := Expand(rec, from, until, 0)
	require.NoError(t, err)
	assert.Empty(t, occ)
}

func TestExpandUndatedRecord(t *testing.T) {
	from, until := window()
	occ, err := Expand(model.CalendarRecord{UID: "x", Title: "Reading"}, from, until, 0)
	require.NoError(t, err)
	assert.Empty(t, occ)
}

func TestExpandWeeklyRecurrence(t *testing.T) {
	from, until := window()
	rec := model.CalendarRecord{
		UID:   "lec",
		Title: "Lecture",
		Date:  "2026-01-05",
		Recurrence: &model.RecurrenceRecord{
			ByDay: []string{"MO", "WE"},
			Until: "2026-01-21",
		},
	}

	occ, err := Expand(rec, from, until, 0)
	require.NoError(t, err)

	var dates []string
	for _, o := range occ {
		dates = append(dates, o.Date)
	}
	// Mondays and Wednesdays from Jan 5 through the until date.
	assert.Equal(t, []string{
		"2026-01-05", "2026-01-07",
		"2026-01-12", "2026-01-14",
		"2026-01-19", "2026-01-21",
	}, dates)
}

func TestExpandRespectsCap(t *testing.T) {
	from := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	until := time.Date(2027, 1, 5, 0, 0, 0, 0, time.UTC)
	rec := model.CalendarRecord{
		UID:        "lec",
		Title:      "Lecture",
		Date:       "2026-01-05",
		Recurrence: &model.RecurrenceRecord{ByDay: []string{"MO"}},
	}

	occ, err := Expand(rec, from, until, 10)
	require.NoError(t, err)
	assert.Len(t, occ, 10)
}

func TestExpandUnknownWeekdayCode(t *testing.T) {
	from, until := window()
	rec := model.CalendarRecord{
		UID:        "lec",
		Title:      "Lecture",
		Date:       "2026-01-05",
		Recurrence: &model.RecurrenceRecord{ByDay: []string{"XX"}},
	}

	_, err := Expand(rec, from, until, 0)
	assert.Error(t, err)
}
