package model

import "time"

// EventType is the fixed category an event is classified into.
type EventType string

const (
	TypeLecture    EventType = "lecture"
	TypeAssignment EventType = "assignment"
	TypeExam       EventType = "exam"
	TypeQuiz       EventType = "quiz"
	TypeLab        EventType = "lab"
	TypeOther      EventType = "other"
)

// RawEvent is one unprocessed candidate event as produced by the
// structured-extraction collaborator. All fields except Title are
// optional; empty string means absent. The engine never mutates it.
type RawEvent struct {
	Title          string   `json:"title"`
	DateHint       string   `json:"date"`
	TimeHint       string   `json:"time"`
	TypeHint       string   `json:"event_type"`
	Description    string   `json:"description"`
	WeightHint     string   `json:"weight"`
	RecurrenceHint string   `json:"recurrence"`
	ByDay          []string `json:"byday"`
	Until          string   `json:"until"`
}

// DateRange is an inclusive calendar-date range.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d falls inside the range (date precision).
func (r DateRange) Contains(d time.Time) bool {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && !day.After(end)
}

// TermAnchor carries the calendar context needed to resolve relative
// date phrases like "Week 3 Wednesday". A zero TermStart means no
// anchor is available and relative hints stay unresolved.
type TermAnchor struct {
	TermStart time.Time               `json:"term_start"`
	Weekdays  map[string]time.Weekday `json:"-"`
	Breaks    []DateRange             `json:"breaks,omitempty"`
}

// HasStart reports whether the anchor can resolve week references.
func (a TermAnchor) HasStart() bool {
	return !a.TermStart.IsZero()
}

// Recurrence describes a weekly repetition. ByDay holds two-letter
// RFC-5545 weekday codes in canonical MO..SU order. A zero Until with
// UntilUnresolved set means an until phrase existed but could not be
// resolved.
type Recurrence struct {
	ByDay           []string  `json:"byday"`
	Until           time.Time `json:"until"`
	UntilUnresolved bool      `json:"until_unresolved,omitempty"`
}

// HasUntil reports whether the recurrence has a resolved terminal date.
func (r Recurrence) HasUntil() bool {
	return !r.Until.IsZero()
}

// NormalizedEvent is the per-record output of normalization and date
// resolution. It is immutable once produced.
//
// CleanTitle is the title after mechanical cleanup but before the alias
// table; the merge engine compares it to detect pairs whose titles only
// coincide because an alias collapsed them.
type NormalizedEvent struct {
	CanonicalTitle string
	CleanTitle     string
	Type           EventType
	Date           time.Time // zero = no resolved date
	Time           string    // "HH:MM" or empty
	Sentences      []string
	Weight         *float64 // percent, nil = unknown
	Recurrence     *Recurrence
	Unresolved     bool // a date hint existed but could not be resolved
}

// HasDate reports whether the event has a resolved calendar date.
func (e NormalizedEvent) HasDate() bool {
	return !e.Date.IsZero()
}

// CanonicalEvent is one merged equivalence class of normalized events.
type CanonicalEvent struct {
	NormalizedEvent
	SourceCount int
	Conflicts   []string
}

// RecurrenceRecord is the serialized recurrence shape handed to the
// external calendar encoder.
type RecurrenceRecord struct {
	ByDay []string `json:"byday"`
	Until string   `json:"until,omitempty"`
}

// CalendarRecord is the neutral, serialization-agnostic record consumed
// by the calendar-file encoder and the JSON preview. Dates and times
// use ISO 8601; absent values are empty/omitted.
type CalendarRecord struct {
	UID         string            `json:"uid"`
	Title       string            `json:"title"`
	Type        EventType         `json:"event_type"`
	Date        string            `json:"date,omitempty"`
	Time        string            `json:"time,omitempty"`
	Description string            `json:"description,omitempty"`
	Recurrence  *RecurrenceRecord `json:"recurrence,omitempty"`
	Unresolved  bool              `json:"unresolved"`
	SourceCount int               `json:"source_count"`
	Conflicts   []string          `json:"conflicts,omitempty"`
}
