// Package project maps merged canonical events onto the neutral record
// shape consumed by the external calendar serializer. Pure field
// mapping: no merging or normalization happens here.
package project

import (
	"strings"

	"github.com/google/uuid"

	"github.com/coursecal/coursecal/internal/core/model"
)

// namespace anchors the deterministic UID derivation. Changing it
// would change every UID ever emitted, so it stays fixed.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://coursecal.dev/events"))

// Record projects one canonical event into a CalendarRecord. Events
// without a resolved date are still projected; consumers decide how to
// surface them.
func Record(ev model.CanonicalEvent) model.CalendarRecord {
	rec := model.CalendarRecord{
		UID:         UID(ev),
		Title:       ev.CanonicalTitle,
		Type:        ev.Type,
		Description: strings.Join(ev.Sentences, " "),
		Unresolved:  ev.Unresolved,
		SourceCount: ev.SourceCount,
		Conflicts:   ev.Conflicts,
	}

	if ev.HasDate() {
		rec.Date = ev.Date.Format("2006-01-02")
	}
	rec.Time = ev.Time

	if ev.Recurrence != nil {
		r := &model.RecurrenceRecord{
			ByDay: append([]string(nil), ev.Recurrence.ByDay...),
		}
		if ev.Recurrence.HasUntil() {
			r.Until = ev.Recurrence.Until.Format("2006-01-02")
		}
		rec.Recurrence = r
	}

	return rec
}

// Records projects a batch, preserving order.
func Records(events []model.CanonicalEvent) []model.CalendarRecord {
	out := make([]model.CalendarRecord, 0, len(events))
	for _, ev := range events {
		out = append(out, Record(ev))
	}
	return out
}

// UID derives a stable identifier from the fields that define the
// event's identity, so re-running the pipeline on the same outline
// updates calendar entries instead of duplicating them.
func UID(ev model.CanonicalEvent) string {
	parts := []string{
		strings.ToLower(ev.CanonicalTitle),
		string(ev.Type),
	}
	if ev.HasDate() {
		parts = append(parts, ev.Date.Format("2006-01-02"))
	}
	parts = append(parts, ev.Time)
	if ev.Recurrence != nil {
		parts = append(parts, strings.Join(ev.Recurrence.ByDay, ","))
		if ev.Recurrence.HasUntil() {
			parts = append(parts, ev.Recurrence.Until.Format("2006-01-02"))
		}
	}
	return uuid.NewSHA1(namespace, []byte(strings.Join(parts, "|"))).String() + "@coursecal"
}
