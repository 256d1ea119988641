// Package merge implements the conservative merge engine: it groups
// normalized events by fingerprint and folds each group into one
// canonical event without losing information. Disagreements on
// secondary fields are resolved by documented tie-breaks and recorded
// as conflict notes, never silently discarded.
package merge

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/coursecal/coursecal/internal/core/model"
	"github.com/coursecal/coursecal/internal/core/normalize"
	"github.com/coursecal/coursecal/internal/core/resolve"
)

// Engine holds the merge tolerances. Zero values disable the split
// gate and the until tolerance; construct via New for the configured
// defaults.
type Engine struct {
	// WeightSplitTolerance is the percentage-point gap at which two
	// members whose titles only coincide through the alias table are
	// treated as distinct events instead of merged.
	WeightSplitTolerance float64
	// UntilConflictTolerance is how far two recurrence end dates may
	// disagree before a conflict note is appended.
	UntilConflictTolerance time.Duration
}

// New returns an Engine with the given tolerances.
func New(weightSplitTolerance float64, untilToleranceDays int) Engine {
	return Engine{
		WeightSplitTolerance:   weightSplitTolerance,
		UntilConflictTolerance: time.Duration(untilToleranceDays) * 24 * time.Hour,
	}
}

// Fingerprint is the grouping key deciding which events are
// merge-candidates: canonical title, event type, and the resolved date
// when present, else a recurrence marker. Two recurring events with the
// same title and type share a fingerprint regardless of weekday set so
// their byday sets can be unioned.
func Fingerprint(ev model.NormalizedEvent) string {
	var when string
	switch {
	case ev.HasDate():
		when = "d:" + ev.Date.Format("2006-01-02")
	case ev.Recurrence != nil:
		when = "r:weekly"
	}
	return strings.ToLower(ev.CanonicalTitle) + "|" + string(ev.Type) + "|" + when
}

// Merge folds the normalized batch into canonical events. Group order
// follows the insertion order of each group's first member; the final
// list is sorted by date ascending with dateless events last, then by
// canonical title. Identical input always produces identical output.
func (e Engine) Merge(events []model.NormalizedEvent) []model.CanonicalEvent {
	groupIndex := make(map[string]int)
	var groups [][]model.NormalizedEvent

	for _, ev := range events {
		fp := Fingerprint(ev)
		idx, ok := groupIndex[fp]
		if !ok {
			idx = len(groups)
			groupIndex[fp] = idx
			groups = append(groups, nil)
		}
		groups[idx] = append(groups[idx], ev)
	}

	var out []model.CanonicalEvent
	for _, group := range groups {
		out = append(out, e.foldGroup(group)...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.HasDate() && !b.HasDate():
			return true
		case !a.HasDate() && b.HasDate():
			return false
		case a.HasDate() && !a.Date.Equal(b.Date):
			return a.Date.Before(b.Date)
		default:
			return a.CanonicalTitle < b.CanonicalTitle
		}
	})

	return out
}

// foldGroup folds one fingerprint group. The split gate may break a
// group into several canonical events: members whose weights are far
// apart and whose titles only coincide through alias normalization are
// kept separate, disambiguated by an occurrence index.
func (e Engine) foldGroup(group []model.NormalizedEvent) []model.CanonicalEvent {
	var buckets []model.CanonicalEvent

	for _, ev := range group {
		placed := false
		for i := range buckets {
			if e.shouldSplit(buckets[i], ev) {
				continue
			}
			e.fold(&buckets[i], ev)
			placed = true
			break
		}
		if !placed {
			c := model.CanonicalEvent{NormalizedEvent: ev, SourceCount: 1}
			// Deep-copy the slices so folding never aliases input.
			c.Sentences = append([]string(nil), ev.Sentences...)
			if ev.Recurrence != nil {
				rec := *ev.Recurrence
				rec.ByDay = append([]string(nil), ev.Recurrence.ByDay...)
				c.Recurrence = &rec
			}
			if len(buckets) > 0 {
				c.CanonicalTitle = fmt.Sprintf("%s (%d)", ev.CanonicalTitle, len(buckets)+1)
			}
			buckets = append(buckets, c)
		}
	}

	return buckets
}

// shouldSplit is the conservative merge gate: equal fingerprints merge
// by default, except when both weights are present and far apart while
// the pre-alias titles differ. That combination usually means two
// genuinely different deliverables sharing a generic canonical name.
func (e Engine) shouldSplit(acc model.CanonicalEvent, ev model.NormalizedEvent) bool {
	if e.WeightSplitTolerance <= 0 {
		return false
	}
	if acc.Weight == nil || ev.Weight == nil {
		return false
	}
	if math.Abs(*acc.Weight-*ev.Weight) < e.WeightSplitTolerance {
		return false
	}
	return acc.CleanTitle != ev.CleanTitle
}

// fold merges one member into the accumulated canonical event.
func (e Engine) fold(acc *model.CanonicalEvent, ev model.NormalizedEvent) {
	acc.SourceCount++
	acc.Unresolved = acc.Unresolved || ev.Unresolved

	// Description: case-insensitive union preserving first-seen order.
	seen := make(map[string]bool, len(acc.Sentences))
	for _, s := range acc.Sentences {
		seen[normalize.SentenceKey(s)] = true
	}
	for _, s := range ev.Sentences {
		key := normalize.SentenceKey(s)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		acc.Sentences = append(acc.Sentences, s)
	}

	// Weight: maximum non-null wins; a disagreement is noted, never
	// silently dropped.
	if ev.Weight != nil {
		switch {
		case acc.Weight == nil:
			w := *ev.Weight
			acc.Weight = &w
		case *ev.Weight != *acc.Weight:
			kept := math.Max(*acc.Weight, *ev.Weight)
			acc.Conflicts = append(acc.Conflicts, fmt.Sprintf(
				"conflicting weights %s%% and %s%%; kept %s%%",
				trimFloat(*acc.Weight), trimFloat(*ev.Weight), trimFloat(kept)))
			acc.Weight = &kept
		}
	}

	// Time: first non-null wins; later disagreements become notes.
	if ev.Time != "" {
		switch {
		case acc.Time == "":
			acc.Time = ev.Time
		case acc.Time != ev.Time:
			acc.Conflicts = append(acc.Conflicts, fmt.Sprintf(
				"conflicting times %s and %s; kept %s", acc.Time, ev.Time, acc.Time))
		}
	}

	if ev.Recurrence != nil {
		e.foldRecurrence(acc, *ev.Recurrence)
	}
}

// foldRecurrence unions the weekday sets and keeps the latest end date.
// End dates disagreeing beyond the tolerance are recorded as a
// conflict; the later one wins either way.
func (e Engine) foldRecurrence(acc *model.CanonicalEvent, rec model.Recurrence) {
	if acc.Recurrence == nil {
		cp := rec
		cp.ByDay = append([]string(nil), rec.ByDay...)
		acc.Recurrence = &cp
		return
	}

	have := make(map[string]bool, len(acc.Recurrence.ByDay))
	for _, d := range acc.Recurrence.ByDay {
		have[d] = true
	}
	for _, d := range rec.ByDay {
		if !have[d] {
			acc.Recurrence.ByDay = append(acc.Recurrence.ByDay, d)
			have[d] = true
		}
	}
	resolve.SortByDay(acc.Recurrence.ByDay)

	switch {
	case !rec.HasUntil():
		acc.Recurrence.UntilUnresolved = acc.Recurrence.UntilUnresolved || rec.UntilUnresolved
	case !acc.Recurrence.HasUntil():
		acc.Recurrence.Until = rec.Until
		acc.Recurrence.UntilUnresolved = false
	case !rec.Until.Equal(acc.Recurrence.Until):
		earlier, later := acc.Recurrence.Until, rec.Until
		if later.Before(earlier) {
			earlier, later = later, earlier
		}
		if later.Sub(earlier) > e.UntilConflictTolerance {
			acc.Conflicts = append(acc.Conflicts, fmt.Sprintf(
				"conflicting until dates %s and %s; kept %s",
				earlier.Format("2006-01-02"), later.Format("2006-01-02"), later.Format("2006-01-02")))
		}
		acc.Recurrence.Until = later
	}
}

func trimFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
