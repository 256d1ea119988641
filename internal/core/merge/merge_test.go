package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecal/coursecal/internal/core/model"
)

func testEngine() Engine {
	return New(5.0, 7)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weight(v float64) *float64 {
	return &v
}

func dated(title, clean string, et model.EventType, d time.Time) model.NormalizedEvent {
	return model.NormalizedEvent{
		CanonicalTitle: title,
		CleanTitle:     clean,
		Type:           et,
		Date:           d,
	}
}

func TestMergeAliasVariants(t *testing.T) {
	// "Midterm 1" and "Midterm #1" normalize to the same canonical
	// title and share a date: one event, both descriptions kept.
	a := dated("Midterm 1", "midterm 1", model.TypeExam, day(2026, 2, 10))
	a.Sentences = []string{"Covers chapters 1-4."}
	b := dated("Midterm 1", "midterm 1", model.TypeExam, day(2026, 2, 10))
	b.Sentences = []string{"Covers chapters 1-4.", "Bring a calculator."}

	out := testEngine().Merge([]model.NormalizedEvent{a, b})
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].SourceCount)
	assert.Equal(t, []string{"Covers chapters 1-4.", "Bring a calculator."}, out[0].Sentences)
	assert.Empty(t, out[0].Conflicts)
}

func TestNonMergeSafetyAcrossDates(t *testing.T) {
	// Two generic "Quiz" events in different weeks stay separate.
	a := dated("Quiz", "quiz", model.TypeQuiz, day(2026, 1, 14))
	b := dated("Quiz", "quiz", model.TypeQuiz, day(2026, 1, 21))

	out := testEngine().Merge([]model.NormalizedEvent{a, b})
	require.Len(t, out, 2)
	assert.Equal(t, day(2026, 1, 14), out[0].Date)
	assert.Equal(t, day(2026, 1, 21), out[1].Date)
}

func TestNoLossProperty(t *testing.T) {
	events := []model.NormalizedEvent{
		dated("Quiz", "quiz", model.TypeQuiz, day(2026, 1, 14)),
		dated("Quiz", "quiz", model.TypeQuiz, day(2026, 1, 14)),
		dated("Quiz", "quiz", model.TypeQuiz, day(2026, 1, 21)),
		dated("Midterm 1", "midterm 1", model.TypeExam, day(2026, 2, 10)),
		{CanonicalTitle: "Reading", CleanTitle: "reading", Type: model.TypeOther, Unresolved: true},
	}

	out := testEngine().Merge(events)
	total := 0
	for _, ev := range out {
		total += ev.SourceCount
	}
	assert.Equal(t, len(events), total)
}

func TestWeightConservation(t *testing.T) {
	a := dated("Assignment 1", "assignment 1", model.TypeAssignment, day(2026, 3, 1))
	a.Weight = weight(10)
	b := dated("Assignment 1", "assignment 1", model.TypeAssignment, day(2026, 3, 1))
	b.Weight = weight(15)

	out := testEngine().Merge([]model.NormalizedEvent{a, b})
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Weight)
	assert.Equal(t, 15.0, *out[0].Weight)
	require.Len(t, out[0].Conflicts, 1)
	assert.Contains(t, out[0].Conflicts[0], "10")
	assert.Contains(t, out[0].Conflicts[0], "15")
}

func TestSplitGateOnAliasedTitles(t *testing.T) {
	// Same canonical title via aliasing, far-apart weights: two
	// genuinely different deliverables, kept separate.
	a := dated("Midterm", "midterm exam", model.TypeExam, day(2026, 2, 10))
	a.Weight = weight(10)
	b := dated("Midterm", "midterm test", model.TypeExam, day(2026, 2, 10))
	b.Weight = weight(30)

	out := testEngine().Merge([]model.NormalizedEvent{a, b})
	require.Len(t, out, 2)
	assert.Equal(t, "Midterm", out[0].CanonicalTitle)
	assert.Equal(t, "Midterm (2)", out[1].CanonicalTitle)
	assert.Equal(t, 1, out[0].SourceCount)
	assert.Equal(t, 1, out[1].SourceCount)
}

func TestSplitGateRequiresAliasDifference(t *testing.T) {
	// Identical pre-alias titles merge even with far-apart weights;
	// the disagreement is noted instead.
	a := dated("Midterm", "midterm", model.TypeExam, day(2026, 2, 10))
	a.Weight = weight(10)
	b := dated("Midterm", "midterm", model.TypeExam, day(2026, 2, 10))
	b.Weight = weight(30)

	out := testEngine().Merge([]model.NormalizedEvent{a, b})
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].SourceCount)
	assert.Equal(t, 30.0, *out[0].Weight)
	assert.Len(t, out[0].Conflicts, 1)
}

func TestTimeFirstNonNullWins(t *testing.T) {
	a := dated("Quiz 1", "quiz 1", model.TypeQuiz, day(2026, 1, 14))
	a.Time = "10:00"
	b := dated("Quiz 1", "quiz 1", model.TypeQuiz, day(2026, 1, 14))
	b.Time = "14:30"

	out := testEngine().Merge([]model.NormalizedEvent{a, b})
	require.Len(t, out, 1)
	assert.Equal(t, "10:00", out[0].Time)
	require.Len(t, out[0].Conflicts, 1)
	assert.Contains(t, out[0].Conflicts[0], "14:30")
}

func recurring(title string, byday []string, until time.Time) model.NormalizedEvent {
	return model.NormalizedEvent{
		CanonicalTitle: title,
		CleanTitle:     title,
		Type:           model.TypeLecture,
		Recurrence:     &model.Recurrence{ByDay: byday, Until: until},
	}
}

func TestRecurrenceUnion(t *testing.T) {
	until := day(2026, 4, 10)
	a := recurring("Lecture", []string{"MO"}, until)
	b := recurring("Lecture", []string{"WE"}, until)

	out := testEngine().Merge([]model.NormalizedEvent{a, b})
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Recurrence)
	assert.Equal(t, []string{"MO", "WE"}, out[0].Recurrence.ByDay)
	assert.Equal(t, until, out[0].Recurrence.Until)
	assert.Empty(t, out[0].Conflicts)
}

func TestRecurrenceUntilConflict(t *testing.T) {
	a := recurring("Lecture", []string{"MO"}, day(2026, 4, 10))
	b := recurring("Lecture", []string{"MO"}, day(2026, 4, 30))

	out := testEngine().Merge([]model.NormalizedEvent{a, b})
	require.Len(t, out, 1)
	assert.Equal(t, day(2026, 4, 30), out[0].Recurrence.Until)
	require.Len(t, out[0].Conflicts, 1)
	assert.Contains(t, out[0].Conflicts[0], "2026-04-10")
	assert.Contains(t, out[0].Conflicts[0], "2026-04-30")
}

func TestRecurrenceUntilWithinTolerance(t *testing.T) {
	// Five days apart is inside the tolerance: later date wins quietly.
	a := recurring("Lecture", []string{"MO"}, day(2026, 4, 10))
	b := recurring("Lecture", []string{"MO"}, day(2026, 4, 15))

	out := testEngine().Merge([]model.NormalizedEvent{a, b})
	require.Len(t, out, 1)
	assert.Equal(t, day(2026, 4, 15), out[0].Recurrence.Until)
	assert.Empty(t, out[0].Conflicts)
}

func TestDeterministicOrdering(t *testing.T) {
	events := []model.NormalizedEvent{
		{CanonicalTitle: "Zeta Reading", CleanTitle: "zeta reading", Type: model.TypeOther, Unresolved: true},
		dated("Quiz 2", "quiz 2", model.TypeQuiz, day(2026, 1, 21)),
		dated("Quiz 1", "quiz 1", model.TypeQuiz, day(2026, 1, 14)),
		dated("Alpha Assignment", "alpha assignment", model.TypeAssignment, day(2026, 1, 21)),
		{CanonicalTitle: "Alpha Reading", CleanTitle: "alpha reading", Type: model.TypeOther, Unresolved: true},
	}

	first := testEngine().Merge(events)
	second := testEngine().Merge(events)
	assert.Equal(t, first, second)

	var titles []string
	for _, ev := range first {
		titles = append(titles, ev.CanonicalTitle)
	}
	// Dates ascending, same-date ties by title, dateless last by title.
	assert.Equal(t, []string{"Quiz 1", "Alpha Assignment", "Quiz 2", "Alpha Reading", "Zeta Reading"}, titles)
}

func TestFingerprintSeparatesTypes(t *testing.T) {
	d := day(2026, 2, 10)
	a := dated("Review", "review", model.TypeLecture, d)
	b := dated("Review", "review", model.TypeQuiz, d)
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestMergeEmptyInput(t *testing.T) {
	assert.Empty(t, testEngine().Merge(nil))
}
