package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecal/coursecal/internal/core/model"
)

func TestFilterKeepsSchedulable(t *testing.T) {
	events := []model.RawEvent{
		{Title: "Midterm 1", DateHint: "Feb 10"},
		{Title: "Lecture", RecurrenceHint: "every Monday"},
		{Title: "Quiz", Description: "In class during week 4."},
	}
	assert.Len(t, Filter(events), 3)
}

func TestFilterDropsUnschedulable(t *testing.T) {
	events := []model.RawEvent{
		{Title: "Group Project", Description: "Details to be announced."},
		{Title: "Lecture", RecurrenceHint: "WEEKLY"},
	}
	assert.Empty(t, Filter(events))
}

func TestFilterDropsWeekTopicRows(t *testing.T) {
	events := []model.RawEvent{
		{Title: "Week 3: Sorting Algorithms"},
		{Title: "Week 4 Quiz", TypeHint: "quiz", DateHint: "Week 4"},
	}
	kept := Filter(events)
	require.Len(t, kept, 1)
	assert.Equal(t, "Week 4 Quiz", kept[0].Title)
}

func TestFilterDropsPolicyText(t *testing.T) {
	events := []model.RawEvent{
		{Title: "Academic Integrity", DateHint: "Week 1", Description: "Plagiarism will be reported."},
		{Title: "Office Hours", DateHint: "every Tuesday"},
	}
	assert.Empty(t, Filter(events))
}

func TestFilterKeepsImportantDeadlines(t *testing.T) {
	// Institutional deadlines survive even when policy words appear.
	events := []model.RawEvent{
		{Title: "Last day to drop without penalty", DateHint: "Mar 13", Description: "See the registrar policies page."},
		{Title: "Reading week", DateHint: "Feb 16", Description: "No class per university policy."},
	}
	assert.Len(t, Filter(events), 2)
}
