package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/coursecal/coursecal/internal/core/model"
)

func TestDetectAnchor(t *testing.T) {
	events := []model.RawEvent{
		{Title: "Week 1: Introduction"},
		{Title: "Classes start", DateHint: "Jan 5, 2026"},
	}
	anchor := DetectAnchor(events, 2026)
	assert.True(t, anchor.HasStart())
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), anchor.TermStart)
}

func TestDetectAnchorYearlessDate(t *testing.T) {
	events := []model.RawEvent{
		{Title: "First day of classes", DateHint: "Jan 5"},
	}
	anchor := DetectAnchor(events, 2026)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), anchor.TermStart)
}

func TestDetectAnchorFromDescription(t *testing.T) {
	events := []model.RawEvent{
		{Title: "Important dates", DateHint: "2026-01-05", Description: "Term begins, add/drop opens."},
	}
	anchor := DetectAnchor(events, 2026)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), anchor.TermStart)
}

func TestDetectAnchorEarliestWins(t *testing.T) {
	events := []model.RawEvent{
		{Title: "Classes begin", DateHint: "2026-01-12"},
		{Title: "Week 1 begins", DateHint: "2026-01-05"},
	}
	anchor := DetectAnchor(events, 2026)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), anchor.TermStart)
}

func TestDetectAnchorNoMatch(t *testing.T) {
	events := []model.RawEvent{
		{Title: "Midterm 1", DateHint: "Feb 10"},
		{Title: "Classes start"}, // phrase without a parseable date
	}
	anchor := DetectAnchor(events, 2026)
	assert.False(t, anchor.HasStart())
}
