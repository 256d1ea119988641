package extraction

import (
	"regexp"
	"strings"

	"github.com/coursecal/coursecal/internal/core/model"
)

// policyKeywords mark records that are almost certainly syllabus policy
// or admin text rather than calendar events.
var policyKeywords = []string{
	"academic integrity", "integrity", "misconduct", "plagiarism",
	"use of generative ai", "generative ai", "ai policy",
	"policy", "policies", "guidelines", "participation", "expectations",
	"office hours", "contact", "email", "instructor",
	"learning outcomes", "outcomes", "resources", "textbook", "reading list",
}

// importantKeywords rescue institutional deadlines that would otherwise
// trip the policy filter.
var importantKeywords = []string{
	"drop", "withdraw", "add", "last day", "reading week", "no class",
	"holiday", "course evaluation", "course eval", "exam period",
}

var (
	weekTopicRe = regexp.MustCompile(`(?i)^week\s*\d+`)
	weekRefRe   = regexp.MustCompile(`(?i)\bweek\s*\d`)
)

// Filter keeps only schedulable records: anything with a date hint, a
// week reference, or a recurrence survives; bare weekly-topic rows and
// policy text do not. Runs before the core pipeline, so the no-loss
// invariant applies to what it lets through.
func Filter(events []model.RawEvent) []model.RawEvent {
	kept := make([]model.RawEvent, 0, len(events))
	for _, ev := range events {
		if !schedulable(ev) {
			continue
		}
		if isWeekTopic(ev) {
			continue
		}
		if isPolicyText(ev) {
			continue
		}
		kept = append(kept, ev)
	}
	return kept
}

func schedulable(ev model.RawEvent) bool {
	if strings.TrimSpace(ev.DateHint) != "" {
		return true
	}
	if ev.RecurrenceHint != "" && (len(ev.ByDay) > 0 || mentionsWeekday(ev.RecurrenceHint)) {
		return true
	}
	// A week reference in the title or description is still a date.
	return weekRefRe.MatchString(ev.Title + " " + ev.Description)
}

// isWeekTopic drops untyped "Week N: Topic" schedule rows; the topic is
// not an event.
func isWeekTopic(ev model.RawEvent) bool {
	if ev.TypeHint != "" && ev.TypeHint != "other" {
		return false
	}
	return weekTopicRe.MatchString(strings.TrimSpace(ev.Title))
}

func isPolicyText(ev model.RawEvent) bool {
	blob := strings.ToLower(ev.Title + " " + ev.Description)
	policy := false
	for _, k := range policyKeywords {
		if strings.Contains(blob, k) {
			policy = true
			break
		}
	}
	if !policy {
		return false
	}
	for _, k := range importantKeywords {
		if strings.Contains(blob, k) {
			return false
		}
	}
	return true
}

func mentionsWeekday(s string) bool {
	low := strings.ToLower(s)
	for _, day := range []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"} {
		if strings.Contains(low, day) {
			return true
		}
	}
	return false
}
