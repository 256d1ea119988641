package extraction

import (
	"regexp"
	"strings"
	"time"

	"github.com/coursecal/coursecal/internal/core/model"
)

// anchorPatterns match phrases that announce the first week of term.
var anchorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bclasses start\b`),
	regexp.MustCompile(`(?i)\bclass(es)? begin\b`),
	regexp.MustCompile(`(?i)\bfirst day of classes\b`),
	regexp.MustCompile(`(?i)\bterm begins\b`),
	regexp.MustCompile(`(?i)\bweek\s*1\b.*\bbegins\b`),
	regexp.MustCompile(`(?i)\bweek\s*1\b.*\bstarts\b`),
}

var anchorDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// DetectAnchor scans extracted records for a "classes start" style
// phrase and uses the earliest parseable date as the term start. No
// match yields an anchorless TermAnchor: relative dates then stay
// unresolved rather than being guessed.
func DetectAnchor(events []model.RawEvent, defaultYear int) model.TermAnchor {
	var best time.Time

	for _, ev := range events {
		hay := ev.Title + " " + ev.Description
		if !matchesAnchorPhrase(hay) {
			continue
		}
		d, ok := parseAnchorDate(ev.DateHint, defaultYear)
		if !ok {
			continue
		}
		if best.IsZero() || d.Before(best) {
			best = d
		}
	}

	return model.TermAnchor{TermStart: best}
}

func matchesAnchorPhrase(s string) bool {
	for _, re := range anchorPatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func parseAnchorDate(s string, defaultYear int) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range anchorDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	// Year-less forms take the default year.
	for _, layout := range []string{"Jan 2", "January 2", "01/02", "1/2"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(defaultYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
