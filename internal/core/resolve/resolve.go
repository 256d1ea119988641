// Package resolve turns absolute or relative date hints into concrete
// calendar dates and recurrence rules, using a term anchor for week
// references. It never fabricates a date: anything it cannot resolve
// with confidence comes back unresolved.
package resolve

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/coursecal/coursecal/internal/core/model"
)

// Resolver holds the bounds applied during resolution. The zero value
// is unusable; construct via New.
type Resolver struct {
	DefaultYear  int
	MaxTermWeeks int
}

// New returns a Resolver with the given bounds.
func New(defaultYear, maxTermWeeks int) Resolver {
	return Resolver{DefaultYear: defaultYear, MaxTermWeeks: maxTermWeeks}
}

// Result is the date-related slice of a normalized event.
type Result struct {
	Date       time.Time
	Time       string
	Recurrence *model.Recurrence
	Unresolved bool
}

var (
	weekRe  = regexp.MustCompile(`(?i)\bweek\s*(\d{1,2})\b`)
	untilRe = regexp.MustCompile(`(?i)\buntil\s+(.+?)\s*$`)
	rangeRe = regexp.MustCompile(`\s*[-–—]\s*`)
)

// yearLayouts carry an explicit year; bareLayouts do not and default to
// the anchor year (or the configured default year without an anchor).
var yearLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2 2006",
	"January 2, 2006",
}

var bareLayouts = []string{
	"Jan 2",
	"January 2",
	"01/02",
	"1/2",
}

var clockLayouts = []string{
	"15:04",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
	"15:04:05",
}

// weekdayNames maps weekday names and common abbreviations to their
// two-letter RFC-5545 code.
var weekdayNames = map[string]string{
	"monday": "MO", "mon": "MO",
	"tuesday": "TU", "tue": "TU", "tues": "TU",
	"wednesday": "WE", "wed": "WE",
	"thursday": "TH", "thu": "TH", "thur": "TH", "thurs": "TH",
	"friday": "FR", "fri": "FR",
	"saturday": "SA", "sat": "SA",
	"sunday": "SU", "sun": "SU",
}

var codeToWeekday = map[string]time.Weekday{
	"MO": time.Monday, "TU": time.Tuesday, "WE": time.Wednesday,
	"TH": time.Thursday, "FR": time.Friday, "SA": time.Saturday,
	"SU": time.Sunday,
}

// byDayOrder fixes the canonical ordering of weekday codes so merged
// sets serialize deterministically.
var byDayOrder = map[string]int{
	"MO": 0, "TU": 1, "WE": 2, "TH": 3, "FR": 4, "SA": 5, "SU": 6,
}

// Resolve computes the date, time and recurrence for one raw record.
// The week reference search covers the date hint first and falls back
// to title plus description, matching where extractors tend to leave
// the phrase.
//
// Unresolved is set when a date signal existed but no date could be
// produced. A week reference in the title or description counts as a
// date signal even with an empty date hint, so a "Week 3" phrase that
// cannot be anchored flags the record instead of passing it off as
// dateless. Records with no date signal at all come back with a null
// date and Unresolved false.
func (r Resolver) Resolve(raw model.RawEvent, anchor model.TermAnchor) Result {
	var res Result

	if raw.DateHint != "" {
		if d, ok := r.parseAbsolute(raw.DateHint, anchor); ok {
			res.Date = d
		}
	}

	if res.Date.IsZero() {
		text := raw.DateHint
		if weekRe.FindStringIndex(text) == nil {
			text = raw.Title + " " + raw.Description
		}
		if m := weekRe.FindStringSubmatch(text); m != nil {
			week, _ := strconv.Atoi(m[1])
			if d, ok := r.weekDate(week, weekdayIn(text, anchor), anchor); ok {
				res.Date = d
			} else {
				res.Unresolved = true
			}
		} else if raw.DateHint != "" {
			res.Unresolved = true
		}
	}

	res.Time = ParseClock(raw.TimeHint)
	res.Recurrence = r.recurrence(raw, anchor)

	return res
}

// parseAbsolute tries the accepted date formats. Year-less forms get
// the anchor's year when an anchor exists, else the default year.
func (r Resolver) parseAbsolute(s string, anchor model.TermAnchor) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range yearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return date(t.Year(), t.Month(), t.Day()), true
		}
	}

	year := r.DefaultYear
	if anchor.HasStart() {
		year = anchor.TermStart.Year()
	}
	for _, layout := range bareLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return date(year, t.Month(), t.Day()), true
		}
	}

	return time.Time{}, false
}

// weekDate computes term start + (week-1) weeks, locates the target
// weekday within that week, then skips forward over declared breaks.
func (r Resolver) weekDate(week int, weekday *time.Weekday, anchor model.TermAnchor) (time.Time, bool) {
	if !anchor.HasStart() {
		return time.Time{}, false
	}
	if week < 1 || week > r.MaxTermWeeks {
		return time.Time{}, false
	}

	d := date(anchor.TermStart.Year(), anchor.TermStart.Month(), anchor.TermStart.Day())
	d = d.AddDate(0, 0, (week-1)*7)
	if weekday != nil {
		delta := (int(*weekday) - int(d.Weekday()) + 7) % 7
		d = d.AddDate(0, 0, delta)
	}

	for hops := 0; insideBreak(d, anchor.Breaks); hops++ {
		if hops >= r.MaxTermWeeks {
			return time.Time{}, false
		}
		d = d.AddDate(0, 0, 7)
	}

	return d, true
}

func insideBreak(d time.Time, breaks []model.DateRange) bool {
	for _, b := range breaks {
		if b.Contains(d) {
			return true
		}
	}
	return false
}

// weekdayIn finds the first weekday name mentioned in text, consulting
// the anchor's weekday calendar when it carries one.
func weekdayIn(text string, anchor model.TermAnchor) *time.Weekday {
	low := strings.ToLower(text)
	for _, word := range strings.FieldsFunc(low, func(r rune) bool {
		return !('a' <= r && r <= 'z')
	}) {
		if anchor.Weekdays != nil {
			if wd, ok := anchor.Weekdays[word]; ok {
				return &wd
			}
			continue
		}
		if code, ok := weekdayNames[word]; ok {
			wd := codeToWeekday[code]
			return &wd
		}
	}
	return nil
}

// recurrence builds the recurrence rule from the structured byday list
// when present, otherwise from the free-text hint ("every Monday and
// Wednesday until Dec 5"). A repetition with no recognizable weekday
// yields no recurrence at all.
func (r Resolver) recurrence(raw model.RawEvent, anchor model.TermAnchor) *model.Recurrence {
	byday := normalizeByDay(raw.ByDay)
	untilText := strings.TrimSpace(raw.Until)

	hint := strings.TrimSpace(raw.RecurrenceHint)
	if len(byday) == 0 && hint != "" {
		low := strings.ToLower(hint)
		if strings.Contains(low, "every") || strings.Contains(low, "weekly") || strings.Contains(low, "each") {
			byday = weekdayCodesIn(low)
		}
		if untilText == "" {
			if m := untilRe.FindStringSubmatch(hint); m != nil {
				untilText = m[1]
			}
		}
	}

	if len(byday) == 0 {
		return nil
	}

	rec := &model.Recurrence{ByDay: byday}
	if untilText != "" {
		if d, ok := r.parseAbsolute(untilText, anchor); ok {
			rec.Until = d
		} else {
			rec.UntilUnresolved = true
		}
	}
	return rec
}

// normalizeByDay keeps only valid two-letter codes, removes duplicates
// and sorts into canonical MO..SU order.
func normalizeByDay(byday []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range byday {
		code := strings.ToUpper(strings.TrimSpace(d))
		if _, ok := byDayOrder[code]; !ok || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	SortByDay(out)
	return out
}

func weekdayCodesIn(low string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, word := range strings.FieldsFunc(low, func(r rune) bool {
		return !('a' <= r && r <= 'z')
	}) {
		if code, ok := weekdayNames[word]; ok && !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	SortByDay(out)
	return out
}

// SortByDay orders weekday codes canonically (MO..SU) in place.
func SortByDay(codes []string) {
	sort.Slice(codes, func(i, j int) bool {
		return byDayOrder[codes[i]] < byDayOrder[codes[j]]
	})
}

// ParseClock parses a time-of-day hint into "HH:MM". Ranges keep only
// the start; anything malformed resolves to empty, never a guess.
func ParseClock(hint string) string {
	s := strings.TrimSpace(hint)
	if s == "" {
		return ""
	}
	s = rangeRe.Split(s, 2)[0]
	s = strings.ToUpper(strings.TrimSpace(s))

	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04")
		}
	}
	return ""
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
