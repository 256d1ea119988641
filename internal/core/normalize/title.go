package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	parenRe    = regexp.MustCompile(`\([^)]*\)`)
	noNumRe    = regexp.MustCompile(`\bno\.?\s*(\d+)`)
	hashNumRe  = regexp.MustCompile(`#\s*(\d+)`)
	ordinalRe  = regexp.MustCompile(`\b(\d+)(?:st|nd|rd|th)\b`)
	dueRe      = regexp.MustCompile(`\bdue\b`)
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]`)
	spaceRe    = regexp.MustCompile(`\s+`)

	numberWordRe = regexp.MustCompile(`\b(one|two|three|four|five|six|seven|eight|nine|ten|first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth)\b`)
)

var numberWords = map[string]string{
	"one": "1", "two": "2", "three": "3", "four": "4", "five": "5",
	"six": "6", "seven": "7", "eight": "8", "nine": "9", "ten": "10",
	"first": "1", "second": "2", "third": "3", "fourth": "4", "fifth": "5",
	"sixth": "6", "seventh": "7", "eighth": "8", "ninth": "9", "tenth": "10",
}

// CleanTitle applies the mechanical cleanup steps that precede the
// alias table: case folding, parenthetical and symbol-noise removal,
// spelled-out number conversion, whitespace collapsing.
func CleanTitle(raw string) string {
	s := strings.ToLower(raw)
	s = parenRe.ReplaceAllString(s, " ")
	s = noNumRe.ReplaceAllString(s, " $1")
	s = hashNumRe.ReplaceAllString(s, " $1")
	s = ordinalRe.ReplaceAllString(s, "$1")
	s = numberWordRe.ReplaceAllStringFunc(s, func(w string) string {
		return numberWords[w]
	})
	s = dueRe.ReplaceAllString(s, " ")
	s = nonAlnumRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Title canonicalizes a free-form event title. If the cleaned form is
// listed in the alias table the canonical phrase is returned; otherwise
// the cleaned string itself, title-cased. Always returns a string and
// is idempotent.
func (n *Normalizer) Title(raw string) string {
	canonical, _ := n.titleParts(raw)
	return canonical
}

// titleParts returns the canonical title together with the cleaned
// pre-alias form the merge engine compares.
func (n *Normalizer) titleParts(raw string) (canonical, clean string) {
	clean = CleanTitle(raw)
	if alias, ok := n.aliases[clean]; ok {
		return alias, clean
	}
	return cases.Title(language.English).String(clean), clean
}
