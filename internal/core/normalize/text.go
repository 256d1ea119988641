package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	weightRe      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:%|percent\b)`)
	sentenceKeyRe = regexp.MustCompile(`[^a-z0-9%: ]`)
)

// ExtractWeight pulls the first percentage value out of the weight hint,
// falling back to the description. Values outside (0, 100] are treated
// as noise and yield nil.
func ExtractWeight(hint, description string) *float64 {
	for _, text := range []string{hint, description} {
		if text == "" {
			continue
		}
		m := weightRe.FindStringSubmatch(strings.ToLower(text))
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v <= 0 || v > 100 {
			continue
		}
		return &v
	}
	return nil
}

// SplitSentences splits text on sentence boundaries: '.', '!' or '?'
// followed by whitespace. Empty fragments are dropped.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var out []string
	var b strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		b.WriteRune(runes[i])
		if isSentenceEnd(runes[i]) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			if s := strings.TrimSpace(b.String()); s != "" {
				out = append(out, s)
			}
			b.Reset()
			// Skip the whitespace run after the boundary.
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
			}
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// SentenceKey is the case-insensitive comparison key used when
// de-duplicating description sentences. Percent signs and colons
// survive so "Worth 10%" and "Worth 10" stay distinct.
func SentenceKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = spaceRe.ReplaceAllString(s, " ")
	return sentenceKeyRe.ReplaceAllString(s, "")
}

// DedupSentences removes case-insensitive duplicates while preserving
// first-seen order.
func DedupSentences(sentences []string) []string {
	if len(sentences) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(sentences))
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		key := SentenceKey(s)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
