// Package normalize canonicalizes raw extracted events: titles via the
// alias table, types via the keyword rule list, weights and description
// sentences via fixed text rules. Every transform is pure and total;
// malformed input degrades to empty/other rather than failing.
package normalize

import (
	"fmt"
	"regexp"

	"github.com/coursecal/coursecal/internal/config"
	"github.com/coursecal/coursecal/internal/core/model"
)

// Normalizer holds the compiled rule tables. It is built once at
// startup and safe for concurrent use.
type Normalizer struct {
	aliases map[string]string
	rules   []classifierRule
}

type classifierRule struct {
	eventType model.EventType
	patterns  []*regexp.Regexp
}

var validTypes = map[model.EventType]bool{
	model.TypeLecture:    true,
	model.TypeAssignment: true,
	model.TypeExam:       true,
	model.TypeQuiz:       true,
	model.TypeLab:        true,
	model.TypeOther:      true,
}

// New compiles the rule tables into a Normalizer. Alias variants are
// keyed by their cleaned form so lookups happen after title cleanup.
func New(rules config.Rules) (*Normalizer, error) {
	n := &Normalizer{aliases: make(map[string]string)}

	for _, alias := range rules.Aliases {
		if alias.Canonical == "" {
			return nil, fmt.Errorf("alias rule with empty canonical title")
		}
		for _, v := range alias.Variants {
			n.aliases[CleanTitle(v)] = alias.Canonical
		}
		// The canonical phrase must map to itself or normalization
		// would not be idempotent.
		n.aliases[CleanTitle(alias.Canonical)] = alias.Canonical
	}

	for _, rule := range rules.Classifier {
		et := model.EventType(rule.Type)
		if !validTypes[et] {
			return nil, fmt.Errorf("classifier rule with unknown type '%s'", rule.Type)
		}
		cr := classifierRule{eventType: et}
		for _, kw := range rule.Keywords {
			re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
			if err != nil {
				return nil, fmt.Errorf("failed to compile keyword '%s': %w", kw, err)
			}
			cr.patterns = append(cr.patterns, re)
		}
		n.rules = append(n.rules, cr)
	}

	return n, nil
}

// Classify maps free-form type text to a fixed category. Fields are
// consulted in priority order (type hint, title, description) and
// within each field the rule list is evaluated in order; the first
// matching rule wins. No signal at all yields TypeOther.
func (n *Normalizer) Classify(typeHint, title, description string) model.EventType {
	// A hint that is already a valid category token is taken as-is.
	// "other" is not trusted: the title may still carry a signal.
	if et := model.EventType(typeHint); validTypes[et] && et != model.TypeOther {
		return et
	}

	for _, field := range []string{typeHint, title, description} {
		if field == "" {
			continue
		}
		for _, rule := range n.rules {
			for _, re := range rule.patterns {
				if re.MatchString(field) {
					return rule.eventType
				}
			}
		}
	}
	return model.TypeOther
}

// Event applies title normalization, classification, weight extraction
// and sentence splitting to one raw record. Date, time and recurrence
// are filled in separately by the resolver. A record with a missing
// title is still normalized with empty-string fallbacks; nothing is
// dropped here.
func (n *Normalizer) Event(raw model.RawEvent) model.NormalizedEvent {
	canonical, clean := n.titleParts(raw.Title)

	return model.NormalizedEvent{
		CanonicalTitle: canonical,
		CleanTitle:     clean,
		Type:           n.Classify(raw.TypeHint, raw.Title, raw.Description),
		Sentences:      DedupSentences(SplitSentences(raw.Description)),
		Weight:         ExtractWeight(raw.WeightHint, raw.Description),
	}
}
