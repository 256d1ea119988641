package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AliasRule maps known variant phrasings of a title (in cleaned,
// lowercase form) to one canonical display title.
type AliasRule struct {
	Canonical string   `yaml:"canonical"`
	Variants  []string `yaml:"variants"`
}

// ClassifierRule assigns an event type when any of its keywords appears
// as a whole word. Rules are evaluated in list order; the first match
// wins, so more specific rules belong earlier.
type ClassifierRule struct {
	Type     string   `yaml:"type"`
	Keywords []string `yaml:"keywords"`
}

// Rules bundles the static tables the normalizer runs on. They are
// loaded once at startup and never mutated afterwards.
type Rules struct {
	Aliases    []AliasRule      `yaml:"aliases"`
	Classifier []ClassifierRule `yaml:"classifier"`
}

// DefaultRules returns the built-in alias and classifier tables.
func DefaultRules() Rules {
	return Rules{
		Aliases: []AliasRule{
			{Canonical: "Midterm 1", Variants: []string{"midterm 1", "midterm exam 1", "midterm examination 1", "midterm test 1", "1 midterm"}},
			{Canonical: "Midterm 2", Variants: []string{"midterm 2", "midterm exam 2", "midterm examination 2", "midterm test 2", "2 midterm"}},
			{Canonical: "Midterm", Variants: []string{"midterm", "midterm exam", "midterm examination", "midterm test"}},
			{Canonical: "Final Exam", Variants: []string{"final", "final exam", "final examination"}},
			{Canonical: "Final Report", Variants: []string{"final report", "final project", "group final report", "final group project"}},
		},
		Classifier: []ClassifierRule{
			{Type: "quiz", Keywords: []string{"quiz"}},
			{Type: "exam", Keywords: []string{"midterm", "final exam", "final examination", "exam", "test"}},
			{Type: "assignment", Keywords: []string{"assignment", "homework", "problem set", "project due", "project", "report", "essay", "deliverable"}},
			{Type: "lab", Keywords: []string{"lab", "laboratory"}},
			{Type: "lecture", Keywords: []string{"lecture", "class", "seminar"}},
			// Bare "final" last so that "Final Report" stays an
			// assignment while a lone "Final" is still an exam.
			{Type: "exam", Keywords: []string{"final"}},
		},
	}
}

// LoadRules reads a YAML rules file. Empty sections fall back to the
// built-in tables so a file may override just one of them.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file '%s': %w", path, err)
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules YAML: %w", err)
	}

	defaults := DefaultRules()
	if len(rules.Aliases) == 0 {
		rules.Aliases = defaults.Aliases
	}
	if len(rules.Classifier) == 0 {
		rules.Classifier = defaults.Classifier
	}

	return rules, nil
}
