// Package skills reports which terms of a fixed technical vocabulary appear in
// normalized resume text.
package skills

import (
	"strings"

	"github.com/okian/cvrole/internal/domain/model"
	"github.com/okian/cvrole/internal/domain/textnorm"
)

// DefaultVocabulary is used when no vocabulary is configured. Terms are
// already in normalized form. Short ambiguous names ("go", "r", "c") are left
// out because matching is substring based.
var DefaultVocabulary = []string{
	"python",
	"java",
	"javascript",
	"typescript",
	"golang",
	"react",
	"angular",
	"node",
	"sql",
	"postgresql",
	"mongodb",
	"html",
	"css",
	"aws",
	"azure",
	"docker",
	"kubernetes",
	"linux",
	"git",
	"machine learning",
	"deep learning",
	"tensorflow",
	"pytorch",
	"pandas",
	"numpy",
	"spark",
	"tableau",
	"excel",
	"django",
	"spring",
}

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithVocabulary replaces the vocabulary. Terms are normalized; empty and
// duplicate terms are dropped. An empty list keeps the current vocabulary.
func WithVocabulary(terms []string) Option {
	return func(m *Matcher) {
		if len(terms) > 0 {
			m.vocabulary = buildVocabulary(terms)
		}
	}
}

// Matcher scans normalized text for vocabulary terms. It is immutable after
// construction and safe for concurrent use.
type Matcher struct {
	vocabulary []string
}

// NewMatcher creates a matcher with the default vocabulary unless overridden.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{vocabulary: buildVocabulary(DefaultVocabulary)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Vocabulary returns a copy of the terms in match order.
func (m *Matcher) Vocabulary() []string {
	out := make([]string, len(m.vocabulary))
	copy(out, m.vocabulary)
	return out
}

// Match returns the report for text, which must already be normalized.
// Matching is an exact substring test, so "java" also matches inside
// "javascript". The returned report is never nil.
func (m *Matcher) Match(text string) *model.SkillReport {
	report := &model.SkillReport{
		Matches:        make(map[string]int),
		Matched:        []string{},
		VocabularySize: len(m.vocabulary),
	}
	for _, term := range m.vocabulary {
		if strings.Contains(text, term) {
			report.Matches[term] = 1
			report.Matched = append(report.Matched, term)
		}
	}
	if report.VocabularySize > 0 {
		report.Percentage = 100 * float64(len(report.Matched)) / float64(report.VocabularySize)
	}
	return report
}

func buildVocabulary(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		n := textnorm.Normalize(t)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
