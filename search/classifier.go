package search

import (
	"regexp"
	"strings"
)

// Summary is the short description of a museum in both site languages.
type Summary struct {
	EN string `json:"en" yaml:"en"`
	NL string `json:"nl" yaml:"nl"`
}

// SummarySource looks up a museum's summary by slug.
type SummarySource interface {
	Summary(slug string) (Summary, bool)
}

type keywordRule struct {
	category string
	patterns []*regexp.Regexp
}

func rule(category string, expressions ...string) keywordRule {
	r := keywordRule{category: category}
	for _, expr := range expressions {
		r.patterns = append(r.patterns, regexp.MustCompile(expr))
	}
	return r
}

// keywordRules run against the folded slug and summaries.
var keywordRules = []keywordRule{
	rule(CategoryScience, `\bscien`, `wetenschap`, `technolog`, `microb`, `human body`, `menselijk lichaam`),
	rule(CategoryHistory, `histor`, `geschiedenis`, `erfgoed`, `heritage`, `archa?eolog`, `\b1[6-9](th|e)[- ]`),
	rule(CategoryArt, `\barts?\b`, `kunst`, `painting`, `painter`, `schilder`),
	rule(CategoryModernArt, `\bmodern`, `contemporary`, `hedendaags`, `digital art`, `digitale kunst`, `street art`, `graffiti`),
	rule(CategoryPhotography, `photograph`, `fotograf`),
	rule(CategoryArchitecture, `architect`, `bouwkunst`),
	rule(CategoryMaritime, `maritie?m`, `seafaring`, `zeevaart`, `scheepvaart`, `houseboat`, `woonbo[ao]t`),
	rule(CategoryCulture, `cultur`, `cultuur`, `ethnograph`, `etnograf`),
	rule(CategoryReligion, `church`, `kerk`, `relig`, `jewish`, `joods`),
	rule(CategoryFilm, `\bfilm`, `cinema`, `bioscoop`),
}

// Classifier assigns category tags to museums from a curated override table
// and keyword rules over each museum's slug and summaries. It never touches
// the network and returns the same tags for the same input.
type Classifier struct {
	overrides map[string][]string
	summaries SummarySource
}

func NewClassifier(overrides map[string][]string, summaries SummarySource) *Classifier {
	normalized := make(map[string][]string, len(overrides))
	for slug, categories := range overrides {
		normalized[strings.ToLower(slug)] = categories
	}
	return &Classifier{overrides: normalized, summaries: summaries}
}

// Classify returns the categories for slug in canonical order.
func (c *Classifier) Classify(slug string) []string {
	key := strings.ToLower(strings.TrimSpace(slug))
	if key == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var categories []string
	add := func(category string) {
		if _, ok := seen[category]; ok {
			return
		}
		seen[category] = struct{}{}
		categories = append(categories, category)
	}

	for _, category := range c.overrides[key] {
		add(category)
	}

	haystack := c.haystack(key)
	for _, r := range keywordRules {
		if _, ok := seen[r.category]; ok {
			continue
		}
		for _, p := range r.patterns {
			if p.MatchString(haystack) {
				add(r.category)
				break
			}
		}
	}

	SortCategories(categories)
	return categories
}

func (c *Classifier) haystack(slug string) string {
	parts := []string{strings.ReplaceAll(slug, "-", " ")}
	if c.summaries != nil {
		if summary, ok := c.summaries.Summary(slug); ok {
			parts = append(parts, summary.EN, summary.NL)
		}
	}
	return Fold(strings.Join(parts, " "))
}
