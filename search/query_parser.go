package search

import (
	"regexp"
	"slices"
	"strings"
)

// ParsedQuery is a raw search string split into free text and the
// categories recognised in it.
type ParsedQuery struct {
	TextQuery       string   `json:"text_query"`
	CategoryFilters []string `json:"category_filters"`
}

type synonymMatcher struct {
	category string
	synonym  string
	pattern  *regexp.Regexp
}

var (
	synonymMatchers = buildSynonymMatchers()
	spacePattern    = regexp.MustCompile(`\s+`)
)

// buildSynonymMatchers flattens the synonym table, longest synonym first and
// alphabetical on ties, so "modern art" is consumed before "art".
func buildSynonymMatchers() []synonymMatcher {
	var matchers []synonymMatcher
	for category, synonyms := range categorySynonyms {
		for _, synonym := range synonyms {
			term := strings.ToLower(strings.TrimSpace(synonym))
			if term == "" {
				continue
			}
			matchers = append(matchers, synonymMatcher{
				category: category,
				synonym:  term,
				pattern:  regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`),
			})
		}
	}
	slices.SortFunc(matchers, func(a, b synonymMatcher) int {
		if len(a.synonym) != len(b.synonym) {
			return len(b.synonym) - len(a.synonym)
		}
		return strings.Compare(a.synonym, b.synonym)
	})
	return matchers
}

// ParseQuery strips category words out of raw and returns what remains as
// whitespace-normalized free text, plus the matched categories in canonical
// order. Removing a word can join its neighbours into another synonym, so
// passes repeat until none matches; parsing the returned text again finds
// nothing more.
func ParseQuery(raw string) ParsedQuery {
	working := collapseSpaces(raw)
	seen := make(map[string]struct{})
	var categories []string

	for matched := true; matched; {
		matched = false
		for _, m := range synonymMatchers {
			if !m.pattern.MatchString(working) {
				continue
			}
			working = collapseSpaces(m.pattern.ReplaceAllString(working, " "))
			matched = true
			if _, ok := seen[m.category]; !ok {
				seen[m.category] = struct{}{}
				categories = append(categories, m.category)
			}
		}
	}

	SortCategories(categories)
	return ParsedQuery{
		TextQuery:       working,
		CategoryFilters: categories,
	}
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}
