package search

import (
	"slices"
	"strings"
)

// Canonical category identifiers.
const (
	CategoryExhibition   = "exhibition"
	CategoryScience      = "science"
	CategoryHistory      = "history"
	CategoryArt          = "art"
	CategoryModernArt    = "modern-art"
	CategoryPhotography  = "photography"
	CategoryArchitecture = "architecture"
	CategoryMaritime     = "maritime"
	CategoryCulture      = "culture"
	CategoryReligion     = "religion"
	CategoryFilm         = "film"
)

// CategoryOrder is the display and sort order of known categories.
var CategoryOrder = []string{
	CategoryExhibition,
	CategoryScience,
	CategoryHistory,
	CategoryArt,
	CategoryModernArt,
	CategoryPhotography,
	CategoryArchitecture,
	CategoryMaritime,
	CategoryCulture,
	CategoryReligion,
	CategoryFilm,
}

var categoryRank = func() map[string]int {
	rank := make(map[string]int, len(CategoryOrder))
	for i, c := range CategoryOrder {
		rank[c] = i
	}
	return rank
}()

// SortCategories orders categories by CategoryOrder in place. Unknown
// categories go last, alphabetically.
func SortCategories(categories []string) {
	slices.SortStableFunc(categories, func(a, b string) int {
		ra, okA := categoryRank[a]
		rb, okB := categoryRank[b]
		switch {
		case okA && okB:
			return ra - rb
		case okA:
			return -1
		case okB:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})
}
