package services

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"museum-buddy/models/museum"
)

// FeaturedRanker knows the position of a museum in the featured list.
type FeaturedRanker interface {
	FeaturedRank(slug string) (int, bool)
}

// SortFeatured puts featured museums first in list order, then sorts the
// rest by name with Dutch collation.
func SortFeatured(list []museum.Entity, ranker FeaturedRanker) []museum.Entity {
	out := slices.Clone(list)
	collator := collate.New(language.Dutch, collate.IgnoreCase)
	slices.SortStableFunc(out, func(a, b museum.Entity) int {
		aRank, aFeatured := ranker.FeaturedRank(a.Slug)
		bRank, bFeatured := ranker.FeaturedRank(b.Slug)
		switch {
		case aFeatured && bFeatured:
			return aRank - bRank
		case aFeatured:
			return -1
		case bFeatured:
			return 1
		}
		return collator.CompareString(a.Name, b.Name)
	})
	return out
}

// SortByDistance orders list by ascending distance. Museums without a
// distance go last; ties are broken by name.
func SortByDistance(list []museum.Entity) []museum.Entity {
	out := slices.Clone(list)
	collator := collate.New(language.Dutch, collate.IgnoreCase)
	slices.SortStableFunc(out, func(a, b museum.Entity) int {
		switch {
		case a.DistanceMeters == nil && b.DistanceMeters == nil:
		case a.DistanceMeters == nil:
			return 1
		case b.DistanceMeters == nil:
			return -1
		case *a.DistanceMeters < *b.DistanceMeters:
			return -1
		case *a.DistanceMeters > *b.DistanceMeters:
			return 1
		}
		return collator.CompareString(a.Name, b.Name)
	})
	return out
}
