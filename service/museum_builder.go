package services

import (
	"museum-buddy/hours"
	"museum-buddy/models/museum"
	"museum-buddy/models/row"
	"museum-buddy/search"
)

// Curation is the hand-maintained museum metadata the pipeline consults.
type Curation interface {
	museum.KidFriendlyList
	FeaturedRanker
	IsExcluded(slug string) bool
}

// MuseumBuilder turns raw musea rows into enriched entities.
type MuseumBuilder struct {
	curation   Curation
	classifier *search.Classifier
	resolver   *hours.Resolver
	probes     []museum.KidFriendlyProbe
}

func NewMuseumBuilder(curation Curation, classifier *search.Classifier, resolver *hours.Resolver) *MuseumBuilder {
	return &MuseumBuilder{
		curation:   curation,
		classifier: classifier,
		resolver:   resolver,
		probes:     museum.KidFriendlyProbes(curation),
	}
}

// Entities normalizes rows, drops excluded museums and attaches categories.
func (b *MuseumBuilder) Entities(rows []row.Row) []museum.Entity {
	out := make([]museum.Entity, 0, len(rows))
	for _, r := range rows {
		if r == nil {
			continue
		}
		e := museum.FromRow(r, b.probes)
		if b.curation.IsExcluded(e.Slug) {
			continue
		}
		out = append(out, e.WithCategories(b.classifier.Classify(e.Slug)))
	}
	return out
}

// Availability resolves e's opening hours at now.
func (b *MuseumBuilder) Availability(e museum.Entity, now hours.Moment) hours.Availability {
	return b.resolver.Availability(e.Slug, e.HoursText, now)
}

// WithAvailability returns copies of list carrying availability at now.
func (b *MuseumBuilder) WithAvailability(list []museum.Entity, now hours.Moment) []museum.Entity {
	out := make([]museum.Entity, 0, len(list))
	for _, e := range list {
		out = append(out, e.WithAvailability(b.Availability(e, now)))
	}
	return out
}

// IsExcluded reports whether slug must never be shown.
func (b *MuseumBuilder) IsExcluded(slug string) bool {
	return b.curation.IsExcluded(slug)
}

// SortFeatured orders list with the builder's featured list.
func (b *MuseumBuilder) SortFeatured(list []museum.Entity) []museum.Entity {
	return SortFeatured(list, b.curation)
}
