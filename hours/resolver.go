package hours

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultScheduleCacheSize = 512

// TextSource looks up the curated opening hours text for a museum.
type TextSource interface {
	OpeningHours(slug string) (Text, bool)
}

type cachedSchedule struct {
	sourceKey string
	schedule  *WeeklySchedule
}

// Resolver builds weekly schedules per museum and keeps them in an LRU cache
// keyed by slug. An entry is rebuilt when the source text behind it changes.
type Resolver struct {
	texts TextSource
	cache *lru.Cache[string, cachedSchedule]
}

func NewResolver(texts TextSource, size int) (*Resolver, error) {
	if size <= 0 {
		size = DefaultScheduleCacheSize
	}
	cache, err := lru.New[string, cachedSchedule](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule cache: %w", err)
	}
	return &Resolver{texts: texts, cache: cache}, nil
}

// Schedule returns the weekly schedule for slug. Candidates are tried in
// order: curated English text, curated Dutch text, then fallback (usually
// the row's own opening hours column). The first one that parses wins.
func (r *Resolver) Schedule(slug, fallback string) *WeeklySchedule {
	candidates := r.candidates(slug, fallback)
	key := strings.Join(candidates, "\x00")

	if slug != "" {
		if cached, ok := r.cache.Get(slug); ok && cached.sourceKey == key {
			return cached.schedule
		}
	}

	var schedule *WeeklySchedule
	for _, text := range candidates {
		if schedule = ParseSchedule(text); schedule != nil {
			break
		}
	}

	if slug != "" {
		r.cache.Add(slug, cachedSchedule{sourceKey: key, schedule: schedule})
	}
	return schedule
}

// Availability resolves the schedule for slug at now.
func (r *Resolver) Availability(slug, fallback string, now Moment) Availability {
	return Resolve(r.Schedule(slug, fallback), now)
}

// Len reports the number of cached schedules.
func (r *Resolver) Len() int {
	return r.cache.Len()
}

func (r *Resolver) candidates(slug, fallback string) []string {
	var out []string
	if r.texts != nil && slug != "" {
		if text, ok := r.texts.OpeningHours(slug); ok {
			out = appendNonEmpty(out, text.EN)
			out = appendNonEmpty(out, text.NL)
		}
	}
	return appendNonEmpty(out, fallback)
}

func appendNonEmpty(list []string, value string) []string {
	if strings.TrimSpace(value) == "" {
		return list
	}
	return append(list, value)
}
