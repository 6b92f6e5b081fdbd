package services

import (
	"log"
	"strings"
	"sync"
	"time"

	"museum-buddy/filters"
)

// Navigator writes the canonical query string. Implementations replace
// the current history entry and keep the scroll position. The resulting
// URL change is reported back through OnURLChange, never from inside Replace.
type Navigator interface {
	Replace(rawQuery string) error
}

// FilterStateSync keeps the filter state and the URL query string in step.
// Local changes are written to the URL and searched; URL changes made by
// anyone else are read back into the state.
type FilterStateSync struct {
	mu       sync.Mutex
	state    filters.State
	current  string
	skipNext bool
	latest   *Outcome

	nav      Navigator
	runner   *SearchRunner
	onResult OutcomeHandler
}

// NewFilterStateSync starts from the state in rawQuery. onResult may be nil.
func NewFilterStateSync(rawQuery string, nav Navigator, search SearchFunc, delay time.Duration, onResult OutcomeHandler) *FilterStateSync {
	f := &FilterStateSync{
		state:    filters.Decode(rawQuery),
		current:  strings.TrimPrefix(rawQuery, "?"),
		nav:      nav,
		onResult: onResult,
	}
	f.runner = NewSearchRunner(search, delay, f.deliver)
	return f
}

// State returns the canonical state.
func (f *FilterStateSync) State() filters.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Latest returns the most recent delivered outcome.
func (f *FilterStateSync) Latest() (Outcome, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.latest == nil {
		return Outcome{}, false
	}
	return *f.latest, true
}

// Start schedules the first search for the initial state.
func (f *FilterStateSync) Start() uint64 {
	return f.runner.Schedule(f.State())
}

// Apply makes state canonical, writes it to the URL and schedules a search.
func (f *FilterStateSync) Apply(state filters.State) uint64 {
	state = state.Normalize()

	f.mu.Lock()
	f.state = state
	f.writeURL(state)
	f.mu.Unlock()

	return f.runner.Schedule(state)
}

// Update applies change to a copy of the current state.
func (f *FilterStateSync) Update(change func(*filters.State)) uint64 {
	state := f.State()
	change(&state)
	return f.Apply(state)
}

// Reset returns to the default state.
func (f *FilterStateSync) Reset() uint64 {
	return f.Apply(filters.Default())
}

// OnURLChange reports a new query string. The change the controller wrote
// itself is consumed by the guard; any other change replaces the state.
func (f *FilterStateSync) OnURLChange(rawQuery string) (uint64, bool) {
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	f.mu.Lock()
	if f.skipNext {
		f.skipNext = false
		f.current = rawQuery
		f.mu.Unlock()
		return 0, false
	}
	f.current = rawQuery
	f.state = filters.Decode(rawQuery)
	state := f.state
	f.mu.Unlock()

	return f.runner.Schedule(state), true
}

// Stop cancels pending searches.
func (f *FilterStateSync) Stop() {
	f.runner.Stop()
}

// writeURL replaces the URL when it differs from state. Callers hold f.mu.
func (f *FilterStateSync) writeURL(state filters.State) {
	target := filters.Encode(state)
	if target == f.current {
		return
	}
	if err := f.nav.Replace(target); err != nil {
		log.Printf("[FilterStateSync] Failed to replace URL: %v", err)
		return
	}
	f.current = target
	f.skipNext = true
}

// deliver runs under the runner lock. A run for a state that has since been
// replaced is dropped; its successor is already scheduled. A run that had to
// drop nearby turns the facet off without searching again.
func (f *FilterStateSync) deliver(o Outcome) {
	f.mu.Lock()
	if o.State.Normalize() != f.state.Normalize() {
		f.mu.Unlock()
		log.Printf("[FilterStateSync] Dropping result of generation %d for a replaced state", o.Generation)
		return
	}
	if o.Result.NearbyDisabled && f.state.Nearby {
		f.state.Nearby = false
		o.State.Nearby = false
		f.writeURL(f.state)
	}
	f.latest = &o
	f.mu.Unlock()

	if f.onResult != nil {
		f.onResult(o)
	}
}
