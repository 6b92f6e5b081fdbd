package services

import (
	"context"
	"log"
	"sync"
	"time"

	"museum-buddy/filters"
)

// DefaultDebounce delays runs for any non-default filter state.
const DefaultDebounce = 200 * time.Millisecond

// SearchFunc runs one search for a state.
type SearchFunc func(ctx context.Context, state filters.State) (Result, error)

// Outcome is a delivered search result.
type Outcome struct {
	Generation uint64
	State      filters.State
	Result     Result
	Err        error
}

// OutcomeHandler receives outcomes of the latest generation only. It is
// called with the runner locked and must not call back into the runner.
type OutcomeHandler func(Outcome)

// SearchRunner debounces searches. Every Schedule supersedes the previous
// one: its timer is stopped, its context cancelled and its result dropped.
type SearchRunner struct {
	mu         sync.Mutex
	generation uint64
	timer      *time.Timer
	cancel     context.CancelFunc

	search  SearchFunc
	delay   time.Duration
	handler OutcomeHandler
}

func NewSearchRunner(search SearchFunc, delay time.Duration, handler OutcomeHandler) *SearchRunner {
	return &SearchRunner{search: search, delay: delay, handler: handler}
}

// DebounceDelay is the wait before running state: none for the default
// state, delay otherwise.
func DebounceDelay(state filters.State, delay time.Duration) time.Duration {
	if state.IsDefault() {
		return 0
	}
	return delay
}

// Schedule queues a run for state and returns its generation.
func (r *SearchRunner) Schedule(state filters.State) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.supersede()
	r.generation++
	gen := r.generation

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.timer = time.AfterFunc(DebounceDelay(state, r.delay), func() {
		r.run(ctx, gen, state)
	})
	return gen
}

// Stop cancels any pending or running search.
func (r *SearchRunner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.supersede()
	r.generation++
}

// Generation returns the generation of the latest schedule.
func (r *SearchRunner) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

func (r *SearchRunner) supersede() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *SearchRunner) run(ctx context.Context, gen uint64, state filters.State) {
	res, err := r.search(ctx, state)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation || ctx.Err() != nil {
		log.Printf("[SearchRunner] Discarding stale result of generation %d", gen)
		return
	}
	if r.handler != nil {
		r.handler(Outcome{Generation: gen, State: state, Result: res, Err: err})
	}
}
