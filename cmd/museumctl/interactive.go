package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"museum-buddy/filters"
	services "museum-buddy/service"
)

const waitTimeout = 10 * time.Second

const interactiveHelp = `commands:
  q <text>       search text (empty clears)
  free | exhibitions | kids | nearby | open   toggle a facet
  today | weekend                             date preference
  url <query>    navigate to a query string, as the back button would
  reset          clear all filters
  show           print the current state
  wait           block until the latest search has finished
  quit`

// queuedNavigator records URL replacements and hands them back to the
// loop, which reports them to the controller as URL changes.
type queuedNavigator struct {
	mu      sync.Mutex
	current string
	pending []string
	out     *syncWriter
}

func (n *queuedNavigator) Replace(rawQuery string) error {
	n.mu.Lock()
	n.current = rawQuery
	n.pending = append(n.pending, rawQuery)
	n.mu.Unlock()
	n.out.Printf("URL: ?%s\n", rawQuery)
	return nil
}

func (n *queuedNavigator) drain() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	pending := n.pending
	n.pending = nil
	return pending
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Printf(format string, a ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format, a...)
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// runInteractive drives a FilterStateSync from line commands on in.
func runInteractive(in io.Reader, w io.Writer, initial string, search services.SearchFunc, delay time.Duration) error {
	out := &syncWriter{w: w}
	nav := &queuedNavigator{current: initial, out: out}

	var resultsMu sync.Mutex
	var lastRendered uint64
	controller := services.NewFilterStateSync(initial, nav, search, delay, func(o services.Outcome) {
		var buf strings.Builder
		renderResult(&buf, o.State, o.Result)
		out.Printf("%s", buf.String())
		resultsMu.Lock()
		lastRendered = o.Generation
		resultsMu.Unlock()
	})
	defer controller.Stop()

	syncURL := func() {
		for _, raw := range nav.drain() {
			controller.OnURLChange(raw)
		}
	}

	scheduled := controller.Start()
	fmt.Fprintln(out, interactiveHelp)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		syncURL()
		command, argument, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		argument = strings.TrimSpace(argument)

		var gen uint64
		switch strings.ToLower(command) {
		case "":
			continue
		case "q", "search":
			gen = controller.Update(func(s *filters.State) { s.Query = argument })
		case "free":
			gen = controller.Update(func(s *filters.State) { s.Free = !s.Free })
		case "exhibitions":
			gen = controller.Update(func(s *filters.State) { s.Exhibitions = !s.Exhibitions })
		case "kids":
			gen = controller.Update(func(s *filters.State) { s.KidFriendly = !s.KidFriendly })
		case "nearby":
			gen = controller.Update(func(s *filters.State) { s.Nearby = !s.Nearby })
		case "open":
			gen = controller.Update(func(s *filters.State) { s.OpenNow = !s.OpenNow })
		case "today":
			gen = controller.Update(func(s *filters.State) { s.Date = filters.DateToday })
		case "weekend":
			gen = controller.Update(func(s *filters.State) { s.Date = filters.DateWeekend })
		case "reset":
			gen = controller.Reset()
		case "url":
			raw := strings.TrimPrefix(argument, "?")
			nav.mu.Lock()
			nav.current = raw
			nav.mu.Unlock()
			if g, searched := controller.OnURLChange(raw); searched {
				gen = g
			}
		case "show":
			state := controller.State()
			out.Printf("state: %+v\nURL: ?%s\n", state, filters.Encode(state))
		case "wait":
			waitFor(scheduled, &resultsMu, &lastRendered)
		case "help":
			fmt.Fprintln(out, interactiveHelp)
		case "quit", "exit":
			return nil
		default:
			out.Printf("unknown command %q; type help\n", command)
		}
		if gen != 0 {
			scheduled = gen
		}
		syncURL()
	}
	return scanner.Err()
}

// waitFor polls until the outcome of generation gen has been rendered.
func waitFor(gen uint64, mu *sync.Mutex, rendered *uint64) {
	deadline := time.Now().Add(waitTimeout)
	for time.Now().Before(deadline) {
		mu.Lock()
		done := *rendered >= gen
		mu.Unlock()
		if done {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}
