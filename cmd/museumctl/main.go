package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/alexflint/go-arg"

	"museum-buddy/config"
	"museum-buddy/datasource"
	"museum-buddy/di"
	"museum-buddy/filters"
	"museum-buddy/geo"
	services "museum-buddy/service"
	"museum-buddy/util"
)

type Args struct {
	Query           string        `arg:"positional" help:"search text, e.g. \"modern art in Amsterdam\""`
	URL             string        `arg:"-u,--url" help:"start from a query string such as \"q=kunst&gratis=1\""`
	Free            bool          `arg:"--free" help:"only museums with free entry"`
	Exhibitions     bool          `arg:"--exhibitions" help:"only museums with a running exhibition"`
	KidFriendly     bool          `arg:"--kids" help:"only kid-friendly museums"`
	Nearby          bool          `arg:"--nearby" help:"sort by distance from --lat/--lng or the --ip location"`
	Weekend         bool          `arg:"--weekend" help:"open this weekend instead of today"`
	OpenNow         bool          `arg:"--open-now" help:"only museums open right now; with --list-exhibitions, only exhibitions at open museums"`
	Lat             *float64      `arg:"--lat" help:"visitor latitude"`
	Lng             *float64      `arg:"--lng" help:"visitor longitude"`
	IP              string        `arg:"--ip" help:"visitor IP used when no coordinates are given"`
	Rows            string        `arg:"--rows" help:"JSON source fixture to query instead of DATABASE_URL"`
	Plot            string        `arg:"--plot" help:"write an HTML map of the results to this path"`
	ListExhibitions bool          `arg:"--list-exhibitions" help:"list exhibitions instead of museums"`
	Interactive     bool          `arg:"-i,--interactive" help:"read filter commands from stdin"`
	EnvFile         []string      `arg:"--env-file" help:"env files to load (default .env)"`
	Timeout         time.Duration `arg:"--timeout" default:"15s" help:"deadline for a one-shot search"`
}

func (Args) Description() string {
	return "museumctl searches museums by availability, facets and distance.\n"
}

// app is the part of the container the CLI drives.
type app struct {
	discovery   *services.DiscoveryService
	exhibitions *services.ExhibitionService
	refresher   *services.BaselineRefresherService
	debounce    time.Duration
}

func main() {
	var args Args
	arg.MustParse(&args)

	if err := run(args); err != nil {
		log.Fatalf("[museumctl] %v", err)
	}
}

func run(args Args) error {
	cfg, err := config.Load(args.EnvFile...)
	if err != nil {
		return err
	}
	ctx := context.Background()
	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	a, err := newApp(container, args.Rows)
	if err != nil {
		return err
	}
	if err := a.refresher.RefreshBaseline(ctx); err != nil {
		log.Printf("[museumctl] Baseline refresh failed: %v", err)
	}

	if args.ListExhibitions {
		res, err := a.exhibitions.ListExhibitions(ctx, services.ExhibitionFilter{OpenNow: args.OpenNow})
		if err != nil {
			return err
		}
		renderExhibitions(os.Stdout, res.Exhibitions)
		return nil
	}

	location, err := visitorLocation(args)
	if err != nil {
		return err
	}
	search := a.searchFunc(location, args.IP)

	if args.Interactive {
		return runInteractive(os.Stdin, os.Stdout, initialQuery(args), search, a.debounce)
	}

	state := stateFromArgs(args)
	searchCtx, cancel := context.WithTimeout(ctx, args.Timeout)
	defer cancel()
	res, err := search(searchCtx, state)
	renderResult(os.Stdout, state, res)
	if err != nil {
		return err
	}

	if args.Plot != "" {
		return plot(args.Plot, res, location)
	}
	return nil
}

// newApp swaps in a fixture-backed data source when rowsPath is set.
func newApp(c *di.Container, rowsPath string) (*app, error) {
	a := &app{
		discovery:   c.DiscoveryService,
		exhibitions: c.ExhibitionService,
		refresher:   c.BaselineRefresherService,
		debounce:    c.Config.Debounce,
	}
	if rowsPath == "" {
		return a, nil
	}

	fixture, err := util.ReadSourceFixtureFromJSON(rowsPath)
	if err != nil {
		return nil, err
	}
	source := datasource.NewMockSource(fixture.Museums, fixture.Exhibitions)
	a.discovery = services.NewDiscoveryService(source, c.BaselineStore, c.MuseumBuilder, c.Locator, c.Clock, c.Config.NearbyRadius)
	a.exhibitions = services.NewExhibitionService(source, c.Catalog, c.Catalog, c.Clock)
	a.refresher = services.NewBaselineRefresherService(source, c.Catalog, c.MuseumBuilder, c.BaselineStore, c.RedisMuseumDao, c.Clock.Now)
	return a, nil
}

func (a *app) searchFunc(location *geo.Point, clientIP string) services.SearchFunc {
	return func(ctx context.Context, state filters.State) (services.Result, error) {
		return a.discovery.Run(ctx, services.Request{
			State:    state,
			Location: location,
			ClientIP: clientIP,
		})
	}
}

func visitorLocation(args Args) (*geo.Point, error) {
	if args.Lat == nil && args.Lng == nil {
		return nil, nil
	}
	if args.Lat == nil || args.Lng == nil {
		return nil, fmt.Errorf("--lat and --lng must be given together")
	}
	p := geo.Point{Lat: *args.Lat, Lng: *args.Lng}
	if !p.Valid() {
		return nil, fmt.Errorf("location %v,%v out of range", p.Lat, p.Lng)
	}
	return &p, nil
}

// initialQuery merges --url with the facet flags into one query string.
func initialQuery(args Args) string {
	return filters.Encode(stateFromArgs(args))
}

func stateFromArgs(args Args) filters.State {
	state := filters.Decode(args.URL)
	if args.Query != "" {
		state.Query = args.Query
	}
	state.Free = state.Free || args.Free
	state.Exhibitions = state.Exhibitions || args.Exhibitions
	state.KidFriendly = state.KidFriendly || args.KidFriendly
	state.Nearby = state.Nearby || args.Nearby
	state.OpenNow = state.OpenNow || args.OpenNow
	if args.Weekend {
		state.Date = filters.DateWeekend
	}
	return state.Normalize()
}

func plot(path string, res services.Result, visitor *geo.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create HTML file: %w", err)
	}
	defer f.Close()

	plotted, err := util.PlotMuseums(res.Museums, visitor, f)
	if err != nil {
		return err
	}
	fmt.Printf("Museum map with %d museums generated: %s\n", plotted, path)
	return nil
}
