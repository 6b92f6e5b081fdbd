package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"museum-buddy/filters"
	"museum-buddy/hours"
	"museum-buddy/models/museum"
	services "museum-buddy/service"
)

func ptr[T any](v T) *T {
	return &v
}

func TestStateFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args Args
		want string
	}{
		{name: "defaults", args: Args{}, want: ""},
		{name: "flags", args: Args{Query: "kunst", Free: true, Weekend: true}, want: "date=weekend&gratis=1&q=kunst"},
		{name: "url then flags", args: Args{URL: "?q=film&dichtbij=ja", KidFriendly: true}, want: "kindvriendelijk=1&nearby=1&q=film"},
		{name: "positional query wins", args: Args{URL: "q=film", Query: "foto"}, want: "q=foto"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filters.Encode(stateFromArgs(tt.args)))
			assert.Equal(t, tt.want, initialQuery(tt.args))
		})
	}
}

func TestVisitorLocation(t *testing.T) {
	p, err := visitorLocation(Args{})
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = visitorLocation(Args{Lat: ptr(52.36), Lng: ptr(4.88)})
	require.NoError(t, err)
	assert.Equal(t, 52.36, p.Lat)

	_, err = visitorLocation(Args{Lat: ptr(52.36)})
	assert.Error(t, err)

	_, err = visitorLocation(Args{Lat: ptr(152.0), Lng: ptr(4.88)})
	assert.Error(t, err)
}

func TestRenderResult(t *testing.T) {
	state := filters.State{Query: "kunst", Nearby: true, Date: filters.DateToday}
	res := services.Result{
		Source:     services.SourceRemote,
		UsedNearby: true,
		Museums: []museum.Entity{
			{
				Name: "Rijksmuseum", City: "Amsterdam", Categories: []string{"history", "art"},
				Availability:   hours.Availability{OpenNow: ptr(true), OpenToday: ptr(true), OpenThisWeekend: ptr(true)},
				DistanceMeters: ptr(1160.0),
			},
			{Name: "Museum Boijmans", City: "Rotterdam", Free: true},
		},
	}
	var buf bytes.Buffer

	renderResult(&buf, state, res)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "URL: ?nearby=1&q=kunst\n"))
	assert.Contains(t, out, "Rijksmuseum")
	assert.Contains(t, out, "history, art")
	assert.Contains(t, out, "1.2 km")
	assert.Contains(t, out, "2 MUSEUMS")
	assert.Contains(t, out, "REMOTE")
	assert.Contains(t, out, "?", "unknown availability")
}

func TestRenderResult_Error(t *testing.T) {
	var buf bytes.Buffer

	renderResult(&buf, filters.Default(), services.Result{Error: services.ErrorQueryFailed})

	assert.Contains(t, buf.String(), "Search failed: queryFailed")
}

type recordingSearch struct {
	mu     sync.Mutex
	states []filters.State
	result services.Result
}

func (r *recordingSearch) search(ctx context.Context, state filters.State) (services.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
	res := r.result
	if !state.Nearby {
		res.NearbyDisabled = false
	}
	return res, nil
}

func (r *recordingSearch) queries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.states))
	for _, s := range r.states {
		out = append(out, filters.Encode(s))
	}
	return out
}

func TestRunInteractive(t *testing.T) {
	rec := &recordingSearch{result: services.Result{
		Source:  services.SourceLocal,
		Museums: []museum.Entity{{Name: "Rijksmuseum", City: "Amsterdam"}},
	}}
	commands := strings.Join([]string{
		"wait",
		"q kunst",
		"wait",
		"free",
		"wait",
		"url q=film",
		"wait",
		"show",
		"quit",
	}, "\n")
	var out bytes.Buffer

	err := runInteractive(strings.NewReader(commands), &out, "", rec.search, 0)

	require.NoError(t, err)
	assert.Equal(t, []string{"", "q=kunst", "gratis=1&q=kunst", "q=film"}, rec.queries())
	text := out.String()
	assert.Contains(t, text, "URL: ?q=kunst\n")
	assert.Contains(t, text, "URL: ?gratis=1&q=kunst\n")
	assert.Contains(t, text, "Rijksmuseum")
	assert.Contains(t, text, "URL: ?q=film\n")
}

func TestRunInteractive_NearbyDisabled(t *testing.T) {
	rec := &recordingSearch{result: services.Result{Source: services.SourceLocal, NearbyDisabled: true}}
	var out bytes.Buffer

	err := runInteractive(strings.NewReader("wait\nnearby\nwait\nshow\nquit\n"), &out, "q=kunst", rec.search, 0)

	require.NoError(t, err)
	assert.Equal(t, []string{"q=kunst", "nearby=1&q=kunst"}, rec.queries(), "dropping nearby does not search again")
	assert.Contains(t, out.String(), "Location unavailable; nearby sorting turned off.")
	assert.Contains(t, out.String(), "URL: ?q=kunst\n")
}
