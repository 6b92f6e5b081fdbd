package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"museum-buddy/filters"
	"museum-buddy/geo"
	"museum-buddy/models/exhibition"
	"museum-buddy/models/museum"
	services "museum-buddy/service"
)

type fakeDiscovery struct {
	result services.Result
	err    error
	last   services.Request
}

func (f *fakeDiscovery) Run(ctx context.Context, req services.Request) (services.Result, error) {
	f.last = req
	return f.result, f.err
}

type fakeLookup struct {
	museums    map[string]museum.Entity
	nearby     []museum.Entity
	nearbyErr  error
	lastRadius float64
}

func (f *fakeLookup) GetMuseum(slug string) (museum.Entity, error) {
	m, ok := f.museums[slug]
	if !ok {
		return museum.Entity{}, fmt.Errorf("%w: %s", services.ErrMuseumNotFound, slug)
	}
	return m, nil
}

func (f *fakeLookup) GetAvailability(slug string) (services.MuseumAvailability, error) {
	m, err := f.GetMuseum(slug)
	if err != nil {
		return services.MuseumAvailability{}, err
	}
	return services.MuseumAvailability{Slug: m.Slug, Name: m.Name, Schedule: []string{"", "10:00-17:00"}}, nil
}

func (f *fakeLookup) GetMuseumsNearby(ctx context.Context, lat, lng, radiusMeters float64) ([]museum.Entity, error) {
	f.lastRadius = radiusMeters
	return f.nearby, f.nearbyErr
}

type fakeExhibitions struct {
	result     services.ExhibitionResult
	err        error
	lastFilter services.ExhibitionFilter
}

func (f *fakeExhibitions) ListExhibitions(ctx context.Context, filter services.ExhibitionFilter) (services.ExhibitionResult, error) {
	f.lastFilter = filter
	return f.result, f.err
}

func rijks() museum.Entity {
	lat, lng := 52.3600, 4.8852
	return museum.Entity{
		ID: "1", Slug: "rijksmuseum-amsterdam", Name: "Rijksmuseum", City: "Amsterdam",
		Categories: []string{"art"}, Latitude: &lat, Longitude: &lng,
	}
}

func serve(t *testing.T, route, target string, handler http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	router := mux.NewRouter()
	router.HandleFunc(route, handler).Methods("GET")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", target, nil))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestSearchMuseums(t *testing.T) {
	discovery := &fakeDiscovery{result: services.Result{
		Museums:    []museum.Entity{rijks()},
		UsedNearby: true,
		Source:     services.SourceRemote,
	}}
	h := NewMuseumHandler(discovery, &fakeLookup{}, 5000)

	rr := serve(t, "/v1/museums", "/v1/museums?q=+rijks+&kidFriendly=ja&dichtbij&lat=52.36&lng=4.88", h.SearchMuseums)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[SearchResponse](t, rr)
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "kindvriendelijk=1&nearby=1&q=rijks", body.CanonicalQuery)
	assert.True(t, body.UsedNearby)
	assert.Equal(t, services.SourceRemote, body.Source)
	assert.Equal(t, "rijksmuseum-amsterdam", body.Museums[0].Slug)

	assert.Equal(t, filters.State{Query: "rijks", KidFriendly: true, Nearby: true, Date: filters.DateToday}, discovery.last.State)
	assert.Equal(t, &geo.Point{Lat: 52.36, Lng: 4.88}, discovery.last.Location)
	assert.Equal(t, "192.0.2.1", discovery.last.ClientIP)
}

func TestSearchMuseums_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		result     services.Result
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "query failed", target: "/v1/museums?gratis=1", result: services.Result{Error: services.ErrorQueryFailed}, err: services.ErrQueryFailed, wantStatus: http.StatusBadGateway, wantError: services.ErrorQueryFailed},
		{name: "unknown failure", target: "/v1/museums?gratis=1", result: services.Result{Error: services.ErrorUnknown}, err: services.ErrUnknown, wantStatus: http.StatusInternalServerError, wantError: services.ErrorUnknown},
		{name: "lat without lng", target: "/v1/museums?lat=52.3", wantStatus: http.StatusBadRequest, wantError: errPartialLocation.Error()},
		{name: "lat out of range", target: "/v1/museums?lat=95&lng=4.8", wantStatus: http.StatusBadRequest},
		{name: "lng not a number", target: "/v1/museums?lat=52&lng=east", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewMuseumHandler(&fakeDiscovery{result: tt.result, err: tt.err}, &fakeLookup{}, 5000)

			rr := serve(t, "/v1/museums", tt.target, h.SearchMuseums)

			assert.Equal(t, tt.wantStatus, rr.Code)
			body := decode[map[string]any](t, rr)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			}
		})
	}
}

func TestSearchMuseums_EmptyResultIsArray(t *testing.T) {
	h := NewMuseumHandler(&fakeDiscovery{result: services.Result{Source: services.SourceLocal}}, &fakeLookup{}, 5000)

	rr := serve(t, "/v1/museums", "/v1/museums?open=1", h.SearchMuseums)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"museums":[]`)
}

func TestGetMuseumsNearby(t *testing.T) {
	lookup := &fakeLookup{nearby: []museum.Entity{rijks()}}
	h := NewMuseumHandler(&fakeDiscovery{}, lookup, 5000)

	rr := serve(t, "/v1/museums/nearby", "/v1/museums/nearby?lat=52.36&lng=4.88", h.GetMuseumsNearby)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[NearbyResponse](t, rr)
	assert.Equal(t, 1, body.Count)
	require.NotNil(t, body.Bounds)
	assert.Equal(t, 52.36, body.Bounds.Lat)
	assert.Equal(t, 5000.0, lookup.lastRadius)

	lookup.nearby = nil
	rr = serve(t, "/v1/museums/nearby", "/v1/museums/nearby?lat=52.36&lng=4.88&radius=750", h.GetMuseumsNearby)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 750.0, lookup.lastRadius)
	assert.Equal(t, `{"museums":[],"count":0}`+"\n", rr.Body.String())
}

func TestGetMuseumsNearby_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		lookupErr  error
		wantStatus int
	}{
		{name: "missing lat", target: "/v1/museums/nearby?lng=4.88", wantStatus: http.StatusBadRequest},
		{name: "negative radius", target: "/v1/museums/nearby?lat=52&lng=4&radius=-1", wantStatus: http.StatusBadRequest},
		{name: "no geo index", target: "/v1/museums/nearby?lat=52&lng=4", lookupErr: services.ErrMissingSource, wantStatus: http.StatusServiceUnavailable},
		{name: "index failure", target: "/v1/museums/nearby?lat=52&lng=4", lookupErr: fmt.Errorf("redis down"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewMuseumHandler(&fakeDiscovery{}, &fakeLookup{nearbyErr: tt.lookupErr}, 5000)

			rr := serve(t, "/v1/museums/nearby", tt.target, h.GetMuseumsNearby)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestGetMuseumAndAvailability(t *testing.T) {
	lookup := &fakeLookup{museums: map[string]museum.Entity{"rijksmuseum-amsterdam": rijks()}}
	h := NewMuseumHandler(&fakeDiscovery{}, lookup, 5000)

	rr := serve(t, "/v1/museums/{slug}", "/v1/museums/rijksmuseum-amsterdam", h.GetMuseum)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Rijksmuseum", decode[museum.Entity](t, rr).Name)

	rr = serve(t, "/v1/museums/{slug}/availability", "/v1/museums/rijksmuseum-amsterdam/availability", h.GetAvailability)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "10:00-17:00", decode[services.MuseumAvailability](t, rr).Schedule[1])

	rr = serve(t, "/v1/museums/{slug}/availability", "/v1/museums/louvre/availability", h.GetAvailability)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListExhibitions(t *testing.T) {
	tests := []struct {
		name       string
		result     services.ExhibitionResult
		err        error
		wantStatus int
	}{
		{
			name:       "listing",
			result:     services.ExhibitionResult{Exhibitions: []exhibition.Exhibition{{ID: "10", Title: "Late Rembrandt"}}},
			wantStatus: http.StatusOK,
		},
		{name: "missing source", result: services.ExhibitionResult{Error: services.ErrorMissingSource}, err: services.ErrMissingSource, wantStatus: http.StatusServiceUnavailable},
		{name: "query failed", result: services.ExhibitionResult{Error: services.ErrorQueryFailed}, err: services.ErrQueryFailed, wantStatus: http.StatusBadGateway},
		{name: "museum query failed", result: services.ExhibitionResult{Error: services.ErrorMuseumQueryFailed}, err: services.ErrMuseumQueryFailed, wantStatus: http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewExhibitionHandler(&fakeExhibitions{result: tt.result, err: tt.err})

			rr := serve(t, "/v1/exhibitions", "/v1/exhibitions", h.ListExhibitions)

			assert.Equal(t, tt.wantStatus, rr.Code)
			body := decode[services.ExhibitionResult](t, rr)
			assert.Equal(t, tt.result.Error, body.Error)
			assert.Len(t, body.Exhibitions, len(tt.result.Exhibitions))
		})
	}
}

func TestListExhibitions_OpenNow(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"/v1/exhibitions", false},
		{"/v1/exhibitions?open_now=1", true},
		{"/v1/exhibitions?openNow=true", true},
		{"/v1/exhibitions?open", true},
		{"/v1/exhibitions?open_now=0", false},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			fake := &fakeExhibitions{result: services.ExhibitionResult{Exhibitions: []exhibition.Exhibition{}}}
			h := NewExhibitionHandler(fake)

			rr := serve(t, "/v1/exhibitions", tt.target, h.ListExhibitions)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.want, fake.lastFilter.OpenNow)
		})
	}
}

func TestParseSearch(t *testing.T) {
	h := NewMetaHandler()

	rr := serve(t, "/v1/search/parse", "/v1/search/parse?q=modern+art+in+Amsterdam", h.ParseSearch)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"text_query":"in Amsterdam","category_filters":["modern-art"]}`, rr.Body.String())

	rr = serve(t, "/v1/search/parse", "/v1/search/parse", h.ParseSearch)
	assert.JSONEq(t, `{"text_query":"","category_filters":[]}`, rr.Body.String())
}
