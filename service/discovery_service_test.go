package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"museum-buddy/datasource"
	"museum-buddy/filters"
	"museum-buddy/geo"
	"museum-buddy/models/row"
)

var nearRijksmuseum = geo.Point{Lat: 52.3600, Lng: 4.8852}

func newMockSource() *datasource.MockSource {
	return datasource.NewMockSource(testRows(), testExhibitionRows())
}

func TestDiscovery_DefaultStateUsesBaseline(t *testing.T) {
	source := newMockSource()
	svc := newTestDiscovery(t, source, nil)

	res, err := svc.Run(context.Background(), Request{State: filters.Default()})

	require.NoError(t, err)
	assert.Equal(t, SourceBaseline, res.Source)
	assert.Equal(t, []string{
		"rijksmuseum-amsterdam",
		"van-gogh-museum-amsterdam",
		"amsterdam-museum-amsterdam",
		"boijmans-rotterdam",
		"nemo-science-museum-amsterdam",
	}, slugs(res.Museums))
	assert.Zero(t, source.Calls(datasource.OpSelectMuseums))

	require.NotNil(t, res.Museums[0].Availability.OpenNow)
	assert.True(t, *res.Museums[0].Availability.OpenNow)
}

func TestDiscovery_LocalMode(t *testing.T) {
	tests := []struct {
		name  string
		state filters.State
		want  []string
	}{
		{
			name:  "free on the weekend",
			state: filters.State{Free: true, Date: filters.DateWeekend},
			want:  []string{"amsterdam-museum-amsterdam"},
		},
		{
			name:  "text matches name or slug",
			state: filters.State{Query: "rijks"},
			want:  []string{"rijksmuseum-amsterdam"},
		},
		{
			name:  "category keyword with unknown hours failing closed",
			state: filters.State{Query: "kunst"},
			want:  []string{"rijksmuseum-amsterdam"},
		},
		{
			name:  "kid friendly",
			state: filters.State{KidFriendly: true},
			want:  []string{"nemo-science-museum-amsterdam"},
		},
		{
			name:  "open now",
			state: filters.State{OpenNow: true},
			want:  []string{"rijksmuseum-amsterdam", "amsterdam-museum-amsterdam", "nemo-science-museum-amsterdam"},
		},
		{
			name:  "nothing matches",
			state: filters.State{Query: "louvre"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestDiscovery(t, nil, nil)

			res, err := svc.Run(context.Background(), Request{State: tt.state})

			require.NoError(t, err)
			assert.Equal(t, SourceLocal, res.Source)
			assert.Empty(t, res.Error)
			assert.Equal(t, tt.want, slugs(res.Museums))
		})
	}
}

func TestDiscovery_LocalEndToEnd(t *testing.T) {
	builder := newTestBuilder(t)
	rows := testRows()
	baseline := newBaseline(builder, []row.Row{rows[0], rows[2], rows[5]})
	svc := NewDiscoveryService(nil, baseline, builder, nil, newTestClock(t), 0)

	res, err := svc.Run(context.Background(), Request{State: filters.State{Free: true, Date: filters.DateWeekend}})

	require.NoError(t, err)
	assert.Equal(t, []string{"amsterdam-museum-amsterdam"}, slugs(res.Museums))
}

func TestDiscovery_LocalModeDisablesNearby(t *testing.T) {
	svc := newTestDiscovery(t, nil, &fakeLocator{point: nearRijksmuseum})

	res, err := svc.Run(context.Background(), Request{State: filters.State{Nearby: true}})

	require.NoError(t, err)
	assert.True(t, res.NearbyDisabled)
	assert.False(t, res.UsedNearby)
}

func TestDiscovery_RemoteFilters(t *testing.T) {
	tests := []struct {
		name  string
		state filters.State
		want  []string
	}{
		{"free today", filters.State{Free: true}, []string{"amsterdam-museum-amsterdam"}},
		{"kid friendly", filters.State{KidFriendly: true}, []string{"nemo-science-museum-amsterdam"}},
		{"open now", filters.State{OpenNow: true}, []string{"rijksmuseum-amsterdam", "amsterdam-museum-amsterdam", "nemo-science-museum-amsterdam"}},
		{"categories are conjunctive", filters.State{Query: "kunst geschiedenis"}, []string{"rijksmuseum-amsterdam"}},
		{"text filter on the weekend", filters.State{Query: "amsterdam", Date: filters.DateWeekend}, []string{"amsterdam-museum-amsterdam"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestDiscovery(t, newMockSource(), nil)

			res, err := svc.Run(context.Background(), Request{State: tt.state})

			require.NoError(t, err)
			assert.Equal(t, SourceRemote, res.Source)
			assert.Equal(t, tt.want, slugs(res.Museums))
		})
	}
}

func TestDiscovery_ActiveExhibitions(t *testing.T) {
	source := newMockSource()
	svc := newTestDiscovery(t, source, nil)

	res, err := svc.Run(context.Background(), Request{State: filters.State{Exhibitions: true}})

	require.NoError(t, err)
	assert.Equal(t, []string{"rijksmuseum-amsterdam"}, slugs(res.Museums))
	assert.Equal(t, 1, source.Calls(datasource.OpActiveExhibitionIDs))
}

func TestDiscovery_NoActiveExhibitionsSkipsBaseQuery(t *testing.T) {
	source := datasource.NewMockSource(testRows(), []row.Row{
		{"id": 11, "titel": "Sunflowers", "museum_id": 2, "eind_datum": "2024-01-01"},
	})
	svc := newTestDiscovery(t, source, nil)

	res, err := svc.Run(context.Background(), Request{State: filters.State{Exhibitions: true}})

	require.NoError(t, err)
	assert.Empty(t, res.Museums)
	assert.Empty(t, res.Error)
	assert.Zero(t, source.Calls(datasource.OpSelectMuseums))
}

func TestDiscovery_SchemaDriftRetriesOnce(t *testing.T) {
	source := newMockSource().WithoutColumns("kindvriendelijk")
	svc := newTestDiscovery(t, source, nil)

	res, err := svc.Run(context.Background(), Request{State: filters.State{Free: true}})

	require.NoError(t, err)
	assert.Equal(t, []string{"amsterdam-museum-amsterdam"}, slugs(res.Museums))
	assert.Equal(t, 2, source.Calls(datasource.OpSelectMuseums))
}

func TestDiscovery_QueryFailure(t *testing.T) {
	source := newMockSource().FailOn(datasource.OpSelectMuseums, errors.New("connection reset by peer"))
	svc := newTestDiscovery(t, source, nil)

	res, err := svc.Run(context.Background(), Request{State: filters.State{Free: true}})

	assert.ErrorIs(t, err, ErrQueryFailed)
	assert.Equal(t, ErrorQueryFailed, res.Error)
	assert.Empty(t, res.Museums)
	assert.Equal(t, 1, source.Calls(datasource.OpSelectMuseums))
}

func TestDiscovery_ExhibitionLookupFailure(t *testing.T) {
	source := newMockSource().FailOn(datasource.OpActiveExhibitionIDs, errors.New("timeout"))
	svc := newTestDiscovery(t, source, nil)

	res, err := svc.Run(context.Background(), Request{State: filters.State{Exhibitions: true}})

	assert.ErrorIs(t, err, ErrQueryFailed)
	assert.Equal(t, ErrorQueryFailed, res.Error)
	assert.Zero(t, source.Calls(datasource.OpSelectMuseums))
}

func TestDiscovery_NearbySortsByDistance(t *testing.T) {
	source := newMockSource()
	svc := newTestDiscovery(t, source, nil)
	location := nearRijksmuseum

	res, err := svc.Run(context.Background(), Request{State: filters.State{Nearby: true}, Location: &location})

	require.NoError(t, err)
	assert.True(t, res.UsedNearby)
	assert.False(t, res.NearbyDisabled)
	assert.Equal(t, []string{
		"rijksmuseum-amsterdam",
		"amsterdam-museum-amsterdam",
		"nemo-science-museum-amsterdam",
	}, slugs(res.Museums))
	require.NotNil(t, res.Museums[1].DistanceMeters)
	assert.InDelta(t, 1160, *res.Museums[1].DistanceMeters, 60)
	assert.Zero(t, source.Calls(datasource.OpSelectMuseums))
}

func TestDiscovery_NearbyFailureFallsBackToBaseQuery(t *testing.T) {
	source := newMockSource().FailOn(datasource.OpMuseumsWithinRadius, errors.New("statement timeout"))
	svc := newTestDiscovery(t, source, nil)
	location := nearRijksmuseum

	res, err := svc.Run(context.Background(), Request{State: filters.State{Nearby: true}, Location: &location})

	require.NoError(t, err)
	assert.False(t, res.UsedNearby)
	assert.Equal(t, []string{
		"rijksmuseum-amsterdam",
		"amsterdam-museum-amsterdam",
		"nemo-science-museum-amsterdam",
	}, slugs(res.Museums))
	assert.Equal(t, 1, source.Calls(datasource.OpMuseumsWithinRadius))
	assert.Equal(t, 1, source.Calls(datasource.OpSelectMuseums))
}

func TestDiscovery_NearbyDriftRetriesWithBaseColumns(t *testing.T) {
	source := newMockSource().FailOn(datasource.OpMuseumsWithinRadius, errors.New("column m.afstand_meter does not exist"))
	svc := newTestDiscovery(t, source, nil)
	location := nearRijksmuseum

	res, err := svc.Run(context.Background(), Request{State: filters.State{Nearby: true}, Location: &location})

	require.NoError(t, err)
	assert.False(t, res.UsedNearby)
	assert.Len(t, res.Museums, 3)
	assert.Equal(t, 2, source.Calls(datasource.OpMuseumsWithinRadius))
	assert.Equal(t, 2, source.Calls(datasource.OpSelectMuseums))
}

func TestDiscovery_NearbyUsesLocator(t *testing.T) {
	locator := &fakeLocator{point: nearRijksmuseum}
	svc := newTestDiscovery(t, newMockSource(), locator)

	res, err := svc.Run(context.Background(), Request{State: filters.State{Nearby: true}, ClientIP: "203.0.113.7"})

	require.NoError(t, err)
	assert.True(t, res.UsedNearby)
	assert.Equal(t, 1, locator.calls)
}

func TestDiscovery_LocatorFailureDisablesNearby(t *testing.T) {
	locator := &fakeLocator{err: geo.ErrLocationUnavailable}
	source := newMockSource()
	svc := newTestDiscovery(t, source, locator)

	res, err := svc.Run(context.Background(), Request{State: filters.State{Nearby: true}})

	require.NoError(t, err)
	assert.True(t, res.NearbyDisabled)
	assert.False(t, res.UsedNearby)
	assert.Zero(t, source.Calls(datasource.OpMuseumsWithinRadius))
	assert.Len(t, res.Museums, 3)
}

type panickingSource struct {
	*datasource.MockSource
}

func (panickingSource) SelectMuseums(ctx context.Context, q datasource.MuseumQuery) ([]row.Row, error) {
	panic("unexpected row shape")
}

func TestDiscovery_PanicReportsUnknown(t *testing.T) {
	svc := newTestDiscovery(t, panickingSource{newMockSource()}, nil)

	res, err := svc.Run(context.Background(), Request{State: filters.State{Free: true}})

	assert.ErrorIs(t, err, ErrUnknown)
	assert.Equal(t, ErrorUnknown, res.Error)
	assert.Empty(t, res.Museums)
}

func TestDiscovery_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := newTestDiscovery(t, newMockSource(), nil)

	res, err := svc.Run(ctx, Request{State: filters.State{Free: true}})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Error)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, ErrorQueryFailed, ErrorCode(ErrQueryFailed))
	assert.Equal(t, ErrorMuseumQueryFailed, ErrorCode(ErrMuseumQueryFailed))
	assert.Equal(t, ErrorMissingSource, ErrorCode(ErrMissingSource))
	assert.Equal(t, ErrorUnknown, ErrorCode(errors.New("boom")))
}
