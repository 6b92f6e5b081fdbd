package hours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapTextSource map[string]Text

func (m mapTextSource) OpeningHours(slug string) (Text, bool) {
	text, ok := m[slug]
	return text, ok
}

func TestResolver_SourceOrder(t *testing.T) {
	texts := mapTextSource{
		"english":     {EN: "Mon 10:00-17:00", NL: "Di 10:00-17:00"},
		"dutch-only":  {NL: "Wo 10:00-17:00"},
		"broken-en":   {EN: "by appointment", NL: "Do 10:00-17:00"},
		"unparseable": {EN: "by appointment"},
	}
	resolver, err := NewResolver(texts, 16)
	require.NoError(t, err)

	tests := []struct {
		slug     string
		fallback string
		day      int
	}{
		{"english", "Fri 10:00-17:00", Monday},
		{"dutch-only", "Fri 10:00-17:00", Wednesday},
		{"broken-en", "", Thursday},
		{"unparseable", "Fri 10:00-17:00", Friday},
		{"not-in-catalog", "Za 10:00-17:00", Saturday},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			schedule := resolver.Schedule(tt.slug, tt.fallback)
			require.NotNil(t, schedule)
			assert.True(t, schedule.Day(tt.day).IsOpen())
		})
	}
}

func TestResolver_NoHours(t *testing.T) {
	resolver, err := NewResolver(nil, 0)
	require.NoError(t, err)

	assert.Nil(t, resolver.Schedule("unknown", ""))
	assert.Equal(t, Availability{}, resolver.Availability("unknown", "", Moment{}))
}

func TestResolver_RebuildsWhenTextChanges(t *testing.T) {
	texts := mapTextSource{"museum": {EN: "Mon 10:00-17:00"}}
	resolver, err := NewResolver(texts, 16)
	require.NoError(t, err)

	first := resolver.Schedule("museum", "")
	again := resolver.Schedule("museum", "")
	assert.Same(t, first, again)
	assert.Equal(t, 1, resolver.Len())

	texts["museum"] = Text{EN: "Tue 10:00-17:00"}
	rebuilt := resolver.Schedule("museum", "")

	require.NotNil(t, rebuilt)
	assert.NotSame(t, first, rebuilt)
	assert.False(t, rebuilt.Day(Monday).IsOpen())
	assert.True(t, rebuilt.Day(Tuesday).IsOpen())
	assert.Equal(t, 1, resolver.Len())
}

func TestClock_UsesAmsterdamTime(t *testing.T) {
	// 23:30 UTC on Saturday is already Sunday in Amsterdam (UTC+1 in winter).
	clock, err := NewFixedClock("", time.Date(2024, time.January, 6, 23, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, Moment{Weekday: Sunday, Minutes: 30}, clock.Moment())
	assert.Equal(t, "2024-01-07", clock.Today())
	assert.Equal(t, DefaultTimezone, clock.Location().String())
}

func TestNewClock_UnknownZone(t *testing.T) {
	_, err := NewClock("Mars/Olympus")
	assert.Error(t, err)
}
