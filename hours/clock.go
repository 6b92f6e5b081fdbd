package hours

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

const DefaultTimezone = "Europe/Amsterdam"

// Clock reports the current moment in the venues' timezone, independent of
// the host's local zone.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock loads the named IANA zone. An empty name selects Europe/Amsterdam.
func NewClock(timezone string) (*Clock, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// NewFixedClock returns a clock that always reports t, converted to timezone.
func NewFixedClock(timezone string, t time.Time) (*Clock, error) {
	c, err := NewClock(timezone)
	if err != nil {
		return nil, err
	}
	c.now = func() time.Time { return t }
	return c, nil
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Moment returns the current weekday and minutes since midnight.
func (c *Clock) Moment() Moment {
	return MomentOf(c.Now())
}

// Today returns the current venue-local date as YYYY-MM-DD.
func (c *Clock) Today() string {
	return c.Now().Format(time.DateOnly)
}

// MomentOf reduces t to a Moment in t's own location.
func MomentOf(t time.Time) Moment {
	return Moment{
		Weekday: int(t.Weekday()),
		Minutes: t.Hour()*60 + t.Minute(),
	}
}
