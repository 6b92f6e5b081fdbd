package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"museum-buddy/filters"
	"museum-buddy/models/exhibition"
	"museum-buddy/models/museum"
	services "museum-buddy/service"
)

func renderResult(w io.Writer, state filters.State, res services.Result) {
	fmt.Fprintf(w, "URL: ?%s\n", filters.Encode(state))
	if res.Error != "" {
		fmt.Fprintf(w, "Search failed: %s\n", res.Error)
		return
	}
	if res.NearbyDisabled {
		fmt.Fprintln(w, "Location unavailable; nearby sorting turned off.")
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Museum", "City", "Categories", "Open now", "Today", "Weekend", "Free", "Distance"})
	for i, m := range res.Museums {
		t.AppendRow(table.Row{
			i + 1,
			m.Name,
			m.City,
			strings.Join(m.Categories, ", "),
			flag(m.Availability.OpenNow),
			flag(m.Availability.OpenToday),
			flag(m.Availability.OpenThisWeekend),
			yesNo(m.Free),
			distance(m),
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%s museums", humanize.Comma(int64(len(res.Museums)))), "", "", "", "", "", "", res.Source})
	t.Render()
}

func renderExhibitions(w io.Writer, list []exhibition.Exhibition) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Exhibition", "Museum", "City", "From", "Until", "Open now", "Tickets"})
	for _, e := range list {
		t.AppendRow(table.Row{e.Title, e.Museum.Name, e.Museum.City, e.StartDate, e.EndDate, flag(e.OpenNow), e.TicketURL})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%s exhibitions", humanize.Comma(int64(len(list)))), "", "", "", "", "", ""})
	t.Render()
}

// flag prints an availability flag; unknown is not the same as closed.
func flag(v *bool) string {
	if v == nil {
		return "?"
	}
	return yesNo(*v)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func distance(m museum.Entity) string {
	if m.DistanceMeters == nil {
		return ""
	}
	return humanize.SIWithDigits(*m.DistanceMeters, 1, "m")
}
