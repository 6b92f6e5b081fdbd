package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"museum-buddy/datasource"
	"museum-buddy/hours"
	"museum-buddy/models/exhibition"
	"museum-buddy/models/row"
)

// TicketLinks knows curated ticket links per museum slug.
type TicketLinks interface {
	TicketURL(slug string) (string, bool)
}

// ExhibitionResult is the exhibitions listing. Error carries the client
// error code; Exhibitions is then empty.
type ExhibitionResult struct {
	Exhibitions []exhibition.Exhibition `json:"exhibitions"`
	Error       string                  `json:"error,omitempty"`
}

// ExhibitionFilter narrows the exhibitions listing.
type ExhibitionFilter struct {
	// OpenNow keeps exhibitions whose museum is open at this moment.
	// Museums with unknown hours are dropped.
	OpenNow bool
}

// ExhibitionService lists exhibitions with their museums, current and
// upcoming ones first.
type ExhibitionService struct {
	source  datasource.Source
	tickets TicketLinks
	texts   hours.TextSource
	cleaner *exhibition.DescriptionCleaner
	clock   *hours.Clock
}

// NewExhibitionService wires the listing. source, tickets and texts may be nil.
func NewExhibitionService(source datasource.Source, tickets TicketLinks, texts hours.TextSource, clock *hours.Clock) *ExhibitionService {
	return &ExhibitionService{
		source:  source,
		tickets: tickets,
		texts:   texts,
		cleaner: exhibition.NewDescriptionCleaner(),
		clock:   clock,
	}
}

// ListExhibitions loads every exhibition. When the museum relation cannot
// be joined it loads the rows alone and fetches their museums by id.
func (s *ExhibitionService) ListExhibitions(ctx context.Context, filter ExhibitionFilter) (res ExhibitionResult, err error) {
	res = ExhibitionResult{Exhibitions: []exhibition.Exhibition{}}
	if s.source == nil {
		res.Error = ErrorMissingSource
		return res, ErrMissingSource
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ExhibitionService] Recovered from panic: %v", r)
			res = ExhibitionResult{Exhibitions: []exhibition.Exhibition{}, Error: ErrorUnknown}
			err = fmt.Errorf("%w: %v", ErrUnknown, r)
		}
	}()

	rows, err := s.source.Exhibitions(ctx, true)
	usedFallback := false
	if err != nil && datasource.IsRelationshipError(err) {
		log.Printf("[ExhibitionService] Museum relation unavailable, loading exhibitions alone: %v", err)
		rows, err = s.source.Exhibitions(ctx, false)
		usedFallback = true
	}
	if err != nil {
		res.Error = ErrorQueryFailed
		return res, fmt.Errorf("%w: exhibitions: %w", ErrQueryFailed, err)
	}

	museums := make(map[string]row.Row)
	if missing := missingMuseumIDs(rows); len(missing) > 0 {
		fetched, err := s.source.MuseumsByIDs(ctx, missing)
		if err != nil {
			if !usedFallback {
				res.Error = ErrorMuseumQueryFailed
				return res, fmt.Errorf("%w: %w", ErrMuseumQueryFailed, err)
			}
			log.Printf("[ExhibitionService] Could not load museums for exhibitions: %v", err)
		}
		for _, m := range fetched {
			if id := row.ID(m, "id"); id != "" {
				museums[id] = m
			}
		}
	}

	now := s.clock.Moment()
	list := make([]exhibition.Exhibition, 0, len(rows))
	for _, r := range rows {
		if r == nil {
			continue
		}
		var museumRow row.Row
		if !exhibition.HasMuseum(r) {
			museumRow = museums[row.ID(r, "museum_id")]
		}
		e := exhibition.FromRow(r, museumRow)
		if e.TicketAffiliateURL == "" && s.tickets != nil {
			if url, ok := s.tickets.TicketURL(e.Museum.Slug); ok {
				e.TicketAffiliateURL = url
			}
		}
		e.OpenNow = hours.IsOpenNow(s.openingHours(e.Museum), now)
		if filter.OpenNow && (e.OpenNow == nil || !*e.OpenNow) {
			continue
		}
		list = append(list, s.cleaner.Clean(e))
	}

	res.Exhibitions = exhibition.Sort(list, s.clock.Today())
	log.Printf("[ExhibitionService] Loaded %d exhibitions (open now only: %t)", len(res.Exhibitions), filter.OpenNow)
	return res, nil
}

// openingHours picks the museum row's own hours text, then the curated
// English text, then the curated Dutch text.
func (s *ExhibitionService) openingHours(m exhibition.MuseumSummary) string {
	if m.OpeningHours != "" {
		return m.OpeningHours
	}
	if s.texts == nil || m.Slug == "" {
		return ""
	}
	text, ok := s.texts.OpeningHours(m.Slug)
	if !ok {
		return ""
	}
	if strings.TrimSpace(text.EN) != "" {
		return text.EN
	}
	return text.NL
}

// missingMuseumIDs collects museum ids of rows without a joined museum.
func missingMuseumIDs(rows []row.Row) []string {
	var ids []string
	for _, r := range rows {
		if r == nil || exhibition.HasMuseum(r) {
			continue
		}
		ids = append(ids, row.ID(r, "museum_id"))
	}
	return uniqueIDs(ids)
}
