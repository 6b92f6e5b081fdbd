package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"museum-buddy/filters"
	"museum-buddy/geo"
	"museum-buddy/models"
	"museum-buddy/models/museum"
	services "museum-buddy/service"
	"museum-buddy/server/middleware"
)

const SLUG_PATH_VAR = "slug"

// MuseumDiscovery runs the filter pipeline.
type MuseumDiscovery interface {
	Run(ctx context.Context, req services.Request) (services.Result, error)
}

// MuseumLookup answers single museum and geo index lookups.
type MuseumLookup interface {
	GetMuseum(slug string) (museum.Entity, error)
	GetAvailability(slug string) (services.MuseumAvailability, error)
	GetMuseumsNearby(ctx context.Context, lat, lng, radiusMeters float64) ([]museum.Entity, error)
}

// SearchResponse is the body of GET /v1/museums.
type SearchResponse struct {
	Museums        []museum.Entity `json:"museums"`
	Count          int             `json:"count"`
	CanonicalQuery string          `json:"canonical_query"`
	UsedNearby     bool            `json:"used_nearby"`
	NearbyDisabled bool            `json:"nearby_disabled"`
	Source         string          `json:"source"`
	Error          string          `json:"error,omitempty"`
}

// NearbyResponse is the body of GET /v1/museums/nearby. Bounds frames the
// museums found, for clients that zoom a map to them.
type NearbyResponse struct {
	Museums []museum.Entity     `json:"museums"`
	Count   int                 `json:"count"`
	Bounds  *models.BoundingBox `json:"bounds,omitempty"`
}

type MuseumHandler struct {
	discovery     MuseumDiscovery
	museums       MuseumLookup
	defaultRadius float64
}

func NewMuseumHandler(discovery MuseumDiscovery, museums MuseumLookup, defaultRadius float64) *MuseumHandler {
	return &MuseumHandler{
		discovery:     discovery,
		museums:       museums,
		defaultRadius: defaultRadius,
	}
}

// SearchMuseums handles GET /v1/museums with the filter URL parameters
// plus an optional lat/lng pair.
func (h *MuseumHandler) SearchMuseums(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	location, err := parseLocation(vals)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state := filters.FromValues(vals)
	result, err := h.discovery.Run(r.Context(), services.Request{
		State:    state,
		Location: location,
		ClientIP: middleware.ClientIP(r),
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("[MuseumHandler] Search %q failed: %v", r.URL.RawQuery, err)
	}

	museums := result.Museums
	if museums == nil {
		museums = []museum.Entity{}
	}
	writeJSON(w, statusFor(result.Error), SearchResponse{
		Museums:        museums,
		Count:          len(museums),
		CanonicalQuery: filters.Encode(state),
		UsedNearby:     result.UsedNearby,
		NearbyDisabled: result.NearbyDisabled,
		Source:         result.Source,
		Error:          result.Error,
	})
}

// GetMuseumsNearby handles GET /v1/museums/nearby?lat=&lng=[&radius=].
func (h *MuseumHandler) GetMuseumsNearby(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	lat, err := parseArgFloat64(vals, LAT_QUERY_ARG)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid argument "+LAT_QUERY_ARG)
		return
	}
	lng, err := parseArgFloat64(vals, LNG_QUERY_ARG)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid argument "+LNG_QUERY_ARG)
		return
	}
	radius := h.defaultRadius
	if vals.Get(RADIUS_QUERY_ARG) != "" {
		radius, err = parseArgFloat64(vals, RADIUS_QUERY_ARG)
		if err != nil || radius <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid argument "+RADIUS_QUERY_ARG)
			return
		}
	}

	list, err := h.museums.GetMuseumsNearby(r.Context(), lat, lng, radius)
	if err != nil {
		log.Printf("[MuseumHandler] Nearby lookup failed: %v", err)
		if errors.Is(err, services.ErrMissingSource) {
			writeError(w, http.StatusServiceUnavailable, services.ErrorMissingSource)
			return
		}
		writeError(w, http.StatusInternalServerError, services.ErrorUnknown)
		return
	}
	writeJSON(w, http.StatusOK, nearbyResponse(list))
}

func nearbyResponse(list []museum.Entity) NearbyResponse {
	if list == nil {
		list = []museum.Entity{}
	}
	res := NearbyResponse{Museums: list, Count: len(list)}
	points := make([]geo.Point, 0, len(list))
	for _, m := range list {
		if m.Latitude != nil && m.Longitude != nil {
			points = append(points, geo.Point{Lat: *m.Latitude, Lng: *m.Longitude})
		}
	}
	if box, ok := models.BoundingBoxOf(points); ok {
		res.Bounds = &box
	}
	return res
}

// GetMuseum handles GET /v1/museums/{slug}.
func (h *MuseumHandler) GetMuseum(w http.ResponseWriter, r *http.Request) {
	m, err := h.museums.GetMuseum(mux.Vars(r)[SLUG_PATH_VAR])
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GetAvailability handles GET /v1/museums/{slug}/availability.
func (h *MuseumHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	a, err := h.museums.GetAvailability(mux.Vars(r)[SLUG_PATH_VAR])
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *MuseumHandler) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrMuseumNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	log.Printf("[MuseumHandler] Lookup failed: %v", err)
	writeError(w, http.StatusInternalServerError, services.ErrorUnknown)
}
