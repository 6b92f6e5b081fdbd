package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"museum-buddy/geo"
	services "museum-buddy/service"
)

const (
	LAT_QUERY_ARG    = "lat"
	LNG_QUERY_ARG    = "lng"
	RADIUS_QUERY_ARG = "radius"
	SEARCH_QUERY_ARG = "q"
)

// errorResponse is the body of every non-2xx answer that is not a result.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Println("Error encoding response:", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// statusFor maps a client error code to the HTTP status it is served with.
func statusFor(code string) int {
	switch code {
	case "":
		return http.StatusOK
	case services.ErrorQueryFailed, services.ErrorMuseumQueryFailed:
		return http.StatusBadGateway
	case services.ErrorMissingSource:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func parseArgFloat64(vals url.Values, name string) (float64, error) {
	s := vals.Get(name)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid argument %s: %w", name, err)
	}
	return v, nil
}

var errPartialLocation = errors.New("lat and lng must be given together")

// parseLocation reads an optional lat/lng pair. Both absent yields nil.
func parseLocation(vals url.Values) (*geo.Point, error) {
	_, hasLat := vals[LAT_QUERY_ARG]
	_, hasLng := vals[LNG_QUERY_ARG]
	if !hasLat && !hasLng {
		return nil, nil
	}
	if !hasLat || !hasLng {
		return nil, errPartialLocation
	}
	lat, err := parseArgFloat64(vals, LAT_QUERY_ARG)
	if err != nil {
		return nil, err
	}
	lng, err := parseArgFloat64(vals, LNG_QUERY_ARG)
	if err != nil {
		return nil, err
	}
	p := geo.Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return nil, fmt.Errorf("location %v,%v out of range", lat, lng)
	}
	return &p, nil
}
