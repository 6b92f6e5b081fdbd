package handlers

import (
	"context"
	"log"
	"net/http"

	"museum-buddy/filters"
	services "museum-buddy/service"
)

// ExhibitionLister loads the exhibitions listing.
type ExhibitionLister interface {
	ListExhibitions(ctx context.Context, filter services.ExhibitionFilter) (services.ExhibitionResult, error)
}

type ExhibitionHandler struct {
	exhibitions ExhibitionLister
}

func NewExhibitionHandler(exhibitions ExhibitionLister) *ExhibitionHandler {
	return &ExhibitionHandler{exhibitions: exhibitions}
}

// ListExhibitions handles GET /v1/exhibitions[?open_now=1].
func (h *ExhibitionHandler) ListExhibitions(w http.ResponseWriter, r *http.Request) {
	filter := services.ExhibitionFilter{OpenNow: filters.ExhibitionOpenNow(r.URL.Query())}
	result, err := h.exhibitions.ListExhibitions(r.Context(), filter)
	if err != nil {
		log.Printf("[ExhibitionHandler] Listing failed: %v", err)
	}
	writeJSON(w, statusFor(result.Error), result)
}
