package handlers

import (
	"log"
	"net/http"

	"museum-buddy/search"
)

type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

// ParseSearch handles GET /v1/search/parse?q= and shows how a search
// string splits into free text and categories.
func (h *MetaHandler) ParseSearch(w http.ResponseWriter, r *http.Request) {
	parsed := search.ParseQuery(r.URL.Query().Get(SEARCH_QUERY_ARG))
	if parsed.CategoryFilters == nil {
		parsed.CategoryFilters = []string{}
	}
	writeJSON(w, http.StatusOK, parsed)
}

// Ping handles GET /ping
func (h *MetaHandler) Ping(w http.ResponseWriter, r *http.Request) {
	log.Println("Pinging server")
	writeJSON(w, http.StatusOK, map[string]string{"status": "pong"})
}
