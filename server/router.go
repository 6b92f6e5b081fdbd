package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"museum-buddy/server/middleware"
)

// MuseumRoutes serves the museum endpoints.
type MuseumRoutes interface {
	SearchMuseums(w http.ResponseWriter, r *http.Request)
	GetMuseumsNearby(w http.ResponseWriter, r *http.Request)
	GetMuseum(w http.ResponseWriter, r *http.Request)
	GetAvailability(w http.ResponseWriter, r *http.Request)
}

// ExhibitionRoutes serves the exhibitions listing.
type ExhibitionRoutes interface {
	ListExhibitions(w http.ResponseWriter, r *http.Request)
}

// MetaRoutes serves the health check and query inspection endpoints.
type MetaRoutes interface {
	ParseSearch(w http.ResponseWriter, r *http.Request)
	Ping(w http.ResponseWriter, r *http.Request)
}

// RouterOptions configures the middleware chain.
type RouterOptions struct {
	CORSOrigins  []string
	RateLimitRPS float64
	RateBurst    int
}

type Router struct {
	museumHandler     MuseumRoutes
	exhibitionHandler ExhibitionRoutes
	metaHandler       MetaRoutes
	router            *mux.Router
	options           RouterOptions
}

// NewRouter creates a router with the app’s routes.
func NewRouter(
	museumHandler MuseumRoutes,
	exhibitionHandler ExhibitionRoutes,
	metaHandler MetaRoutes,
	router *mux.Router,
	options RouterOptions) *Router {
	return &Router{
		museumHandler:     museumHandler,
		exhibitionHandler: exhibitionHandler,
		metaHandler:       metaHandler,
		router:            router,
		options:           options,
	}
}

func (r *Router) RegisterRoutes() {
	// expects the filter URL parameters, optionally &lat={float}&lng={float}
	r.router.HandleFunc("/v1/museums", r.museumHandler.SearchMuseums).Methods("GET")
	// expects ?lat={float}&lng={float}[&radius={meters}]
	r.router.HandleFunc("/v1/museums/nearby", r.museumHandler.GetMuseumsNearby).Methods("GET")
	r.router.HandleFunc("/v1/museums/{slug}", r.museumHandler.GetMuseum).Methods("GET")
	r.router.HandleFunc("/v1/museums/{slug}/availability", r.museumHandler.GetAvailability).Methods("GET")

	r.router.HandleFunc("/v1/exhibitions", r.exhibitionHandler.ListExhibitions).Methods("GET")

	// expects ?q={search string}
	r.router.HandleFunc("/v1/search/parse", r.metaHandler.ParseSearch).Methods("GET")
	r.router.HandleFunc("/ping", r.metaHandler.Ping).Methods("GET")
}

// Handler wraps the routes in logging, security headers, CORS and the
// per-client rate limit, outermost first.
func (r *Router) Handler() http.Handler {
	limiter := middleware.NewRateLimiter(r.options.RateLimitRPS, r.options.RateBurst)
	var h http.Handler = limiter.Limit(r.router)
	h = middleware.CORS(r.options.CORSOrigins)(h)
	h = middleware.SecurityHeaders(h)
	return middleware.Logging(h)
}
