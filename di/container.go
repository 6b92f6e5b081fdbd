package di

import (
	"context"
	"fmt"
	"log"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"museum-buddy/api"
	"museum-buddy/api/ipgeo"
	"museum-buddy/catalog"
	"museum-buddy/config"
	"museum-buddy/dao/postgres"
	"museum-buddy/dao/redis"
	"museum-buddy/datasource"
	"museum-buddy/db"
	"museum-buddy/hours"
	"museum-buddy/search"
	"museum-buddy/server"
	"museum-buddy/server/handlers"
	services "museum-buddy/service"
)

// Container holds all application dependencies.
type Container struct {
	Config                   config.Config
	Catalog                  *catalog.Catalog
	Clock                    *hours.Clock
	Pool                     *pgxpool.Pool
	Source                   datasource.Source
	RedisClient              db.RedisClient
	RedisMuseumDao           *redis.RedisMuseumDAO
	Locator                  ipgeo.IPGeoAPI
	MuseumBuilder            *services.MuseumBuilder
	BaselineStore            *services.BaselineStore
	DiscoveryService         *services.DiscoveryService
	MuseumService            *services.MuseumService
	ExhibitionService        *services.ExhibitionService
	BaselineRefresherService *services.BaselineRefresherService
	MuxRouter                *mux.Router
	Router                   *server.Router
	MuseumBuddyHttpServer    *server.MuseumBuddyHttpServer
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(ctx context.Context, cfg config.Config) (*Container, error) {
	log.Printf("initializing container - env: %s", cfg.Env)

	museumCatalog, err := catalog.Load()
	if err != nil {
		return nil, err
	}
	clock, err := hours.NewClock(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	// Opening hours, categories and curation all come from the catalog
	resolver, err := hours.NewResolver(museumCatalog, hours.DefaultScheduleCacheSize)
	if err != nil {
		return nil, err
	}
	classifier := search.NewClassifier(museumCatalog.CategoryOverrides(), museumCatalog)
	builder := services.NewMuseumBuilder(museumCatalog, classifier, resolver)

	// Initialize Redis client, in memory when no address is configured
	var redisClient db.RedisClient
	if cfg.RedisAddr == "" {
		log.Printf("Using in-memory redis client")
		redisClient = db.NewMockRedisClient(ctx)
	} else {
		redisInternalClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		geoClient, err := db.NewGeoRedisClient(ctx, redisInternalClient)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		redisClient = geoClient
	}
	museumDao := redis.NewRedisMuseumDAO(redisClient)

	// Remote data source; without one discovery runs on the baseline alone
	var pool *pgxpool.Pool
	var source datasource.Source
	if cfg.DatabaseURL != "" {
		pool, err = postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		source = postgres.NewMuseumStore(pool)
		if cfg.UseGeoIndex {
			log.Printf("Answering nearby queries from the redis geo index")
			source = datasource.NewGeoNearbySource(source, museumDao)
		}
	} else {
		log.Printf("No DATABASE_URL set; running without a remote data source")
	}

	// Initialize the ip geolocation api - using mock outside prod
	var locator ipgeo.IPGeoAPI
	if cfg.IsProd() {
		log.Printf("Using prod ip geolocation api")
		locator = ipgeo.NewIPGeoApiClient(api.NewHTTPClient(cfg.IPGeoEndpoint))
	} else {
		log.Printf("Using mock ip geolocation api")
		locator = ipgeo.NewIPGeoApiClientMock()
	}

	// Initialize service layer
	store := services.NewBaselineStore()
	discoveryService := services.NewDiscoveryService(source, store, builder, locator, clock, cfg.NearbyRadius)
	museumService := services.NewMuseumService(store, builder, museumDao, clock)
	exhibitionService := services.NewExhibitionService(source, museumCatalog, museumCatalog, clock)
	refresherService := services.NewBaselineRefresherService(source, museumCatalog, builder, store, museumDao, clock.Now)

	// Initialize handlers and router
	muxRouter := mux.NewRouter()
	router := server.NewRouter(
		handlers.NewMuseumHandler(discoveryService, museumService, cfg.NearbyRadius),
		handlers.NewExhibitionHandler(exhibitionService),
		handlers.NewMetaHandler(),
		muxRouter,
		server.RouterOptions{
			CORSOrigins:  cfg.CORSOrigins,
			RateLimitRPS: cfg.RateLimitRPS,
			RateBurst:    cfg.RateLimitBurst,
		})
	httpServer := server.NewMuseumBuddyHttpServer(cfg.HTTPAddr, router)

	return &Container{
		Config:                   cfg,
		Catalog:                  museumCatalog,
		Clock:                    clock,
		Pool:                     pool,
		Source:                   source,
		RedisClient:              redisClient,
		RedisMuseumDao:           museumDao,
		Locator:                  locator,
		MuseumBuilder:            builder,
		BaselineStore:            store,
		DiscoveryService:         discoveryService,
		MuseumService:            museumService,
		ExhibitionService:        exhibitionService,
		BaselineRefresherService: refresherService,
		MuxRouter:                muxRouter,
		Router:                   router,
		MuseumBuddyHttpServer:    httpServer,
	}, nil
}

// Close releases the database pool.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
