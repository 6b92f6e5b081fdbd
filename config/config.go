package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environments
const ENV_DEV = "dev"
const ENV_PROD = "prod"

// HTTP Server config
const HTTP_ADDRESS = ":8080"

// Redis Config
const REDIS_DB_ADDRESS = "redis:6379"
const REDIS_DB_PASSWORD = ""
const REDIS_DB = 0

// Discovery config
const TIMEZONE = "Europe/Amsterdam"
const NEARBY_RADIUS_METERS = 5000
const SEARCH_DEBOUNCE = 200 * time.Millisecond

// Baseline Refresher config
const BASELINE_REFRESHER_SCHEDULE_MINUTES = 60

// Rate limit per client IP
const RATE_LIMIT_RPS = 10
const RATE_LIMIT_BURST = 20

// IP geolocation API
const IPGEO_ENDPOINT_BASE = "http://ip-api.com"

// Config holds the values read from the environment, defaults applied.
type Config struct {
	Env             string
	HTTPAddr        string
	DatabaseURL     string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	Timezone        string
	NearbyRadius    float64
	Debounce        time.Duration
	BaselineRefresh time.Duration
	CORSOrigins     []string
	RateLimitRPS    float64
	RateLimitBurst  int
	IPGeoEndpoint   string
	UseGeoIndex     bool
}

// IsProd reports whether the prod environment is selected.
func (c Config) IsProd() bool {
	return c.Env == ENV_PROD
}

// Default returns the configuration used when no variable is set. An empty
// DatabaseURL means no remote data source, an empty RedisAddr the in-memory
// client.
func Default() Config {
	return Config{
		Env:             ENV_DEV,
		HTTPAddr:        HTTP_ADDRESS,
		RedisPassword:   REDIS_DB_PASSWORD,
		RedisDB:         REDIS_DB,
		Timezone:        TIMEZONE,
		NearbyRadius:    NEARBY_RADIUS_METERS,
		Debounce:        SEARCH_DEBOUNCE,
		BaselineRefresh: BASELINE_REFRESHER_SCHEDULE_MINUTES * time.Minute,
		RateLimitRPS:    RATE_LIMIT_RPS,
		RateLimitBurst:  RATE_LIMIT_BURST,
		IPGeoEndpoint:   IPGEO_ENDPOINT_BASE,
	}
}

// Load reads .env files (".env" when none are named) into the process
// environment without overriding variables already set, then parses the
// configuration. Every invalid variable is reported in one error.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load env file: %w", err)
		}
		log.Println("[Config] No .env file found; using system environment")
	}
	return FromEnv(os.Getenv)
}

// FromEnv parses the configuration from getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	var invalid []string

	get := func(name string) string {
		return strings.TrimSpace(getenv(name))
	}

	if v := get("MB_ENV"); v != "" {
		if v != ENV_DEV && v != ENV_PROD {
			invalid = append(invalid, "MB_ENV")
		} else {
			cfg.Env = v
		}
	}
	if v := get("MB_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	cfg.DatabaseURL = get("DATABASE_URL")
	cfg.RedisAddr = get("REDIS_ADDR")
	if v := get("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := get("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil || db < 0 {
			invalid = append(invalid, "REDIS_DB")
		} else {
			cfg.RedisDB = db
		}
	}
	if v := get("MB_TIMEZONE"); v != "" {
		if _, err := time.LoadLocation(v); err != nil {
			invalid = append(invalid, "MB_TIMEZONE")
		} else {
			cfg.Timezone = v
		}
	}
	if v := get("MB_NEARBY_RADIUS_METERS"); v != "" {
		radius, err := strconv.ParseFloat(v, 64)
		if err != nil || radius <= 0 {
			invalid = append(invalid, "MB_NEARBY_RADIUS_METERS")
		} else {
			cfg.NearbyRadius = radius
		}
	}
	if v := get("MB_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			invalid = append(invalid, "MB_DEBOUNCE")
		} else {
			cfg.Debounce = d
		}
	}
	if v := get("MB_BASELINE_REFRESH"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			invalid = append(invalid, "MB_BASELINE_REFRESH")
		} else {
			cfg.BaselineRefresh = d
		}
	}
	if v := get("MB_CORS_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}
	if v := get("MB_RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps < 0 {
			invalid = append(invalid, "MB_RATE_LIMIT_RPS")
		} else {
			cfg.RateLimitRPS = rps
		}
	}
	if v := get("MB_IPGEO_ENDPOINT"); v != "" {
		cfg.IPGeoEndpoint = strings.TrimRight(v, "/")
	}
	if v := get("MB_USE_GEO_INDEX"); v != "" {
		use, err := strconv.ParseBool(v)
		if err != nil {
			invalid = append(invalid, "MB_USE_GEO_INDEX")
		} else {
			cfg.UseGeoIndex = use
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}
