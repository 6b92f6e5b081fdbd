package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"museum-buddy/datasource"
	"museum-buddy/db"
	"museum-buddy/models/museum"
)

const MUSEUMS_GEO_KEY_V1 = "museums_geo_v1"
const MUSEUMS_GEO_PLACE_MEMBER_FORMAT_V1 = "museums_geo_place_v1:%s"

// MUSEUMS_BASELINE_KEY_V1 holds the last unfiltered museum list.
const MUSEUMS_BASELINE_KEY_V1 = "museums_baseline_v1"

// Baseline is the snapshot of the unfiltered museum list.
type Baseline struct {
	Museums     []museum.Entity `json:"museums"`
	RefreshedAt time.Time       `json:"refreshed_at"`
}

// RedisMuseumDAO handles museum geo lookups and the baseline snapshot.
type RedisMuseumDAO struct {
	client db.RedisClient
}

// NewRedisMuseumDAO initializes a RedisMuseumDAO with the Redis client.
func NewRedisMuseumDAO(client db.RedisClient) *RedisMuseumDAO {
	return &RedisMuseumDAO{client: client}
}

// UpsertMuseum stores the museum as a geolocation with its JSON data.
// Museums without coordinates are rejected.
func (dao *RedisMuseumDAO) UpsertMuseum(m museum.Entity) error {
	if m.Slug == "" {
		return fmt.Errorf("[RedisMuseumDAO] museum %q has no slug", m.Name)
	}
	if m.Latitude == nil || m.Longitude == nil {
		return fmt.Errorf("[RedisMuseumDAO] museum %s has no coordinates", m.Slug)
	}
	ctx := dao.client.GetContext()
	member := fmt.Sprintf(MUSEUMS_GEO_PLACE_MEMBER_FORMAT_V1, m.Slug)
	return dao.client.AddLocationWithJSON(ctx, MUSEUMS_GEO_KEY_V1, member, *m.Latitude, *m.Longitude, m)
}

// NearbyMuseums returns the slugs of indexed museums within radiusMeters,
// nearest first.
func (dao *RedisMuseumDAO) NearbyMuseums(ctx context.Context, lat, lng, radiusMeters float64) ([]datasource.GeoHit, error) {
	members, err := dao.client.GetLocationsWithinRadius(ctx, MUSEUMS_GEO_KEY_V1, lat, lng, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("[RedisMuseumDAO] failed to get museums: %w", err)
	}

	hits := make([]datasource.GeoHit, 0, len(members))
	for _, m := range members {
		slug, ok := slugFromMember(m.Name)
		if !ok {
			continue
		}
		hits = append(hits, datasource.GeoHit{Slug: slug, DistanceMeters: m.DistanceMeters})
	}
	return hits, nil
}

// GetMuseum returns the museum stored with the geo member.
func (dao *RedisMuseumDAO) GetMuseum(slug string) (*museum.Entity, error) {
	str, err := dao.client.Get(fmt.Sprintf(MUSEUMS_GEO_PLACE_MEMBER_FORMAT_V1, slug))
	if err != nil {
		return nil, fmt.Errorf("failed to get museum from redis: %w", err)
	}
	var m museum.Entity
	if err := json.Unmarshal([]byte(str), &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal museum JSON: %w", err)
	}
	return &m, nil
}

// ListMuseumSlugs returns the slugs of all stored museums.
func (dao *RedisMuseumDAO) ListMuseumSlugs() ([]string, error) {
	keys, err := dao.client.Keys(fmt.Sprintf(MUSEUMS_GEO_PLACE_MEMBER_FORMAT_V1, "*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list museum keys: %w", err)
	}
	slugs := make([]string, 0, len(keys))
	for _, k := range keys {
		if slug, ok := slugFromMember(k); ok {
			slugs = append(slugs, slug)
		}
	}
	return slugs, nil
}

// ClearGeoIndex removes the geo set and every stored museum.
func (dao *RedisMuseumDAO) ClearGeoIndex() error {
	slugs, err := dao.ListMuseumSlugs()
	if err != nil {
		return err
	}
	for _, slug := range slugs {
		if err := dao.client.Del(fmt.Sprintf(MUSEUMS_GEO_PLACE_MEMBER_FORMAT_V1, slug)); err != nil {
			return fmt.Errorf("failed to delete museum %s: %w", slug, err)
		}
	}
	if err := dao.client.Del(MUSEUMS_GEO_KEY_V1); err != nil {
		return fmt.Errorf("failed to delete geo index: %w", err)
	}
	log.Printf("[RedisMuseumDAO] Cleared %d museums from geo index", len(slugs))
	return nil
}

// SetBaseline stores the baseline snapshot.
func (dao *RedisMuseumDAO) SetBaseline(b Baseline) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}
	if err := dao.client.Set(MUSEUMS_BASELINE_KEY_V1, string(data)); err != nil {
		return fmt.Errorf("failed to set baseline in redis: %w", err)
	}
	return nil
}

// GetBaseline returns the stored baseline snapshot. A missing snapshot
// yields an error wrapping db.ErrKeyNotFound.
func (dao *RedisMuseumDAO) GetBaseline() (*Baseline, error) {
	str, err := dao.client.Get(MUSEUMS_BASELINE_KEY_V1)
	if err != nil {
		return nil, fmt.Errorf("failed to get baseline from redis: %w", err)
	}
	var b Baseline
	if err := json.Unmarshal([]byte(str), &b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal baseline JSON: %w", err)
	}
	return &b, nil
}

func slugFromMember(member string) (string, bool) {
	prefix := strings.TrimSuffix(MUSEUMS_GEO_PLACE_MEMBER_FORMAT_V1, "%s")
	slug, ok := strings.CutPrefix(member, prefix)
	return slug, ok && slug != ""
}
