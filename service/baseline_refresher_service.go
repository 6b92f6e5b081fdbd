package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"museum-buddy/dao/redis"
	"museum-buddy/datasource"
	"museum-buddy/models/museum"
	"museum-buddy/models/row"
)

// FallbackRows supplies museum rows when the data source is absent or fails.
type FallbackRows interface {
	Rows() []map[string]any
}

// BaselineRefresherService periodically rebuilds the unfiltered museum list,
// snapshots it to Redis and refreshes the museum geo index.
type BaselineRefresherService struct {
	source    datasource.Source
	fallback  FallbackRows
	builder   *MuseumBuilder
	store     *BaselineStore
	museumDao *redis.RedisMuseumDAO
	now       func() time.Time
}

// NewBaselineRefresherService constructs a refresher. source and museumDao
// may be nil.
func NewBaselineRefresherService(
	source datasource.Source,
	fallback FallbackRows,
	builder *MuseumBuilder,
	store *BaselineStore,
	museumDao *redis.RedisMuseumDAO,
	now func() time.Time,
) *BaselineRefresherService {
	if now == nil {
		now = time.Now
	}
	return &BaselineRefresherService{
		source:    source,
		fallback:  fallback,
		builder:   builder,
		store:     store,
		museumDao: museumDao,
		now:       now,
	}
}

// StartPeriodicJob launches the background loop at the given interval. It
// stops when ctx is done.
func (br *BaselineRefresherService) StartPeriodicJob(ctx context.Context, interval time.Duration) {
	go br.startPeriodicJob(ctx, interval)
}

func (br *BaselineRefresherService) startPeriodicJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[BaselineRefresherService] Stopping periodic baseline job.")
			return
		case <-ticker.C:
			log.Println("[BaselineRefresherService] Running periodic baseline job.")
			if err := br.RefreshBaseline(ctx); err != nil {
				log.Printf("[BaselineRefresherService] RefreshBaseline returned error: %v", err)
			} else {
				log.Println("[BaselineRefresherService] RefreshBaseline completed successfully.")
			}
		}
	}
}

// RestoreBaseline loads the last Redis snapshot into memory.
func (br *BaselineRefresherService) RestoreBaseline() error {
	if br.museumDao == nil {
		return nil
	}
	snapshot, err := br.museumDao.GetBaseline()
	if err != nil {
		return fmt.Errorf("failed to restore baseline: %w", err)
	}
	br.store.Replace(snapshot.Museums, snapshot.RefreshedAt)
	log.Printf("[BaselineRefresherService] Restored %d museums from snapshot", len(snapshot.Museums))
	return nil
}

// RefreshBaseline rebuilds the baseline from the data source, or from the
// fallback rows when the source is missing, fails or returns nothing.
func (br *BaselineRefresherService) RefreshBaseline(ctx context.Context) error {
	rows := br.fetchRows(ctx)
	list := br.withFallbackCoordinates(br.builder.Entities(rows))
	list = br.builder.SortFeatured(list)
	refreshedAt := br.now()
	br.store.Replace(list, refreshedAt)
	log.Printf("[BaselineRefresherService] Baseline holds %d museums", len(list))

	if br.museumDao == nil {
		return nil
	}
	if err := br.museumDao.SetBaseline(redis.Baseline{Museums: list, RefreshedAt: refreshedAt}); err != nil {
		return fmt.Errorf("failed to snapshot baseline: %w", err)
	}
	indexed := 0
	for _, m := range list {
		if m.Latitude == nil || m.Longitude == nil {
			continue
		}
		if err := br.museumDao.UpsertMuseum(m); err != nil {
			return fmt.Errorf("failed to index museum %s: %w", m.Slug, err)
		}
		indexed++
	}
	log.Printf("[BaselineRefresherService] Indexed %d museums for nearby lookups", indexed)
	return nil
}

func (br *BaselineRefresherService) fetchRows(ctx context.Context) []row.Row {
	if br.source != nil {
		rows, err := br.source.SelectMuseums(ctx, datasource.MuseumQuery{Columns: museum.SelectColumns()})
		if datasource.IsSchemaDrift(err) {
			rows, err = br.source.SelectMuseums(ctx, datasource.MuseumQuery{Columns: museum.BaseColumns})
		}
		if err == nil && len(rows) > 0 {
			return rows
		}
		log.Printf("[BaselineRefresherService] Using fallback museums (rows=%d, err=%v)", len(rows), err)
	}
	if br.fallback == nil {
		return nil
	}
	return br.fallback.Rows()
}

// withFallbackCoordinates fills in coordinates the musea rows lack from the
// fallback rows, matched by slug.
func (br *BaselineRefresherService) withFallbackCoordinates(list []museum.Entity) []museum.Entity {
	if br.fallback == nil {
		return list
	}
	known := make(map[string]row.Row)
	for _, r := range br.fallback.Rows() {
		known[row.String(r, museum.ColumnSlug)] = r
	}
	out := make([]museum.Entity, 0, len(list))
	for _, m := range list {
		if m.Latitude == nil || m.Longitude == nil {
			if r, ok := known[m.Slug]; ok {
				m.Latitude = row.Float(r, museum.ColumnLatitude)
				m.Longitude = row.Float(r, museum.ColumnLongitude)
			}
		}
		out = append(out, m)
	}
	return out
}
