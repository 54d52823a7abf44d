package observation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jengzang/birding-planner-go/internal/models"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long live lookups are reused
const DefaultCacheTTL = 5 * time.Minute

// CachedSource wraps a Source with a TTL cache and collapses concurrent
// lookups for the same key into one upstream fetch.
type CachedSource struct {
	source Source
	cache  Cache
	ttl    time.Duration
	group  singleflight.Group
}

// NewCachedSource creates a caching wrapper around source
func NewCachedSource(source Source, cache Cache, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &CachedSource{source: source, cache: cache, ttl: ttl}
}

// RecentSightings serves from cache when fresh, otherwise fetches once per key.
// Failures are never cached.
func (s *CachedSource) RecentSightings(ctx context.Context, q Query) ([]models.Sighting, error) {
	key := cacheKey(q)

	if sightings, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Printf("[observation] cache read failed: %v", err)
	} else if ok {
		return sightings, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		sightings, err := s.source.RecentSightings(ctx, q)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, sightings, s.ttl); err != nil {
			log.Printf("[observation] cache write failed: %v", err)
		}
		return sightings, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Sighting), nil
}

func cacheKey(q Query) string {
	region := q.RegionCode
	if region == "" {
		region = q.Region
	}
	species := q.SpeciesCode
	if species == "" {
		species = q.Species
	}
	return strings.ToLower(fmt.Sprintf("%s:%s:%d", region, species, q.Days))
}
