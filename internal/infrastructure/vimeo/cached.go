package vimeo

import (
	"context"
	"time"

	"kbcportal/internal/domain"
	"kbcportal/internal/infrastructure/logger"
)

const (
	DefaultCacheTTL = 60 * time.Second

	keyVideos     = "vimeo:videos"
	keyProjects   = "vimeo:projects"
	keyProjectFmt = "vimeo:project:"
)

// Cache stores JSON-encodable values. Get reports a miss with found=false.
type Cache interface {
	Get(ctx context.Context, key string, dst interface{}) (found bool, err error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CachedSource is a read-through cache in front of the video host. Cache
// failures fall back to the live source. Only results whose paging finished
// cleanly are stored, so an upstream outage, whether total or mid-listing,
// never sticks for a whole TTL.
type CachedSource struct {
	next  PagedSource
	cache Cache
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedSource(next PagedSource, cache Cache, ttl time.Duration, log *logger.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CachedSource{next: next, cache: cache, ttl: ttl, log: log.With("component", "vimeo_cache")}
}

func (s *CachedSource) ListVideos(ctx context.Context) ([]domain.Video, error) {
	return readThrough(ctx, s, keyVideos, func() ([]domain.Video, bool) {
		return s.next.FetchVideos(ctx)
	})
}

func (s *CachedSource) ListProjectVideos(ctx context.Context, projectID string) ([]domain.Video, error) {
	if projectID == "" {
		return []domain.Video{}, nil
	}
	return readThrough(ctx, s, keyProjectFmt+projectID, func() ([]domain.Video, bool) {
		return s.next.FetchProjectVideos(ctx, projectID)
	})
}

func (s *CachedSource) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return readThrough(ctx, s, keyProjects, func() ([]domain.Project, bool) {
		return s.next.FetchProjects(ctx)
	})
}

func readThrough[T any](ctx context.Context, s *CachedSource, key string, load func() ([]T, bool)) ([]T, error) {
	var cached []T
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("cache read failed", "key", key, "error", err)
	} else if found {
		return cached, nil
	}

	fresh, complete := load()
	if fresh == nil {
		fresh = []T{}
	}
	if !complete {
		s.log.Debug("partial listing not cached", "key", key, "items", len(fresh))
		return fresh, nil
	}
	if err := s.cache.Set(ctx, key, fresh, s.ttl); err != nil {
		s.log.Warn("cache write failed", "key", key, "error", err)
	}
	return fresh, nil
}
