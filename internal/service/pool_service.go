// Package service provides the playlist import pipeline and pool sampling.
package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/tubeten/playlist-trivia-go/internal/cache"
	"github.com/tubeten/playlist-trivia-go/internal/metrics"
	"github.com/tubeten/playlist-trivia-go/internal/models"
	"github.com/tubeten/playlist-trivia-go/pkg/logger"
)

// Default pipeline bounds.
const (
	DefaultMaxDetailLookups = 300
	DefaultMaxSampleCount   = 50
	DefaultMinDurationSec   = 5
	DefaultMaxDurationSec   = 1800
)

// Catalog is the slice of the upstream client the pipeline needs.
type Catalog interface {
	FetchPlaylistItems(ctx context.Context, playlistID string) ([]models.RawItem, int, error)
	FetchVideoDetails(ctx context.Context, videoIDs []string) (map[string]models.VideoDetail, int, error)
}

// FilterConfig controls the duration admission predicate. Zero bounds disable
// the duration check entirely (the legacy policy); the strict policy with
// 5s/1800s bounds is the default.
type FilterConfig struct {
	MinDurationSec int
	MaxDurationSec int
}

// Options configures a PoolService. Zero fields take defaults.
type Options struct {
	CacheTTL         time.Duration
	MaxDetailLookups int
	MaxSampleCount   int
	Filter           FilterConfig
}

// PoolService runs the import pipeline and serves cached pools.
type PoolService struct {
	catalog Catalog // nil when no API key is configured
	store   cache.PoolStore
	opts    Options
	group   singleflight.Group
}

// NewPoolService creates a PoolService. A nil catalog makes every import fail
// with ErrMissingAPIKey while read paths keep working.
func NewPoolService(catalog Catalog, store cache.PoolStore, opts Options) *PoolService {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = cache.DefaultTTL
	}
	if opts.MaxDetailLookups <= 0 {
		opts.MaxDetailLookups = DefaultMaxDetailLookups
	}
	if opts.MaxSampleCount <= 0 {
		opts.MaxSampleCount = DefaultMaxSampleCount
	}

	return &PoolService{
		catalog: catalog,
		store:   store,
		opts:    opts,
	}
}

// ImportResult is the outcome of GetOrImport.
type ImportResult struct {
	Pool   []models.PoolEntry
	Cached bool
}

// GetOrImport returns the cached pool for a playlist, or runs the full import
// pipeline on a miss or when force is set. Concurrent imports of the same
// playlist are de-duplicated in flight and share one upstream pass.
func (s *PoolService) GetOrImport(ctx context.Context, playlistID string, force bool) (*ImportResult, error) {
	if !force {
		pool, ok, err := s.store.GetPool(ctx, playlistID)
		if err != nil {
			return nil, fmt.Errorf("cache lookup failed: %w", err)
		}
		if ok {
			metrics.CacheHits.Inc()
			return &ImportResult{Pool: pool, Cached: true}, nil
		}
	}

	flightKey := playlistID
	if force {
		flightKey = playlistID + ":force"
	}
	result, err, _ := s.group.Do(flightKey, func() (interface{}, error) {
		return s.runImport(ctx, playlistID)
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{Pool: result.([]models.PoolEntry)}, nil
}

// runImport executes the pipeline phases in strict sequence: list all pages,
// pre-filter, batch-fetch details, apply predicates, persist.
func (s *PoolService) runImport(ctx context.Context, playlistID string) ([]models.PoolEntry, error) {
	if s.catalog == nil {
		return nil, ErrMissingAPIKey
	}

	importID := uuid.New()
	start := time.Now()

	rawItems, listCost, err := s.catalog.FetchPlaylistItems(ctx, playlistID)
	if err != nil {
		metrics.ImportsTotal.WithLabelValues(metrics.OutcomeUpstreamError).Inc()
		return nil, err
	}
	if len(rawItems) == 0 {
		metrics.ImportsTotal.WithLabelValues(metrics.OutcomeEmpty).Inc()
		return nil, ErrEmptyPlaylist
	}

	prelim := filterUsableItems(rawItems)

	detailCost := 0
	var details map[string]models.VideoDetail
	if len(prelim) > 0 {
		videoIDs := make([]string, 0, len(prelim))
		for _, item := range prelim {
			videoIDs = append(videoIDs, item.VideoID)
		}
		if len(videoIDs) > s.opts.MaxDetailLookups {
			videoIDs = videoIDs[:s.opts.MaxDetailLookups]
		}

		details, detailCost, err = s.catalog.FetchVideoDetails(ctx, videoIDs)
		if err != nil {
			metrics.ImportsTotal.WithLabelValues(metrics.OutcomeUpstreamError).Inc()
			return nil, err
		}
	}

	pool := s.BuildPool(prelim, details)

	if err := s.store.PutPool(ctx, playlistID, pool, s.opts.CacheTTL); err != nil {
		metrics.ImportsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("failed to persist pool: %w", err)
	}

	metrics.ImportsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.QuotaCost.Add(float64(listCost + detailCost))
	metrics.PoolSize.Observe(float64(len(pool)))

	logger.Log.Info("playlist imported",
		zap.String("importId", importID.String()),
		zap.String("playlistId", playlistID),
		zap.Int("rawItems", len(rawItems)),
		zap.Int("usableItems", len(prelim)),
		zap.Int("poolSize", len(pool)),
		zap.Int("quotaCost", listCost+detailCost),
		zap.Duration("elapsed", time.Since(start)),
	)

	return pool, nil
}

// filterUsableItems drops playlist entries that point at removed or hidden
// videos. Those keep a placeholder title upstream and can never pass detail
// validation, so they are not worth spending detail quota on.
func filterUsableItems(items []models.RawItem) []models.RawItem {
	usable := make([]models.RawItem, 0, len(items))
	for _, item := range items {
		title := strings.ToLower(strings.TrimSpace(item.Title))
		switch {
		case item.VideoID == "" || title == "":
		case title == "deleted video" || title == "private video" || title == "not available":
		default:
			usable = append(usable, item)
		}
	}
	return usable
}

// BuildPool applies the admission predicates to raw playlist items. An item
// without a detail entry could not be validated and is dropped, never
// admitted by default. Survivor order follows the input order.
func (s *PoolService) BuildPool(rawItems []models.RawItem, details map[string]models.VideoDetail) []models.PoolEntry {
	now := time.Now().UTC()
	pool := make([]models.PoolEntry, 0, len(rawItems))

	for _, item := range rawItems {
		detail, ok := details[item.VideoID]
		if !ok || !s.admit(detail) {
			continue
		}
		pool = append(pool, models.PoolEntry{
			VideoID:     item.VideoID,
			Title:       item.Title,
			Thumbnails:  item.Thumbnails,
			DurationSec: detail.DurationSec,
			AddedAt:     now,
		})
	}

	return pool
}

func (s *PoolService) admit(detail models.VideoDetail) bool {
	if detail.PrivacyStatus == "private" {
		return false
	}
	if detail.UploadStatus != "" && detail.UploadStatus != "processed" {
		return false
	}
	if !detail.Embeddable {
		return false
	}

	filter := s.opts.Filter
	if filter.MinDurationSec > 0 || filter.MaxDurationSec > 0 {
		if detail.DurationSec <= filter.MinDurationSec {
			return false
		}
		if filter.MaxDurationSec > 0 && detail.DurationSec > filter.MaxDurationSec {
			return false
		}
	}

	return true
}

// Sample returns up to n pool entries drawn uniformly at random without
// replacement. n is clamped to the configured maximum; asking for more than
// the pool holds returns every entry in random order. A non-positive n or an
// empty pool yields an empty slice. Gameplay shuffling only, so math/rand is
// deliberate.
func (s *PoolService) Sample(pool []models.PoolEntry, n int) []models.PoolEntry {
	if n <= 0 || len(pool) == 0 {
		return []models.PoolEntry{}
	}
	if n > s.opts.MaxSampleCount {
		n = s.opts.MaxSampleCount
	}
	if n > len(pool) {
		n = len(pool)
	}

	shuffled := make([]models.PoolEntry, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled[:n]
}

// GetFull returns the entire stored pool for a playlist.
func (s *PoolService) GetFull(ctx context.Context, playlistID string) ([]models.PoolEntry, error) {
	pool, ok, err := s.store.GetPool(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("cache lookup failed: %w", err)
	}
	if !ok {
		return nil, ErrPoolNotFound
	}
	return pool, nil
}
