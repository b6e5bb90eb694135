// Package youtube wraps the YouTube Data API v3 calls used by the importer.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/tubeten/playlist-trivia-go/internal/metrics"
	"github.com/tubeten/playlist-trivia-go/internal/models"
)

// Pipeline stages reported in UpstreamError.
const (
	StagePlaylistItems = "playlistItems"
	StageVideos        = "videos"
)

const (
	pageSize     = 50
	maxBatchSize = 50

	// DefaultMaxItems bounds accumulated playlist items per import to keep
	// memory and API quota in check on pathologically large playlists.
	DefaultMaxItems = 2000
)

// UpstreamError reports a failed catalog API call.
type UpstreamError struct {
	Stage      string
	StatusCode int // 0 for transport and timeout failures
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("youtube %s call failed: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("youtube %s call failed with status %d", e.Stage, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func upstreamError(stage string, err error) *UpstreamError {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &UpstreamError{Stage: stage, StatusCode: apiErr.Code, Err: err}
	}
	return &UpstreamError{Stage: stage, Err: err}
}

// Client wraps the YouTube Data API v3 client.
type Client struct {
	service *youtube.Service

	// MaxItems caps items accumulated across playlist pages.
	MaxItems int
	// RequestTimeout bounds each upstream call; zero disables the bound.
	RequestTimeout time.Duration
}

// NewClient creates a new YouTube API client. Extra options are appended
// after the API key, so tests can redirect the endpoint.
func NewClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{
		service:  service,
		MaxItems: DefaultMaxItems,
	}, nil
}

// FetchPlaylistItems pages through a playlist 50 items at a time, following
// the continuation token until the upstream signals no more pages or MaxItems
// is reached. Items without a resolvable video ID (removed or unshareable
// videos) are dropped. An empty playlist returns an empty slice, not an
// error. The second return value is the estimated quota cost (1 unit/page).
func (c *Client) FetchPlaylistItems(ctx context.Context, playlistID string) ([]models.RawItem, int, error) {
	items := make([]models.RawItem, 0, pageSize)
	pageToken := ""
	quotaCost := 0

	for {
		call := c.service.PlaylistItems.List([]string{"snippet"}).
			PlaylistId(playlistID).
			MaxResults(pageSize)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		callCtx, cancel := c.callContext(ctx)
		metrics.UpstreamRequests.WithLabelValues(StagePlaylistItems).Inc()
		response, err := call.Context(callCtx).Do()
		cancel()
		if err != nil {
			return nil, quotaCost, upstreamError(StagePlaylistItems, err)
		}
		quotaCost++

		for _, item := range response.Items {
			if item.Snippet == nil || item.Snippet.ResourceId == nil || item.Snippet.ResourceId.VideoId == "" {
				continue
			}
			raw := models.RawItem{
				VideoID: item.Snippet.ResourceId.VideoId,
				Title:   item.Snippet.Title,
			}
			if item.Snippet.Thumbnails != nil {
				if blob, err := json.Marshal(item.Snippet.Thumbnails); err == nil {
					raw.Thumbnails = blob
				}
			}
			items = append(items, raw)
		}

		if response.NextPageToken == "" || len(items) >= c.MaxItems {
			break
		}
		pageToken = response.NextPageToken
	}

	return items, quotaCost, nil
}

// FetchVideoDetails batch-fetches status and duration metadata for up to 50
// video IDs per request, merging all batches into one map. An ID absent from
// every batch response stays absent from the map, signaling "could not
// validate". The second return value is the estimated quota cost
// (1 unit/batch).
func (c *Client) FetchVideoDetails(ctx context.Context, videoIDs []string) (map[string]models.VideoDetail, int, error) {
	details := make(map[string]models.VideoDetail, len(videoIDs))
	quotaCost := 0

	for _, batch := range BatchVideoIDs(videoIDs, maxBatchSize) {
		call := c.service.Videos.List([]string{"contentDetails", "status", "snippet"}).
			Id(batch...).
			MaxResults(maxBatchSize)

		callCtx, cancel := c.callContext(ctx)
		metrics.UpstreamRequests.WithLabelValues(StageVideos).Inc()
		response, err := call.Context(callCtx).Do()
		cancel()
		if err != nil {
			return nil, quotaCost, upstreamError(StageVideos, err)
		}
		quotaCost++

		for _, video := range response.Items {
			details[video.Id] = mapVideoDetail(video)
		}
	}

	return details, quotaCost, nil
}

// callContext bounds one upstream call with the configured per-call timeout.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.RequestTimeout > 0 {
		return context.WithTimeout(ctx, c.RequestTimeout)
	}
	return ctx, func() {}
}

// mapVideoDetail converts an API video resource to the internal detail model.
// A missing status block defaults to embeddable/public, matching the
// upstream's behavior of omitting fields that hold their defaults.
func mapVideoDetail(video *youtube.Video) models.VideoDetail {
	detail := models.VideoDetail{
		Embeddable:    true,
		PrivacyStatus: "public",
	}

	if video.ContentDetails != nil {
		detail.DurationISO = video.ContentDetails.Duration
		if seconds, err := ParseVideoDuration(video.ContentDetails.Duration); err == nil {
			detail.DurationSec = seconds
		}
	}

	if video.Status != nil {
		detail.Embeddable = video.Status.Embeddable
		detail.UploadStatus = video.Status.UploadStatus
		if video.Status.PrivacyStatus != "" {
			detail.PrivacyStatus = video.Status.PrivacyStatus
		}
	}

	return detail
}

// BatchVideoIDs splits a list of video IDs into batches of at most batchSize.
func BatchVideoIDs(videoIDs []string, batchSize int) [][]string {
	if batchSize <= 0 || batchSize > maxBatchSize {
		batchSize = maxBatchSize
	}

	var batches [][]string
	for i := 0; i < len(videoIDs); i += batchSize {
		end := i + batchSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}
		batches = append(batches, videoIDs[i:end])
	}

	return batches
}

// ParseVideoDuration converts an ISO 8601 duration to seconds.
// Example: "PT4M13S" -> 253 seconds.
func ParseVideoDuration(duration string) (int, error) {
	if !strings.HasPrefix(duration, "PT") {
		return 0, fmt.Errorf("invalid duration format: %s", duration)
	}

	duration = strings.TrimPrefix(duration, "PT")

	var hours, minutes, seconds int

	if hIdx := strings.Index(duration, "H"); hIdx != -1 {
		h, err := strconv.Atoi(duration[:hIdx])
		if err != nil {
			return 0, err
		}
		hours = h
		duration = duration[hIdx+1:]
	}

	if mIdx := strings.Index(duration, "M"); mIdx != -1 {
		m, err := strconv.Atoi(duration[:mIdx])
		if err != nil {
			return 0, err
		}
		minutes = m
		duration = duration[mIdx+1:]
	}

	if sIdx := strings.Index(duration, "S"); sIdx != -1 {
		s, err := strconv.Atoi(duration[:sIdx])
		if err != nil {
			return 0, err
		}
		seconds = s
	}

	return hours*3600 + minutes*60 + seconds, nil
}
