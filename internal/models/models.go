// Package models contains the data models and DTOs for the playlist trivia service.
package models

import (
	"encoding/json"
	"time"
)

// Wire error codes returned in ErrorResponse.Error.
const (
	ErrCodeInvalidPlaylist  = "invalid_playlist"
	ErrCodeMissingAPIKey    = "missing_api_key"
	ErrCodeEmptyPlaylist    = "empty_playlist"
	ErrCodeUpstream         = "youtube_api_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeServerError      = "server_error"
)

// RawItem is one playlist entry as returned by upstream pagination.
// Thumbnails are carried as an opaque blob; the service never inspects them.
type RawItem struct {
	VideoID    string          `json:"videoId"`
	Title      string          `json:"title"`
	Thumbnails json.RawMessage `json:"thumbnails,omitempty"`
}

// VideoDetail holds per-video status metadata from the catalog API, keyed by
// video ID. A video absent from the detail map could not be validated and must
// be treated as filtered out.
type VideoDetail struct {
	DurationISO   string
	DurationSec   int
	Embeddable    bool
	PrivacyStatus string
	UploadStatus  string
}

// PoolEntry is the persisted, filtered unit of a playlist pool.
type PoolEntry struct {
	VideoID     string          `json:"videoId"`
	Title       string          `json:"title"`
	Thumbnails  json.RawMessage `json:"thumbnails,omitempty"`
	DurationSec int             `json:"durationSec"`
	AddedAt     time.Time       `json:"addedAt"`
}

// ImportRequestDTO is the body of POST /import.
type ImportRequestDTO struct {
	URL   string `json:"url" binding:"required"`
	Force bool   `json:"force"`
}

// ImportResponseDTO summarizes a completed or cache-served import.
type ImportResponseDTO struct {
	PlaylistID string      `json:"playlistId"`
	Count      int         `json:"count"`
	Sample     []PoolEntry `json:"sample"`
	Cached     bool        `json:"cached"`
}

// PoolResponseDTO is returned by the pool and play read endpoints.
type PoolResponseDTO struct {
	PlaylistID string      `json:"playlistId"`
	Count      int         `json:"count"`
	Items      []PoolEntry `json:"items"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}
