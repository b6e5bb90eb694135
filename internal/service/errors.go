package service

import "errors"

// ErrMissingAPIKey indicates the YouTube API key is not configured. This is a
// configuration fault, fatal to the request, never retried.
var ErrMissingAPIKey = errors.New("youtube API key is not configured")

// ErrEmptyPlaylist indicates the playlist resolved but the upstream returned
// zero items. Distinct from a playlist whose items all fail filtering, which
// yields a valid empty pool.
var ErrEmptyPlaylist = errors.New("playlist contains no items")

// ErrPoolNotFound indicates no cached pool exists for the playlist. Expired
// pools count as not found.
var ErrPoolNotFound = errors.New("no pool found for playlist")
