// Package validation provides input validation for playlist references.
package validation

import "regexp"

var (
	// Bare playlist IDs carry one of the known catalog prefixes.
	playlistIDRegex = regexp.MustCompile(`^(PL|UU|FL|LL|RD|OL)[A-Za-z0-9_-]+$`)
	listParamRegex  = regexp.MustCompile(`[?&]list=([A-Za-z0-9_-]+)`)
	videoIDRegex    = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// ResolvePlaylistID turns a raw playlist reference into a canonical playlist
// ID. The reference is either a bare playlist ID, returned unchanged, or a
// URL-like string carrying a list= query parameter, from which the parameter
// value is extracted. Reports false when neither form matches.
func ResolvePlaylistID(reference string) (string, bool) {
	if reference == "" {
		return "", false
	}
	if playlistIDRegex.MatchString(reference) {
		return reference, true
	}
	if m := listParamRegex.FindStringSubmatch(reference); m != nil {
		return m[1], true
	}
	return "", false
}

// IsValidVideoID reports whether id has the shape of a YouTube video ID.
func IsValidVideoID(videoID string) bool {
	return videoIDRegex.MatchString(videoID)
}
