package models

import (
	"errors"
	"strings"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

// ErrNoVideoID is returned when a URL carries no v= parameter.
var ErrNoVideoID = errors.New("no video ID in URL")

type PlaylistMetadata struct {
	PlaylistID    string `json:"playlist_id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	ChannelTitle  string `json:"channel_title"`
	ChannelID     string `json:"channel_id"`
	PublishedAt   string `json:"published_at"`
	VideoCount    int64  `json:"video_count"`
	PrivacyStatus string `json:"privacy_status"`
	ExtractedAt   string `json:"extracted_at"`
}

// VideoEntry is a playlist member. Position is the zero-based rank reported by the API.
type VideoEntry struct {
	URL         string `json:"url"`
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int64  `json:"position"`
	PublishedAt string `json:"published_at"`
}

type PlaylistDocument struct {
	PlaylistMetadata *PlaylistMetadata `json:"playlist_metadata"`
	Videos           []VideoEntry      `json:"videos"`
}

// WatchURL returns the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return watchURLPrefix + videoID
}

// VideoIDFromURL returns the token between v= and the next & or # (or end of string).
func VideoIDFromURL(url string) (string, error) {
	_, rest, ok := strings.Cut(url, "v=")
	if !ok {
		return "", ErrNoVideoID
	}
	if i := strings.IndexAny(rest, "&#"); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "", ErrNoVideoID
	}
	return rest, nil
}
