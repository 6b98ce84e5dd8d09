// Package transcript retrieves caption tracks for YouTube videos and returns
// them as timed segments.
package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"playlist-transcripts/internal/models"

	"github.com/PuerkitoBio/goquery"
)

var (
	ErrNoCaptions          = errors.New("transcripts are disabled or unavailable for this video")
	ErrLanguageUnavailable = errors.New("no transcript in the requested languages")
)

const (
	defaultWatchURL = "https://www.youtube.com/watch"
	userAgent       = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	playerResponseMarker = "ytInitialPlayerResponse = "
	maxWatchPageBytes    = 6 * 1024 * 1024
	maxTimedTextBytes    = 2 * 1024 * 1024
)

// Client fetches transcripts by reading the caption tracks advertised in the
// watch page player response.
type Client struct {
	httpClient *http.Client
	watchURL   string
	languages  []string
}

// NewClient returns a client preferring the given language codes in order.
func NewClient(languages []string) *Client {
	if len(languages) == 0 {
		languages = []string{"en"}
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		watchURL:   defaultWatchURL,
		languages:  languages,
	}
}

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

// Fetch returns the transcript of videoID in the first available preferred language.
func (c *Client) Fetch(ctx context.Context, videoID string) ([]models.TranscriptSegment, error) {
	tracks, err := c.captionTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}

	track, err := pickTrack(tracks, c.languages)
	if err != nil {
		return nil, err
	}

	return c.fetchTimedText(ctx, track.BaseURL)
}

func (c *Client) captionTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	pageURL := c.watchURL + "?v=" + url.QueryEscape(videoID)
	body, err := c.get(ctx, pageURL, maxWatchPageBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch watch page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse watch page: %w", err)
	}

	var script string
	doc.Find("script").EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := s.Text()
		idx := strings.Index(text, playerResponseMarker)
		if idx < 0 {
			return true
		}
		script = text[idx+len(playerResponseMarker):]
		return false
	})
	if script == "" {
		return nil, errors.New("player response not found in watch page")
	}

	// Decode reads exactly one JSON value and ignores the script that follows it.
	var player playerResponse
	if err := json.NewDecoder(strings.NewReader(script)).Decode(&player); err != nil {
		return nil, fmt.Errorf("failed to decode player response: %w", err)
	}

	if player.Captions == nil || len(player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks) == 0 {
		if player.PlayabilityStatus != nil && player.PlayabilityStatus.Reason != "" {
			return nil, fmt.Errorf("%w: %s", ErrNoCaptions, player.PlayabilityStatus.Reason)
		}
		return nil, ErrNoCaptions
	}
	return player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, nil
}

func (c *Client) get(ctx context.Context, target string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cookie", "CONSENT=YES+1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}
