package youtube

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"playlist-transcripts/shared/config"

	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// ErrPlaylistNotFound is returned when the API has no item for a playlist ID,
// which is also what a private playlist looks like to an API-key client.
var ErrPlaylistNotFound = errors.New("playlist not found or is private")

// Client wraps the YouTube Data API v3 calls used by both pipelines.
type Client struct {
	service    *youtube.Service
	httpClient *http.Client
	now        func() time.Time
}

// NewClient authenticates with the OAuth client when one is configured and with
// the API key otherwise. Extra options such as option.WithEndpoint are passed to
// the service.
func NewClient(ctx context.Context, cfg *config.YouTubeConfig, opts ...option.ClientOption) (*Client, error) {
	if cfg.HasOAuthClient() {
		httpClient, err := newOAuthHTTPClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to set up OAuth client: %w", err)
		}
		log.Println("Using OAuth credentials for YouTube API")
		return newClient(ctx, httpClient, opts...)
	}

	return newClient(ctx, &http.Client{Transport: &transport.APIKey{Key: cfg.APIKey}}, opts...)
}

func newClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append(opts, option.WithHTTPClient(httpClient))
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{
		service:    service,
		httpClient: httpClient,
		now:        time.Now,
	}, nil
}
