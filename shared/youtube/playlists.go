package youtube

import (
	"context"
	"fmt"

	"playlist-transcripts/internal/models"
)

const (
	// maxPageSize is the largest page the playlistItems endpoint serves.
	maxPageSize = 50

	extractedAtLayout = "2006-01-02T15:04:05.000000"
)

// GetPlaylistMetadata fetches the snippet, content details and status of one playlist.
func (c *Client) GetPlaylistMetadata(ctx context.Context, playlistID string) (*models.PlaylistMetadata, error) {
	resp, err := c.service.Playlists.List([]string{"snippet", "contentDetails", "status"}).
		Id(playlistID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist %s: %w", playlistID, err)
	}

	if len(resp.Items) == 0 {
		return nil, ErrPlaylistNotFound
	}

	playlist := resp.Items[0]
	if playlist.Snippet == nil || playlist.ContentDetails == nil || playlist.Status == nil {
		return nil, fmt.Errorf("incomplete response for playlist %s", playlistID)
	}

	return &models.PlaylistMetadata{
		PlaylistID:    playlistID,
		Title:         playlist.Snippet.Title,
		Description:   playlist.Snippet.Description,
		ChannelTitle:  playlist.Snippet.ChannelTitle,
		ChannelID:     playlist.Snippet.ChannelId,
		PublishedAt:   playlist.Snippet.PublishedAt,
		VideoCount:    playlist.ContentDetails.ItemCount,
		PrivacyStatus: playlist.Status.PrivacyStatus,
		ExtractedAt:   c.now().Format(extractedAtLayout),
	}, nil
}

// GetPlaylistVideos returns every member of a playlist in the order the API
// reports them, following page tokens until none is returned.
func (c *Client) GetPlaylistVideos(ctx context.Context, playlistID string) ([]models.VideoEntry, error) {
	videos, err := collectPages(ctx, func(ctx context.Context, pageToken string) ([]models.VideoEntry, string, error) {
		return c.playlistItemsPage(ctx, playlistID, pageToken)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list videos of playlist %s: %w", playlistID, err)
	}
	return videos, nil
}

func (c *Client) playlistItemsPage(ctx context.Context, playlistID, pageToken string) ([]models.VideoEntry, string, error) {
	call := c.service.PlaylistItems.List([]string{"snippet"}).
		PlaylistId(playlistID).
		MaxResults(maxPageSize)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, "", err
	}

	entries := make([]models.VideoEntry, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Snippet.ResourceId == nil {
			return nil, "", fmt.Errorf("playlist item %s has no snippet", item.Id)
		}
		videoID := item.Snippet.ResourceId.VideoId
		entries = append(entries, models.VideoEntry{
			URL:         models.WatchURL(videoID),
			VideoID:     videoID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			Position:    item.Snippet.Position,
			PublishedAt: item.Snippet.PublishedAt,
		})
	}

	return entries, resp.NextPageToken, nil
}

// pageFunc fetches the page addressed by pageToken ("" for the first page) and
// returns its entries together with the token of the following page.
type pageFunc func(ctx context.Context, pageToken string) ([]models.VideoEntry, string, error)

func collectPages(ctx context.Context, fetch pageFunc) ([]models.VideoEntry, error) {
	videos := []models.VideoEntry{}
	pageToken := ""

	for {
		entries, next, err := fetch(ctx, pageToken)
		if err != nil {
			return nil, err
		}
		videos = append(videos, entries...)

		if next == "" {
			return videos, nil
		}
		pageToken = next
	}
}
