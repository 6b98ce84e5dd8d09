package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"playlist-transcripts/internal/models"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

// videoListResponse mirrors youtube.VideoListResponse, except that counts stay
// raw strings: the generated VideoStatistics decodes an absent count as zero.
type videoListResponse struct {
	Items []struct {
		Snippet        *youtube.VideoSnippet        `json:"snippet"`
		ContentDetails *youtube.VideoContentDetails `json:"contentDetails"`
		Statistics     *videoStatistics             `json:"statistics"`
	} `json:"items"`
}

type videoStatistics struct {
	ViewCount *string `json:"viewCount"`
	LikeCount *string `json:"likeCount"`
}

// GetVideoMetadata fetches snippet, content details and statistics for a video.
// It reports false when the API has no such video or the request fails; the
// failure is logged here and not returned.
func (c *Client) GetVideoMetadata(ctx context.Context, videoID string) (*models.VideoMetadata, bool) {
	resp, err := c.listVideo(ctx, videoID)
	if err != nil {
		log.Printf("Error fetching metadata for video ID %s: %v", videoID, err)
		return nil, false
	}

	if len(resp.Items) == 0 {
		log.Printf("No metadata found for video ID: %s", videoID)
		return nil, false
	}

	item := resp.Items[0]
	if item.Snippet == nil || item.ContentDetails == nil {
		log.Printf("Incomplete metadata for video ID: %s", videoID)
		return nil, false
	}

	views, likes := statistics(item.Statistics)
	return &models.VideoMetadata{
		URL:         models.WatchURL(videoID),
		Title:       item.Snippet.Title,
		Channel:     item.Snippet.ChannelTitle,
		UploadDate:  item.Snippet.PublishedAt,
		Description: item.Snippet.Description,
		Duration:    item.ContentDetails.Duration,
		Views:       views,
		Likes:       likes,
	}, true
}

// listVideo issues videos.list against the service endpoint with the client's
// credentials.
func (c *Client) listVideo(ctx context.Context, videoID string) (*videoListResponse, error) {
	params := url.Values{
		"part":        {"snippet", "contentDetails", "statistics"},
		"id":          {videoID},
		"alt":         {"json"},
		"prettyPrint": {"false"},
	}
	target := googleapi.ResolveRelative(c.service.BasePath, "youtube/v3/videos") + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer googleapi.CloseBody(res)

	if err := googleapi.CheckResponse(res); err != nil {
		return nil, err
	}

	var out videoListResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode videos response: %w", err)
	}
	return &out, nil
}

// statistics returns the counts as reported, or models.NotAvailable when the
// API omits them.
func statistics(stats *videoStatistics) (views, likes string) {
	if stats == nil {
		return models.NotAvailable, models.NotAvailable
	}
	return countOrNA(stats.ViewCount), countOrNA(stats.LikeCount)
}

func countOrNA(count *string) string {
	if count == nil {
		return models.NotAvailable
	}
	return *count
}
