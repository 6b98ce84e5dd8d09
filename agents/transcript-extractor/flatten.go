package transcriptextractor

import (
	"fmt"

	"playlist-transcripts/internal/models"
	"playlist-transcripts/shared/storage"
)

// FlattenVideoURLs lists every video URL in document order, then playlist order.
func FlattenVideoURLs(documents []models.PlaylistDocument) []string {
	var urls []string
	for _, doc := range documents {
		for _, video := range doc.Videos {
			urls = append(urls, video.URL)
		}
	}
	return urls
}

// LoadVideoURLs reads a playlist document file and flattens it.
func LoadVideoURLs(path string) ([]string, error) {
	var documents []models.PlaylistDocument
	if err := storage.ReadJSON(path, &documents); err != nil {
		return nil, fmt.Errorf("failed to load playlist document: %w", err)
	}
	return FlattenVideoURLs(documents), nil
}
