package playlistextractor

import (
	"context"
	"fmt"
	"log"
	"time"

	"playlist-transcripts/internal/models"
	"playlist-transcripts/shared/config"
	"playlist-transcripts/shared/scheduler"
	"playlist-transcripts/shared/storage"
	"playlist-transcripts/shared/youtube"
)

const outputName = "all_playlists"

// PlaylistSource is the part of the YouTube client the extractor needs.
type PlaylistSource interface {
	GetPlaylistMetadata(ctx context.Context, playlistID string) (*models.PlaylistMetadata, error)
	GetPlaylistVideos(ctx context.Context, playlistID string) ([]models.VideoEntry, error)
}

// PlaylistResult is the outcome for one requested playlist: a document or an error.
type PlaylistResult struct {
	PlaylistID string
	Document   *models.PlaylistDocument
	Err        error
}

// PlaylistMetrics tracks metrics for a playlist extraction run
type PlaylistMetrics struct {
	Requested int
	Extracted int
	Failed    int
	Videos    int
}

func (m PlaylistMetrics) GetSummary() string {
	summary := fmt.Sprintf("extracted %d/%d playlists (%d videos)", m.Extracted, m.Requested, m.Videos)
	if m.Failed > 0 {
		summary += fmt.Sprintf(", %d failed", m.Failed)
	}
	return summary
}

// Agent implements scheduler.Agent for the playlist pipeline.
type Agent struct {
	config     *config.Config
	source     PlaylistSource
	now        func() time.Time
	lastOutput string
}

func NewAgent(cfg *config.Config) *Agent {
	return &Agent{
		config: cfg,
		now:    time.Now,
	}
}

func (a *Agent) Name() string {
	return "Playlist Extractor"
}

func (a *Agent) Initialize(ctx context.Context) error {
	log.Printf("Initializing %s...", a.Name())

	if a.source == nil {
		client, err := youtube.NewClient(ctx, &a.config.YouTube)
		if err != nil {
			return fmt.Errorf("failed to create YouTube client: %w", err)
		}
		a.source = client
		log.Println("YouTube client initialized")
	}
	return nil
}

// LastOutput returns the document written by the latest successful run.
func (a *Agent) LastOutput() string {
	return a.lastOutput
}

func (a *Agent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()

	playlistIDs, err := a.config.PlaylistIDs()
	if err != nil {
		return err
	}

	results := a.Extract(ctx, playlistIDs)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("extraction interrupted: %w", err)
	}

	documents := Documents(results)
	metrics := PlaylistMetrics{
		Requested: len(playlistIDs),
		Extracted: len(documents),
	}
	for _, doc := range documents {
		metrics.Videos += len(doc.Videos)
	}
	for _, result := range results {
		if result.Err != nil {
			metrics.Failed++
			events.OnPartialFailure(fmt.Errorf("playlist %s: %w", result.PlaylistID, result.Err), time.Since(startTime))
		}
	}

	outputPath := storage.TimestampedPath(a.config.PlaylistDir(), outputName, a.now())
	if err := storage.WriteJSON(outputPath, documents); err != nil {
		return fmt.Errorf("failed to save playlist data: %w", err)
	}
	a.lastOutput = outputPath
	log.Printf("Data saved to %s", outputPath)

	events.OnSuccess(metrics, time.Since(startTime))
	return nil
}

// Extract processes the playlists in order. A failing playlist yields a result
// carrying its error and never stops the remaining ones.
func (a *Agent) Extract(ctx context.Context, playlistIDs []string) []PlaylistResult {
	results := make([]PlaylistResult, 0, len(playlistIDs))

	for i, playlistID := range playlistIDs {
		if ctx.Err() != nil {
			break
		}

		log.Printf("Processing playlist %d/%d: %s", i+1, len(playlistIDs), playlistID)
		result := a.extractPlaylist(ctx, playlistID)
		if result.Err != nil {
			log.Printf("Error processing playlist %s: %v", playlistID, result.Err)
			log.Println("Continuing with next playlist...")
		} else {
			log.Printf("Successfully extracted data for %d videos!", len(result.Document.Videos))
			log.Printf("Playlist: %s", result.Document.PlaylistMetadata.Title)
			log.Printf("Channel: %s", result.Document.PlaylistMetadata.ChannelTitle)
		}
		results = append(results, result)
	}

	return results
}

func (a *Agent) extractPlaylist(ctx context.Context, playlistID string) PlaylistResult {
	metadata, err := a.source.GetPlaylistMetadata(ctx, playlistID)
	if err != nil {
		return PlaylistResult{PlaylistID: playlistID, Err: err}
	}

	videos, err := a.source.GetPlaylistVideos(ctx, playlistID)
	if err != nil {
		return PlaylistResult{PlaylistID: playlistID, Err: err}
	}
	if videos == nil {
		videos = []models.VideoEntry{}
	}

	return PlaylistResult{
		PlaylistID: playlistID,
		Document: &models.PlaylistDocument{
			PlaylistMetadata: metadata,
			Videos:           videos,
		},
	}
}

// Documents keeps the successful results, in request order.
func Documents(results []PlaylistResult) []*models.PlaylistDocument {
	documents := make([]*models.PlaylistDocument, 0, len(results))
	for _, result := range results {
		if result.Err == nil && result.Document != nil {
			documents = append(documents, result.Document)
		}
	}
	return documents
}
