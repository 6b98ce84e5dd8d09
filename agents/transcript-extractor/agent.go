package transcriptextractor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"playlist-transcripts/internal/models"
	"playlist-transcripts/shared/ai"
	"playlist-transcripts/shared/config"
	"playlist-transcripts/shared/scheduler"
	"playlist-transcripts/shared/storage"
	"playlist-transcripts/shared/transcript"
	"playlist-transcripts/shared/youtube"
)

const (
	outputName           = "transcripts_metadata"
	extractionDateLayout = "2006-01-02 15:04:05"
)

// ErrNoMetadata marks a video the Data API returned nothing for.
var ErrNoMetadata = errors.New("no metadata found")

type MetadataSource interface {
	GetVideoMetadata(ctx context.Context, videoID string) (*models.VideoMetadata, bool)
}

type TranscriptSource interface {
	Fetch(ctx context.Context, videoID string) ([]models.TranscriptSegment, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, record *models.VideoTranscriptRecord) (string, error)
}

// VideoResult is the outcome for one input URL: a record or an error.
type VideoResult struct {
	Index  int
	URL    string
	Record *models.VideoTranscriptRecord
	Err    error
}

// TranscriptMetrics tracks metrics for a transcript extraction run
type TranscriptMetrics struct {
	Total      int
	Extracted  int
	NoMetadata int
	Failed     int
	Summarized int
}

func (m TranscriptMetrics) GetSummary() string {
	summary := fmt.Sprintf("processed %d out of %d videos", m.Extracted, m.Total)
	if m.NoMetadata > 0 {
		summary += fmt.Sprintf(", %d without metadata", m.NoMetadata)
	}
	if m.Failed > 0 {
		summary += fmt.Sprintf(", %d failed", m.Failed)
	}
	if m.Summarized > 0 {
		summary += fmt.Sprintf(", %d summarized", m.Summarized)
	}
	return summary
}

// Agent implements scheduler.Agent for the transcript pipeline.
type Agent struct {
	config      *config.Config
	metadata    MetadataSource
	transcripts TranscriptSource
	summarizer  Summarizer
	sourceFile  string
	now         func() time.Time
	lastOutput  string
}

func NewAgent(cfg *config.Config) *Agent {
	return &Agent{
		config: cfg,
		now:    time.Now,
	}
}

func (a *Agent) Name() string {
	return "Transcript Extractor"
}

func (a *Agent) Initialize(ctx context.Context) error {
	log.Printf("Initializing %s...", a.Name())

	if a.metadata == nil {
		client, err := youtube.NewClient(ctx, &a.config.YouTube)
		if err != nil {
			return fmt.Errorf("failed to create YouTube client: %w", err)
		}
		a.metadata = client
		log.Println("YouTube client initialized")
	}

	if a.transcripts == nil {
		a.transcripts = transcript.NewClient(a.config.Transcripts.Languages)
		log.Printf("Transcript client initialized (languages: %v)", a.config.Transcripts.Languages)
	}

	if a.summarizer == nil && a.config.AI.GeminiAPIKey != "" {
		summarizer, err := ai.NewSummarizer(ctx, &a.config.AI)
		if err != nil {
			return fmt.Errorf("failed to create summarizer: %w", err)
		}
		a.summarizer = summarizer
		log.Printf("Summarizer initialized (model: %s)", a.config.AI.Model)
	}

	return nil
}

// SetSource makes the next runs read path instead of the newest playlist document.
func (a *Agent) SetSource(path string) {
	a.sourceFile = path
}

func (a *Agent) LastOutput() string {
	return a.lastOutput
}

func (a *Agent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()

	sourceFile := a.sourceFile
	if sourceFile == "" {
		latest, err := storage.LatestJSON(a.config.PlaylistDir())
		if err != nil {
			return err
		}
		sourceFile = latest
	}

	videoURLs, err := LoadVideoURLs(sourceFile)
	if err != nil {
		return err
	}
	log.Printf("Found %d videos to process from %s", len(videoURLs), sourceFile)

	results := a.FetchBatch(ctx, videoURLs)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("extraction interrupted: %w", err)
	}

	records := Records(results)
	metrics := TranscriptMetrics{Total: len(videoURLs), Extracted: len(records)}
	for _, result := range results {
		switch {
		case errors.Is(result.Err, ErrNoMetadata):
			metrics.NoMetadata++
		case result.Err != nil:
			metrics.Failed++
			events.OnPartialFailure(fmt.Errorf("video %s: %w", result.URL, result.Err), time.Since(startTime))
		case result.Record.Summary != "":
			metrics.Summarized++
		}
	}

	log.Println("Saving data to file...")
	outputPath := storage.TimestampedPath(a.config.TranscriptDir(), outputName, a.now())
	if err := storage.WriteJSON(outputPath, records); err != nil {
		return fmt.Errorf("failed to save transcripts: %w", err)
	}
	a.lastOutput = outputPath
	log.Printf("✓ Data saved to %s", outputPath)
	log.Printf("✓ Successfully processed %d out of %d videos", len(records), len(videoURLs))

	events.OnSuccess(metrics, time.Since(startTime))
	return nil
}

// FetchBatch processes the URLs in order and returns one result per URL
// attempted. A failing video never stops the batch.
func (a *Agent) FetchBatch(ctx context.Context, videoURLs []string) []VideoResult {
	total := len(videoURLs)
	results := make([]VideoResult, 0, total)

	log.Printf("Starting to process %d videos...", total)
	for i, videoURL := range videoURLs {
		if ctx.Err() != nil {
			break
		}
		index := i + 1

		log.Printf("Processing video %d/%d: %s", index, total, videoURL)
		record, err := a.fetchVideo(ctx, videoURL)
		if err != nil && !errors.Is(err, ErrNoMetadata) {
			log.Printf("✗ Error processing %s: %v", videoURL, err)
		}
		log.Printf("Progress: %.1f%% (%d/%d videos processed)", float64(index)/float64(total)*100, index, total)

		results = append(results, VideoResult{Index: index, URL: videoURL, Record: record, Err: err})
	}

	return results
}

func (a *Agent) fetchVideo(ctx context.Context, videoURL string) (*models.VideoTranscriptRecord, error) {
	videoID, err := models.VideoIDFromURL(videoURL)
	if err != nil {
		return nil, err
	}

	metadata, ok := a.metadata.GetVideoMetadata(ctx, videoID)
	if !ok {
		return nil, ErrNoMetadata
	}
	log.Printf("✓ Metadata retrieved for: %s", metadata.Title)

	segments, err := a.transcripts.Fetch(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcript: %w", err)
	}

	record := &models.VideoTranscriptRecord{
		VideoMetadata:  *metadata,
		Transcript:     segments,
		ExtractionDate: a.now().Format(extractionDateLayout),
	}
	if record.Transcript == nil {
		record.Transcript = []models.TranscriptSegment{}
	}
	log.Println("✓ Transcript downloaded successfully")

	if a.summarizer != nil {
		summary, err := a.summarizer.Summarize(ctx, record)
		if err != nil {
			log.Printf("Warning: Failed to summarize %s: %v", videoURL, err)
		} else {
			record.Summary = summary
		}
	}

	return record, nil
}

// Records keeps the successful results, in input order.
func Records(results []VideoResult) []*models.VideoTranscriptRecord {
	records := make([]*models.VideoTranscriptRecord, 0, len(results))
	for _, result := range results {
		if result.Err == nil && result.Record != nil {
			records = append(records, result.Record)
		}
	}
	return records
}
