package playlistextractor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"playlist-transcripts/internal/models"
	"playlist-transcripts/shared/config"
	"playlist-transcripts/shared/scheduler"
	"playlist-transcripts/shared/storage"
	"playlist-transcripts/shared/youtube"
)

type fakeSource struct {
	metadataErr map[string]error
	videosErr   map[string]error
	videos      map[string][]models.VideoEntry
	videoCalls  []string
}

func (f *fakeSource) GetPlaylistMetadata(ctx context.Context, playlistID string) (*models.PlaylistMetadata, error) {
	if err := f.metadataErr[playlistID]; err != nil {
		return nil, err
	}
	return &models.PlaylistMetadata{
		PlaylistID:   playlistID,
		Title:        "Title " + playlistID,
		ChannelTitle: "Channel",
		VideoCount:   int64(len(f.videos[playlistID])),
	}, nil
}

func (f *fakeSource) GetPlaylistVideos(ctx context.Context, playlistID string) ([]models.VideoEntry, error) {
	f.videoCalls = append(f.videoCalls, playlistID)
	if err := f.videosErr[playlistID]; err != nil {
		return nil, err
	}
	return f.videos[playlistID], nil
}

func entries(ids ...string) []models.VideoEntry {
	out := make([]models.VideoEntry, len(ids))
	for i, id := range ids {
		out[i] = models.VideoEntry{URL: models.WatchURL(id), VideoID: id, Position: int64(i)}
	}
	return out
}

type recordedEvents struct {
	partials []error
	metrics  scheduler.Metrics
}

func (r *recordedEvents) events() *scheduler.AgentEvents {
	return &scheduler.AgentEvents{
		OnSuccess:        func(m scheduler.Metrics, d time.Duration) { r.metrics = m },
		OnPartialFailure: func(err error, d time.Duration) { r.partials = append(r.partials, err) },
	}
}

func newTestAgent(t *testing.T, ids string, source PlaylistSource) *Agent {
	t.Helper()
	cfg := &config.Config{
		Playlists: config.PlaylistsConfig{IDs: ids},
		Export:    config.ExportConfig{Dir: t.TempDir()},
	}
	agent := NewAgent(cfg)
	agent.source = source
	agent.now = func() time.Time { return time.Date(2024, 6, 1, 9, 8, 7, 0, time.UTC) }
	return agent
}

func TestPlaylistAgentName(t *testing.T) {
	agent := NewAgent(&config.Config{})
	if name := agent.Name(); name != "Playlist Extractor" {
		t.Errorf("Agent.Name() = %s, want Playlist Extractor", name)
	}
}

func TestPlaylistMetricsGetSummary(t *testing.T) {
	tests := []struct {
		name     string
		metrics  PlaylistMetrics
		expected string
	}{
		{"All zeros", PlaylistMetrics{}, "extracted 0/0 playlists (0 videos)"},
		{"All extracted", PlaylistMetrics{Requested: 2, Extracted: 2, Videos: 7}, "extracted 2/2 playlists (7 videos)"},
		{"With failures", PlaylistMetrics{Requested: 3, Extracted: 2, Failed: 1, Videos: 5}, "extracted 2/3 playlists (5 videos), 1 failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.metrics.GetSummary(); got != tt.expected {
				t.Errorf("GetSummary() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestExtractSkipsFailedPlaylists(t *testing.T) {
	tests := []struct {
		name       string
		source     *fakeSource
		wantVideos []string
	}{
		{
			name: "Metadata failure",
			source: &fakeSource{
				metadataErr: map[string]error{"P2": youtube.ErrPlaylistNotFound},
				videos:      map[string][]models.VideoEntry{"P1": entries("a"), "P2": entries("b"), "P3": entries("c", "d")},
			},
			wantVideos: []string{"P1", "P3"},
		},
		{
			name: "Membership failure",
			source: &fakeSource{
				videosErr: map[string]error{"P2": errors.New("quota exceeded")},
				videos:    map[string][]models.VideoEntry{"P1": entries("a"), "P2": entries("b"), "P3": entries("c", "d")},
			},
			wantVideos: []string{"P1", "P2", "P3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := newTestAgent(t, "P1,P2,P3", tt.source)

			results := agent.Extract(context.Background(), []string{"P1", "P2", "P3"})
			if len(results) != 3 {
				t.Fatalf("got %d results, want 3", len(results))
			}
			if results[1].Err == nil || results[1].Document != nil {
				t.Errorf("P2 result = %+v, want error and no document", results[1])
			}

			docs := Documents(results)
			if len(docs) != 2 {
				t.Fatalf("got %d documents, want 2", len(docs))
			}
			if docs[0].PlaylistMetadata.PlaylistID != "P1" || docs[1].PlaylistMetadata.PlaylistID != "P3" {
				t.Errorf("documents = [%s %s], want [P1 P3]", docs[0].PlaylistMetadata.PlaylistID, docs[1].PlaylistMetadata.PlaylistID)
			}
			if strings.Join(tt.source.videoCalls, ",") != strings.Join(tt.wantVideos, ",") {
				t.Errorf("membership fetched for %v, want %v", tt.source.videoCalls, tt.wantVideos)
			}
		})
	}
}

func TestRunOnceWritesDocument(t *testing.T) {
	source := &fakeSource{
		metadataErr: map[string]error{"P2": youtube.ErrPlaylistNotFound},
		videos: map[string][]models.VideoEntry{
			"P1": entries("a", "b"),
			"P3": entries("c", "d", "e"),
		},
	}
	agent := newTestAgent(t, "P1, https://www.youtube.com/playlist?list=P2&si=x, P3", source)
	rec := &recordedEvents{}

	if err := agent.RunOnce(context.Background(), rec.events()); err != nil {
		t.Fatalf("RunOnce() unexpected error: %v", err)
	}

	wantPath := filepath.Join(agent.config.PlaylistDir(), "20240601_090807_all_playlists.json")
	if agent.LastOutput() != wantPath {
		t.Errorf("LastOutput() = %s, want %s", agent.LastOutput(), wantPath)
	}

	var docs []models.PlaylistDocument
	if err := storage.ReadJSON(wantPath, &docs); err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("output has %d documents, want 2", len(docs))
	}
	if len(docs[0].Videos) != 2 || len(docs[1].Videos) != 3 {
		t.Errorf("video counts = %d, %d, want 2, 3", len(docs[0].Videos), len(docs[1].Videos))
	}

	if len(rec.partials) != 1 || !errors.Is(rec.partials[0], youtube.ErrPlaylistNotFound) {
		t.Errorf("partial failures = %v, want one ErrPlaylistNotFound", rec.partials)
	}
	if rec.metrics == nil {
		t.Fatal("OnSuccess was not called")
	}
	if got := rec.metrics.GetSummary(); got != "extracted 2/3 playlists (5 videos), 1 failed" {
		t.Errorf("summary = %s", got)
	}
}

func TestRunOnceAllFailedWritesEmptyArray(t *testing.T) {
	source := &fakeSource{metadataErr: map[string]error{"P1": youtube.ErrPlaylistNotFound}}
	agent := newTestAgent(t, "P1", source)

	if err := agent.RunOnce(context.Background(), (&recordedEvents{}).events()); err != nil {
		t.Fatalf("RunOnce() unexpected error: %v", err)
	}

	data, err := os.ReadFile(agent.LastOutput())
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("output = %s, want []", data)
	}
}

func TestRunOnceEmptyPlaylistSerializesArray(t *testing.T) {
	source := &fakeSource{videos: map[string][]models.VideoEntry{}}
	agent := newTestAgent(t, "P1", source)

	if err := agent.RunOnce(context.Background(), (&recordedEvents{}).events()); err != nil {
		t.Fatalf("RunOnce() unexpected error: %v", err)
	}

	data, err := os.ReadFile(agent.LastOutput())
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if !strings.Contains(string(data), `"videos": []`) {
		t.Errorf("empty playlist should serialize videos as [], got %s", data)
	}
}

func TestRunOnceWithoutPlaylists(t *testing.T) {
	agent := newTestAgent(t, "", &fakeSource{})

	err := agent.RunOnce(context.Background(), (&recordedEvents{}).events())
	if !errors.Is(err, config.ErrNoPlaylists) {
		t.Errorf("RunOnce() error = %v, want ErrNoPlaylists", err)
	}
	if agent.LastOutput() != "" {
		t.Error("No document should be written without playlists")
	}
}

func TestRunOnceCancelled(t *testing.T) {
	agent := newTestAgent(t, "P1", &fakeSource{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := agent.RunOnce(ctx, (&recordedEvents{}).events()); !errors.Is(err, context.Canceled) {
		t.Errorf("RunOnce() error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(agent.config.PlaylistDir()); !os.IsNotExist(err) {
		t.Error("Cancelled run should not write output")
	}
}
