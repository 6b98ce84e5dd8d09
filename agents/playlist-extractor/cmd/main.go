package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	playlistextractor "playlist-transcripts/agents/playlist-extractor"
	"playlist-transcripts/shared/config"
	"playlist-transcripts/shared/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.ValidatePlaylistExtractor(); err != nil {
		log.Fatalf("Error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Println("\n=== YouTube Playlist Data Extractor ===")

	agent := playlistextractor.NewAgent(cfg)
	s := scheduler.New(cfg, agent)

	if err := s.Run(ctx); err != nil {
		log.Fatalf("Failed to run: %v", err)
	}

	if path := agent.LastOutput(); path != "" {
		fmt.Printf("\nAll playlist data saved to %s\n", path)
	}
}
