package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	transcriptextractor "playlist-transcripts/agents/transcript-extractor"
	"playlist-transcripts/shared/config"
	"playlist-transcripts/shared/scheduler"
)

func main() {
	source := flag.String("source", "", "playlist document to read instead of the newest *.json in <EXPORT_DIR>/playlist-metadata")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-source file]\n\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "Extracts metadata and transcripts for every video in a playlist document.")
		fmt.Fprintln(flag.CommandLine.Output(), "Without -source the newest playlist document is picked up automatically;")
		fmt.Fprintln(flag.CommandLine.Output(), "-source is an optional override and the command otherwise takes no arguments.")
		fmt.Fprintln(flag.CommandLine.Output())
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.ValidateTranscriptExtractor(); err != nil {
		log.Fatalf("Error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Println("\n=== YouTube Transcript Extractor ===")

	agent := transcriptextractor.NewAgent(cfg)
	if *source != "" {
		agent.SetSource(*source)
	}
	s := scheduler.New(cfg, agent)

	if err := s.Run(ctx); err != nil {
		log.Fatalf("Failed to run: %v", err)
	}

	if path := agent.LastOutput(); path != "" {
		fmt.Printf("\nTranscript data saved to %s\n", path)
	}
}
