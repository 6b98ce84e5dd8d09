package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"playlist-transcripts/internal/models"
	"playlist-transcripts/shared/config"

	"google.golang.org/genai"
)

// maxTranscriptChars bounds the transcript text sent with a single prompt.
const maxTranscriptChars = 60000

var ErrEmptyTranscript = errors.New("transcript is empty")

// generator is the part of the Gemini client the summarizer uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Summarizer struct {
	models generator
	model  string
}

func NewSummarizer(ctx context.Context, cfg *config.AIConfig) (*Summarizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Summarizer{
		models: client.Models,
		model:  cfg.Model,
	}, nil
}

// Summarize returns a short summary of a video built from its metadata and transcript.
func (s *Summarizer) Summarize(ctx context.Context, record *models.VideoTranscriptRecord) (string, error) {
	text := record.TranscriptText()
	if text == "" {
		return "", ErrEmptyTranscript
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(buildSummaryPrompt(record, text)),
		}, genai.RoleUser),
	}

	result, err := s.models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to summarize %s: %w", record.URL, err)
	}

	summary := strings.TrimSpace(result.Text())
	if summary == "" {
		return "", fmt.Errorf("empty summary for %s", record.URL)
	}
	return summary, nil
}

func buildSummaryPrompt(record *models.VideoTranscriptRecord, transcript string) string {
	return fmt.Sprintf(`Summarize the following YouTube video in 3-5 sentences. Focus on the key points a viewer would take away. Reply with the summary only.

Title: %s
Channel: %s
Duration: %s

TRANSCRIPT:
%s`,
		record.Title,
		record.Channel,
		record.Duration,
		truncateString(transcript, maxTranscriptChars),
	)
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	cut := maxLength
	// Do not split a UTF-8 sequence.
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut] + "..."
}
