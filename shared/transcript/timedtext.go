package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"playlist-transcripts/internal/models"
)

var tagRE = regexp.MustCompile(`<[^>]*>`)

// timedText covers both the classic <transcript><text start dur> layout and the
// format 3 <timedtext><body><p t d> layout (milliseconds).
type timedText struct {
	Texts []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Body  string `xml:",innerxml"`
	} `xml:"text"`
	Body struct {
		Paragraphs []struct {
			T    string `xml:"t,attr"`
			D    string `xml:"d,attr"`
			Body string `xml:",innerxml"`
		} `xml:"p"`
	} `xml:"body"`
}

// needsPoToken reports whether a caption URL can only be fetched from a browser.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickTrack returns the first manual track matching languages in order, then
// the first auto-generated one. Language codes must match exactly.
func pickTrack(tracks []captionTrack, languages []string) (captionTrack, error) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}

	for _, generated := range []bool{false, true} {
		for _, lang := range languages {
			for _, t := range usable {
				if t.LanguageCode == lang && (t.Kind == "asr") == generated {
					return t, nil
				}
			}
		}
	}
	return captionTrack{}, fmt.Errorf("%w (%s)", ErrLanguageUnavailable, strings.Join(languages, ","))
}

func (c *Client) fetchTimedText(ctx context.Context, baseURL string) ([]models.TranscriptSegment, error) {
	target, err := classicFormatURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid caption URL: %w", err)
	}

	body, err := c.get(ctx, target, maxTimedTextBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timedtext: %w", err)
	}

	return parseTimedText(body)
}

// classicFormatURL drops the fmt parameter so the server answers with the
// classic XML layout.
func classicFormatURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Del("fmt")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func parseTimedText(data []byte) ([]models.TranscriptSegment, error) {
	var tt timedText
	if err := xml.Unmarshal(data, &tt); err != nil {
		return nil, fmt.Errorf("failed to parse timedtext XML: %w", err)
	}

	segments := []models.TranscriptSegment{}
	for _, line := range tt.Texts {
		text := cleanText(line.Body)
		if text == "" {
			continue
		}
		segments = append(segments, models.TranscriptSegment{
			Text:     text,
			Start:    parseSeconds(line.Start),
			Duration: parseSeconds(line.Dur),
		})
	}
	for _, p := range tt.Body.Paragraphs {
		text := cleanText(p.Body)
		if text == "" {
			continue
		}
		segments = append(segments, models.TranscriptSegment{
			Text:     text,
			Start:    parseSeconds(p.T) / 1000,
			Duration: parseSeconds(p.D) / 1000,
		})
	}
	return segments, nil
}

// cleanText removes markup and resolves entities. Caption bodies are escaped
// twice, once for XML and once for HTML, so unescaping runs until stable.
func cleanText(raw string) string {
	text := raw
	for i := 0; i < 3; i++ {
		unescaped := html.UnescapeString(text)
		if unescaped == text {
			break
		}
		text = unescaped
	}
	text = tagRE.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
