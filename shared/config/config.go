package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoPlaylists   = errors.New("YOUTUBE_PLAYLIST_IDS not set")
	ErrNoCredentials = errors.New("YouTube API key not set (set YOUTUBE_API_KEY or youtube.api_key)")
)

type Config struct {
	YouTube     YouTubeConfig     `yaml:"youtube"`
	Playlists   PlaylistsConfig   `yaml:"playlists"`
	Transcripts TranscriptsConfig `yaml:"transcripts"`
	AI          AIConfig          `yaml:"ai"`
	Export      ExportConfig      `yaml:"export"`
	Monitoring  MonitoringConfig  `yaml:"monitoring"`
	Schedule    string            `yaml:"schedule"`
}

// YouTubeConfig holds the Data API credential. The OAuth client is optional and
// only needed to read private playlists.
type YouTubeConfig struct {
	APIKey       string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	TokenFile    string `yaml:"token_file" env:"YOUTUBE_TOKEN_FILE"`
}

type PlaylistsConfig struct {
	IDs string `yaml:"ids" env:"YOUTUBE_PLAYLIST_IDS"`
}

type TranscriptsConfig struct {
	Languages []string `yaml:"languages" env:"TRANSCRIPT_LANGUAGES"`
}

type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model" env:"GEMINI_MODEL"`
}

type ExportConfig struct {
	Dir string `yaml:"dir" env:"EXPORT_DIR"`
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port" env:"HEALTH_PORT"`
}

// Load reads .env, then the optional YAML file named by CONFIG_FILE, and fills
// anything left blank from the environment. Pipeline specific checks live in
// ValidatePlaylistExtractor and ValidateTranscriptExtractor.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Environment only.
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.YouTube.APIKey, "YOUTUBE_API_KEY")
	setFromEnv(&c.YouTube.ClientID, "GOOGLE_CLIENT_ID")
	setFromEnv(&c.YouTube.ClientSecret, "GOOGLE_CLIENT_SECRET")
	setFromEnv(&c.YouTube.TokenFile, "YOUTUBE_TOKEN_FILE")
	setFromEnv(&c.Playlists.IDs, "YOUTUBE_PLAYLIST_IDS")
	setFromEnv(&c.AI.GeminiAPIKey, "GEMINI_API_KEY")
	setFromEnv(&c.AI.Model, "GEMINI_MODEL")
	setFromEnv(&c.Export.Dir, "EXPORT_DIR")
	setFromEnv(&c.Schedule, "SCHEDULE")

	if len(c.Transcripts.Languages) == 0 {
		if langs := os.Getenv("TRANSCRIPT_LANGUAGES"); langs != "" {
			c.Transcripts.Languages = splitList(langs)
		}
	}
	if c.Monitoring.HealthPort == 0 {
		if port, err := strconv.Atoi(os.Getenv("HEALTH_PORT")); err == nil {
			c.Monitoring.HealthPort = port
		}
	}
}

func (c *Config) applyDefaults() {
	if c.YouTube.TokenFile == "" {
		c.YouTube.TokenFile = "youtube_token.json"
	}
	if len(c.Transcripts.Languages) == 0 {
		c.Transcripts.Languages = []string{"en"}
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
	if c.Export.Dir == "" {
		c.Export.Dir = "exports"
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8080
	}
}

func setFromEnv(field *string, key string) {
	if *field == "" {
		*field = os.Getenv(key)
	}
}

// PlaylistDir is where the playlist pipeline writes and the transcript pipeline reads.
func (c *Config) PlaylistDir() string {
	return filepath.Join(c.Export.Dir, "playlist-metadata")
}

func (c *Config) TranscriptDir() string {
	return filepath.Join(c.Export.Dir, "transcripts")
}

// HasOAuthClient reports whether an OAuth client is configured in place of an API key.
func (c *YouTubeConfig) HasOAuthClient() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// PlaylistIDs resolves the configured playlist list. An absent value is an error.
func (c *Config) PlaylistIDs() ([]string, error) {
	ids := ParsePlaylistIDs(c.Playlists.IDs)
	if len(ids) == 0 {
		return nil, ErrNoPlaylists
	}
	return ids, nil
}

// ParsePlaylistIDs splits a comma-separated list of playlist IDs or playlist URLs
// and reduces every URL to the value of its list= parameter.
func ParsePlaylistIDs(raw string) []string {
	var ids []string
	for _, token := range strings.Split(raw, ",") {
		id := strings.TrimSpace(token)
		if i := strings.LastIndex(id, "list="); i >= 0 {
			id = id[i+len("list="):]
			if amp := strings.IndexByte(id, '&'); amp >= 0 {
				id = id[:amp]
			}
		}
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) validateCredentials() error {
	if c.YouTube.APIKey == "" && !c.YouTube.HasOAuthClient() {
		return ErrNoCredentials
	}
	return nil
}

// ValidatePlaylistExtractor checks what the playlist pipeline needs before it starts.
func (c *Config) ValidatePlaylistExtractor() error {
	if err := c.validateCredentials(); err != nil {
		return err
	}
	if _, err := c.PlaylistIDs(); err != nil {
		return err
	}
	return c.validateSchedule()
}

func (c *Config) ValidateTranscriptExtractor() error {
	if err := c.validateCredentials(); err != nil {
		return err
	}
	if len(c.Transcripts.Languages) == 0 {
		return fmt.Errorf("at least one transcript language is required (set TRANSCRIPT_LANGUAGES or transcripts.languages)")
	}
	return c.validateSchedule()
}

func (c *Config) validateSchedule() error {
	if c.Schedule == "" {
		return nil
	}
	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", c.Schedule, err)
	}
	return nil
}
