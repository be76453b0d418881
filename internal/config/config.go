package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	IMDB      IMDBConfig      `yaml:"imdb"`
	JustWatch JustWatchConfig `yaml:"justwatch"`
	Watchlist WatchlistConfig `yaml:"watchlist"`
	HTTP      HTTPConfig      `yaml:"http"`
}

// IMDBConfig holds the title-metadata source settings.
type IMDBConfig struct {
	BaseURL       string `yaml:"base_url"`
	SuggestionURL string `yaml:"suggestion_url"`
	UserAgent     string `yaml:"user_agent"`
}

// JustWatchConfig holds the availability-aggregator settings.
type JustWatchConfig struct {
	GraphQLURL string `yaml:"graphql_url"`
	UserAgent  string `yaml:"user_agent"`
	Country    string `yaml:"country"`
	Language   string `yaml:"language"`
	PageSize   int    `yaml:"page_size"`
}

// WatchlistConfig holds the on-disk store settings.
type WatchlistConfig struct {
	Dir string `yaml:"dir"`
}

// HTTPConfig holds shared transport settings.
type HTTPConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the transport timeout as a duration.
func (h HTTPConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from file, filling unset fields with
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.IMDB.BaseURL == "" {
		c.IMDB.BaseURL = "https://www.imdb.com"
	}
	if c.IMDB.SuggestionURL == "" {
		c.IMDB.SuggestionURL = "https://v2.sg.media-imdb.com/suggestion"
	}
	if c.IMDB.UserAgent == "" {
		c.IMDB.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"
	}
	if c.JustWatch.GraphQLURL == "" {
		c.JustWatch.GraphQLURL = "https://apis.justwatch.com/graphql"
	}
	if c.JustWatch.UserAgent == "" {
		c.JustWatch.UserAgent = "Android 11.0.0; JustWatch; 2.8.0; 0"
	}
	if c.JustWatch.Country == "" {
		c.JustWatch.Country = "IT"
	}
	if c.JustWatch.Language == "" {
		c.JustWatch.Language = "it"
	}
	if c.JustWatch.PageSize == 0 {
		c.JustWatch.PageSize = 4
	}
	if c.Watchlist.Dir == "" {
		c.Watchlist.Dir = "watchlist"
	}
	if c.HTTP.TimeoutSeconds == 0 {
		c.HTTP.TimeoutSeconds = 15
	}
}

// validate checks if configuration is valid.
func (c *Config) validate() error {
	if c.JustWatch.PageSize < 1 {
		return fmt.Errorf("justwatch.page_size must be at least 1")
	}
	if c.HTTP.TimeoutSeconds < 1 {
		return fmt.Errorf("http.timeout_seconds must be at least 1")
	}
	if len(c.JustWatch.Country) != 2 {
		return fmt.Errorf("justwatch.country must be a two-letter code")
	}
	if len(c.JustWatch.Language) != 2 {
		return fmt.Errorf("justwatch.language must be a two-letter code")
	}
	return nil
}
