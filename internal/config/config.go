package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/glabrego/sponsored-cli/internal/retry"
)

const (
	defaultAPIBaseURL = "https://api.taboola.com/1.0/json"

	ProviderAPI     = "api"
	ProviderCatalog = "catalog"
)

// Config holds runtime settings for the CLI app.
type Config struct {
	Provider    string
	APIBaseURL  string
	PublisherID string
	APIKey      string
	AppType     string
	SourceType  string
	SourceID    string
	SourceURL   string
	DBPath      string
	CatalogSeed string
	PagePath    string
	LogPath     string
	LogLevel    string
	ConfigPath  string
	Tuning      Tuning
}

// Bound is an attempt bound with a fixed delay between attempts.
type Bound struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Delay       time.Duration `yaml:"delay"`
}

// Policy converts the bound to a retry policy.
func (b Bound) Policy() retry.Policy {
	return retry.Policy{MaxAttempts: b.MaxAttempts, Delay: b.Delay}
}

// Tuning is the widget behavior block of the optional YAML config file.
type Tuning struct {
	Count           int           `yaml:"count"`
	MaxRetries      int           `yaml:"max_retries"`
	RetryDelay      time.Duration `yaml:"retry_delay"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	Replace         Bound         `yaml:"replace"`
	Provider        Bound         `yaml:"provider"`
	Breakpoint      int           `yaml:"breakpoint"`
	ScrollThreshold int           `yaml:"scroll_threshold"`
	CollapseOffset  int           `yaml:"collapse_offset"`
	ExpandDelta     int           `yaml:"expand_delta"`
	BottomProximity int           `yaml:"bottom_proximity"`
	TabDelay        time.Duration `yaml:"tab_delay"`
	CellWidth       int           `yaml:"cell_width"`
	LineHeight      int           `yaml:"line_height"`
}

// DefaultTuning returns the values used when no config file overrides them.
func DefaultTuning() Tuning {
	return Tuning{
		Count:           5,
		MaxRetries:      5,
		RetryDelay:      time.Second,
		FetchTimeout:    10 * time.Second,
		Replace:         Bound{MaxAttempts: 5, Delay: time.Second},
		Provider:        Bound{MaxAttempts: 6, Delay: time.Second},
		Breakpoint:      750,
		ScrollThreshold: 20,
		CollapseOffset:  100,
		ExpandDelta:     30,
		BottomProximity: 100,
		TabDelay:        300 * time.Millisecond,
		CellWidth:       8,
		LineHeight:      20,
	}
}

// LoadFromEnv reads SPONSORED_* variables and merges the optional config file
// over DefaultTuning.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		Provider:    os.Getenv("SPONSORED_PROVIDER"),
		APIBaseURL:  os.Getenv("SPONSORED_API_BASE_URL"),
		PublisherID: os.Getenv("SPONSORED_PUBLISHER_ID"),
		APIKey:      os.Getenv("SPONSORED_API_KEY"),
		AppType:     os.Getenv("SPONSORED_APP_TYPE"),
		SourceType:  os.Getenv("SPONSORED_SOURCE_TYPE"),
		SourceID:    os.Getenv("SPONSORED_SOURCE_ID"),
		SourceURL:   os.Getenv("SPONSORED_SOURCE_URL"),
		DBPath:      os.Getenv("SPONSORED_DB_PATH"),
		CatalogSeed: os.Getenv("SPONSORED_CATALOG_SEED"),
		PagePath:    os.Getenv("SPONSORED_PAGE_PATH"),
		LogPath:     os.Getenv("SPONSORED_LOG_PATH"),
		LogLevel:    os.Getenv("SPONSORED_LOG_LEVEL"),
		ConfigPath:  os.Getenv("SPONSORED_CONFIG"),
		Tuning:      DefaultTuning(),
	}

	if cfg.Provider == "" {
		cfg.Provider = ProviderAPI
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.AppType == "" {
		cfg.AppType = "desktop"
	}
	if cfg.SourceType == "" {
		cfg.SourceType = "video"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "sponsored.db"
	}
	if cfg.LogPath == "" {
		cfg.LogPath = "sponsored.log"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if cfg.ConfigPath != "" {
		tuning, err := LoadTuningFile(cfg.ConfigPath, cfg.Tuning)
		if err != nil {
			return Config{}, err
		}
		cfg.Tuning = tuning
	}
	if raw := os.Getenv("SPONSORED_COUNT"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("SPONSORED_COUNT must be an integer: %q", raw)
		}
		cfg.Tuning.Count = count
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadTuningFile overlays the YAML file at path onto base. Keys missing
// from the file keep their base values.
func LoadTuningFile(path string, base Tuning) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read config file: %w", err)
	}
	tuning := base
	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return Tuning{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return tuning, nil
}

func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAPI:
		if c.PublisherID == "" {
			return errors.New("SPONSORED_PUBLISHER_ID is required")
		}
		if c.APIKey == "" {
			return errors.New("SPONSORED_API_KEY is required")
		}
		if c.APIBaseURL == "" {
			return errors.New("APIBaseURL is required")
		}
		if c.APIBaseURL[len(c.APIBaseURL)-1] == '/' {
			return fmt.Errorf("APIBaseURL must not end with '/': %s", c.APIBaseURL)
		}
	case ProviderCatalog:
		if c.DBPath == "" {
			return errors.New("DBPath is required")
		}
	default:
		return fmt.Errorf("Provider must be api or catalog: %s", c.Provider)
	}
	if c.LogLevel != "info" && c.LogLevel != "debug" {
		return fmt.Errorf("LogLevel must be info or debug: %s", c.LogLevel)
	}
	return c.Tuning.Validate()
}

func (t Tuning) Validate() error {
	if t.Count < 1 {
		return fmt.Errorf("count must be positive: %d", t.Count)
	}
	if t.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative: %d", t.MaxRetries)
	}
	if t.RetryDelay < 0 || t.TabDelay < 0 {
		return errors.New("delays must not be negative")
	}
	if t.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive: %s", t.FetchTimeout)
	}
	if err := t.Replace.Policy().Validate(); err != nil {
		return fmt.Errorf("replace: %w", err)
	}
	if err := t.Provider.Policy().Validate(); err != nil {
		return fmt.Errorf("provider: %w", err)
	}
	if t.Breakpoint < 1 || t.CellWidth < 1 || t.LineHeight < 1 {
		return errors.New("breakpoint, cell_width and line_height must be positive")
	}
	if t.ScrollThreshold < 0 || t.CollapseOffset < 0 || t.ExpandDelta < 0 || t.BottomProximity < 0 {
		return errors.New("scroll thresholds must not be negative")
	}
	return nil
}
