package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pders01/flick/internal/validation"
)

const (
	BackendAppwrite = "appwrite"
	BackendBolt     = "bolt"
	BackendNone     = "none"
)

type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Store   StoreConfig   `mapstructure:"store"`
	Search  SearchConfig  `mapstructure:"search"`
	Logging LoggingConfig `mapstructure:"logging"`
	UI      UIConfig      `mapstructure:"ui"`
	Media   MediaConfig   `mapstructure:"media"`
	Keys    KeyConfig     `mapstructure:"keys"`
}

type CatalogConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIToken     string        `mapstructure:"api_token"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
	RateLimit    float64       `mapstructure:"rate_limit"`
	RateBurst    int           `mapstructure:"rate_burst"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	WebBaseURL   string        `mapstructure:"web_base_url"`
	UserAgent    string        `mapstructure:"user_agent"`
}

type StoreConfig struct {
	Backend       string         `mapstructure:"backend"`
	Path          string         `mapstructure:"path"`
	Timeout       time.Duration  `mapstructure:"timeout"`
	TrendingLimit int            `mapstructure:"trending_limit"`
	ReportTimeout time.Duration  `mapstructure:"report_timeout"`
	Appwrite      AppwriteConfig `mapstructure:"appwrite"`
}

type AppwriteConfig struct {
	Endpoint     string `mapstructure:"endpoint"`
	ProjectID    string `mapstructure:"project_id"`
	APIKey       string `mapstructure:"api_key"`
	DatabaseID   string `mapstructure:"database_id"`
	CollectionID string `mapstructure:"collection_id"`
}

type SearchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type UIConfig struct {
	Colors UIColors `mapstructure:"colors"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
}

type MediaConfig struct {
	DefaultOpener string   `mapstructure:"default_opener"`
	ImageViewers  []string `mapstructure:"image_viewers"`
}

type KeyConfig struct {
	Modifier string `mapstructure:"modifier"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".flick")

	return &Config{
		Catalog: CatalogConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			HTTPTimeout:  30 * time.Second,
			RateLimit:    20,
			RateBurst:    5,
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			WebBaseURL:   "https://www.themoviedb.org/movie",
			UserAgent:    "flick/1.0 (https://github.com/pders01/flick)",
		},
		Store: StoreConfig{
			Backend:       BackendBolt,
			Path:          filepath.Join(dataDir, "popularity.db"),
			Timeout:       1 * time.Second,
			TrendingLimit: 5,
			ReportTimeout: 10 * time.Second,
			Appwrite: AppwriteConfig{
				Endpoint: "https://cloud.appwrite.io/v1",
			},
		},
		Search: SearchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(dataDir, "flick.log"),
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#AB8BFF",
				Secondary: "#D6C7FF",
				Accent:    "#FFD166",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#EF4444",
			},
		},
		Media: MediaConfig{
			DefaultOpener: getDefaultOpener(),
			ImageViewers:  defaultImageViewers(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

func defaultImageViewers() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"qlmanage", "open"}
	case "linux":
		return []string{"feh", "sxiv", "eog", "xdg-open"}
	default:
		return []string{}
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "flick")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FLICK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The token is the one secret most setups export without the prefix.
	if err := v.BindEnv("catalog.api_token", "FLICK_CATALOG_API_TOKEN", "TMDB_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults registers every leaf key so that partial config files and
// environment overrides merge with the defaults key by key.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("catalog.base_url", cfg.Catalog.BaseURL)
	v.SetDefault("catalog.api_token", cfg.Catalog.APIToken)
	v.SetDefault("catalog.http_timeout", cfg.Catalog.HTTPTimeout)
	v.SetDefault("catalog.rate_limit", cfg.Catalog.RateLimit)
	v.SetDefault("catalog.rate_burst", cfg.Catalog.RateBurst)
	v.SetDefault("catalog.image_base_url", cfg.Catalog.ImageBaseURL)
	v.SetDefault("catalog.web_base_url", cfg.Catalog.WebBaseURL)
	v.SetDefault("catalog.user_agent", cfg.Catalog.UserAgent)

	v.SetDefault("store.backend", cfg.Store.Backend)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("store.timeout", cfg.Store.Timeout)
	v.SetDefault("store.trending_limit", cfg.Store.TrendingLimit)
	v.SetDefault("store.report_timeout", cfg.Store.ReportTimeout)
	v.SetDefault("store.appwrite.endpoint", cfg.Store.Appwrite.Endpoint)
	v.SetDefault("store.appwrite.project_id", cfg.Store.Appwrite.ProjectID)
	v.SetDefault("store.appwrite.api_key", cfg.Store.Appwrite.APIKey)
	v.SetDefault("store.appwrite.database_id", cfg.Store.Appwrite.DatabaseID)
	v.SetDefault("store.appwrite.collection_id", cfg.Store.Appwrite.CollectionID)

	v.SetDefault("search.debounce", cfg.Search.Debounce)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)

	v.SetDefault("ui.colors.primary", cfg.UI.Colors.Primary)
	v.SetDefault("ui.colors.secondary", cfg.UI.Colors.Secondary)
	v.SetDefault("ui.colors.accent", cfg.UI.Colors.Accent)
	v.SetDefault("ui.colors.text", cfg.UI.Colors.Text)
	v.SetDefault("ui.colors.muted", cfg.UI.Colors.Muted)
	v.SetDefault("ui.colors.error", cfg.UI.Colors.Error)

	v.SetDefault("media.default_opener", cfg.Media.DefaultOpener)
	v.SetDefault("media.image_viewers", cfg.Media.ImageViewers)

	v.SetDefault("keys.modifier", cfg.Keys.Modifier)
}

// Validate checks endpoints and enumerated values and stores the normalized
// endpoints back into cfg. A missing API token is not an error: requests
// then fail with 401 and surface as fetch errors.
func Validate(cfg *Config) error {
	endpoints := validation.NewEndpointValidator()

	baseURL, err := endpoints.ValidateAndNormalize(cfg.Catalog.BaseURL)
	if err != nil {
		return fmt.Errorf("catalog.base_url: %w", err)
	}
	cfg.Catalog.BaseURL = baseURL
	if cfg.Catalog.RateLimit < 0 {
		return fmt.Errorf("catalog.rate_limit must not be negative")
	}

	switch cfg.Store.Backend {
	case BackendBolt:
		if cfg.Store.Path == "" {
			return fmt.Errorf("store.path is required for the bolt backend")
		}
	case BackendAppwrite:
		aw := cfg.Store.Appwrite
		endpoint, err := endpoints.ValidateAndNormalize(aw.Endpoint)
		if err != nil {
			return fmt.Errorf("store.appwrite.endpoint: %w", err)
		}
		cfg.Store.Appwrite.Endpoint = endpoint
		if aw.ProjectID == "" || aw.DatabaseID == "" || aw.CollectionID == "" {
			return fmt.Errorf("store.appwrite requires project_id, database_id and collection_id")
		}
	case BackendNone:
	default:
		return fmt.Errorf("store.backend %q is not one of %s, %s, %s",
			cfg.Store.Backend, BackendAppwrite, BackendBolt, BackendNone)
	}

	if cfg.Search.Debounce < 0 {
		return fmt.Errorf("search.debounce must not be negative")
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Store.Path = expandPath(cfg.Store.Path)
	cfg.Logging.File = expandPath(cfg.Logging.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings for TOML readability
	catalogCfg := map[string]interface{}{
		"base_url":       config.Catalog.BaseURL,
		"api_token":      config.Catalog.APIToken,
		"http_timeout":   config.Catalog.HTTPTimeout.String(),
		"rate_limit":     config.Catalog.RateLimit,
		"rate_burst":     config.Catalog.RateBurst,
		"image_base_url": config.Catalog.ImageBaseURL,
		"web_base_url":   config.Catalog.WebBaseURL,
		"user_agent":     config.Catalog.UserAgent,
	}

	storeCfg := map[string]interface{}{
		"backend":        config.Store.Backend,
		"path":           config.Store.Path,
		"timeout":        config.Store.Timeout.String(),
		"trending_limit": config.Store.TrendingLimit,
		"report_timeout": config.Store.ReportTimeout.String(),
		"appwrite": map[string]interface{}{
			"endpoint":      config.Store.Appwrite.Endpoint,
			"project_id":    config.Store.Appwrite.ProjectID,
			"api_key":       config.Store.Appwrite.APIKey,
			"database_id":   config.Store.Appwrite.DatabaseID,
			"collection_id": config.Store.Appwrite.CollectionID,
		},
	}

	v.Set("catalog", catalogCfg)
	v.Set("store", storeCfg)
	v.Set("search", map[string]interface{}{"debounce": config.Search.Debounce.String()})
	v.Set("logging", map[string]interface{}{"level": config.Logging.Level, "file": config.Logging.File})
	v.Set("ui", map[string]interface{}{
		"colors": map[string]interface{}{
			"primary":   config.UI.Colors.Primary,
			"secondary": config.UI.Colors.Secondary,
			"accent":    config.UI.Colors.Accent,
			"text":      config.UI.Colors.Text,
			"muted":     config.UI.Colors.Muted,
			"error":     config.UI.Colors.Error,
		},
	})
	v.Set("media", map[string]interface{}{
		"default_opener": config.Media.DefaultOpener,
		"image_viewers":  config.Media.ImageViewers,
	})
	v.Set("keys", map[string]interface{}{"modifier": config.Keys.Modifier})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
