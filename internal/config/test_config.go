package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:      "http://127.0.0.1:0/3",
			APIToken:     "test-token",
			HTTPTimeout:  5 * time.Second,
			RateLimit:    0, // unlimited
			RateBurst:    1,
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			WebBaseURL:   "https://www.themoviedb.org/movie",
			UserAgent:    "flick-test/1.0",
		},
		Store: StoreConfig{
			Backend:       BackendNone,
			Timeout:       1 * time.Second,
			TrendingLimit: 5,
			ReportTimeout: 1 * time.Second,
		},
		Search: SearchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: "off",
		},
		UI:    defaultConfig().UI,
		Media: defaultConfig().Media,
		Keys:  defaultConfig().Keys,
	}
}
