package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestGetDefaultOpener(t *testing.T) {
	expected := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"windows": "start",
	}

	opener := getDefaultOpener()

	if expectedOpener, ok := expected[runtime.GOOS]; ok {
		if opener != expectedOpener {
			t.Errorf("getDefaultOpener() = %s, want %s for %s", opener, expectedOpener, runtime.GOOS)
		}
	} else if opener != "open" {
		t.Errorf("getDefaultOpener() = %s, want 'open' for unknown OS", opener)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Catalog.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("Catalog.BaseURL = %s, want TMDB v3", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.HTTPTimeout != 30*time.Second {
		t.Errorf("Catalog.HTTPTimeout = %v, want 30s", cfg.Catalog.HTTPTimeout)
	}
	if cfg.Search.Debounce != 500*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want 500ms", cfg.Search.Debounce)
	}
	if cfg.Store.Backend != BackendBolt {
		t.Errorf("Store.Backend = %s, want %s", cfg.Store.Backend, BackendBolt)
	}
	if cfg.Store.TrendingLimit != 5 {
		t.Errorf("Store.TrendingLimit = %d, want 5", cfg.Store.TrendingLimit)
	}
	if cfg.Media.DefaultOpener == "" {
		t.Error("Media.DefaultOpener should not be empty")
	}
	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_DefaultConfig(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.Search.Debounce != 500*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want 500ms", cfg.Search.Debounce)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "test-config.toml")
	configContent := `
[catalog]
base_url = "http://localhost:9999/3"
api_token = "file-token"
http_timeout = "5s"

[store]
backend = "bolt"
path = "/tmp/flick-test.db"
trending_limit = 3

[search]
debounce = "250ms"

[ui.colors]
primary = "#FF0000"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Catalog.BaseURL != "http://localhost:9999/3" {
		t.Errorf("Catalog.BaseURL = %s", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.HTTPTimeout != 5*time.Second {
		t.Errorf("Catalog.HTTPTimeout = %v, want 5s", cfg.Catalog.HTTPTimeout)
	}
	if cfg.Store.Path != "/tmp/flick-test.db" {
		t.Errorf("Store.Path = %s, want '/tmp/flick-test.db'", cfg.Store.Path)
	}
	if cfg.Store.TrendingLimit != 3 {
		t.Errorf("Store.TrendingLimit = %d, want 3", cfg.Store.TrendingLimit)
	}
	if cfg.Search.Debounce != 250*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want 250ms", cfg.Search.Debounce)
	}
	if cfg.UI.Colors.Primary != "#FF0000" {
		t.Errorf("UI.Colors.Primary = %s, want '#FF0000'", cfg.UI.Colors.Primary)
	}
}

func TestLoad_TokenFromEnvironment(t *testing.T) {
	t.Setenv("FLICK_CATALOG_API_TOKEN", "")
	t.Setenv("TMDB_API_KEY", "env-token")

	configPath := filepath.Join(t.TempDir(), "empty.toml")
	if err := os.WriteFile(configPath, []byte("[search]\ndebounce = \"500ms\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Catalog.APIToken != "env-token" {
		t.Errorf("Catalog.APIToken = %q, want 'env-token'", cfg.Catalog.APIToken)
	}
}

func TestLoad_InvalidBackend(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(configPath, []byte("[store]\nbackend = \"mongo\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("expected error for unknown store backend")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "no store", mutate: func(c *Config) { c.Store.Backend = BackendNone }},
		{
			name:    "bad catalog url",
			mutate:  func(c *Config) { c.Catalog.BaseURL = "ftp://example.com" },
			wantErr: true,
		},
		{
			name: "appwrite complete",
			mutate: func(c *Config) {
				c.Store.Backend = BackendAppwrite
				c.Store.Appwrite.ProjectID = "p"
				c.Store.Appwrite.DatabaseID = "d"
				c.Store.Appwrite.CollectionID = "c"
			},
		},
		{
			name:    "appwrite missing ids",
			mutate:  func(c *Config) { c.Store.Backend = BackendAppwrite },
			wantErr: true,
		},
		{
			name:    "bolt without path",
			mutate:  func(c *Config) { c.Store.Path = "" },
			wantErr: true,
		},
		{
			name:    "negative debounce",
			mutate:  func(c *Config) { c.Search.Debounce = -time.Second },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_NormalizesEndpoints(t *testing.T) {
	cfg := TestConfig()
	cfg.Catalog.BaseURL = "127.0.0.1:1/3/"
	cfg.Store.Backend = BackendAppwrite
	cfg.Store.Appwrite = AppwriteConfig{
		Endpoint:     "cloud.appwrite.io/v1/",
		ProjectID:    "p",
		DatabaseID:   "d",
		CollectionID: "c",
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Catalog.BaseURL != "https://127.0.0.1:1/3" {
		t.Errorf("Catalog.BaseURL = %q, want 'https://127.0.0.1:1/3'", cfg.Catalog.BaseURL)
	}
	if cfg.Store.Appwrite.Endpoint != "https://cloud.appwrite.io/v1" {
		t.Errorf("Store.Appwrite.Endpoint = %q, want 'https://cloud.appwrite.io/v1'", cfg.Store.Appwrite.Endpoint)
	}
}

func TestLoad_SchemelessBaseURL(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "schemeless.toml")
	content := "[catalog]\nbase_url = \"127.0.0.1:1/3\"\n\n[store]\nbackend = \"none\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Catalog.BaseURL != "https://127.0.0.1:1/3" {
		t.Errorf("Catalog.BaseURL = %q, want the normalized URL", cfg.Catalog.BaseURL)
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := defaultConfig()
	cfg.Catalog.UserAgent = "test-save-agent"
	cfg.Store.Path = "/test/popularity.db"
	cfg.Search.Debounce = 750 * time.Millisecond
	cfg.Keys.Modifier = "alt"

	savePath := filepath.Join(tmpDir, "saved-config.toml")
	if err := Save(cfg, savePath); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(savePath); os.IsNotExist(err) {
		t.Fatal("Save() did not create config file")
	}

	loaded, err := Load(savePath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if loaded.Store.Path != cfg.Store.Path {
		t.Errorf("Loaded Store.Path = %s, want %s", loaded.Store.Path, cfg.Store.Path)
	}
	if loaded.Catalog.UserAgent != cfg.Catalog.UserAgent {
		t.Errorf("Loaded Catalog.UserAgent = %s, want %s", loaded.Catalog.UserAgent, cfg.Catalog.UserAgent)
	}
	if loaded.Search.Debounce != cfg.Search.Debounce {
		t.Errorf("Loaded Search.Debounce = %v, want %v", loaded.Search.Debounce, cfg.Search.Debounce)
	}
	if loaded.Keys.Modifier != cfg.Keys.Modifier {
		t.Errorf("Loaded Keys.Modifier = %s, want %s", loaded.Keys.Modifier, cfg.Keys.Modifier)
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "generated.toml")
	if err := GenerateDefaultConfig(configPath); err != nil {
		t.Fatalf("GenerateDefaultConfig() error = %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load generated config: %v", err)
	}

	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Generated config has Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
	if cfg.Store.TrendingLimit != 5 {
		t.Errorf("Generated config has Store.TrendingLimit = %d, want 5", cfg.Store.TrendingLimit)
	}
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	if cfg == nil {
		t.Fatal("TestConfig() returned nil")
	}
	if cfg.Store.Backend != BackendNone {
		t.Errorf("TestConfig Store.Backend = %s, want %s", cfg.Store.Backend, BackendNone)
	}
	if cfg.Catalog.UserAgent != "flick-test/1.0" {
		t.Errorf("TestConfig Catalog.UserAgent = %s, want 'flick-test/1.0'", cfg.Catalog.UserAgent)
	}
}
