package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/flick/internal/config"
	"github.com/pders01/flick/internal/controller"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

// writeConfig points a test config at the catalog server and stores
// popularity in a bolt file under the test's temp dir.
func writeConfig(t *testing.T, catalogURL string) string {
	t.Helper()
	return writeConfigWith(t, catalogURL, nil)
}

func writeConfigWith(t *testing.T, catalogURL string, mutate func(cfg *config.Config, dir string)) string {
	t.Helper()
	dir := t.TempDir()

	cfg := config.TestConfig()
	cfg.Catalog.BaseURL = catalogURL + "/3"
	cfg.Store.Backend = config.BackendBolt
	cfg.Store.Path = filepath.Join(dir, "popularity.db")
	cfg.Logging.File = filepath.Join(dir, "flick.log")
	if mutate != nil {
		mutate(cfg, dir)
	}

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, config.Save(cfg, path))
	return path
}

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/3/search/movie", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "nothing" {
			fmt.Fprint(w, `{"page":1,"results":[]}`)
			return
		}
		fmt.Fprint(w, `{"page":1,"results":[
			{"id":272,"title":"Batman Begins","poster_path":"/begins.jpg","release_date":"2005-06-10","vote_average":7.7,"original_language":"en"},
			{"id":155,"title":"The Dark Knight","poster_path":"/tdk.jpg","release_date":"2008-07-16","vote_average":8.5,"original_language":"en"}
		]}`)
	})
	mux.HandleFunc("/3/discover/movie", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"page":1,"total_results":1234567,"results":[{"id":1,"title":"Dune"}]}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "flick dev")
	assert.Contains(t, out, "Terminal movie discovery")
	assert.Contains(t, out, "github.com/pders01/flick")
}

func TestGenerateConfigCommand(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	configFile := filepath.Join(tmpDir, ".config", "flick", "config.toml")

	out, err := execute(t, "config", "generate", "--config", "")
	require.NoError(t, err)

	_, statErr := os.Stat(configFile)
	assert.NoError(t, statErr, "config file was not created at %s", configFile)
	assert.Contains(t, out, "Generated default configuration at:")

	cfg, err := config.Load(configFile)
	require.NoError(t, err)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.Catalog.BaseURL)
}

func TestGenerateConfigExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "flick.toml")

	_, err := execute(t, "config", "generate", path)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestSearchPrintsAndRecords(t *testing.T) {
	server := catalogServer(t)
	cfgPath := writeConfig(t, server.URL)

	out, err := execute(t, "search", "batman", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, " 1. Batman Begins  ★ 7.7 • en • 2005")
	assert.Contains(t, out, " 2. The Dark Knight")
	assert.Contains(t, out, "https://www.themoviedb.org/movie/272")

	_, err = execute(t, "search", "batman", "--config", cfgPath)
	require.NoError(t, err)

	out, err = execute(t, "trending", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, `1. Batman Begins ("batman", 2 searches)`)
}

func TestSearchWithoutResultsIsNotRecorded(t *testing.T) {
	server := catalogServer(t)
	cfgPath := writeConfig(t, server.URL)

	out, err := execute(t, "search", "nothing", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, `No movies found for "nothing"`)

	out, err = execute(t, "trending", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No trending searches yet")
}

func TestSearchWithoutTermDiscovers(t *testing.T) {
	server := catalogServer(t)
	cfgPath := writeConfig(t, server.URL)

	out, err := execute(t, "search", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "1. Dune")
}

func TestSearchFailureShowsGenericMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)
	cfgPath := writeConfig(t, server.URL)

	out, err := execute(t, "search", "batman", "--config", cfgPath)
	require.Error(t, err)
	assert.Equal(t, controller.GenericErrorMessage, err.Error())
	assert.NotContains(t, out, "Error:", "main prints the error once")
	assert.NotContains(t, out, controller.GenericErrorMessage)
}

func TestCheckReportsBothProbes(t *testing.T) {
	server := catalogServer(t)
	cfgPath := writeConfig(t, server.URL)

	out, err := execute(t, "check", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "catalog ok: 1,234,567 movies")
	assert.Contains(t, out, "store ok: bolt backend, 0 trending entries")
}

func TestCheckFailsWhenStoreCannotOpen(t *testing.T) {
	server := catalogServer(t)
	cfgPath := writeConfigWith(t, server.URL, func(cfg *config.Config, dir string) {
		blocker := filepath.Join(dir, "not-a-dir")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
		cfg.Store.Path = filepath.Join(blocker, "popularity.db")
	})

	out, err := execute(t, "check", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store bolt")
	assert.NotContains(t, out, "store ok")
}

func TestSearchWorksWhenStoreCannotOpen(t *testing.T) {
	server := catalogServer(t)
	cfgPath := writeConfigWith(t, server.URL, func(cfg *config.Config, dir string) {
		blocker := filepath.Join(dir, "not-a-dir")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
		cfg.Store.Path = filepath.Join(blocker, "popularity.db")
	})

	out, err := execute(t, "search", "batman", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Batman Begins")
}

func TestCheckFailsWhenCatalogIsDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)
	cfgPath := writeConfig(t, server.URL)

	_, err := execute(t, "check", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog")
}

func TestInvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[store]\nbackend = \"postgres\"\n"), 0o644))

	_, err := execute(t, "trending", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
