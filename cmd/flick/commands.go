package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pders01/flick/internal/catalog"
	"github.com/pders01/flick/internal/config"
	"github.com/pders01/flick/internal/controller"
)

const checkTimeout = 15 * time.Second

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search the catalog once and print the results",
	Long: `Search the catalog for term and print the results. Without a term the
popular listing is shown. A search with at least one result is recorded in
the popularity store, exactly as in the interface.`,
	RunE: runSearch,
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Print the most searched terms",
	Args:  cobra.NoArgs,
	RunE:  runTrending,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the catalog and popularity store are reachable",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			home, _ := os.UserHomeDir()
			path = filepath.Join(home, ".config", "flick", "config.toml")
		}

		if err := config.GenerateDefaultConfig(path); err != nil {
			return fmt.Errorf("failed to generate config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "flick %s\n", Version)
		fmt.Fprintln(out, "Terminal movie discovery")
		fmt.Fprintln(out, "github.com/pders01/flick")
	},
}

func runSearch(cmd *cobra.Command, args []string) error {
	app, err := setup()
	if err != nil {
		return err
	}
	defer app.Close()

	term := strings.Join(args, " ")
	res := app.ctrl.Search(cmd.Context(), term)
	out := cmd.OutOrStdout()

	if res.Status.IsFailed() {
		return fmt.Errorf("%s", res.Status.Message())
	}

	printMovies(out, res.Status, app.cfg.Catalog.WebBaseURL)

	if movie, ok := res.ReportedMovie(); ok {
		ctx, cancel := context.WithTimeout(cmd.Context(), app.cfg.Store.ReportTimeout)
		defer cancel()
		// Failures are logged by the controller and never change the exit code.
		_ = app.ctrl.Report(ctx, term, movie)
	}
	return nil
}

func printMovies(out io.Writer, status controller.FetchStatus, webBase string) {
	if !status.HasResults() {
		if status.Term() == "" {
			fmt.Fprintln(out, "No movies found")
		} else {
			fmt.Fprintf(out, "No movies found for %q\n", status.Term())
		}
		return
	}

	for i, m := range status.Movies() {
		fmt.Fprintf(out, "%2d. %s  %s\n", i+1, movieTitle(m), m.Summary())
		if webBase != "" {
			fmt.Fprintf(out, "    %s\n", m.PageURL(webBase))
		}
	}
}

func movieTitle(m catalog.Movie) string {
	if m.Title == "" {
		return "Untitled"
	}
	return m.Title
}

func runTrending(cmd *cobra.Command, _ []string) error {
	app, err := setup()
	if err != nil {
		return err
	}
	defer app.Close()

	entries := app.ctrl.LoadTrending(cmd.Context())
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No trending searches yet")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%d. %s (%q, %d searches)\n", e.Rank, e.Title, e.SearchTerm, e.Count)
	}
	return nil
}

// runCheck probes the catalog and the store concurrently. Unlike the
// interface it reports failures instead of degrading.
func runCheck(cmd *cobra.Command, _ []string) error {
	app, err := setup()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
	defer cancel()

	var (
		total    int
		trending int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := app.catalog.TotalMovies(gctx)
		if err != nil {
			return fmt.Errorf("catalog %s: %w", app.cfg.Catalog.BaseURL, err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		if app.storeErr != nil {
			return fmt.Errorf("store %s: %w", app.cfg.Store.Backend, app.storeErr)
		}
		entries, err := app.store.Trending(gctx, app.cfg.Store.TrendingLimit)
		if err != nil {
			return fmt.Errorf("store %s: %w", app.cfg.Store.Backend, err)
		}
		trending = len(entries)
		return nil
	})

	if err := g.Wait(); err != nil {
		app.logger.Error().Err(err).Msg("check failed")
		return err
	}
	app.logger.Info().Int("total", total).Int("trending", trending).Msg("check passed")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "catalog ok: %s movies\n", controller.KnownTotal(total))
	fmt.Fprintf(out, "store ok: %s backend, %d trending entries\n", app.cfg.Store.Backend, trending)
	return nil
}
