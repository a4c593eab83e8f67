package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pders01/flick/internal/catalog"
	"github.com/pders01/flick/internal/config"
	"github.com/pders01/flick/internal/controller"
	"github.com/pders01/flick/internal/debuglog"
	"github.com/pders01/flick/internal/media"
	"github.com/pders01/flick/internal/popularity"
	"github.com/pders01/flick/internal/tui"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	logLevel   string
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "flick",
	Short: "Terminal movie discovery",
	Long: `flick searches a movie catalog as you type, shows what other people
searched for most, and opens posters or movie pages in your viewer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is ~/.config/flick/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error, off)")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "skip startup banner")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(searchCmd, trendingCmd, checkCmd, configCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// appContext holds everything a command needs once configuration is loaded.
type appContext struct {
	cfg     *config.Config
	logger  zerolog.Logger
	catalog *catalog.Client
	store   popularity.Store
	ctrl    *controller.Controller

	// storeErr is why the configured store could not be opened; store is
	// then a no-op.
	storeErr error
}

func setup() (*appContext, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Logging.Level), cfg.Logging.File); err != nil {
		return nil, err
	}
	logger := debuglog.Logger()

	client := catalog.NewClient(cfg.Catalog, logger)

	store, storeErr := popularity.Open(cfg.Store, cfg.Catalog.ImageBaseURL, logger)
	if storeErr != nil {
		// Trending and reporting degrade silently; searching still works.
		logger.Warn().Err(storeErr).Str("backend", cfg.Store.Backend).Msg("popularity store unavailable")
		store = popularity.NoopStore{}
	}

	logger.Info().
		Str("version", Version).
		Str("catalog", cfg.Catalog.BaseURL).
		Str("backend", cfg.Store.Backend).
		Bool("token", cfg.Catalog.APIToken != "").
		Msg("flick starting")

	return &appContext{
		cfg:      cfg,
		logger:   logger,
		catalog:  client,
		store:    store,
		ctrl:     controller.New(client, store, cfg.Store.TrendingLimit, logger),
		storeErr: storeErr,
	}, nil
}

func (a *appContext) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("closing popularity store")
	}
	_ = debuglog.Close()
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !quiet && isatty.IsTerminal(os.Stdout.Fd()) {
		tui.ShowBanner(Version)
	}

	app, err := setup()
	if err != nil {
		return err
	}
	defer app.Close()

	tui.ApplyTheme(app.cfg.UI.Colors)

	model := tui.NewApp(app.ctrl, media.NewLauncher(app.cfg), app.cfg, app.logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}
