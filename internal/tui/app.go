package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/pders01/flick/internal/catalog"
	"github.com/pders01/flick/internal/config"
	"github.com/pders01/flick/internal/controller"
	"github.com/pders01/flick/internal/media"
	"github.com/pders01/flick/internal/popularity"
)

// Opener launches external viewers for posters and pages.
type Opener interface {
	Open(kind media.Kind, url string) error
}

type App struct {
	config     *config.Config
	controller *controller.Controller
	launcher   Opener
	genres     *catalog.Genres
	keyHandler *KeyHandler
	logger     zerolog.Logger

	searchInput textinput.Model
	resultsList list.Model
	spinner     spinner.Model
	viewport    viewport.Model

	view  View
	focus focusArea

	// searchTerm is the raw input value; debouncedTerm is the last value
	// that settled for a full debounce interval.
	searchTerm    string
	debouncedTerm string
	searchSeq     int
	debounce      time.Duration
	reportTimeout time.Duration

	status   controller.FetchStatus
	trending []popularity.TrendingEntry
	total    controller.TotalCount

	currentMovie  *catalog.Movie
	loadingDetail bool

	statusText string
	statusKind StatusKind

	width           int
	height          int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

func NewApp(ctrl *controller.Controller, launcher Opener, cfg *config.Config, logger zerolog.Logger) *App {
	logger = logger.With().Str("component", "tui").Logger()

	resultsList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	resultsList.Title = "› " + MsgAllMoviesHeader
	resultsList.SetShowStatusBar(false)
	resultsList.SetFilteringEnabled(false)
	resultsList.SetShowHelp(false)

	si := textinput.New()
	si.Prompt = "🔍 "
	si.Placeholder = MsgPlaceholder(controller.UnknownTotal().String())
	si.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	genres, err := catalog.LoadGenres()
	if err != nil {
		logger.Warn().Err(err).Msg("genre table unavailable")
	}

	debounce := cfg.Search.Debounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	reportTimeout := cfg.Store.ReportTimeout
	if reportTimeout <= 0 {
		reportTimeout = 10 * time.Second
	}

	app := &App{
		config:        cfg,
		controller:    ctrl,
		launcher:      launcher,
		logger:        logger,
		genres:        genres,
		searchInput:   si,
		resultsList:   resultsList,
		spinner:       sp,
		viewport:      viewport.New(0, 0),
		view:          ViewSearch,
		focus:         focusInput,
		debounce:      debounce,
		reportTimeout: reportTimeout,
		status:        controller.Idle(),
		total:         controller.UnknownTotal(),
	}

	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 120 {
		wordWrapWidth = 120
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40
	}
	if a.width > 0 && a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Init fetches the discover listing for the initial empty term and loads
// the trending panel and catalog size once.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.beginSearch(a.debouncedTerm),
		a.loadTrending(),
		a.loadTotalCount(),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - 3
		a.layout()

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case searchDebounceFireMsg:
		return a, a.handleDebounceFire(msg)

	case searchResultMsg:
		return a, a.handleSearchResult(msg.result)

	case spinner.TickMsg:
		if a.status.IsLoading() || a.loadingDetail {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case trendingLoadedMsg:
		a.trending = msg.entries
		a.layout()

	case totalCountMsg:
		a.total = msg.total
		a.searchInput.Placeholder = MsgPlaceholder(a.total.String())

	case detailRenderedMsg:
		if a.view == ViewDetail && a.currentMovie != nil && a.currentMovie.ID == msg.movieID {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loadingDetail = false
		}

	case openedMsg:
		a.setStatus(MsgOpened(msg.what), StatusSuccess)

	case errorMsg:
		a.setStatus(fmt.Sprintf("✗ %v", msg.err), StatusError)
	}

	switch a.view {
	case ViewDetail:
		switch msg.(type) {
		case tea.MouseMsg, tea.WindowSizeMsg:
			newViewport, cmd := a.viewport.Update(msg)
			a.viewport = newViewport
			cmds = append(cmds, cmd)
		}
	case ViewSearch:
		if _, ok := msg.(tea.WindowSizeMsg); !ok && a.focus == focusResults {
			newList, cmd := a.resultsList.Update(msg)
			a.resultsList = newList
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

// setSearchTerm replaces the raw term and restarts the debounce window.
func (a *App) setSearchTerm(term string) tea.Cmd {
	if term == a.searchTerm {
		return nil
	}
	a.searchTerm = term
	a.searchSeq++
	seq := a.searchSeq
	return tea.Tick(a.debounce, func(time.Time) tea.Msg { return searchDebounceFireMsg{seq: seq} })
}

func (a *App) handleDebounceFire(msg searchDebounceFireMsg) tea.Cmd {
	if msg.seq != a.searchSeq {
		return nil
	}
	if a.searchTerm == a.debouncedTerm {
		return nil
	}
	a.debouncedTerm = a.searchTerm
	return a.beginSearch(a.debouncedTerm)
}

// beginSearch moves to Loading and starts the fetch for term.
func (a *App) beginSearch(term string) tea.Cmd {
	req := a.controller.Begin(term)
	a.status = controller.Loading(term)
	a.logger.Debug().Str("term", term).Uint64("generation", req.Generation).Msg("search started")
	return tea.Batch(a.spinner.Tick, a.runSearch(req))
}

func (a *App) handleSearchResult(res controller.Result) tea.Cmd {
	var cmds []tea.Cmd

	// The term settled and was searched, so it counts even if a newer
	// search has replaced it on screen.
	if movie, ok := res.ReportedMovie(); ok {
		cmds = append(cmds, a.reportSearch(res.Request.Term, movie))
	}

	if !a.controller.IsCurrent(res.Request.Generation) {
		a.logger.Debug().Str("term", res.Request.Term).Uint64("generation", res.Request.Generation).Msg("discarding stale result")
		return tea.Batch(cmds...)
	}

	a.status = res.Status
	movies := res.Status.Movies()
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m, imageBase: a.config.Catalog.ImageBaseURL}
	}
	a.resultsList.SetItems(items)
	a.resultsList.Select(0)
	if len(items) == 0 && a.focus == focusResults {
		a.focusInput()
	}

	return tea.Batch(cmds...)
}

func (a *App) focusInput() {
	a.focus = focusInput
	a.searchInput.Focus()
}

func (a *App) focusResults() bool {
	if len(a.resultsList.Items()) == 0 || !a.status.HasResults() {
		return false
	}
	a.focus = focusResults
	a.searchInput.Blur()
	return true
}

func (a *App) selectedMovie() (catalog.Movie, bool) {
	if a.view == ViewDetail && a.currentMovie != nil {
		return *a.currentMovie, true
	}
	if i, ok := a.resultsList.SelectedItem().(movieItem); ok {
		return i.movie, true
	}
	return catalog.Movie{}, false
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.statusText = text
	a.statusKind = kind
}

// layout sizes the results list to the space left under the fixed chrome.
func (a *App) layout() {
	if a.width == 0 || a.height == 0 {
		return
	}
	chrome := lipgloss.Height(a.renderTop()) + 3
	listHeight := a.height - chrome
	if listHeight < 5 {
		listHeight = 5
	}
	a.resultsList.SetSize(a.width, listHeight)
}

func (a *App) renderTop() string {
	rows := []string{
		renderHeader(CompactLogo+" "+Tagline, "", a.width),
		renderSearchInput(a.searchInput, a.width),
	}
	if trending := renderTrending(a.trending, a.width); trending != "" {
		rows = append(rows, "", trending)
	}
	rows = append(rows, "")
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewDetail:
		if a.loadingDetail {
			content = renderCentered(a.width, a.height-3,
				a.spinner.View()+" "+renderMuted(MsgLoadingDetail))
		} else {
			content = a.viewport.View()
		}
	default:
		results := renderResults(a.status, a.searchTerm, a.resultsList.View(), a.spinner.View())
		if !a.status.HasResults() {
			results = lipgloss.JoinVertical(lipgloss.Left,
				renderHeader("› "+MsgAllMoviesHeader, "", a.width),
				results,
			)
		}
		content = lipgloss.JoinVertical(lipgloss.Left, a.renderTop(), results)
		if a.height > 3 {
			content = lipgloss.NewStyle().
				MaxHeight(a.height - 2).
				Render(content)
		}
	}

	statusBar := a.getCustomStatusBar()
	if statusBar == "" {
		return content
	}

	separatorWidth := a.width - 2
	if separatorWidth < 0 {
		separatorWidth = 0
	}
	separator := SeparatorStyle.Render("─" + strings.Repeat("─", separatorWidth))

	return lipgloss.JoinVertical(lipgloss.Top, content, separator, statusBar)
}

func (a *App) getCustomStatusBar() string {
	if a.statusText != "" {
		style := StatusInfoStyle
		switch a.statusKind {
		case StatusSuccess:
			style = StatusSuccessStyle
		case StatusWarn:
			style = StatusWarnStyle
		case StatusError:
			style = StatusErrorStyle
		}
		return StatusBarStyle.Render(style.Render(a.statusText))
	}

	commands := a.keyHandler.GetHelpForCurrentView()
	if len(commands) == 0 {
		return ""
	}

	text := strings.Join(commands, " • ")
	if a.view == ViewSearch && a.status.HasResults() {
		text = MsgResultsCount(len(a.status.Movies())) + " • " + text
	}
	return StatusBarStyle.Render(text)
}
