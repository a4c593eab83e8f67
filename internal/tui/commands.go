package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/flick/internal/catalog"
	"github.com/pders01/flick/internal/controller"
	"github.com/pders01/flick/internal/media"
)

func (a *App) runSearch(req controller.Request) tea.Cmd {
	return func() tea.Msg {
		return searchResultMsg{result: a.controller.Run(context.Background(), req)}
	}
}

// reportSearch records the search in the background. Its outcome never
// reaches the view; failures are logged by the controller.
func (a *App) reportSearch(term string, movie catalog.Movie) tea.Cmd {
	timeout := a.reportTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = a.controller.Report(ctx, term, movie)
		return nil
	}
}

func (a *App) loadTrending() tea.Cmd {
	return func() tea.Msg {
		return trendingLoadedMsg{entries: a.controller.LoadTrending(context.Background())}
	}
}

func (a *App) loadTotalCount() tea.Cmd {
	return func() tea.Msg {
		return totalCountMsg{total: a.controller.LoadTotalCount(context.Background())}
	}
}

// renderDetail resolves the renderer on the caller's goroutine; only the
// Render call runs in the command.
func (a *App) renderDetail(movie catalog.Movie) tea.Cmd {
	var genres []string
	if a.genres != nil {
		genres = a.genres.Names(movie.GenreIDs)
	}
	source := movieMarkdown(movie, genres, a.config.Catalog.ImageBaseURL, a.config.Catalog.WebBaseURL)

	r, err := a.getRenderer()
	if err != nil {
		a.logger.Error().Err(err).Msg("initializing markdown renderer")
		content := "Error initializing renderer: " + err.Error()
		return func() tea.Msg {
			return detailRenderedMsg{movieID: movie.ID, content: content}
		}
	}

	return func() tea.Msg {
		rendered, err := r.Render(source)
		if err != nil {
			return detailRenderedMsg{movieID: movie.ID, content: fmt.Sprintf("Failed to render details: %s\n\nPress Escape to go back.", err)}
		}
		return detailRenderedMsg{movieID: movie.ID, content: rendered}
	}
}

// openMovie opens the poster, or the catalog page when there is no poster.
func (a *App) openMovie(movie catalog.Movie) tea.Cmd {
	kind := media.KindPoster
	target := movie.PosterURL(a.config.Catalog.ImageBaseURL)
	if target == "" {
		kind = media.KindPage
		target = movie.PageURL(a.config.Catalog.WebBaseURL)
	}

	launcher := a.launcher
	return func() tea.Msg {
		if launcher == nil {
			return errorMsg{err: fmt.Errorf("no launcher configured")}
		}
		if err := launcher.Open(kind, target); err != nil {
			return errorMsg{err: wrapErr(fmt.Sprintf("failed to open %s", kind), err)}
		}
		return openedMsg{what: kind.String()}
	}
}
