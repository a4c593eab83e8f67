package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/flick/internal/catalog"
	"github.com/pders01/flick/internal/controller"
	"github.com/pders01/flick/internal/popularity"
)

// renderHeader returns a consistently styled header with an optional muted subtitle.
func renderHeader(title, subtitle string, width int) string {
	if width > 2 {
		title = truncateEnd(title, width-2)
		subtitle = truncateEnd(subtitle, width-2)
	}
	rows := []string{HeaderStyle.Render(title)}
	if subtitle != "" {
		rows = append(rows, renderMuted(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded bordered container around a rendered input view.
func renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := MutedColor
	if focused {
		borderColor = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

// renderCentered centers the provided content within the given width/height box.
func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

// renderSearchInput frames the search box. The placeholder is owned by the
// input model and set when the catalog size loads.
func renderSearchInput(input textinput.Model, width int) string {
	contentWidth := width - 8
	if contentWidth < 10 {
		contentWidth = 10
	}
	input.Width = contentWidth
	return renderInputFrame(input.View(), input.Focused(), contentWidth)
}

// renderResults draws exactly one of the loading, error, list and empty
// states, in that order of precedence. Idle renders as empty.
func renderResults(status controller.FetchStatus, searchTerm, listView, spinnerView string) string {
	switch {
	case status.IsLoading():
		return lipgloss.NewStyle().Padding(1, 2).Render(spinnerView + " Loading movies…")
	case status.IsFailed():
		return lipgloss.NewStyle().Padding(1, 2).Render(ErrorMessageStyle.Render(status.Message()))
	case status.HasResults():
		return listView
	default:
		return lipgloss.NewStyle().Padding(1, 2).Render(EmptyMessageStyle.Render(MsgNoResultsFor(searchTerm)))
	}
}

// renderTrending lists trending entries in the order received, numbered
// from 1. It renders nothing for an empty list.
func renderTrending(entries []popularity.TrendingEntry, width int) string {
	if len(entries) == 0 {
		return ""
	}

	rows := []string{renderHeader("› "+MsgTrendingHeader, "", width)}
	for i, e := range entries {
		title := e.Title
		if title == "" {
			title = e.SearchTerm
		}
		rank := RankStyle.Render(fmt.Sprintf("%2d.", i+1))
		line := fmt.Sprintf("%s %s", rank, MovieTitleStyle.Render(truncateEnd(title, 40)))
		if e.PosterURL != "" {
			urlWidth := width - lipgloss.Width(line) - 4
			if urlWidth < 20 {
				urlWidth = 20
			}
			line += "  " + renderMuted(truncateMiddle(e.PosterURL, urlWidth))
		}
		rows = append(rows, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// movieItem is a movie card in the results list.
type movieItem struct {
	movie     catalog.Movie
	imageBase string
}

func (i movieItem) Title() string {
	return i.movie.Title
}

func (i movieItem) Description() string {
	return lipgloss.NewStyle().
		Foreground(MutedColor).
		Render(i.movie.Summary())
}

func (i movieItem) FilterValue() string { return i.movie.Title }

// movieMarkdown is the detail view source rendered by glamour.
func movieMarkdown(m catalog.Movie, genres []string, imageBase, webBase string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s)\n\n", m.Title, m.Year())
	if m.OriginalTitle != "" && m.OriginalTitle != m.Title {
		fmt.Fprintf(&b, "*%s*\n\n", m.OriginalTitle)
	}

	fmt.Fprintf(&b, "- **Rating:** ★ %s (%d votes)\n", m.Rating(), m.VoteCount)
	fmt.Fprintf(&b, "- **Language:** %s\n", m.Language())
	if m.ReleaseDate != "" {
		fmt.Fprintf(&b, "- **Released:** %s\n", m.ReleaseDate)
	}
	if len(genres) > 0 {
		fmt.Fprintf(&b, "- **Genres:** %s\n", strings.Join(genres, ", "))
	}
	b.WriteString("\n---\n\n")

	if m.Overview != "" {
		b.WriteString(m.Overview)
	} else {
		b.WriteString("*No overview available.*")
	}
	b.WriteString("\n\n---\n\n")

	if poster := m.PosterURL(imageBase); poster != "" {
		fmt.Fprintf(&b, "Poster: %s\n\n", poster)
	}
	fmt.Fprintf(&b, "Page: %s\n", m.PageURL(webBase))
	return b.String()
}
