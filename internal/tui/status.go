package tui

import (
	"fmt"
)

// Canonical short status messages used across the app.
const (
	MsgLoadingDetail   = "Loading details…"
	MsgTrendingHeader  = "Trending Movies"
	MsgAllMoviesHeader = "All Movies"
)

// MsgNoResultsFor is the empty-results text. The term is shown exactly as
// typed.
func MsgNoResultsFor(term string) string {
	return "No results found for " + term
}

func MsgPlaceholder(total string) string {
	return fmt.Sprintf("Search through %s movies", total)
}

func MsgOpened(what string) string {
	return fmt.Sprintf("Opened %s", what)
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}
