package tui

import (
	"github.com/pders01/flick/internal/controller"
	"github.com/pders01/flick/internal/popularity"
)

type View int

const (
	ViewSearch View = iota
	ViewDetail
)

// focusArea is the part of the search view receiving keys.
type focusArea int

const (
	focusInput focusArea = iota
	focusResults
)

type searchDebounceFireMsg struct {
	seq int
}

type searchResultMsg struct {
	result controller.Result
}

type trendingLoadedMsg struct {
	entries []popularity.TrendingEntry
}

type totalCountMsg struct {
	total controller.TotalCount
}

type detailRenderedMsg struct {
	movieID int
	content string
}

type openedMsg struct {
	what string
}

type errorMsg struct {
	err error
}
