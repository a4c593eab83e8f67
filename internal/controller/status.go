package controller

import (
	"github.com/pders01/flick/internal/catalog"
)

// Phase is the stage of the current search.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseFailed
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseFailed:
		return "failed"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// FetchStatus is the state of the results view. Values are only built by
// the constructors below, so at most one of loading, failed and ready holds.
type FetchStatus struct {
	phase   Phase
	term    string
	message string
	movies  []catalog.Movie
}

func Idle() FetchStatus {
	return FetchStatus{phase: PhaseIdle}
}

func Loading(term string) FetchStatus {
	return FetchStatus{phase: PhaseLoading, term: term}
}

func Failed(term, message string) FetchStatus {
	return FetchStatus{phase: PhaseFailed, term: term, message: message}
}

// Ready holds the results of a completed search. A nil slice is stored as
// empty.
func Ready(term string, movies []catalog.Movie) FetchStatus {
	if movies == nil {
		movies = []catalog.Movie{}
	}
	return FetchStatus{phase: PhaseReady, term: term, movies: movies}
}

func (s FetchStatus) Phase() Phase { return s.phase }

// Term is the debounced term that produced this status.
func (s FetchStatus) Term() string { return s.term }

// Message is the user-facing error text; empty unless failed.
func (s FetchStatus) Message() string { return s.message }

// Movies returns the results; nil unless ready.
func (s FetchStatus) Movies() []catalog.Movie { return s.movies }

func (s FetchStatus) IsLoading() bool { return s.phase == PhaseLoading }

func (s FetchStatus) IsFailed() bool { return s.phase == PhaseFailed }

// HasResults reports a ready status with at least one movie.
func (s FetchStatus) HasResults() bool {
	return s.phase == PhaseReady && len(s.movies) > 0
}
