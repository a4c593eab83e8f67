package controller

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/pders01/flick/internal/catalog"
	"github.com/pders01/flick/internal/popularity"
)

// GenericErrorMessage is shown for every transport, status or parse
// failure. The cause only goes to the log.
const GenericErrorMessage = "Error fetching movies. Please try again later."

// Catalog is the part of the catalog client the controller needs.
type Catalog interface {
	Discover(ctx context.Context) (*catalog.Page, error)
	Search(ctx context.Context, term string) (*catalog.Page, error)
	TotalMovies(ctx context.Context) (int, error)
}

// Request identifies one started search.
type Request struct {
	Term       string
	Generation uint64
}

// Result is the outcome of a search. Report is set when the first result
// should be recorded in the popularity store.
type Result struct {
	Request Request
	Status  FetchStatus
	Report  bool
}

// ReportedMovie returns the movie to record for a reportable result.
func (r Result) ReportedMovie() (catalog.Movie, bool) {
	if !r.Report {
		return catalog.Movie{}, false
	}
	return r.Status.Movies()[0], true
}

// Controller runs searches against the catalog and keeps the popularity
// store informed. It holds no view state.
type Controller struct {
	catalog       Catalog
	store         popularity.Store
	trendingLimit int
	logger        zerolog.Logger
	generation    atomic.Uint64
}

func New(cat Catalog, store popularity.Store, trendingLimit int, logger zerolog.Logger) *Controller {
	if store == nil {
		store = popularity.NoopStore{}
	}
	return &Controller{
		catalog:       cat,
		store:         store,
		trendingLimit: trendingLimit,
		logger:        logger.With().Str("component", "controller").Logger(),
	}
}

// Begin starts a new generation for term. Results of earlier generations
// are stale from here on.
func (c *Controller) Begin(term string) Request {
	return Request{Term: term, Generation: c.generation.Add(1)}
}

// IsCurrent reports whether gen is the most recently started search.
func (c *Controller) IsCurrent(gen uint64) bool {
	return c.generation.Load() == gen
}

// Run fetches the listing for req. An empty term discovers popular movies,
// anything else is searched as typed.
func (c *Controller) Run(ctx context.Context, req Request) Result {
	var (
		page *catalog.Page
		err  error
	)
	if req.Term == "" {
		page, err = c.catalog.Discover(ctx)
	} else {
		page, err = c.catalog.Search(ctx, req.Term)
	}

	if err != nil {
		return Result{Request: req, Status: Failed(req.Term, c.failureMessage(req.Term, err))}
	}

	status := Ready(req.Term, page.Movies)
	return Result{
		Request: req,
		Status:  status,
		Report:  req.Term != "" && len(status.Movies()) > 0,
	}
}

// Search is Begin followed by Run.
func (c *Controller) Search(ctx context.Context, term string) Result {
	return c.Run(ctx, c.Begin(term))
}

func (c *Controller) failureMessage(term string, err error) string {
	var failure *catalog.FailureError
	if errors.As(err, &failure) {
		c.logger.Warn().Str("term", term).Str("message", failure.Message).Msg("catalog declared failure")
		return failure.Message
	}

	ev := c.logger.Error().Err(err).Str("term", term)
	var apiErr *catalog.APIError
	if errors.As(err, &apiErr) {
		ev = ev.Int("status", apiErr.StatusCode).
			Bool("unauthorized", apiErr.IsUnauthorized()).
			Bool("not_found", apiErr.IsNotFound())
	}
	ev.Msg("Error fetching movies")
	return GenericErrorMessage
}

// Report records a search for term with its first result. Errors are
// logged and returned; callers are not expected to act on them.
func (c *Controller) Report(ctx context.Context, term string, movie catalog.Movie) error {
	if err := c.store.RecordSearch(ctx, term, movie); err != nil {
		c.logger.Warn().Err(err).Str("term", term).Int("movie_id", movie.ID).Msg("failed to record search")
		return err
	}
	c.logger.Debug().Str("term", term).Int("movie_id", movie.ID).Msg("search recorded")
	return nil
}

// LoadTrending returns the most searched terms, or nil if the store fails.
func (c *Controller) LoadTrending(ctx context.Context) []popularity.TrendingEntry {
	entries, err := c.store.Trending(ctx, c.trendingLimit)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Error fetching trending movies")
		return nil
	}
	return entries
}

// LoadTotalCount returns the catalog size, or an unknown count on failure.
func (c *Controller) LoadTotalCount(ctx context.Context) TotalCount {
	n, err := c.catalog.TotalMovies(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to load total movie count")
		return UnknownTotal()
	}
	return KnownTotal(n)
}
