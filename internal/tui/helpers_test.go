package tui

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/pders01/flick/internal/catalog"
	"github.com/pders01/flick/internal/config"
	"github.com/pders01/flick/internal/controller"
	"github.com/pders01/flick/internal/media"
	"github.com/pders01/flick/internal/popularity"
)

type fakeCatalog struct {
	mu        sync.Mutex
	discovers int
	searches  []string
	results   map[string][]catalog.Movie
	err       error
	total     int
}

func (f *fakeCatalog) Discover(context.Context) (*catalog.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discovers++
	if f.err != nil {
		return nil, f.err
	}
	return &catalog.Page{Movies: f.results[""]}, nil
}

func (f *fakeCatalog) Search(_ context.Context, term string) (*catalog.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, term)
	if f.err != nil {
		return nil, f.err
	}
	return &catalog.Page{Movies: f.results[term]}, nil
}

func (f *fakeCatalog) TotalMovies(context.Context) (int, error) {
	return f.total, f.err
}

type fakeStore struct {
	mu       sync.Mutex
	recorded []string
	trending []popularity.TrendingEntry
	err      error
}

func (s *fakeStore) RecordSearch(_ context.Context, term string, _ catalog.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorded = append(s.recorded, term)
	return nil
}

func (s *fakeStore) Trending(context.Context, int) ([]popularity.TrendingEntry, error) {
	return s.trending, s.err
}

func (s *fakeStore) Close() error { return nil }

type fakeOpener struct {
	kinds []media.Kind
	urls  []string
	err   error
}

func (o *fakeOpener) Open(kind media.Kind, url string) error {
	o.kinds = append(o.kinds, kind)
	o.urls = append(o.urls, url)
	return o.err
}

type testEnv struct {
	app     *App
	catalog *fakeCatalog
	store   *fakeStore
	opener  *fakeOpener
	logs    *bytes.Buffer
}

func newTestEnv(t *testing.T, cat *fakeCatalog, store *fakeStore) *testEnv {
	t.Helper()
	if cat.results == nil {
		cat.results = map[string][]catalog.Movie{}
	}
	cfg := config.TestConfig()
	cfg.Search.Debounce = 10 * time.Millisecond

	opener := &fakeOpener{}
	logs := &bytes.Buffer{}
	ctrl := controller.New(cat, store, cfg.Store.TrendingLimit, zerolog.Nop())
	return &testEnv{
		app:     NewApp(ctrl, opener, cfg, zerolog.New(logs).Level(zerolog.DebugLevel)),
		catalog: cat,
		store:   store,
		opener:  opener,
		logs:    logs,
	}
}

// collect runs cmd and any batched commands, returning the produced
// messages. Commands must not block for long.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// deliver feeds every message produced by cmd back into the app, except
// spinner ticks, which would keep the loop going.
func (e *testEnv) deliver(cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case searchResultMsg, trendingLoadedMsg, totalCountMsg, detailRenderedMsg, openedMsg, errorMsg:
			_, next := e.app.Update(msg)
			e.deliver(next)
		}
	}
}

func (e *testEnv) typeText(s string) []tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range s {
		_, cmd := e.app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		cmds = append(cmds, cmd)
	}
	return cmds
}

// settle fires the debounce for the latest keystroke and runs the search.
func (e *testEnv) settle() {
	_, cmd := e.app.Update(searchDebounceFireMsg{seq: e.app.searchSeq})
	e.deliver(cmd)
}
