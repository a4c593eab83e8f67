package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/flick/internal/config"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, config: cfg, modifierKey: modifierKey}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key dismisses a transient status message
	kh.app.statusText = ""

	if kh.app.view == ViewDetail {
		return kh.handleDetailKeys(msg)
	}

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	return kh.handleResultsKeys(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	return kh.app.view == ViewSearch && kh.app.focus == focusInput
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return kh.app, tea.Quit
	case "esc":
		if kh.app.searchInput.Value() == "" {
			return kh.app, tea.Quit
		}
		kh.app.searchInput.SetValue("")
		return kh.app, kh.app.setSearchTerm("")
	case "tab", "down", "enter":
		kh.app.focusResults()
		return kh.app, nil
	default:
		return kh.delegateToTextInput(msg)
	}
}

// delegateToTextInput passes the key to the search box and schedules a
// debounced search when the term changed.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	newSearchInput, cmd := kh.app.searchInput.Update(msg)
	kh.app.searchInput = newSearchInput

	if debounceCmd := kh.app.setSearchTerm(kh.app.searchInput.Value()); debounceCmd != nil {
		return kh.app, tea.Batch(cmd, debounceCmd)
	}
	return kh.app, cmd
}

func (kh *KeyHandler) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return kh.app, tea.Quit
	case "tab", "shift+tab", "esc", "/":
		kh.app.focusInput()
		return kh.app, nil
	case "up", "k":
		if kh.app.resultsList.Index() == 0 {
			kh.app.focusInput()
			return kh.app, nil
		}
	case "enter":
		return kh.openDetail()
	case kh.modifierKey + "o":
		if movie, ok := kh.app.selectedMovie(); ok {
			return kh.app, kh.app.openMovie(movie)
		}
		return kh.app, nil
	}

	return kh.delegateToList(msg)
}

func (kh *KeyHandler) delegateToList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	newList, cmd := kh.app.resultsList.Update(msg)
	kh.app.resultsList = newList
	return kh.app, cmd
}

func (kh *KeyHandler) openDetail() (tea.Model, tea.Cmd) {
	movie, ok := kh.app.selectedMovie()
	if !ok {
		return kh.app, nil
	}

	kh.app.currentMovie = &movie
	kh.app.view = ViewDetail
	kh.app.loadingDetail = true
	kh.app.viewport.SetContent("")
	return kh.app, tea.Batch(kh.app.spinner.Tick, kh.app.renderDetail(movie))
}

func (kh *KeyHandler) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return kh.app, tea.Quit
	case "esc", "backspace":
		kh.app.view = ViewSearch
		kh.app.currentMovie = nil
		kh.app.loadingDetail = false
		return kh.app, nil
	case kh.modifierKey + "o":
		if movie, ok := kh.app.selectedMovie(); ok {
			return kh.app, kh.app.openMovie(movie)
		}
		return kh.app, nil
	}

	newViewport, cmd := kh.app.viewport.Update(msg)
	kh.app.viewport = newViewport
	return kh.app, cmd
}

// GetHelpForCurrentView returns the key hints for the status bar
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	switch kh.app.view {
	case ViewDetail:
		return []string{"↑↓: scroll", kh.modifierKey + "o: open poster", "esc: back"}

	case ViewSearch:
		if kh.app.focus == focusResults {
			return []string{"↑↓: navigate", "enter: details", kh.modifierKey + "o: open poster", "tab: search box", "q: quit"}
		}
		help := []string{"type to search"}
		if kh.app.status.HasResults() {
			help = append(help, "tab/↓: results")
		}
		if kh.app.searchInput.Value() != "" {
			help = append(help, "esc: clear")
		} else {
			help = append(help, "esc: quit")
		}
		return help

	default:
		return []string{}
	}
}
