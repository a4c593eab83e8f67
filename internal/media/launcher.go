package media

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/pders01/flick/internal/config"
)

// Kind is what a URL points at.
type Kind int

const (
	KindPoster Kind = iota
	KindPage
)

func (k Kind) String() string {
	if k == KindPoster {
		return "poster"
	}
	return "page"
}

// Launcher opens posters in an image viewer and pages in the system opener.
type Launcher struct {
	defaultOpener string
	imageViewer   string
	registry      *OpenerRegistry
	start         func(*exec.Cmd) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	registry, err := NewOpenerRegistry()
	if err != nil {
		registry = &OpenerRegistry{openers: make(map[string]OpenerDefinition)}
	}

	l := &Launcher{
		defaultOpener: cfg.Media.DefaultOpener,
		registry:      registry,
		start:         startDetached,
	}

	for _, viewer := range cfg.Media.ImageViewers {
		if !registry.Supports(viewer, true) {
			continue
		}
		if found := findCommand(registry.executable(viewer)); found != "" {
			l.imageViewer = viewer
			break
		}
	}
	if l.imageViewer == "" {
		l.imageViewer = l.defaultOpener
	}

	return l
}

// Command resolves the program for kind and builds the invocation.
func (l *Launcher) Command(kind Kind, url string) (*exec.Cmd, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("no %s to open", kind)
	}

	name := l.defaultOpener
	if kind == KindPoster {
		name = l.imageViewer
	}
	if name == "" {
		return nil, fmt.Errorf("no application found to open %s", kind)
	}

	return l.registry.Command(name, url), nil
}

// Open starts the program for url without waiting for it.
func (l *Launcher) Open(kind Kind, url string) error {
	cmd, err := l.Command(kind, url)
	if err != nil {
		return err
	}
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", cmd.Path, err)
	}
	return nil
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func (r *OpenerRegistry) executable(name string) string {
	if def, ok := r.openers[name]; ok && def.Command != "" {
		return def.Command
	}
	return name
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
