package media

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

//go:embed openers.toml
var openersTOML []byte

// OpenerDefinition describes how to invoke an external program with a URL.
type OpenerDefinition struct {
	Description string   `toml:"description"`
	Platforms   []string `toml:"platforms"`
	// Command overrides the executable when the opener name is not one,
	// e.g. the Windows "start" builtin.
	Command string   `toml:"command,omitempty"`
	Args    []string `toml:"args,omitempty"`
	// LocalOnly openers cannot fetch remote URLs and are skipped for them.
	LocalOnly bool `toml:"local_only,omitempty"`
}

type openersFile struct {
	Openers map[string]OpenerDefinition `toml:"openers"`
}

// OpenerRegistry holds the known opener definitions.
type OpenerRegistry struct {
	openers map[string]OpenerDefinition
	goos    string
}

// NewOpenerRegistry loads the embedded definitions merged with the user's.
func NewOpenerRegistry() (*OpenerRegistry, error) {
	var f openersFile
	if err := toml.Unmarshal(openersTOML, &f); err != nil {
		return nil, fmt.Errorf("parsing openers.toml: %w", err)
	}

	r := &OpenerRegistry{openers: f.Openers, goos: runtime.GOOS}
	if r.openers == nil {
		r.openers = make(map[string]OpenerDefinition)
	}
	r.loadUserConfig()
	return r, nil
}

func (r *OpenerRegistry) loadUserConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	data, err := os.ReadFile(filepath.Join(home, ".config", "flick", "openers.toml"))
	if err != nil {
		return
	}
	var user openersFile
	if err := toml.Unmarshal(data, &user); err != nil {
		return
	}
	for name, def := range user.Openers {
		r.openers[name] = def
	}
}

// Supports reports whether name may be used for url on this platform.
// Unknown openers are assumed to work.
func (r *OpenerRegistry) Supports(name string, remote bool) bool {
	def, ok := r.openers[name]
	if !ok {
		return true
	}
	if remote && def.LocalOnly {
		return false
	}
	for _, p := range def.Platforms {
		if p == r.goos {
			return true
		}
	}
	return false
}

// Command builds the invocation of name for url.
func (r *OpenerRegistry) Command(name, url string) *exec.Cmd {
	def, ok := r.openers[name]
	if !ok {
		return exec.Command(name, url)
	}

	bin := name
	if def.Command != "" {
		bin = def.Command
	}
	args := append(append([]string{}, def.Args...), url)
	return exec.Command(bin, args...)
}
