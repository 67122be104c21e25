// Package scaffold renders starter rule files from embedded presets.
package scaffold

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/gofrs/flock"
	"github.com/michael-freling/agent-rules/internal/rules"
)

//go:embed presets/*.tmpl
var presetsFS embed.FS

const (
	presetsDir   = "presets"
	partialsFile = "_partials.tmpl"
	templateExt  = ".tmpl"

	// DefaultPreset is rendered when no preset is chosen.
	DefaultPreset = "default"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrFileExists     = errors.New("rules file already exists")
	ErrFileLocked     = errors.New("rules file is locked by another process")
)

// Data is passed to every preset.
type Data struct {
	// ProtectedPaths are files or directories the agent must not edit,
	// relative to the rules file.
	ProtectedPaths []string
}

// Engine holds the parsed presets.
type Engine struct {
	templates *template.Template
	names     []string
}

// NewEngine loads the embedded presets.
func NewEngine() (*Engine, error) {
	return NewEngineWithFS(presetsFS)
}

// NewEngineWithFS loads the presets found under presets/ in fsys.
func NewEngineWithFS(fsys fs.FS) (*Engine, error) {
	entries, err := fs.ReadDir(fsys, presetsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}

	tmpl := template.New("presets").Funcs(template.FuncMap{
		"quote": strconv.Quote,
	})

	// Partials first so every preset can use them.
	partials, err := fs.ReadFile(fsys, path.Join(presetsDir, partialsFile))
	if err == nil {
		if _, err := tmpl.Parse(string(partials)); err != nil {
			return nil, fmt.Errorf("failed to parse partials: %w", err)
		}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == partialsFile || !strings.HasSuffix(entry.Name(), templateExt) {
			continue
		}

		filePath := path.Join(presetsDir, entry.Name())
		content, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read preset %s: %w", filePath, err)
		}

		name := strings.TrimSuffix(entry.Name(), templateExt)
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse preset %s: %w", filePath, err)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	return &Engine{templates: tmpl, names: names}, nil
}

// List returns the available preset names.
func (e *Engine) List() []string {
	return append([]string(nil), e.names...)
}

// Render executes a preset and checks that the result loads as rules.
func (e *Engine) Render(name string, data Data) (string, error) {
	if !e.has(name) {
		return "", fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}

	var out strings.Builder
	if err := e.templates.ExecuteTemplate(&out, name, data); err != nil {
		return "", fmt.Errorf("failed to render preset %s: %w", name, err)
	}

	cfg, err := rules.ParseConfig([]byte(out.String()))
	if err != nil {
		return "", fmt.Errorf("preset %s: %w", name, err)
	}
	if _, err := rules.NewStore(cfg); err != nil {
		return "", fmt.Errorf("preset %s: %w", name, err)
	}

	return out.String(), nil
}

func (e *Engine) has(name string) bool {
	for _, n := range e.names {
		if n == name {
			return true
		}
	}
	return false
}

// WriteFile writes content to target while holding an exclusive lock on it.
// An existing file is only replaced when force is set.
func WriteFile(ctx context.Context, target, content string, force bool) error {
	if _, err := os.Stat(target); err == nil {
		if !force {
			return fmt.Errorf("%w: %s", ErrFileExists, target)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", target, err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", target, err)
	}

	fileLock := flock.New(target, flock.SetPermissions(0o644))
	locked, err := fileLock.TryLockContext(ctx, 20*time.Millisecond)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to lock %s: %w", target, err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrFileLocked, target)
	}
	defer fileLock.Unlock()

	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}
