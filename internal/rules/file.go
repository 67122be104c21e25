package rules

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// DefaultFileNames are the rule file names looked up in a project directory.
var DefaultFileNames = []string{"agent-rules.yaml", "agent-rules.yml"}

const lockRetryDelay = 20 * time.Millisecond

// FindFile returns the first of names that exists as a regular file in dir.
func FindFile(dir string, names []string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("%w: no directory to search", ErrRulesFileNotFound)
	}

	for _, name := range names {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("failed to stat %s: %w", candidate, err)
		}
		if info.Mode().IsRegular() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: none of %v in %s", ErrRulesFileNotFound, names, dir)
}

// LoadFile reads a rules file under a shared lock and builds its Store.
// Relative path rules are resolved against the directory of the file.
func LoadFile(ctx context.Context, path string) (*Store, error) {
	data, err := readLocked(ctx, path)
	if err != nil {
		return nil, err
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	store, err := NewStore(cfg, WithBaseDir(filepath.Dir(absPath)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return store, nil
}

// readLocked reads path while holding a shared lock on it, so a rules file
// being rewritten by another process is never read half-written.
func readLocked(ctx context.Context, path string) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRulesFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	fileLock := flock.New(path, flock.SetFlag(os.O_RDONLY))
	locked, err := fileLock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrRulesFileLocked, path)
	}
	defer fileLock.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// FileLoader finds and loads rule files from disk.
type FileLoader struct {
	Names []string
}

// NewFileLoader creates a FileLoader that looks for the given file names,
// or DefaultFileNames when none are given.
func NewFileLoader(names ...string) *FileLoader {
	if len(names) == 0 {
		names = DefaultFileNames
	}
	return &FileLoader{Names: names}
}

// Find returns the rules file in dir.
func (l *FileLoader) Find(dir string) (string, error) {
	return FindFile(dir, l.Names)
}

// Load reads the rules file at path.
func (l *FileLoader) Load(ctx context.Context, path string) (*Store, error) {
	return LoadFile(ctx, path)
}
