package files

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// MaxDirEntries is the maximum number of directories a single listing returns
const MaxDirEntries = 10000

// Lister lists directories on the local file system (read-only)
type Lister struct {
	maxEntries int
	logger     *slog.Logger
}

// NewLister creates a new directory lister. A nil logger discards.
func NewLister(logger *slog.Logger) *Lister {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Lister{maxEntries: MaxDirEntries, logger: logger}
}

// ListSubdirectories returns the directories below root, excluding root
// itself. With recursive set every nested level is included, parents before
// their children and siblings in lexical order. Unreadable subtrees are
// skipped.
func (l *Lister) ListSubdirectories(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	var dirs []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil // Skip errors
		}

		if path == root || !d.IsDir() {
			return nil
		}

		if len(dirs) >= l.maxEntries {
			l.logger.Warn("directory listing truncated", "root", root, "limit", l.maxEntries)
			return fs.SkipAll
		}
		dirs = append(dirs, path)

		if !recursive {
			return fs.SkipDir
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return dirs, nil
}
