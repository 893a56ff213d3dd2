package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
	"go.uber.org/zap"
)

// Walker lists directories for the scanner and turns their entries into
// scan tasks
type Walker struct {
	logger  *zap.Logger
	exclude map[string]bool
}

// NewWalker creates a walker that never descends into the given absolute paths
func NewWalker(exclude []string, logger *zap.Logger) *Walker {
	// Build exclude map for fast lookup
	ex := make(map[string]bool)
	for _, dir := range exclude {
		ex[filepath.Clean(dir)] = true
		if canonical, err := Canonicalize(dir); err == nil {
			ex[canonical] = true
		}
	}

	return &Walker{
		logger:  logger,
		exclude: ex,
	}
}

// ReadDir returns one task per directory entry in the order the filesystem
// yields them. Symlinks and non-regular files are reported as skipped rather
// than returned, and excluded paths are dropped.
func (w *Walker) ReadDir(dir string) (tasks []models.ScanTask, skipped int, err error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", models.ErrIO, err)
	}
	defer f.Close()

	// File.ReadDir does not sort, unlike os.ReadDir
	entries, err := f.ReadDir(-1)
	if err != nil && len(entries) == 0 {
		return nil, 0, fmt.Errorf("%w: %w", models.ErrIO, err)
	}
	if err != nil {
		w.logger.Warn("Partial directory listing", zap.String("path", dir), zap.Error(err))
	}

	tasks = make([]models.ScanTask, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		switch t := entry.Type(); {
		case t.IsDir():
			if w.IsExcluded(path) {
				w.logger.Debug("Skipping excluded directory", zap.String("path", path))
				continue
			}
			tasks = append(tasks, models.ScanTask{Path: path, IsDir: true})
		case t.IsRegular():
			tasks = append(tasks, models.ScanTask{Path: path})
		case t&fs.ModeSymlink != 0:
			w.logger.Debug("Skipping symlink", zap.String("path", path))
			skipped++
		default:
			w.logger.Debug("Skipping non-regular file",
				zap.String("path", path),
				zap.String("type", t.String()))
			skipped++
		}
	}

	return tasks, skipped, nil
}

// IsExcluded reports whether a path is one of the excluded roots
func (w *Walker) IsExcluded(path string) bool {
	return w.exclude[filepath.Clean(path)]
}
