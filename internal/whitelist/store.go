// Package whitelist persists the set of paths the user has explicitly
// allowed. Entries are canonical absolute paths, one per line.
package whitelist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/SethMC26/3320-antivirus-Final/internal/filesystem"
	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
	"go.uber.org/zap"
)

// Store is the on-disk allowlist with an in-memory cache
type Store struct {
	path   string
	logger *zap.Logger

	mu      sync.Mutex
	entries map[string]struct{}
	order   []string
	size    int64
	modTime time.Time
	loaded  bool

	afterAppend func()
}

// NewStore creates a new allowlist store backed by path. The file need not
// exist yet.
func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{
		path:    path,
		logger:  logger,
		entries: make(map[string]struct{}),
	}
}

// Path returns the backing file
func (s *Store) Path() string {
	return s.path
}

// IsAllowed reports whether the canonical form of path is on the allowlist.
// An unreadable allowlist is treated as empty.
func (s *Store) IsAllowed(path string) bool {
	canonical, err := filesystem.Canonicalize(path)
	if err != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(); err != nil {
		s.logger.Warn("Allowlist unavailable", zap.String("path", s.path), zap.Error(err))
		return false
	}

	_, ok := s.entries[canonical]
	return ok
}

// Allow appends the canonical form of path. Adding a path that is already
// present is a no-op.
func (s *Store) Allow(path string) error {
	canonical, err := filesystem.Canonicalize(path)
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrIO, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(); err != nil {
		return err
	}
	if _, ok := s.entries[canonical]; ok {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: %w", models.ErrIO, err)
	}
	file, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrIO, err)
	}
	n, err := fmt.Fprintln(file, canonical)
	if err != nil {
		file.Close()
		return fmt.Errorf("%w: append %s: %w", models.ErrIO, s.path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: %w", models.ErrIO, err)
	}
	if s.afterAppend != nil {
		s.afterAppend()
	}

	s.entries[canonical] = struct{}{}
	s.order = append(s.order, canonical)
	s.remember(s.size + int64(n))

	s.logger.Info("Path added to allowlist", zap.String("path", canonical))
	return nil
}

// List returns the entries in file order
func (s *Store) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(); err != nil {
		return nil, err
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out, nil
}

// refresh reloads the cache if the file changed on disk. Caller holds mu.
func (s *Store) refresh() error {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.reset()
		s.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrListUnavailable, err)
	}

	if s.loaded && info.Size() == s.size && info.ModTime().Equal(s.modTime) {
		return nil
	}
	return s.load()
}

func (s *Store) load() error {
	file, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrListUnavailable, err)
	}
	defer file.Close()

	// Lines appended after this stat are left for the next refresh
	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrListUnavailable, err)
	}

	s.reset()
	scanner := bufio.NewScanner(io.LimitReader(file, info.Size()))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if _, ok := s.entries[line]; ok {
			continue
		}
		s.entries[line] = struct{}{}
		s.order = append(s.order, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: read %s: %w", models.ErrListUnavailable, s.path, err)
	}

	s.size = info.Size()
	s.modTime = info.ModTime()
	s.loaded = true
	return nil
}

// remember keeps the cache valid after our own append of a known size. If
// the file grew by anything else in the meantime, the cache is marked stale
// so the next refresh reparses it.
func (s *Store) remember(want int64) {
	info, err := os.Stat(s.path)
	if err != nil || info.Size() != want {
		s.loaded = false
		return
	}
	s.size = info.Size()
	s.modTime = info.ModTime()
	s.loaded = true
}

func (s *Store) reset() {
	s.entries = make(map[string]struct{})
	s.order = nil
	s.size = 0
	s.modTime = time.Time{}
}
