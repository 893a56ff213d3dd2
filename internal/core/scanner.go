package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/SethMC26/3320-antivirus-Final/internal/config"
	"github.com/SethMC26/3320-antivirus-Final/internal/filesystem"
	"github.com/SethMC26/3320-antivirus-Final/internal/fingerprint"
	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
	"go.uber.org/zap"
)

// Version is stamped into scan results
var Version = "1.0.0"

// ProgressCallback is called after each file is scanned
type ProgressCallback func(phase string, current, total int, message string)

// Matcher finds the first blocklisted digest of a file
type Matcher interface {
	Match(ctx context.Context, digests map[models.Algorithm]models.Digest) (*models.Digest, error)
}

// Allowlist answers whether a path was explicitly allowed
type Allowlist interface {
	IsAllowed(path string) bool
}

// Disposer applies a terminal action to a detected file
type Disposer interface {
	Handle(ctx context.Context, path string, digest models.Digest) (*models.Detection, error)
}

// Deps are the collaborators a Scanner drives
type Deps struct {
	Matcher   Matcher
	Allowlist Allowlist
	Handler   Disposer
}

// Scanner is the main scanner engine. It owns everything a scan needs so
// workers share no globals.
type Scanner struct {
	config     *config.Config
	logger     *zap.Logger
	matcher    Matcher
	allowlist  Allowlist
	handler    Disposer
	pool       *Pool
	algorithms []models.Algorithm

	progressCallback ProgressCallback
}

// NewScanner creates a new scanner instance
func NewScanner(cfg *config.Config, logger *zap.Logger, deps Deps) (*Scanner, error) {
	algs, err := cfg.GetAlgorithms()
	if err != nil {
		return nil, err
	}

	return &Scanner{
		config:     cfg,
		logger:     logger,
		matcher:    deps.Matcher,
		allowlist:  deps.Allowlist,
		handler:    deps.Handler,
		pool:       NewPool(cfg.Workers),
		algorithms: algs,
	}, nil
}

// SetProgressCallback sets the progress callback function
func (s *Scanner) SetProgressCallback(cb ProgressCallback) {
	s.progressCallback = cb
}

// run is the state of one scan invocation
type run struct {
	walker  *filesystem.Walker
	results *models.ScanResults

	mu        sync.Mutex
	seen      map[string]struct{}
	processed int
}

func (s *Scanner) newRun(path string, exclude []string) *run {
	return &run{
		walker:  filesystem.NewWalker(exclude, s.logger),
		results: models.NewScanResults(path),
		seen:    make(map[string]struct{}),
	}
}

// claim marks path as scanned in this run. It returns false if another task
// already claimed it.
func (r *run) claim(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[path]; ok {
		return false
	}
	r.seen[path] = struct{}{}
	return true
}

func (s *Scanner) collect(r *run, fr *models.FileResult) {
	r.mu.Lock()
	r.results.AddFileResult(fr)
	r.processed++
	processed := r.processed
	r.mu.Unlock()

	s.reportProgress("scanning", processed, 0, fr.Path)
}

func (s *Scanner) reportProgress(phase string, current, total int, message string) {
	if s.progressCallback != nil {
		s.progressCallback(phase, current, total, message)
	}
}

// ScanFile scans a single file
func (s *Scanner) ScanFile(ctx context.Context, path string) *models.FileResult {
	r := s.newRun(path, s.config.ExcludePaths())
	return s.scanFile(ctx, r, path)
}

// ScanPath scans a file or a directory tree and returns the run summary.
// For a single file, an error outcome is also returned as the error.
func (s *Scanner) ScanPath(ctx context.Context, path string) (*models.ScanResults, error) {
	ref, err := filesystem.Resolve(path)
	if err != nil {
		return nil, err
	}
	if ref.IsDir() {
		return s.ScanDir(ctx, ref.Path)
	}

	r := s.newRun(ref.Path, s.config.ExcludePaths())
	s.logger.Info("Starting scan", zap.String("path", ref.Path))
	fr := s.scanFile(ctx, r, ref.Path)
	s.collect(r, fr)

	results, err := s.finish(ctx, r)
	if err == nil && fr.Outcome == models.OutcomeError {
		// A single target that could not be scanned fails the whole scan
		err = fr.Err
	}
	return results, err
}

// ScanDir scans every regular file below dir. It returns once every task it
// spawned, transitively, has finished.
func (s *Scanner) ScanDir(ctx context.Context, dir string) (*models.ScanResults, error) {
	return s.scanTree(ctx, dir, s.config.ExcludePaths())
}

// ScanSystem scans the whole filesystem, skipping pseudo filesystems
func (s *Scanner) ScanSystem(ctx context.Context) (*models.ScanResults, error) {
	exclude := append(s.config.ExcludePaths(), config.SystemExclude...)
	return s.scanTree(ctx, "/", exclude)
}

func (s *Scanner) scanTree(ctx context.Context, dir string, exclude []string) (*models.ScanResults, error) {
	ref, err := filesystem.Resolve(dir)
	if err != nil {
		return nil, err
	}
	if !ref.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", models.ErrIO, ref.Path)
	}

	s.logger.Info("Starting scan",
		zap.String("path", ref.Path),
		zap.Int("workers", s.pool.Size()))

	r := s.newRun(ref.Path, exclude)

	var wg sync.WaitGroup
	s.dispatchDir(ctx, r, &wg, ref.Path)
	wg.Wait()

	return s.finish(ctx, r)
}

func (s *Scanner) finish(ctx context.Context, r *run) (*models.ScanResults, error) {
	results := r.results
	results.Version = Version
	results.Stats.WorkersUsed = s.pool.Size()
	results.Cancelled = ctx.Err() != nil
	results.Finish()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	results.Stats.MemoryUsed = m.Alloc

	s.logger.Info("Scan completed",
		zap.Duration("duration", results.Duration),
		zap.Int("threats_found", results.ThreatsFound),
		zap.Int("files_scanned", results.ScannedFiles),
		zap.Bool("cancelled", results.Cancelled))

	if results.Cancelled {
		return results, ctx.Err()
	}
	return results, nil
}

// dispatchDir queues a directory task. The task holds its slot only while
// listing the directory, so nested directories never starve the pool.
func (s *Scanner) dispatchDir(ctx context.Context, r *run, wg *sync.WaitGroup, dir string) {
	err := s.pool.Go(ctx, wg, func(release func()) {
		s.scanDir(ctx, r, wg, dir, release)
	})
	if err != nil {
		s.logger.Debug("Directory not scanned", zap.String("path", dir), zap.Error(err))
	}
}

func (s *Scanner) scanDir(ctx context.Context, r *run, wg *sync.WaitGroup, dir string, release func()) {
	if ctx.Err() != nil {
		return
	}

	tasks, skipped, err := r.walker.ReadDir(dir)
	release()

	r.mu.Lock()
	r.results.TotalDirs++
	r.results.SkippedFiles += skipped
	if err != nil {
		r.results.Stats.ReadErrors++
		r.results.Stats.ErrorFiles = append(r.results.Stats.ErrorFiles, dir)
	}
	r.mu.Unlock()

	if err != nil {
		s.logger.Warn("Failed to read directory", zap.String("path", dir), zap.Error(err))
		return
	}

	for _, task := range tasks {
		if ctx.Err() != nil {
			return
		}

		if task.IsDir {
			s.dispatchDir(ctx, r, wg, task.Path)
			continue
		}

		path := task.Path
		err := s.pool.Go(ctx, wg, func(func()) {
			s.collect(r, s.scanFile(ctx, r, path))
		})
		if err != nil {
			return
		}
	}
}

// scanFile runs the per-file pipeline: allowlist, fingerprint, blocklist,
// disposition
func (s *Scanner) scanFile(ctx context.Context, r *run, path string) *models.FileResult {
	result := &models.FileResult{Path: path}

	if err := ctx.Err(); err != nil {
		result.Outcome = models.OutcomeSkipped
		result.Err = err
		return result
	}

	canonical, err := filesystem.Canonicalize(path)
	if err != nil {
		result.Outcome = models.OutcomeError
		result.Err = fmt.Errorf("%w: %w", models.ErrIO, err)
		return result
	}
	result.Path = canonical

	if !r.claim(canonical) {
		s.logger.Debug("Already scanned in this run", zap.String("path", canonical))
		result.Outcome = models.OutcomeSkipped
		return result
	}

	if s.allowlist != nil && s.allowlist.IsAllowed(canonical) {
		s.logger.Debug("Skipping allowlisted file", zap.String("path", canonical))
		result.Outcome = models.OutcomeSkipped
		return result
	}

	info, err := os.Lstat(canonical)
	if err != nil {
		result.Outcome = models.OutcomeError
		result.Err = fmt.Errorf("%w: %w", models.ErrIO, err)
		return result
	}
	if !info.Mode().IsRegular() {
		result.Outcome = models.OutcomeSkipped
		return result
	}
	result.Size = info.Size()

	readCtx := ctx
	if s.config.ReadTimeout > 0 {
		var cancel context.CancelFunc
		readCtx, cancel = context.WithTimeout(ctx, s.config.ReadTimeout)
		defer cancel()
	}

	digests, err := fingerprint.Files(readCtx, canonical, s.algorithms...)
	if err != nil {
		s.logger.Warn("Failed to fingerprint file", zap.String("path", canonical), zap.Error(err))
		result.Outcome = models.OutcomeError
		result.Err = err
		return result
	}

	match, err := s.matcher.Match(ctx, digests)
	if err != nil {
		s.logger.Warn("Blocklist check failed", zap.String("path", canonical), zap.Error(err))
		result.Outcome = models.OutcomeError
		result.Err = err
		return result
	}
	if match == nil {
		result.Outcome = models.OutcomeClean
		return result
	}

	s.logger.Warn("Blocklisted file detected",
		zap.String("path", canonical),
		zap.String("algorithm", string(match.Algorithm)),
		zap.String("digest", match.Hex))

	det, err := s.handler.Handle(ctx, canonical, *match)
	result.Detection = det
	if err != nil {
		result.Outcome = models.OutcomeError
		result.Err = err
		if errors.Is(err, models.ErrPrivilege) {
			s.logger.Error("Detected file left in place", zap.String("path", canonical), zap.Error(err))
		}
		return result
	}

	result.Outcome = models.OutcomeDisposed
	return result
}
