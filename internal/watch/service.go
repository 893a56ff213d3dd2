// Package watch scans files as they land in a directory.
package watch

import (
	"context"

	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
	"go.uber.org/zap"
)

// FileScanner scans one file end to end
type FileScanner interface {
	ScanFile(ctx context.Context, path string) *models.FileResult
}

// Service watches one directory and scans every file written or moved
// into it
type Service struct {
	dir     string
	scanner FileScanner
	logger  *zap.Logger

	// OnResult, if set, receives each scan result
	OnResult func(*models.FileResult)
}

// NewService creates a new watch service
func NewService(dir string, scanner FileScanner, logger *zap.Logger) *Service {
	return &Service{
		dir:     dir,
		scanner: scanner,
		logger:  logger,
	}
}

// Dir returns the watched directory
func (s *Service) Dir() string {
	return s.dir
}

func (s *Service) handle(ctx context.Context, path string) {
	s.logger.Info("Starting scan for new file", zap.String("path", path))

	result := s.scanner.ScanFile(ctx, path)
	if result.Err != nil {
		s.logger.Warn("Scan of new file failed", zap.String("path", path), zap.Error(result.Err))
	} else {
		s.logger.Info("Scan finished",
			zap.String("path", result.Path),
			zap.String("outcome", result.Outcome.String()))
	}

	if s.OnResult != nil {
		s.OnResult(result)
	}
}
