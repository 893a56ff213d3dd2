//go:build !linux

package watch

import (
	"context"
	"errors"
)

// Run is only implemented on Linux
func (s *Service) Run(ctx context.Context) error {
	return errors.New("watch is only supported on linux")
}
