// Package disposition applies exactly one terminal action to a detected
// file: delete it, quarantine it or allow it.
package disposition

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/SethMC26/3320-antivirus-Final/internal/filesystem"
	"github.com/SethMC26/3320-antivirus-Final/internal/privilege"
	"github.com/SethMC26/3320-antivirus-Final/internal/quarantine"
	"github.com/SethMC26/3320-antivirus-Final/internal/whitelist"
	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
	"go.uber.org/zap"
)

// lockdownMask holds the write and execute bits stripped from a detected
// file while its fate is decided
const lockdownMask fs.FileMode = 0o333

// LockdownMode returns mode with every write and execute bit cleared.
// Read bits are left as they were.
func LockdownMode(mode fs.FileMode) fs.FileMode {
	return mode &^ lockdownMask
}

// Handler serializes dispositions. Only one detected file is handled at a
// time, prompts included.
type Handler struct {
	vault     *quarantine.Vault
	allowlist *whitelist.Store
	confirm   Confirmer
	checker   privilege.Checker
	logger    *zap.Logger

	mu         sync.Mutex
	removeFile func(string) error
}

// NewHandler creates a new disposition handler
func NewHandler(vault *quarantine.Vault, allowlist *whitelist.Store, confirm Confirmer, checker privilege.Checker, logger *zap.Logger) *Handler {
	if checker == nil {
		checker = privilege.Allow
	}
	return &Handler{
		vault:      vault,
		allowlist:  allowlist,
		confirm:    confirm,
		checker:    checker,
		logger:     logger,
		removeFile: os.Remove,
	}
}

// Handle locks the file down, asks for a decision and applies it. The
// returned detection carries the action taken; it is empty when the action
// failed.
func (h *Handler) Handle(ctx context.Context, path string, digest models.Digest) (*models.Detection, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	det := &models.Detection{
		Path:      path,
		Digest:    digest,
		Timestamp: time.Now(),
	}

	if err := h.checker.Check("dispose"); err != nil {
		det.Error = err.Error()
		return det, err
	}

	info, err := os.Lstat(path)
	if err != nil {
		err = fmt.Errorf("%w: %w", models.ErrIO, err)
		det.Error = err.Error()
		return det, err
	}
	mode := info.Mode().Perm()

	if err := os.Chmod(path, LockdownMode(mode)); err != nil {
		h.logger.Warn("Failed to lock down detected file",
			zap.String("path", path),
			zap.Error(err))
	}

	action := h.decide(path, digest)
	if err := h.apply(action, path, mode); err != nil {
		det.Error = err.Error()
		h.logger.Error("Disposition failed",
			zap.String("path", path),
			zap.String("action", string(action)),
			zap.Error(err))
		return det, err
	}

	det.Action = action
	h.logger.Info("Detected file handled",
		zap.String("path", path),
		zap.String("algorithm", string(digest.Algorithm)),
		zap.String("digest", digest.Hex),
		zap.String("action", string(action)))
	return det, nil
}

// decide walks the prompts: delete, then allow, otherwise quarantine
func (h *Handler) decide(path string, digest models.Digest) models.Action {
	if h.confirm.Confirm(Prompt{
		Action:  models.ActionDelete,
		Path:    path,
		Message: fmt.Sprintf("Malicious file found: %s (%s match). Delete it?", path, digest.Algorithm.Label()),
	}) {
		return models.ActionDelete
	}

	if h.confirm.Confirm(Prompt{
		Action:  models.ActionAllow,
		Path:    path,
		Message: fmt.Sprintf("Add %s to the whitelist?", path),
	}) {
		return models.ActionAllow
	}

	return models.ActionQuarantine
}

func (h *Handler) apply(action models.Action, path string, mode fs.FileMode) error {
	switch action {
	case models.ActionDelete:
		if err := h.removeFile(path); err != nil {
			return fmt.Errorf("%w: delete %s: %w", models.ErrDisposition, path, err)
		}
		return nil

	case models.ActionQuarantine:
		if _, err := h.vault.Store(path, mode); err != nil {
			h.restoreMode(path, mode)
			return err
		}
		return nil

	case models.ActionAllow:
		h.restoreMode(path, mode)
		if err := h.allowlist.Allow(path); err != nil {
			return fmt.Errorf("%w: %w", models.ErrDisposition, err)
		}
		return nil
	}

	return fmt.Errorf("%w: unknown action %q", models.ErrDisposition, action)
}

func (h *Handler) restoreMode(path string, mode fs.FileMode) {
	if err := os.Chmod(path, mode); err != nil {
		h.logger.Warn("Failed to restore permissions",
			zap.String("path", path),
			zap.Error(err))
	}
}

// Restore puts a quarantined file back by its stored name
func (h *Handler) Restore(ctx context.Context, name string) (models.QuarantineRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.checker.Check("restore"); err != nil {
		return models.QuarantineRecord{}, err
	}
	return h.vault.Restore(name)
}

// Allow adds path to the allowlist. A path that was quarantined earlier is
// first moved back from quarantine.
func (h *Handler) Allow(ctx context.Context, path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.checker.Check("whitelist"); err != nil {
		return err
	}

	canonical, err := filesystem.Canonicalize(path)
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrIO, err)
	}

	rec, restored, err := h.vault.RestoreOriginal(canonical)
	if err != nil {
		return err
	}
	if restored {
		h.logger.Info("Restored quarantined file before allowing it",
			zap.String("path", canonical),
			zap.String("stored_name", rec.StoredName))
	}

	return h.allowlist.Allow(canonical)
}
