// Package quarantine isolates detected files in a private directory and
// keeps the ledger needed to put them back.
package quarantine

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/SethMC26/3320-antivirus-Final/internal/filesystem"
	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
	"go.uber.org/zap"
)

const (
	dirMode    = 0o755
	storedMode = 0o400
	maxSuffix  = 10000
)

// Vault moves files into and out of the quarantine directory
type Vault struct {
	dir    string
	ledger *Ledger
	logger *zap.Logger

	// WrapWriter decorates the quarantine copy's writer. Nil copies directly.
	WrapWriter func(io.Writer) io.Writer

	removeFile func(string) error
	mu         sync.Mutex
}

// NewVault creates a new quarantine vault
func NewVault(dir string, ledger *Ledger, logger *zap.Logger) *Vault {
	return &Vault{
		dir:        dir,
		ledger:     ledger,
		logger:     logger,
		removeFile: os.Remove,
	}
}

// Dir returns the quarantine directory
func (v *Vault) Dir() string {
	return v.dir
}

// Ledger returns the vault's ledger
func (v *Vault) Ledger() *Ledger {
	return v.ledger
}

// StoredPath returns where a stored name lives inside the vault
func (v *Vault) StoredPath(name string) string {
	return filepath.Join(v.dir, name)
}

// List returns the ledger contents
func (v *Vault) List() ([]models.QuarantineRecord, error) {
	return v.ledger.List()
}

// Store copies path into the vault, records it in the ledger and removes the
// original. mode is the permission set to restore later. On failure nothing
// is left behind in the vault or ledger and the original is untouched.
func (v *Vault) Store(path string, mode fs.FileMode) (models.QuarantineRecord, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := os.MkdirAll(v.dir, dirMode); err != nil {
		return models.QuarantineRecord{}, fmt.Errorf("%w: create %s: %w", models.ErrDisposition, v.dir, err)
	}

	taken, err := v.storedNames()
	if err != nil {
		return models.QuarantineRecord{}, fmt.Errorf("%w: %w", models.ErrDisposition, err)
	}

	base := filepath.Base(path)
	var name, dst string
	for n := 0; ; n++ {
		if n >= maxSuffix {
			return models.QuarantineRecord{}, fmt.Errorf("%w: no free name for %s", models.ErrDisposition, base)
		}

		name = base
		if n > 0 {
			name = base + "." + strconv.Itoa(n)
		}
		if _, ok := taken[name]; ok {
			continue
		}
		dst = v.StoredPath(name)

		_, err := filesystem.CopyFile(path, dst, v.WrapWriter)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			os.Remove(dst)
			return models.QuarantineRecord{}, fmt.Errorf("%w: copy %s: %w", models.ErrDisposition, path, err)
		}
		break
	}

	if err := os.Chmod(dst, storedMode); err != nil {
		os.Remove(dst)
		return models.QuarantineRecord{}, fmt.Errorf("%w: %w", models.ErrDisposition, err)
	}

	rec := models.QuarantineRecord{OriginalPath: path, Mode: mode.Perm(), StoredName: name}
	if err := v.ledger.Append(rec); err != nil {
		os.Remove(dst)
		return models.QuarantineRecord{}, fmt.Errorf("%w: %w", models.ErrDisposition, err)
	}

	if err := v.removeFile(path); err != nil {
		if lerr := v.ledger.Remove(rec); lerr != nil {
			v.logger.Error("Failed to roll back ledger record",
				zap.String("path", path),
				zap.Error(lerr))
		}
		os.Remove(dst)
		return models.QuarantineRecord{}, fmt.Errorf("%w: remove %s: %w", models.ErrDisposition, path, err)
	}

	v.logger.Info("File quarantined",
		zap.String("path", path),
		zap.String("stored_name", name))
	return rec, nil
}

// Restore moves the file stored under name back to its original path with
// its recorded permissions and drops the ledger record
func (v *Vault) Restore(name string) (models.QuarantineRecord, error) {
	if name == "" || filepath.Base(name) != name {
		return models.QuarantineRecord{}, fmt.Errorf("%w: %q", models.ErrLedgerInconsistency, name)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	rec, err := v.ledger.FindStored(name)
	if err != nil {
		return models.QuarantineRecord{}, err
	}
	return rec, v.restore(rec)
}

// RestoreOriginal restores the most recent quarantine of path, if any
func (v *Vault) RestoreOriginal(path string) (models.QuarantineRecord, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	rec, ok, err := v.ledger.FindOriginal(path)
	if err != nil || !ok {
		return rec, false, err
	}
	return rec, true, v.restore(rec)
}

func (v *Vault) restore(rec models.QuarantineRecord) error {
	src := v.StoredPath(rec.StoredName)

	if _, err := os.Lstat(rec.OriginalPath); err == nil {
		return fmt.Errorf("%w: %s is occupied", models.ErrDisposition, rec.OriginalPath)
	}
	if _, err := os.Lstat(src); err != nil {
		return fmt.Errorf("%w: stored copy %s: %w", models.ErrDisposition, rec.StoredName, err)
	}

	if err := os.MkdirAll(filepath.Dir(rec.OriginalPath), dirMode); err != nil {
		return fmt.Errorf("%w: %w", models.ErrDisposition, err)
	}
	if err := filesystem.Move(src, rec.OriginalPath); err != nil {
		return fmt.Errorf("%w: move %s: %w", models.ErrDisposition, rec.StoredName, err)
	}
	if err := os.Chmod(rec.OriginalPath, rec.Mode); err != nil {
		v.logger.Warn("Failed to restore permissions",
			zap.String("path", rec.OriginalPath),
			zap.Error(err))
	}

	if err := v.ledger.Remove(rec); err != nil {
		return err
	}

	v.logger.Info("File restored from quarantine",
		zap.String("path", rec.OriginalPath),
		zap.String("stored_name", rec.StoredName))
	return nil
}

// storedNames returns names already used by the ledger
func (v *Vault) storedNames() (map[string]struct{}, error) {
	records, err := v.ledger.List()
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(records))
	for _, rec := range records {
		taken[rec.StoredName] = struct{}{}
	}
	return taken, nil
}
