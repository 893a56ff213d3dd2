package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
	"golang.org/x/sys/unix"
)

// Canonicalize returns the absolute path with symlinks and relative
// components resolved. A path that no longer exists is resolved through its
// parent directory so that it still compares equal to the recorded spelling.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	parent, base := filepath.Split(abs)
	parent = filepath.Clean(parent)
	if parent == abs {
		return abs, nil
	}
	resolvedParent, err := Canonicalize(parent)
	if err != nil {
		return abs, nil
	}
	return filepath.Join(resolvedParent, base), nil
}

// Resolve canonicalizes a scan target and captures its stat metadata
func Resolve(path string) (*models.FileRef, error) {
	canonical, err := Canonicalize(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrIO, err)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrIO, err)
	}

	return newFileRef(canonical, info), nil
}

func newFileRef(path string, info os.FileInfo) *models.FileRef {
	return &models.FileRef{
		Path:       path,
		Mode:       info.Mode(),
		Size:       info.Size(),
		ModTime:    info.ModTime(),
		ChangeTime: getChangeTime(info),
	}
}

// CopyFile copies src to dst byte for byte and verifies that the number of
// bytes written equals the source size. wrap, when non-nil, decorates the
// destination writer. dst is created exclusively and left behind on failure;
// callers own its cleanup.
func CopyFile(src, dst string, wrap func(io.Writer) io.Writer) (int64, error) {
	sourceFile, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer sourceFile.Close()

	info, err := sourceFile.Stat()
	if err != nil {
		return 0, err
	}

	destFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return 0, err
	}
	defer destFile.Close()

	var w io.Writer = destFile
	if wrap != nil {
		w = wrap(destFile)
	}

	n, err := io.Copy(w, sourceFile)
	if err != nil {
		return n, err
	}
	if n != info.Size() {
		return n, fmt.Errorf("short copy of %s: wrote %d of %d bytes", src, n, info.Size())
	}

	if err := destFile.Sync(); err != nil {
		return n, err
	}
	return n, destFile.Close()
}

// Move renames src to dst, falling back to copy and remove when the two
// paths are on different filesystems. dst must not exist.
func Move(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("destination %s already exists", dst)
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EXDEV) {
		return err
	}

	if _, err := CopyFile(src, dst, nil); err != nil {
		os.Remove(dst)
		return err
	}
	return os.Remove(src)
}

// ParseMode parses an octal permission string such as "0755"
func ParseMode(s string) (fs.FileMode, error) {
	var mode uint32
	if _, err := fmt.Sscanf(s, "%o", &mode); err != nil {
		return 0, fmt.Errorf("invalid permission bits %q: %w", s, err)
	}
	if mode > 0o7777 {
		return 0, fmt.Errorf("invalid permission bits %q", s)
	}
	return fs.FileMode(mode), nil
}

// FormatMode renders permission bits the way the ledger stores them
func FormatMode(mode fs.FileMode) string {
	return fmt.Sprintf("%04o", uint32(mode.Perm()))
}
