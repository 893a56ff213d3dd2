package models

import (
	"io/fs"
	"time"
)

// FileRef is a resolved scan target: an absolute, canonical path plus the
// stat metadata captured when it was resolved. It is never updated, so the
// file it names may have moved or vanished by the time it is used.
type FileRef struct {
	Path       string      // Canonical absolute path
	Mode       fs.FileMode // Mode bits at resolution time (type + permissions)
	Size       int64       // File size in bytes
	ModTime    time.Time   // Modification time
	ChangeTime time.Time   // Change time (inode)
}

// IsDir reports whether the reference was a directory when resolved
func (r *FileRef) IsDir() bool {
	return r.Mode.IsDir()
}

// IsRegular reports whether the reference was a regular file when resolved
func (r *FileRef) IsRegular() bool {
	return r.Mode.IsRegular()
}

// Perm returns the permission bits captured at resolution time
func (r *FileRef) Perm() fs.FileMode {
	return r.Mode.Perm()
}

// ScanTask is one unit of work queued by the directory walker
type ScanTask struct {
	Path  string
	IsDir bool
}
