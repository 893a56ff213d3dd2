//go:build !linux

package filesystem

import (
	"os"
	"time"
)

// getChangeTime falls back to the modification time where ctime is not exposed
func getChangeTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
