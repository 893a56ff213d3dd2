//go:build linux

package watch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"
	"go.uber.org/zap"
)

const (
	watchMask   = unix.IN_CLOSE_WRITE | unix.IN_MOVED_TO
	pollTimeout = 250 // milliseconds
)

type event struct {
	Mask uint32
	Name string
}

// Run blocks until ctx is done, scanning each new regular file in the
// watched directory
func (s *Service) Run(ctx context.Context) error {
	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC | unix.IN_NONBLOCK)
	if err != nil {
		return fmt.Errorf("inotify init failed: %w", err)
	}
	defer unix.Close(fd)

	if _, err := unix.InotifyAddWatch(fd, s.dir, watchMask); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.dir, err)
	}

	s.logger.Info("Watching directory", zap.String("path", s.dir))

	buf := make([]byte, 64*(unix.SizeofInotifyEvent+unix.NAME_MAX+1))
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}

	for {
		if ctx.Err() != nil {
			s.logger.Info("Watch stopped", zap.String("path", s.dir))
			return nil
		}

		n, err := unix.Poll(fds, pollTimeout)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("poll failed: %w", err)
		}
		if n == 0 {
			continue
		}

		n, err = unix.Read(fd, buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("inotify read failed: %w", err)
		}

		for _, ev := range parseEvents(buf[:n]) {
			if ev.Mask&unix.IN_Q_OVERFLOW != 0 {
				s.logger.Warn("Inotify queue overflowed, events were lost", zap.String("path", s.dir))
				continue
			}
			if ev.Mask&unix.IN_ISDIR != 0 || ev.Name == "" {
				continue
			}
			s.handle(ctx, filepath.Join(s.dir, ev.Name))
		}
	}
}

// parseEvents decodes a buffer of raw inotify records
func parseEvents(buf []byte) []event {
	var events []event
	for offset := 0; offset+unix.SizeofInotifyEvent <= len(buf); {
		raw := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
		start := offset + unix.SizeofInotifyEvent
		end := start + int(raw.Len)
		if end > len(buf) {
			break
		}

		name := buf[start:end]
		if i := bytes.IndexByte(name, 0); i >= 0 {
			name = name[:i]
		}
		events = append(events, event{Mask: raw.Mask, Name: string(name)})

		offset = end
	}
	return events
}
