package quarantine

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/SethMC26/3320-antivirus-Final/internal/filesystem"
	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
)

// Ledger is the quarantine log: one line per quarantined file recording its
// original path and permission bits.
//
// Line format is "<original_path> <perm_octal>" with an optional trailing
// "@<stored_name>" when the copy is not stored under its own basename.
// Lines are parsed from the right so original paths may contain spaces.
type Ledger struct {
	path string
	mu   sync.Mutex
}

// NewLedger creates a ledger backed by path
func NewLedger(path string) *Ledger {
	return &Ledger{path: path}
}

// Path returns the backing file
func (l *Ledger) Path() string {
	return l.path
}

// FormatRecord renders one ledger line without the trailing newline
func FormatRecord(rec models.QuarantineRecord) string {
	line := rec.OriginalPath + " " + filesystem.FormatMode(rec.Mode)
	if rec.StoredName != "" && rec.StoredName != filepath.Base(rec.OriginalPath) {
		line += " @" + rec.StoredName
	}
	return line
}

// ParseRecord parses one ledger line
func ParseRecord(line string) (models.QuarantineRecord, error) {
	line = strings.TrimRight(line, "\r\n")
	var rec models.QuarantineRecord

	rest := line
	idx := strings.LastIndexByte(rest, ' ')
	if idx <= 0 {
		return rec, fmt.Errorf("malformed ledger line %q", line)
	}
	if token := rest[idx+1:]; strings.HasPrefix(token, "@") {
		rec.StoredName = token[1:]
		rest = rest[:idx]
		idx = strings.LastIndexByte(rest, ' ')
		if idx <= 0 || rec.StoredName == "" {
			return rec, fmt.Errorf("malformed ledger line %q", line)
		}
	}

	mode, err := filesystem.ParseMode(rest[idx+1:])
	if err != nil {
		return rec, fmt.Errorf("malformed ledger line %q: %w", line, err)
	}
	rec.Mode = mode
	rec.OriginalPath = rest[:idx]
	if rec.StoredName == "" {
		rec.StoredName = filepath.Base(rec.OriginalPath)
	}
	return rec, nil
}

// Append writes one record at the end of the ledger
func (l *Ledger) Append(rec models.QuarantineRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("%w: %w", models.ErrIO, err)
	}
	file, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrIO, err)
	}
	if _, err := fmt.Fprintln(file, FormatRecord(rec)); err != nil {
		file.Close()
		return fmt.Errorf("%w: append %s: %w", models.ErrIO, l.path, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("%w: %w", models.ErrIO, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: %w", models.ErrIO, err)
	}
	return nil
}

// List returns every well-formed record in file order. Malformed lines are
// skipped.
func (l *Ledger) List() ([]models.QuarantineRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, _, err := l.read()
	return records, err
}

// FindStored returns the record for a stored name
func (l *Ledger) FindStored(name string) (models.QuarantineRecord, error) {
	records, err := l.List()
	if err != nil {
		return models.QuarantineRecord{}, err
	}
	for _, rec := range records {
		if rec.StoredName == name {
			return rec, nil
		}
	}
	return models.QuarantineRecord{}, fmt.Errorf("%w: %s", models.ErrLedgerInconsistency, name)
}

// FindOriginal returns the most recent record for an original path
func (l *Ledger) FindOriginal(path string) (models.QuarantineRecord, bool, error) {
	records, err := l.List()
	if err != nil {
		return models.QuarantineRecord{}, false, err
	}
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].OriginalPath == path {
			return records[i], true, nil
		}
	}
	return models.QuarantineRecord{}, false, nil
}

// Remove drops the first line recording rec's stored name. The ledger is
// rewritten through a temporary file and renamed into place.
func (l *Ledger) Remove(rec models.QuarantineRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, lines, err := l.read()
	if err != nil {
		return err
	}

	kept := make([]string, 0, len(lines))
	removed := false
	for _, line := range lines {
		if !removed {
			if parsed, err := ParseRecord(line); err == nil &&
				parsed.StoredName == rec.StoredName && parsed.OriginalPath == rec.OriginalPath {
				removed = true
				continue
			}
		}
		kept = append(kept, line)
	}
	if !removed {
		return fmt.Errorf("%w: %s", models.ErrLedgerInconsistency, rec.StoredName)
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".quarantine_log-*")
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrIO, err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, line := range kept {
		fmt.Fprintln(w, line)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", models.ErrIO, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", models.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", models.ErrIO, err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("%w: %w", models.ErrIO, err)
	}
	return nil
}

// read returns the parsed records and raw lines. Caller holds mu.
func (l *Ledger) read() ([]models.QuarantineRecord, []string, error) {
	file, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", models.ErrIO, err)
	}
	defer file.Close()

	var records []models.QuarantineRecord
	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if rec, err := ParseRecord(line); err == nil {
			records = append(records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: read %s: %w", models.ErrIO, l.path, err)
	}
	return records, lines, nil
}
