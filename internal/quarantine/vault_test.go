package quarantine

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
	"go.uber.org/zap"
)

func newTestVault(t *testing.T) (*Vault, string) {
	t.Helper()
	state := t.TempDir()
	ledger := NewLedger(filepath.Join(state, "quarantine_log.txt"))
	return NewVault(filepath.Join(state, "quarantine"), ledger, zap.NewNop()), t.TempDir()
}

func writeFile(t *testing.T, path string, data []byte, mode fs.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, mode); err != nil {
		t.Fatal(err)
	}
}

func TestVault_RoundTrip(t *testing.T) {
	vault, work := newTestVault(t)
	target := filepath.Join(work, "evil.bin")
	content := []byte("malicious payload")
	writeFile(t, target, content, 0o750)

	rec, err := vault.Store(target, 0o750)
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if rec.StoredName != "evil.bin" {
		t.Errorf("StoredName = %q, want evil.bin", rec.StoredName)
	}
	if _, err := os.Stat(target); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("original still present after Store: %v", err)
	}
	stored, err := os.ReadFile(vault.StoredPath("evil.bin"))
	if err != nil || !bytes.Equal(stored, content) {
		t.Fatalf("stored copy = %q, %v", stored, err)
	}

	if _, err := vault.Restore("evil.bin"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("restored file missing: %v", err)
	}
	if info.Mode().Perm() != 0o750 {
		t.Errorf("restored mode = %o, want 750", info.Mode().Perm())
	}
	if _, err := os.Stat(vault.StoredPath("evil.bin")); !errors.Is(err, fs.ErrNotExist) {
		t.Error("quarantine copy still present after Restore")
	}
	if records, _ := vault.List(); len(records) != 0 {
		t.Errorf("ledger not empty after Restore: %v", records)
	}
}

func TestVault_BasenameCollision(t *testing.T) {
	vault, work := newTestVault(t)
	first := filepath.Join(work, "a", "evil.bin")
	second := filepath.Join(work, "b", "evil.bin")
	writeFile(t, first, []byte("first"), 0o644)
	writeFile(t, second, []byte("second"), 0o600)

	if _, err := vault.Store(first, 0o644); err != nil {
		t.Fatalf("Store(first) error = %v", err)
	}
	rec, err := vault.Store(second, 0o600)
	if err != nil {
		t.Fatalf("Store(second) error = %v", err)
	}
	if rec.StoredName != "evil.bin.1" {
		t.Errorf("StoredName = %q, want evil.bin.1", rec.StoredName)
	}

	if _, err := vault.Restore("evil.bin.1"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	data, err := os.ReadFile(second)
	if err != nil || string(data) != "second" {
		t.Errorf("second restored as %q, %v", data, err)
	}
	if _, err := os.Stat(first); !errors.Is(err, fs.ErrNotExist) {
		t.Error("first file restored unexpectedly")
	}
}

type failingWriter struct {
	w     io.Writer
	limit int
}

func (f *failingWriter) Write(p []byte) (int, error) {
	if len(p) > f.limit {
		n, _ := f.w.Write(p[:f.limit])
		return n, errors.New("injected write failure")
	}
	f.limit -= len(p)
	return f.w.Write(p)
}

func TestVault_CopyFailureLeavesNoTrace(t *testing.T) {
	vault, work := newTestVault(t)
	target := filepath.Join(work, "evil.bin")
	writeFile(t, target, bytes.Repeat([]byte("x"), 64*1024), 0o644)
	vault.WrapWriter = func(w io.Writer) io.Writer { return &failingWriter{w: w, limit: 1000} }

	_, err := vault.Store(target, 0o644)
	if !errors.Is(err, models.ErrDisposition) {
		t.Fatalf("Store() error = %v, want ErrDisposition", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("original missing after failed copy: %v", err)
	}
	if _, err := os.Stat(vault.StoredPath("evil.bin")); !errors.Is(err, fs.ErrNotExist) {
		t.Error("partial copy left in quarantine")
	}
	if records, _ := vault.List(); len(records) != 0 {
		t.Errorf("ledger has records after failed copy: %v", records)
	}
}

func TestVault_UnlinkFailureRollsBack(t *testing.T) {
	vault, work := newTestVault(t)
	target := filepath.Join(work, "evil.bin")
	writeFile(t, target, []byte("payload"), 0o644)
	vault.removeFile = func(string) error { return errors.New("injected unlink failure") }

	if _, err := vault.Store(target, 0o644); !errors.Is(err, models.ErrDisposition) {
		t.Fatalf("Store() error = %v, want ErrDisposition", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("original missing: %v", err)
	}
	if _, err := os.Stat(vault.StoredPath("evil.bin")); !errors.Is(err, fs.ErrNotExist) {
		t.Error("copy left in quarantine")
	}
	if records, _ := vault.List(); len(records) != 0 {
		t.Errorf("ledger has records after rollback: %v", records)
	}
}

func TestVault_RestoreErrors(t *testing.T) {
	vault, work := newTestVault(t)

	if _, err := vault.Restore("unknown.bin"); !errors.Is(err, models.ErrLedgerInconsistency) {
		t.Errorf("Restore(unknown) error = %v, want ErrLedgerInconsistency", err)
	}
	if _, err := vault.Restore("../escape"); !errors.Is(err, models.ErrLedgerInconsistency) {
		t.Errorf("Restore(../escape) error = %v, want ErrLedgerInconsistency", err)
	}

	target := filepath.Join(work, "evil.bin")
	writeFile(t, target, []byte("payload"), 0o644)
	if _, err := vault.Store(target, 0o644); err != nil {
		t.Fatal(err)
	}
	writeFile(t, target, []byte("replacement"), 0o644)

	if _, err := vault.Restore("evil.bin"); !errors.Is(err, models.ErrDisposition) {
		t.Errorf("Restore() onto occupied path error = %v, want ErrDisposition", err)
	}
	if records, _ := vault.List(); len(records) != 1 {
		t.Errorf("ledger record dropped after refused restore: %v", records)
	}
}
