package filesystem

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
)

func TestCanonicalize(t *testing.T) {
	tmpDir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}

	target := filepath.Join(tmpDir, "target.bin")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	link := filepath.Join(tmpDir, "link.bin")
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Plain", target, target},
		{"Dot segments", filepath.Join(tmpDir, "sub", "..", "target.bin"), target},
		{"Symlink", link, target},
		{"Missing file", filepath.Join(tmpDir, "gone.bin"), filepath.Join(tmpDir, "gone.bin")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.input)
			if err != nil {
				t.Fatalf("Canonicalize(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.bin")
	if err := os.WriteFile(testFile, []byte("hello"), 0o640); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	ref, err := Resolve(testFile)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !ref.IsRegular() {
		t.Error("Resolve() ref is not a regular file")
	}
	if ref.Perm() != 0o640 {
		t.Errorf("Perm() = %o, want 640", ref.Perm())
	}
	if ref.Size != 5 {
		t.Errorf("Size = %d, want 5", ref.Size)
	}

	_, err = Resolve(filepath.Join(tmpDir, "missing"))
	if !errors.Is(err, models.ErrIO) {
		t.Errorf("Resolve(missing) error = %v, want ErrIO", err)
	}
}

func TestCopyFile(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	dst := filepath.Join(tmpDir, "dst")
	content := bytes.Repeat([]byte("pproc"), 10000)
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	n, err := CopyFile(src, dst, nil)
	if err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}
	if n != int64(len(content)) {
		t.Errorf("CopyFile() = %d bytes, want %d", n, len(content))
	}
	got, _ := os.ReadFile(dst)
	if !bytes.Equal(got, content) {
		t.Error("CopyFile() destination content differs")
	}

	// Destination is created exclusively
	if _, err := CopyFile(src, dst, nil); err == nil {
		t.Error("CopyFile() over existing destination succeeded")
	}
}

type failAfter struct {
	w     io.Writer
	limit int
}

func (f *failAfter) Write(p []byte) (int, error) {
	if f.limit <= 0 {
		return 0, errors.New("disk full")
	}
	if len(p) > f.limit {
		n, _ := f.w.Write(p[:f.limit])
		f.limit = 0
		return n, errors.New("disk full")
	}
	f.limit -= len(p)
	return f.w.Write(p)
}

func TestCopyFile_WriteFailure(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	dst := filepath.Join(tmpDir, "dst")
	if err := os.WriteFile(src, bytes.Repeat([]byte{1}, 4096), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := CopyFile(src, dst, func(w io.Writer) io.Writer { return &failAfter{w: w, limit: 100} })
	if err == nil {
		t.Fatal("CopyFile() expected error from failing writer")
	}
}

func TestMove(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "a")
	dst := filepath.Join(tmpDir, "b")
	if err := os.WriteFile(src, []byte("data"), 0o600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if err := Move(src, dst); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if _, err := os.Stat(src); !errors.Is(err, fs.ErrNotExist) {
		t.Error("Move() left the source in place")
	}

	if err := os.WriteFile(src, []byte("other"), 0o600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := Move(src, dst); err == nil {
		t.Error("Move() onto an existing destination succeeded")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    fs.FileMode
		wantErr bool
	}{
		{"0755", 0o755, false},
		{"644", 0o644, false},
		{"0444", 0o444, false},
		{"4755", 0o4755, false},
		{"rwx", 0, true},
		{"77777", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseMode(%q) = %o, want %o", tt.input, got, tt.want)
			}
		})
	}

	if got := FormatMode(0o755); got != "0755" {
		t.Errorf("FormatMode(0755) = %q", got)
	}
}
