package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
	"go.uber.org/zap"
)

func sampleResults() *models.ScanResults {
	r := models.NewScanResults("/home/user/Downloads")
	r.Version = "1.0.0"
	r.AddFileResult(&models.FileResult{Path: "/home/user/Downloads/ok.txt", Size: 10, Outcome: models.OutcomeClean})
	r.AddFileResult(&models.FileResult{
		Path:    "/home/user/Downloads/evil.exe",
		Size:    2048,
		Outcome: models.OutcomeDisposed,
		Detection: &models.Detection{
			Path:      "/home/user/Downloads/evil.exe",
			Digest:    models.Digest{Algorithm: models.SHA256, Hex: strings.Repeat("ab", 32)},
			Action:    models.ActionQuarantine,
			Timestamp: time.Now(),
		},
	})
	r.Finish()
	return r
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Millisecond, "500.00ms"},
		{1500 * time.Millisecond, "1.50s"},
		{90 * time.Second, "1m30.00s"},
		{time.Hour + 2*time.Minute, "1h2m0.00s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{3 * 1024 * 1024, "3.0 MiB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.in); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewGenerator_UnknownFormat(t *testing.T) {
	if _, err := NewGenerator("xml", "", zap.NewNop()); err == nil {
		t.Error("NewGenerator(xml) expected error")
	}
}

func TestGenerate_JSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.json")
	g, err := NewGenerator("json", out, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	path, err := g.Generate(sampleResults())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if path != out {
		t.Errorf("Generate() path = %q, want %q", path, out)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var decoded models.ScanResults
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded.ThreatsFound != 1 || len(decoded.Detections) != 1 {
		t.Errorf("decoded ThreatsFound = %d, detections = %d", decoded.ThreatsFound, len(decoded.Detections))
	}
	if decoded.Detections[0].Action != models.ActionQuarantine {
		t.Errorf("decoded action = %q", decoded.Detections[0].Action)
	}
}

func TestGenerate_Text(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.txt")
	g, err := NewGenerator("txt", out, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Generate(sampleResults()); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	data, _ := os.ReadFile(out)
	for _, want := range []string{"THREATS FOUND:    1", "Quarantined:        1", "/home/user/Downloads/evil.exe", "sha256:"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("text report missing %q", want)
		}
	}
}

func TestGenerate_Console(t *testing.T) {
	g, err := NewGenerator("", "", zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	g.SetOutput(&buf)

	path, err := g.Generate(sampleResults())
	if err != nil || path != "" {
		t.Fatalf("Generate() = %q, %v", path, err)
	}
	if !strings.Contains(buf.String(), "THREATS FOUND: 1") {
		t.Errorf("console output missing threat count: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "evil.exe") {
		t.Error("console output missing detection path")
	}
}
