package models

import (
	"errors"
	"strings"
	"testing"
)

func TestParseAlgorithm(t *testing.T) {
	for _, name := range []string{"md5", "sha1", "sha256"} {
		if alg, err := ParseAlgorithm(name); err != nil || string(alg) != name {
			t.Errorf("ParseAlgorithm(%q) = %q, %v", name, alg, err)
		}
	}
	if _, err := ParseAlgorithm("crc32"); !errors.Is(err, ErrDigest) {
		t.Errorf("ParseAlgorithm(crc32) error = %v, want ErrDigest", err)
	}
}

func TestDigest_Valid(t *testing.T) {
	tests := []struct {
		name string
		d    Digest
		want bool
	}{
		{"MD5", Digest{MD5, strings.Repeat("a", 32)}, true},
		{"SHA256", Digest{SHA256, strings.Repeat("0", 64)}, true},
		{"Wrong length", Digest{SHA1, strings.Repeat("a", 32)}, false},
		{"Uppercase", Digest{MD5, strings.Repeat("A", 32)}, false},
		{"Unknown algorithm", Digest{"crc32", "deadbeef"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
		ok   bool
	}{
		{"delete", ActionDelete, true},
		{"remove", ActionDelete, true},
		{"quarantine", ActionQuarantine, true},
		{"whitelist", ActionAllow, true},
		{"allow", ActionAllow, true},
		{"ignore", ActionNone, false},
	}
	for _, tt := range tests {
		got, ok := ParseAction(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseAction(%q) = %q, %v", tt.in, got, ok)
		}
	}
}

func TestScanResults_AddFileResult(t *testing.T) {
	r := NewScanResults("/data")
	digest := Digest{SHA256, strings.Repeat("ab", 32)}

	r.AddFileResult(&FileResult{Path: "/data/a", Size: 100, Outcome: OutcomeClean})
	r.AddFileResult(&FileResult{Path: "/data/b", Outcome: OutcomeSkipped})
	r.AddFileResult(&FileResult{Path: "/data/c", Outcome: OutcomeError, Err: ErrIO})
	r.AddFileResult(&FileResult{
		Path: "/data/d", Size: 50, Outcome: OutcomeDisposed,
		Detection: &Detection{Path: "/data/d", Digest: digest, Action: ActionQuarantine},
	})
	r.AddFileResult(&FileResult{
		Path: "/data/e", Outcome: OutcomeError, Err: ErrDisposition,
		Detection: &Detection{Path: "/data/e", Digest: digest, Error: "disposition failed"},
	})
	r.Finish()

	if r.TotalFiles != 5 || r.ScannedFiles != 3 || r.SkippedFiles != 1 {
		t.Errorf("totals = %d/%d/%d, want 5/3/1", r.TotalFiles, r.ScannedFiles, r.SkippedFiles)
	}
	if r.ThreatsFound != 2 || r.Stats.Quarantined != 1 {
		t.Errorf("ThreatsFound = %d, Quarantined = %d", r.ThreatsFound, r.Stats.Quarantined)
	}
	if r.Stats.ReadErrors != 1 || r.Stats.DispositionErrors != 1 {
		t.Errorf("ReadErrors = %d, DispositionErrors = %d", r.Stats.ReadErrors, r.Stats.DispositionErrors)
	}
	if r.Stats.TotalSize != 150 {
		t.Errorf("TotalSize = %d, want 150", r.Stats.TotalSize)
	}
	if len(r.Stats.ErrorFiles) != 2 {
		t.Errorf("ErrorFiles = %v", r.Stats.ErrorFiles)
	}
}
