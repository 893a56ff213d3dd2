package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SethMC26/3320-antivirus-Final/internal/privilege"
	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
)

func TestLoadConfig(t *testing.T) {
	// Test default config loading (without config file)
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.StateDir != DefaultStateDir {
		t.Errorf("Default state_dir = %v, want %v", cfg.StateDir, DefaultStateDir)
	}

	if cfg.Workers != 10 {
		t.Errorf("Default workers = %v, want %v", cfg.Workers, 10)
	}

	if cfg.ReadTimeout != 30*time.Second {
		t.Errorf("Default read_timeout = %v, want %v", cfg.ReadTimeout, 30*time.Second)
	}

	if cfg.MissingBlocklist != MissingSkip {
		t.Errorf("Default missing_blocklist = %v, want %v", cfg.MissingBlocklist, MissingSkip)
	}

	if cfg.GetAutoAction() != models.ActionDelete {
		t.Errorf("Default auto_action = %v, want %v", cfg.GetAutoAction(), models.ActionDelete)
	}

	if cfg.Automated {
		t.Error("Default automated = true, want false")
	}

	if !cfg.Syslog {
		t.Error("Default syslog = false, want true")
	}

	wantLog := "/var/log/pproc.log"
	if !privilege.IsRoot() {
		home, _ := os.UserHomeDir()
		wantLog = filepath.Join(home, "pproc.log")
	}
	if cfg.LogFile != wantLog {
		t.Errorf("Default log_file = %v, want %v", cfg.LogFile, wantLog)
	}

	algs, err := cfg.GetAlgorithms()
	if err != nil {
		t.Fatalf("GetAlgorithms() error = %v", err)
	}
	want := []models.Algorithm{models.MD5, models.SHA1, models.SHA256}
	if len(algs) != len(want) {
		t.Fatalf("Default algorithms = %v, want %v", algs, want)
	}
	for i := range want {
		if algs[i] != want[i] {
			t.Errorf("algorithms[%d] = %v, want %v", i, algs[i], want[i])
		}
	}
}

func TestLoadConfig_File(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "pproc.yaml")
	content := "state_dir: " + tmpDir + "\nworkers: 3\nread_timeout: 5s\nalgorithms: [sha256, md5]\nauto_action: quarantine\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Workers != 3 {
		t.Errorf("workers = %d, want 3", cfg.Workers)
	}
	if cfg.ReadTimeout != 5*time.Second {
		t.Errorf("read_timeout = %v, want 5s", cfg.ReadTimeout)
	}
	if cfg.GetAutoAction() != models.ActionQuarantine {
		t.Errorf("auto_action = %v, want quarantine", cfg.GetAutoAction())
	}
	algs, _ := cfg.GetAlgorithms()
	if len(algs) != 2 || algs[0] != models.SHA256 || algs[1] != models.MD5 {
		t.Errorf("algorithms = %v, want [sha256 md5]", algs)
	}
	if got := cfg.BlocklistPath(models.SHA256); got != filepath.Join(tmpDir, "sha256-hashes.txt") {
		t.Errorf("BlocklistPath() = %q", got)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("PPROC_WORKERS", "4")
	t.Setenv("PPROC_MISSING_BLOCKLIST", "fail")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.Workers)
	}
	if cfg.MissingBlocklist != MissingFail {
		t.Errorf("missing_blocklist = %q, want fail", cfg.MissingBlocklist)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{Workers: 1, MissingBlocklist: MissingSkip, AutoAction: "delete"}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"Valid", func(c *Config) {}, false},
		{"Zero workers", func(c *Config) { c.Workers = 0 }, true},
		{"Bad policy", func(c *Config) { c.MissingBlocklist = "ignore" }, true},
		{"Bad action", func(c *Config) { c.AutoAction = "burn" }, true},
		{"Whitelist alias", func(c *Config) { c.AutoAction = "whitelist" }, false},
		{"Bad algorithm", func(c *Config) { c.Algorithms = []string{"crc32"} }, true},
		{"Bad report", func(c *Config) { c.ReportFormat = "pdf" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := &Config{StateDir: "/srv/pproc"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"md5 list", cfg.BlocklistPath(models.MD5), "/srv/pproc/md5-hashes.txt"},
		{"sha1 list", cfg.BlocklistPath(models.SHA1), "/srv/pproc/sha1-hashes.txt"},
		{"whitelist", cfg.WhitelistPath(), "/srv/pproc/whitelist.txt"},
		{"quarantine", cfg.QuarantinePath(), "/srv/pproc/quarantine"},
		{"ledger", cfg.LedgerPath(), "/srv/pproc/quarantine_log.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}

	excl := cfg.ExcludePaths()
	if excl[len(excl)-1] != "/srv/pproc/quarantine" {
		t.Errorf("ExcludePaths() does not end with quarantine dir: %v", excl)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pproc.yaml")
	cfg := &Config{StateDir: "/tmp/state", Workers: 7, MissingBlocklist: MissingSkip, AutoAction: "delete"}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.Workers != 7 || loaded.StateDir != "/tmp/state" {
		t.Errorf("round trip mismatch: workers=%d state_dir=%q", loaded.Workers, loaded.StateDir)
	}
}
