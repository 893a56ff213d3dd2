package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SethMC26/3320-antivirus-Final/internal/privilege"
	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultStateDir holds blocklists, the allowlist and the quarantine area
const DefaultStateDir = "/usr/local/share/pproc"

// Missing blocklist policies
const (
	MissingSkip = "skip"
	MissingFail = "fail"
)

// Config represents the scanner configuration
type Config struct {
	// State settings
	StateDir      string `mapstructure:"state_dir" yaml:"state_dir"`           // directory holding all persisted state
	BlocklistDir  string `mapstructure:"blocklist_dir" yaml:"blocklist_dir"`   // overrides state_dir for *-hashes.txt
	WhitelistFile string `mapstructure:"whitelist_file" yaml:"whitelist_file"` // overrides <state_dir>/whitelist.txt
	QuarantineDir string `mapstructure:"quarantine_dir" yaml:"quarantine_dir"` // overrides <state_dir>/quarantine
	LedgerFile    string `mapstructure:"ledger_file" yaml:"ledger_file"`       // overrides <state_dir>/quarantine_log.txt

	// Scan settings
	Workers          int           `mapstructure:"workers" yaml:"workers"`                     // worker pool size
	ReadTimeout      time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`           // per-file hashing timeout
	Algorithms       []string      `mapstructure:"algorithms" yaml:"algorithms"`               // blocklist check order
	MissingBlocklist string        `mapstructure:"missing_blocklist" yaml:"missing_blocklist"` // skip or fail
	Exclude          []string      `mapstructure:"exclude" yaml:"exclude"`                     // absolute paths never descended into

	// Disposition settings
	Automated   bool   `mapstructure:"automated" yaml:"automated"`       // never prompt
	AutoAction  string `mapstructure:"auto_action" yaml:"auto_action"`   // delete, quarantine or allow
	RequireRoot bool   `mapstructure:"require_root" yaml:"require_root"` // refuse state mutation unless euid 0

	// Service settings
	WatchDir string `mapstructure:"watch_dir" yaml:"watch_dir"` // directory watched by the service

	// Output settings
	LogFile      string `mapstructure:"log_file" yaml:"log_file"`           // log file path
	Syslog       bool   `mapstructure:"syslog" yaml:"syslog"`               // also log to the local syslog daemon
	ReportFormat string `mapstructure:"report_format" yaml:"report_format"` // json, txt or empty for console
	OutputFile   string `mapstructure:"output_file" yaml:"output_file"`     // report output path
}

// SystemExclude lists pseudo filesystems skipped by a whole-system scan
var SystemExclude = []string{"/proc", "/sys", "/dev", "/run"}

// LoadConfig loads configuration from defaults, an optional YAML file and
// PPROC_* environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("state_dir", DefaultStateDir)
	v.SetDefault("blocklist_dir", "")
	v.SetDefault("whitelist_file", "")
	v.SetDefault("quarantine_dir", "")
	v.SetDefault("ledger_file", "")
	v.SetDefault("workers", 10)
	v.SetDefault("read_timeout", 30*time.Second)
	v.SetDefault("algorithms", []string{"md5", "sha1", "sha256"})
	v.SetDefault("missing_blocklist", MissingSkip)
	v.SetDefault("exclude", []string{})
	v.SetDefault("automated", false)
	v.SetDefault("auto_action", string(models.ActionDelete))
	v.SetDefault("require_root", false)
	v.SetDefault("watch_dir", defaultWatchDir())
	v.SetDefault("log_file", DefaultLogFile())
	v.SetDefault("syslog", true)
	v.SetDefault("report_format", "")
	v.SetDefault("output_file", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	// Read environment variables
	v.SetEnvPrefix("PPROC")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that the rest of the program relies on
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MissingBlocklist != MissingSkip && c.MissingBlocklist != MissingFail {
		return fmt.Errorf("missing_blocklist must be %q or %q, got %q", MissingSkip, MissingFail, c.MissingBlocklist)
	}
	if _, ok := models.ParseAction(c.AutoAction); !ok {
		return fmt.Errorf("auto_action must be delete, quarantine or allow, got %q", c.AutoAction)
	}
	if _, err := c.GetAlgorithms(); err != nil {
		return err
	}
	switch c.ReportFormat {
	case "", "json", "txt", "text":
	default:
		return fmt.Errorf("unknown report format: %s", c.ReportFormat)
	}
	return nil
}

// GetAlgorithms returns the configured blocklist order
func (c *Config) GetAlgorithms() ([]models.Algorithm, error) {
	if len(c.Algorithms) == 0 {
		return models.DefaultAlgorithms, nil
	}
	algs := make([]models.Algorithm, 0, len(c.Algorithms))
	seen := make(map[models.Algorithm]bool)
	for _, name := range c.Algorithms {
		alg, err := models.ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		if seen[alg] {
			continue
		}
		seen[alg] = true
		algs = append(algs, alg)
	}
	return algs, nil
}

// GetAutoAction returns the action taken without prompting
func (c *Config) GetAutoAction() models.Action {
	a, ok := models.ParseAction(c.AutoAction)
	if !ok {
		return models.ActionDelete
	}
	return a
}

// BlocklistPath returns the blocklist file for an algorithm
func (c *Config) BlocklistPath(alg models.Algorithm) string {
	dir := c.BlocklistDir
	if dir == "" {
		dir = c.StateDir
	}
	return filepath.Join(dir, string(alg)+"-hashes.txt")
}

// WhitelistPath returns the allowlist file
func (c *Config) WhitelistPath() string {
	if c.WhitelistFile != "" {
		return c.WhitelistFile
	}
	return filepath.Join(c.StateDir, "whitelist.txt")
}

// QuarantinePath returns the quarantine directory
func (c *Config) QuarantinePath() string {
	if c.QuarantineDir != "" {
		return c.QuarantineDir
	}
	return filepath.Join(c.StateDir, "quarantine")
}

// LedgerPath returns the quarantine ledger file
func (c *Config) LedgerPath() string {
	if c.LedgerFile != "" {
		return c.LedgerFile
	}
	return filepath.Join(c.StateDir, "quarantine_log.txt")
}

// ExcludePaths returns the configured excludes plus the quarantine directory,
// which must never be rescanned
func (c *Config) ExcludePaths() []string {
	paths := make([]string, 0, len(c.Exclude)+1)
	for _, p := range c.Exclude {
		paths = append(paths, filepath.Clean(ExpandHome(p)))
	}
	return append(paths, filepath.Clean(c.QuarantinePath()))
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// DefaultLogFile follows the service convention: /var/log when running as
// root, the home directory otherwise
func DefaultLogFile() string {
	if privilege.IsRoot() {
		return "/var/log/pproc.log"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "pproc.log"
	}
	return filepath.Join(home, "pproc.log")
}

func defaultWatchDir() string {
	return ExpandHome("~/Downloads")
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}
