// Package cli implements the pproc command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/SethMC26/3320-antivirus-Final/internal/config"
	"github.com/SethMC26/3320-antivirus-Final/internal/core"
	"github.com/SethMC26/3320-antivirus-Final/internal/disposition"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile      string
	verbose      bool
	auto         bool
	workers      int
	stateDir     string
	reportFormat string
	outputFile   string
)

// RootCmd builds the command tree
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pproc",
		Short: "Penguin Protector - hash-based malware scanner",
		Long: `Scan files and directories against blocklists of known-malicious MD5, SHA1
and SHA256 digests, then delete, quarantine or whitelist what matches.`,
		Version:       core.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (YAML)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging to the console")
	flags.BoolVar(&auto, "auto", false, "Never prompt; apply auto_action to every detection")
	flags.IntVar(&workers, "workers", 0, "Number of concurrent scan tasks (default from config: 10)")
	flags.StringVar(&stateDir, "state-dir", "", "Directory holding blocklists, whitelist and quarantine")
	flags.StringVarP(&reportFormat, "report", "r", "", "Report format: txt, json (default: console output)")
	flags.StringVarP(&outputFile, "output", "o", "", "Report output file")

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(whitelistCmd())
	rootCmd.AddCommand(quarantineCmd())
	rootCmd.AddCommand(getHashCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(configCmd())

	return rootCmd
}

// Execute runs the command line
func Execute() error {
	return RootCmd().Execute()
}

// loadConfig reads the config and applies global flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("state-dir") {
		cfg.StateDir = stateDir
	}
	if flags.Changed("auto") {
		cfg.Automated = auto
	}
	if flags.Changed("report") {
		cfg.ReportFormat = reportFormat
	}
	if flags.Changed("output") {
		cfg.OutputFile = outputFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is the config, logger and scanner stack a command runs with
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	comps  *core.Components
}

func (s *session) close() {
	s.logger.Sync()
}

// newSession loads config, builds the logger and wires the scanner. pick
// chooses the decision source; nil means auto_action without prompting.
func newSession(cmd *cobra.Command, pick func(*config.Config) (disposition.Confirmer, error)) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if pick == nil {
		pick = autoConfirmer
	}
	confirm, err := pick(cfg)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(verbose, cfg.LogFile, cfg.Syslog)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	comps, err := core.Build(cfg, logger, confirm)
	if err != nil {
		logger.Sync()
		return nil, err
	}

	return &session{cfg: cfg, logger: logger, comps: comps}, nil
}

// confirmerFor prompts on the terminal unless the config is automated
func confirmerFor(cfg *config.Config) (disposition.Confirmer, error) {
	if cfg.Automated {
		return autoConfirmer(cfg)
	}
	return disposition.NewStdinConfirmer()
}

func autoConfirmer(cfg *config.Config) (disposition.Confirmer, error) {
	return disposition.AutoConfirmer{Action: cfg.GetAutoAction()}, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
