package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/SethMC26/3320-antivirus-Final/internal/report"
	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	reportStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

func scanCmd() *cobra.Command {
	var (
		all       bool
		directory string
	)

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a file, a directory or the whole system",
		Long: `Fingerprint files and check them against the blocklists. Matches are
deleted, quarantined or whitelisted, interactively or with --auto.`,
		Example: `  pproc scan ~/Downloads/setup.exe
  pproc scan --directory /home/user
  pproc scan --all --auto`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := 0
			if all {
				targets++
			}
			if directory != "" {
				targets++
			}
			if len(args) == 1 {
				targets++
			}
			if targets != 1 {
				return fmt.Errorf("specify exactly one of <path>, --directory or --all")
			}

			s, err := newSession(cmd, confirmerFor)
			if err != nil {
				return err
			}
			defer s.close()

			generator, err := report.NewGenerator(s.cfg.ReportFormat, s.cfg.OutputFile, s.logger)
			if err != nil {
				return err
			}

			scanner := s.comps.Scanner
			if s.cfg.Automated && !verbose && term.IsTerminal(int(os.Stdout.Fd())) {
				scanner.SetProgressCallback(func(phase string, current, total int, message string) {
					if current%50 == 0 {
						fmt.Print("\r\033[K" + progressStyle.Render(fmt.Sprintf("  Scanned %d files", current)))
					}
				})
			}

			ctx, cancel := signalContext()
			defer cancel()

			var results *models.ScanResults
			switch {
			case all:
				results, err = scanner.ScanSystem(ctx)
			case directory != "":
				results, err = scanner.ScanDir(ctx, directory)
			default:
				results, err = scanner.ScanPath(ctx, args[0])
			}
			if results == nil {
				s.logger.Error("Scan failed", zap.Error(err))
				return err
			}
			if s.cfg.Automated && !verbose {
				fmt.Print("\r\033[K")
			}

			reportPath, genErr := generator.Generate(results)
			if genErr != nil {
				s.logger.Error("Failed to generate report", zap.Error(genErr))
				return genErr
			}
			if reportPath != "" {
				fmt.Printf("  Report: %s\n\n", reportStyle.Render(reportPath))
			}

			if err != nil {
				if results.Cancelled {
					return errors.New("scan cancelled")
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Scan the whole filesystem")
	cmd.Flags().StringVar(&directory, "directory", "", "Scan a directory recursively")

	return cmd
}
