package cli

import (
	"fmt"

	"github.com/SethMC26/3320-antivirus-Final/internal/config"
	"github.com/SethMC26/3320-antivirus-Final/internal/watch"
	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Scan new files as they appear in a directory",
		Long: `Watch a directory (default: watch_dir, ~/Downloads) and scan every file
written or moved into it. Detections are handled without prompting using
auto_action. Runs until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, autoConfirmer)
			if err != nil {
				return err
			}
			defer s.close()

			dir := config.ExpandHome(s.cfg.WatchDir)
			if len(args) == 1 {
				dir = args[0]
			}

			svc := watch.NewService(dir, s.comps.Scanner, s.logger)
			svc.OnResult = func(r *models.FileResult) {
				if r.Detection != nil {
					action := string(r.Detection.Action)
					if action == "" {
						action = "failed: " + r.Detection.Error
					}
					fmt.Printf("%s  %s  %s\n", r.Path, r.Detection.Digest, action)
				}
			}

			ctx, cancel := signalContext()
			defer cancel()

			fmt.Printf("Watching %s (Ctrl+C to stop)\n", dir)
			return svc.Run(ctx)
		},
	}
}
