package cli

import (
	"fmt"

	"github.com/SethMC26/3320-antivirus-Final/internal/filesystem"
	"github.com/spf13/cobra"
)

func quarantineCmd() *cobra.Command {
	var (
		list    bool
		restore string
	)

	cmd := &cobra.Command{
		Use:   "quarantine",
		Short: "List or restore quarantined files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (restore == "") == !list {
				return fmt.Errorf("specify exactly one of --list or --restore")
			}

			s, err := newSession(cmd, nil)
			if err != nil {
				return err
			}
			defer s.close()

			if restore != "" {
				ctx, cancel := signalContext()
				defer cancel()
				rec, err := s.comps.Handler.Restore(ctx, restore)
				if err != nil {
					return err
				}
				fmt.Printf("Restored %s to %s (%s)\n", restore, rec.OriginalPath, filesystem.FormatMode(rec.Mode))
				return nil
			}

			records, err := s.comps.Vault.List()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("Quarantine is empty")
				return nil
			}
			tree := newPathTree(fmt.Sprintf("Quarantine %s (%d)", s.comps.Vault.Dir(), len(records)))
			for _, rec := range records {
				tree.insert(rec.OriginalPath, fmt.Sprintf("  [%s, %s]", rec.StoredName, filesystem.FormatMode(rec.Mode)))
			}
			fmt.Print(tree.render())
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "List quarantined files by original location")
	cmd.Flags().StringVar(&restore, "restore", "", "Restore a quarantined file by its stored name")

	return cmd
}
