package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func whitelistCmd() *cobra.Command {
	var (
		add  string
		list bool
	)

	cmd := &cobra.Command{
		Use:   "whitelist",
		Short: "Add to or list the whitelist",
		Long: `Whitelisted paths are never fingerprinted. Adding a path that is currently
quarantined restores it first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (add == "") == !list {
				return fmt.Errorf("specify exactly one of --add or --list")
			}

			s, err := newSession(cmd, nil)
			if err != nil {
				return err
			}
			defer s.close()

			if add != "" {
				ctx, cancel := signalContext()
				defer cancel()
				if err := s.comps.Handler.Allow(ctx, add); err != nil {
					return err
				}
				fmt.Printf("Added %s to the whitelist\n", add)
				return nil
			}

			entries, err := s.comps.Allowlist.List()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("Whitelist is empty")
				return nil
			}
			tree := newPathTree(fmt.Sprintf("Whitelist (%d)", len(entries)))
			for _, path := range entries {
				tree.insert(path, "")
			}
			fmt.Print(tree.render())
			return nil
		},
	}

	cmd.Flags().StringVar(&add, "add", "", "Path to whitelist")
	cmd.Flags().BoolVar(&list, "list", false, "List whitelisted paths")

	return cmd
}
