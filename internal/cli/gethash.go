package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/SethMC26/3320-antivirus-Final/internal/fingerprint"
	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
	"github.com/spf13/cobra"
)

// getHashOrder matches the order digests have always been printed in
var getHashOrder = []models.Algorithm{models.SHA1, models.SHA256, models.MD5}

func getHashCmd() *cobra.Command {
	var expect string

	cmd := &cobra.Command{
		Use:   "get-hash <path>",
		Short: "Print the SHA1, SHA256 and MD5 digests of a file",
		Long: `Print the SHA1, SHA256 and MD5 digests of a file, one per line. With
--expect, also report which digest (if any) equals the given hex string.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			digests := printHashes(cmd.Context(), out, args[0])
			if len(digests) == 0 {
				return fmt.Errorf("could not hash %s", args[0])
			}

			if expect != "" {
				if alg, ok := matchExpected(digests, expect); ok {
					fmt.Fprintf(out, "Match: %s\n", alg.Label())
				} else {
					return fmt.Errorf("no digest of %s matches %s", args[0], expect)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&expect, "expect", "", "Hex digest the file is expected to have")

	return cmd
}

// printHashes writes one line per algorithm and returns the digests that
// could be computed
func printHashes(ctx context.Context, w io.Writer, path string) []models.Digest {
	if ctx == nil {
		ctx = context.Background()
	}

	var digests []models.Digest
	for _, alg := range getHashOrder {
		digest, err := fingerprint.File(ctx, path, alg)
		if err != nil {
			fmt.Fprintf(w, "Failed to calculate %s hash for %s\n", alg.Label(), path)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", alg.Label(), digest.Hex)
		digests = append(digests, digest)
	}
	return digests
}

func matchExpected(digests []models.Digest, expect string) (models.Algorithm, bool) {
	for _, d := range digests {
		if fingerprint.Compare(d.Hex, expect) {
			return d.Algorithm, true
		}
	}
	return "", false
}
