package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hedisam/entrymeta/lib/metadata"
)

func newStatCmd(logger *logrus.Logger, opts *Options) *cobra.Command {
	var (
		keys string
		head bool
	)

	cmd := &cobra.Command{
		Use:   "stat KEY",
		Short: "Show the metadata of an entry",
		Long: `Show the metadata of a file or directory. Only the keys asked for with --keys are
fetched; the server answers from its catalog when it can and asks the storage backend otherwise.

Examples:
  # Mode only
  entrymeta stat docs/report.pdf

  # Size and entity tag
  entrymeta stat docs/report.pdf --keys content_length,etag

  # Everything the backend knows, read from HEAD response headers
  entrymeta stat docs/report.pdf --keys all --head`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keySet, err := parseKeysFlag(keys)
			if err != nil {
				return fmt.Errorf("invalid --keys: %w", err)
			}

			client, err := newClient(logger, opts)
			if err != nil {
				return err
			}

			var md metadata.Metadata
			if head {
				md, err = client.Head(cmd.Context(), args[0], keySet)
			} else {
				var entry *metadata.Entry
				entry, err = client.Stat(cmd.Context(), args[0], keySet)
				if entry != nil {
					md = entry.Metadata
				}
			}
			if err != nil {
				return fmt.Errorf("failed to stat %q: %w", args[0], err)
			}

			printPairs(cmd.OutOrStdout(), describe(md))
			return nil
		},
	}

	cmd.Flags().StringVar(&keys, "keys", "", `Comma separated metadata keys to fetch, or "all"`)
	cmd.Flags().BoolVar(&head, "head", false, "Read the metadata from a HEAD request instead of the stat endpoint")

	return cmd
}
