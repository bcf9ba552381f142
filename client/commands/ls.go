package commands

import (
	"fmt"
	"path"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hedisam/entrymeta/lib/metadata"
)

func newListCmd(logger *logrus.Logger, opts *Options) *cobra.Command {
	var keys string

	cmd := &cobra.Command{
		Use:     "ls [PREFIX]",
		Aliases: []string{"list"},
		Short:   "List the direct children of a directory",
		Long: `List the direct children of a directory. Size, entity tag and modification time come
with every listing; other keys given with --keys are fetched per entry.

Examples:
  # List the root
  entrymeta ls

  # Include content types
  entrymeta ls docs --keys content_type`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keySet, err := parseKeysFlag(keys)
			if err != nil {
				return fmt.Errorf("invalid --keys: %w", err)
			}

			var prefix string
			if len(args) > 0 {
				prefix = args[0]
			}

			client, err := newClient(logger, opts)
			if err != nil {
				return err
			}

			entries, err := client.List(cmd.Context(), prefix, keySet)
			if err != nil {
				return fmt.Errorf("failed to list %q: %w", prefix, err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No entries found.")
				return nil
			}

			columns := []metadata.Key{metadata.KeyContentLength, metadata.KeyLastModified, metadata.KeyETag}
			for k := range keySet.Keys() {
				switch k {
				case metadata.KeyComplete, metadata.KeyMode, metadata.KeyContentLength, metadata.KeyLastModified, metadata.KeyETag:
				default:
					columns = append(columns, k)
				}
			}

			headers := []string{"NAME", "MODE"}
			for _, k := range columns {
				headers = append(headers, k.String())
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				name := path.Base(entry.Path)
				if entry.Metadata.IsDir() {
					name += "/"
				}
				row := []string{name, entry.Metadata.Mode().String()}
				for _, k := range columns {
					if entry.Metadata.IsDir() {
						row = append(row, "-")
						continue
					}
					row = append(row, cell(entry.Metadata, k))
				}
				rows = append(rows, row)
			}

			printTable(cmd.OutOrStdout(), headers, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&keys, "keys", "", `Comma separated metadata keys to fetch in addition to the listing ones, or "all"`)

	return cmd
}
