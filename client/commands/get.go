package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hedisam/entrymeta/lib/metadata"
)

func newGetCmd(logger *logrus.Logger, opts *Options) *cobra.Command {
	var (
		rangeHeader string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Download a file or a byte range of it",
		Long: `Download a file to stdout or to the file given with --output.

Examples:
  # Whole file
  entrymeta get docs/report.pdf -o report.pdf

  # The last 100 bytes
  entrymeta get logs/app.log --range bytes=-100`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(logger, opts)
			if err != nil {
				return err
			}

			rc, md, err := client.Download(cmd.Context(), args[0], rangeHeader)
			if err != nil {
				return fmt.Errorf("failed to download %q: %w", args[0], err)
			}
			defer rc.Close()

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			written, err := io.Copy(w, rc)
			if err != nil {
				return fmt.Errorf("write content: %w", err)
			}

			logger.WithFields(logrus.Fields{
				"key":           args[0],
				"written":       written,
				"content_range": cell(md, metadata.KeyContentRange),
			}).Debug("Download completed")
			return nil
		},
	}

	cmd.Flags().StringVar(&rangeHeader, "range", "", `Byte range to download, e.g. "bytes=0-99"`)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")

	return cmd
}
