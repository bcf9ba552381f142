package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hedisam/entrymeta/client/filesystem"
	"github.com/hedisam/entrymeta/client/upload"
	"github.com/hedisam/entrymeta/lib/metadata"
)

func newPutCmd(logger *logrus.Logger, opts *Options) *cobra.Command {
	var (
		recursive bool
		workers   uint
		headers   upload.ContentHeaders
	)

	cmd := &cobra.Command{
		Use:   "put LOCAL [KEY]",
		Short: "Upload a file or a directory tree",
		Long: `Upload a file, or with -r every non-hidden regular file under a directory. KEY defaults to
the file name for a single file and to the root for a directory.

Examples:
  # Upload a single file under a key
  entrymeta put ./report.pdf docs/report.pdf --content-disposition attachment

  # Mirror a directory under "backup/"
  entrymeta put -r ./site backup --workers 8`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := opts.requireCredentials()
			if err != nil {
				return err
			}

			client, err := newClient(logger, opts)
			if err != nil {
				return err
			}

			uploader := upload.New(logger, client, client.UploadURL(), upload.Credentials{
				AccessKeyID: opts.AccessKeyID,
				SecretKey:   opts.SecretKey,
			}, upload.WithContentHeaders(headers), upload.WithWorkers(workers))

			local := args[0]
			var key string
			if len(args) > 1 {
				key = strings.Trim(args[1], "/")
			}

			st, err := os.Stat(local)
			if err != nil {
				return fmt.Errorf("stat %q: %w", local, err)
			}

			printResult := func(res *upload.Result) {
				etag := cell(res.Metadata, metadata.KeyETag)
				fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s (%d bytes, etag %s)\n", res.Key, res.Size, etag)
			}

			if !st.IsDir() {
				if key == "" {
					key = filepath.Base(local)
				}
				res, err := uploader.Upload(cmd.Context(), &filesystem.File{Path: local, Key: key})
				if err != nil {
					return err
				}
				printResult(res)
				return nil
			}

			if !recursive {
				return fmt.Errorf("%q is a directory, use -r to upload it", local)
			}

			batch := &upload.Batch{}
			err = filesystem.Walk(cmd.Context(), logger, local, key, batch)
			if err != nil {
				return fmt.Errorf("walk %q: %w", local, err)
			}
			return uploader.UploadAll(cmd.Context(), batch.Files(), printResult)
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Upload a directory tree")
	cmd.Flags().UintVar(&workers, "workers", uint(runtime.NumCPU()), "Number of concurrent uploads")
	cmd.Flags().StringVar(&headers.ContentType, "content-type", "", "Content type, guessed from the file extension when empty")
	cmd.Flags().StringVar(&headers.CacheControl, "cache-control", "", "Cache-Control to store with the objects")
	cmd.Flags().StringVar(&headers.ContentDisposition, "content-disposition", "", "Content-Disposition to store with the objects")

	return cmd
}
