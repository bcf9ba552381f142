// Package commands implements the entrymeta CLI.
package commands

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	restapi "github.com/hedisam/entrymeta/client/api/rest"
	"github.com/hedisam/entrymeta/lib/metadata"
)

// Options holds the global flags.
type Options struct {
	ServerAddr  string
	AccessKeyID string
	SecretKey   string
	Verbose     bool
}

// NewRootCmd builds the command tree. Every command talks to the server at --server-addr.
func NewRootCmd(logger *logrus.Logger) *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "entrymeta",
		Short: "entrymeta - inspect and transfer entries of an entrymeta server",
		Long: `entrymeta talks to an entrymeta server. It stats and lists entries asking only for
the metadata keys it needs, and uploads, downloads and deletes files.

Use "entrymeta [command] --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.Verbose {
				logger.SetLevel(logrus.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.ServerAddr, "server-addr", "http://localhost:8080", "Server address to connect to")
	rootCmd.PersistentFlags().StringVar(&opts.AccessKeyID, "aki", "", "Access key ID as printed by the server (required for uploads)")
	rootCmd.PersistentFlags().StringVar(&opts.SecretKey, "secret", "", "Secret key as printed by the server (required for uploads)")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(newStatCmd(logger, opts))
	rootCmd.AddCommand(newListCmd(logger, opts))
	rootCmd.AddCommand(newPutCmd(logger, opts))
	rootCmd.AddCommand(newGetCmd(logger, opts))
	rootCmd.AddCommand(newRemoveCmd(logger, opts))

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	return rootCmd
}

func newClient(logger *logrus.Logger, opts *Options) (*restapi.Client, error) {
	return restapi.NewClient(logger, opts.ServerAddr)
}

func (o *Options) requireCredentials() error {
	if o.AccessKeyID == "" || o.SecretKey == "" {
		return errors.New("--aki and --secret are required")
	}
	return nil
}

func parseKeysFlag(keys string) (metadata.KeySet, error) {
	if keys == "all" {
		return metadata.KeyComplete.Set(), nil
	}
	return metadata.ParseKeys(keys)
}
