package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRemoveCmd(logger *logrus.Logger, opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "rm KEY...",
		Short: "Delete files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(logger, opts)
			if err != nil {
				return err
			}

			for _, key := range args {
				err = client.Delete(cmd.Context(), key)
				if err != nil {
					return fmt.Errorf("failed to delete %q: %w", key, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", key)
			}
			return nil
		},
	}
}
