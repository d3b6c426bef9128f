package commands

import (
	"fmt"
	"os"

	"github.com/arthur-debert/testpilot/pkg/config"
	"github.com/spf13/cobra"
)

func newSetupCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: MsgSetupShort,
		Long:  MsgSetupLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := *dir
			if target == "" {
				var err error
				target, err = os.Getwd()
				if err != nil {
					return err
				}
			}

			path, err := config.Scaffold(target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s - edit it and start testpilot.\n", path)
			return nil
		},
	}
}
