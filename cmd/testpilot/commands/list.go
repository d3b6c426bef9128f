package commands

import (
	"fmt"
	"os"

	"github.com/arthur-debert/testpilot/pkg/config"
	"github.com/arthur-debert/testpilot/pkg/ui"
	"github.com/spf13/cobra"
)

func newListCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgListShort,
		Long:  MsgListLong,
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

			cfg, path, err := config.Load(target)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration: %s\n\n", path)
			return ui.RenderRuleTable(cmd.OutOrStdout(), cfg)
		},
	}
}
