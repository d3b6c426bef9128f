package commands

import (
	"github.com/arthur-debert/testpilot/internal/version"
	"github.com/arthur-debert/testpilot/pkg/logging"
	"github.com/arthur-debert/testpilot/pkg/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command. Running testpilot
// without a subcommand starts the bridge.
func NewRootCmd() *cobra.Command {
	var (
		verbosity int
		dir       string
		noWatch   bool
	)

	rootCmd := &cobra.Command{
		Use:     "testpilot",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.Run(cmd.Context(), server.Options{
				Dir:     dir,
				NoWatch: noWatch,
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&dir, "dir", "", MsgFlagDir)

	// Run-mode flags
	rootCmd.Flags().BoolVar(&noWatch, "no-watch", false, MsgFlagNoWatch)

	rootCmd.AddCommand(newSetupCmd(&dir))
	rootCmd.AddCommand(newListCmd(&dir))
	rootCmd.AddCommand(newDocsCmd())

	return rootCmd
}
