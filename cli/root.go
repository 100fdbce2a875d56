package cli

import (
	"github.com/spf13/cobra"

	"github.com/weftworks/weft/pkg/logger"
)

// RootCmd builds the weft command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "weft",
		Short:         "Weft runs artifact-grouping workflow pipelines",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "emit logs as JSON")
	root.AddCommand(runCmd())
	root.AddCommand(validateCmd())
	return root
}

func loggerFromFlags(cmd *cobra.Command) (logger.Logger, error) {
	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}
	jsonOut, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		return nil, err
	}
	return logger.NewLogger(&logger.Config{
		Level: logger.LogLevel(level),
		JSON:  jsonOut,
	}), nil
}
