package cli

import (
	"github.com/brainus-ai/brainus-go/pkg/config"
	"github.com/brainus-ai/brainus-go/pkg/logger"
	"github.com/spf13/cobra"
)

// RootCmd builds the brainus command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "brainus",
		Short:         "Query the BrainUs AI question-answering API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "emit logs as JSON")
	root.PersistentFlags().Bool("log-source", false, "include source locations in logs")

	root.AddCommand(
		QueryCmd(),
		BatchCmd(),
		ServeCmd(),
		VersionCmd(),
	)

	return root
}

// setupRuntime initializes logging from the persistent flags and loads the
// application configuration.
func setupRuntime(cmd *cobra.Command) (*config.Config, error) {
	logLevel, logJSON, logSource, err := logger.GetLoggerConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger.SetupLogger(logLevel, logJSON, logSource)

	return config.NewService().Load(cmd.Context())
}
