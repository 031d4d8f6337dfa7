package cli

import (
	"github.com/brainus-ai/brainus-go/engine/brainus"
	"github.com/brainus-ai/brainus-go/engine/cache"
	"github.com/brainus-ai/brainus-go/engine/dispatch"
	"github.com/brainus-ai/brainus-go/engine/infra/server"
	"github.com/spf13/cobra"
)

// ServeCmd runs the HTTP proxy in front of the BrainUs API.
func ServeCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the BrainUs proxy server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setupRuntime(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			client, err := brainus.NewClient(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			var answerCache *cache.AnswerCache
			if cfg.Cache.Enabled {
				answerCache = cache.New(cfg.Cache.Size, cfg.Cache.TTL)
			}

			srv := server.New(cfg, dispatch.NewDispatcher(client), answerCache)
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "bind address")
	cmd.Flags().IntVar(&port, "port", 8000, "listen port")

	return cmd
}
