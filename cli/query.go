package cli

import (
	"fmt"
	"time"

	"github.com/brainus-ai/brainus-go/engine/brainus"
	"github.com/brainus-ai/brainus-go/engine/dispatch"
	"github.com/spf13/cobra"
)

// QueryCmd asks a single question, with optional store fallback.
func QueryCmd() *cobra.Command {
	var (
		storeID  string
		timeout  time.Duration
		fallback []string
	)

	cmd := &cobra.Command{
		Use:   "query [question]",
		Short: "Ask a single question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setupRuntime(cmd)
			if err != nil {
				return err
			}
			client, err := brainus.NewClient(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx := cmd.Context()
			dispatcher := dispatch.NewDispatcher(client)
			q := brainus.Query{Text: args[0], StoreID: storeID}

			var result *brainus.QueryResult
			switch {
			case len(fallback) > 0:
				result, err = dispatcher.QueryWithFallback(ctx, q, fallback)
			case timeout > 0:
				result, err = dispatcher.QueryWithTimeout(ctx, q, timeout)
			default:
				result, err = dispatcher.QueryWithRetry(ctx, q, dispatch.PolicyFromConfig(cfg.Retry))
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.Answer)
			if result.HasCitations {
				fmt.Fprintln(out, "\nSources:")
				for _, c := range result.Citations {
					fmt.Fprintf(out, "  - %s\n", c.Source)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&storeID, "store", brainus.DefaultStoreID, "knowledge store to query")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-query timeout (disables retries)")
	cmd.Flags().StringSliceVar(&fallback, "fallback", nil, "ordered store IDs to try until one succeeds")

	return cmd
}
