package cli

import (
	"fmt"

	"github.com/brainus-ai/brainus-go/engine/batch"
	"github.com/brainus-ai/brainus-go/engine/brainus"
	"github.com/brainus-ai/brainus-go/engine/dispatch"
	"github.com/spf13/cobra"
)

// BatchCmd processes a CSV of queries through the API.
func BatchCmd() *cobra.Command {
	var (
		inputFile   string
		outputFile  string
		queryColumn string
		storeID     string
		batchSize   int
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Process a CSV file of queries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setupRuntime(cmd)
			if err != nil {
				return err
			}
			if queryColumn == "" {
				queryColumn = cfg.Batch.QueryColumn
			}
			if batchSize > 0 {
				cfg.Batch.Size = batchSize
			}
			if concurrency > 0 {
				cfg.Batch.Concurrency = concurrency
			}

			file, err := batch.ReadFile(inputFile, queryColumn)
			if err != nil {
				return err
			}

			client, err := brainus.NewClient(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			processor := batch.NewProcessor(dispatch.NewDispatcher(client), cfg.Batch)
			results, stats, err := processor.Process(cmd.Context(), file.Queries(), storeID)
			if err != nil {
				return err
			}
			if err := file.WriteResults(outputFile, results); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total:     %d\n", stats.Total)
			fmt.Fprintf(out, "Succeeded: %d\n", stats.Succeeded)
			fmt.Fprintf(out, "Failed:    %d\n", stats.Failed)
			fmt.Fprintf(out, "Duration:  %s\n", stats.Duration)
			fmt.Fprintf(out, "Results saved to %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputFile, "input", "", "input CSV file with queries")
	cmd.Flags().StringVar(&outputFile, "output", "results.csv", "output CSV file for results")
	cmd.Flags().StringVar(&queryColumn, "column", "", "name of the query column (default from config)")
	cmd.Flags().StringVar(&storeID, "store", brainus.DefaultStoreID, "knowledge store to query")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "queries per batch (default from config)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "concurrent queries per batch (default from config)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
