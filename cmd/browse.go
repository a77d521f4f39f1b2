package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/Lingikaushikreddy/nova-matches/internal/logger"
	"github.com/Lingikaushikreddy/nova-matches/internal/match"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the job catalog without a resume",
	Run: func(cmd *cobra.Command, _ []string) {
		browse(cmd)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)

	// These flags are read directly instead of being bound: run already
	// binds matches.sort, and a second binding would shadow the first.
	browseCmd.Flags().IntP("limit", "l", 20, "how many jobs to list")
	browseCmd.Flags().StringP("query", "q", "", "show only jobs whose title, company or skills contain this text")
	browseCmd.Flags().StringP("sort", "s", "", "sort order: best-match, highest-salary or most-recent")
}

func browse(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	client, err := newAPIClient(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the NOVA client", zap.Error(err))
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		logger.Fatal("reading the limit flag", zap.Error(err))
	}

	records, err := newEnricher(config, client, logger).EnrichJobs(ctx, limit)
	if err != nil {
		logger.Fatal("listing jobs", zap.Error(err))
	}

	filters, err := buildFilters(config.Filters)
	if err != nil {
		logger.Fatal("reading filters from config", zap.Error(err))
	}

	query, err := cmd.Flags().GetString("query")
	if err != nil {
		logger.Fatal("reading the query flag", zap.Error(err))
	}
	filters.Query = query

	mode, err := browseSortMode(cmd, config)
	if err != nil {
		logger.Fatal("reading the sort flag", zap.Error(err))
	}

	shown := records.Filter(filters).Sorted(mode)
	if shown.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs found"))
		return
	}

	printRecords(shown)
	fmt.Printf("Showing %d of %d jobs (%d filters active)\n", shown.Len(), records.Len(), filters.ActiveCount())
}

// browseSortMode resolves the order for the catalog listing: the flag
// wins, then the configured default.
func browseSortMode(cmd *cobra.Command, config *Config) (match.SortMode, error) {
	raw, err := cmd.Flags().GetString("sort")
	if err != nil {
		return "", err
	}
	if raw == "" && config.Matches != nil {
		raw = config.Matches.Sort
	}

	return match.ParseSortMode(raw)
}
