package main

import (
	"context"

	"github.com/mikedutoitzs/floogleads/internal/models"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the website and extract keywords",
	Long: `Analyze the saved website for the saved location. The model extracts the
business summary, the local currency and a keyword list with volume,
competition, relevance and cost-per-click estimates.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, true, func(ctx context.Context, s *session) (models.CampaignState, error) {
			return s.Analyze(ctx)
		})
	},
}

var refineCmd = &cobra.Command{
	Use:     "refine [location] [currency]",
	Short:   "Re-analyze for a new location and currency",
	Example: `  adcraft refine "New York, USA" USD`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, true, func(ctx context.Context, s *session) (models.CampaignState, error) {
			return s.Refine(ctx, args[0], args[1])
		})
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd, refineCmd)
}
