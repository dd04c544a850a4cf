package main

import (
	"context"
	"fmt"

	"github.com/mikedutoitzs/floogleads/internal/campaign"
	"github.com/mikedutoitzs/floogleads/internal/models"
	"github.com/spf13/cobra"
)

var keywordType string

var keywordCmd = &cobra.Command{
	Use:   "keyword",
	Short: "Edit the keyword list",
}

var keywordAddCmd = &cobra.Command{
	Use:   "add [term]",
	Short: "Add a keyword at the top of the list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kt, ok := models.ParseKeywordType(keywordType)
		if !ok {
			return fmt.Errorf("%w: %q", campaign.ErrInvalidKeywordType, keywordType)
		}
		return withSession(cmd, false, func(ctx context.Context, s *session) (models.CampaignState, error) {
			return s.AddKeyword(ctx, args[0], kt)
		})
	},
}

var keywordToggleCmd = &cobra.Command{
	Use:   "toggle [term]",
	Short: "Select or deselect a keyword",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, false, func(ctx context.Context, s *session) (models.CampaignState, error) {
			return s.ToggleKeyword(ctx, args[0])
		})
	},
}

var keywordRemoveCmd = &cobra.Command{
	Use:   "remove [term]",
	Short: "Remove a keyword",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, false, func(ctx context.Context, s *session) (models.CampaignState, error) {
			return s.RemoveKeyword(ctx, args[0])
		})
	},
}

func init() {
	keywordAddCmd.Flags().StringVarP(&keywordType, "type", "t", string(models.KeywordGeneric), "keyword type: Brand, Generic or Competitor")
	keywordCmd.AddCommand(keywordAddCmd, keywordToggleCmd, keywordRemoveCmd)
	rootCmd.AddCommand(keywordCmd)
}
