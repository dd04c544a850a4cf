package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mikedutoitzs/floogleads/internal/campaign"
	"github.com/mikedutoitzs/floogleads/internal/models"
	"github.com/spf13/cobra"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Generate and edit ad groups",
}

var groupsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Structure the selected keywords into ad groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, true, func(ctx context.Context, s *session) (models.CampaignState, error) {
			return s.GenerateAdGroups(ctx)
		})
	},
}

var groupsRenameCmd = &cobra.Command{
	Use:   "rename [id] [name]",
	Short: "Rename an ad group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, false, func(ctx context.Context, s *session) (models.CampaignState, error) {
			return s.RenameAdGroup(ctx, args[0], args[1])
		})
	},
}

var groupsRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove an ad group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, false, func(ctx context.Context, s *session) (models.CampaignState, error) {
			return s.RemoveAdGroup(ctx, args[0])
		})
	},
}

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "Edit ad copy and extensions",
}

var assetSetCmd = &cobra.Command{
	Use:   "set [group-id] [kind] [position] [value]",
	Short: "Set one asset of an ad group",
	Long: `Set one asset of an ad group. kind is one of headlines, descriptions,
callouts, sitelinks or structuredSnippets; position starts at 1.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("%w: position %q is not a number", campaign.ErrInvalidAsset, args[2])
		}
		kind := campaign.AssetKind(args[1])
		return withSession(cmd, false, func(ctx context.Context, s *session) (models.CampaignState, error) {
			return s.UpdateAsset(ctx, args[0], kind, pos-1, args[3])
		})
	},
}

var imageCmd = &cobra.Command{
	Use:   "image [group-id]",
	Short: "Generate an ad image for an ad group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, true, func(ctx context.Context, s *session) (models.CampaignState, error) {
			st, generated, err := s.GenerateImage(ctx, args[0])
			if err == nil && !generated {
				fmt.Fprintln(cmd.ErrOrStderr(), "The model returned no image.")
			}
			return st, err
		})
	},
}

func init() {
	groupsCmd.AddCommand(groupsGenerateCmd, groupsRenameCmd, groupsRemoveCmd)
	assetCmd.AddCommand(assetSetCmd)
	rootCmd.AddCommand(groupsCmd, assetCmd, imageCmd)
}
