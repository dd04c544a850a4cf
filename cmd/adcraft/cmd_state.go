package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mikedutoitzs/floogleads/internal/campaign"
	"github.com/mikedutoitzs/floogleads/internal/models"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current campaign state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, false, func(ctx context.Context, s *session) (models.CampaignState, error) {
			return s.State(), nil
		})
	},
}

var inputCmd = &cobra.Command{
	Use:   "input [url] [location]",
	Short: "Set the website URL and target location",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, false, func(ctx context.Context, s *session) (models.CampaignState, error) {
			return s.SetInput(ctx, args[0], args[1])
		})
	},
}

var stepCmd = &cobra.Command{
	Use:   "step [1-5]",
	Short: "Jump to a wizard step",
	Long: `Jump to a wizard step:
  1 Setup, 2 Keywords, 3 Ad Groups, 4 Assets, 5 Export`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		step, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: %s", campaign.ErrInvalidStep, args[0])
		}
		return withSession(cmd, false, func(ctx context.Context, s *session) (models.CampaignState, error) {
			return s.SetStep(ctx, step)
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the campaign and start over",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, false, func(ctx context.Context, s *session) (models.CampaignState, error) {
			return s.Reset(ctx)
		})
	},
}

var limitsCmd = &cobra.Command{
	Use:   "limits",
	Short: "List assets over their character limit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer s.Close()

		violations := s.LimitViolations()
		out := cmd.OutOrStdout()
		if len(violations) == 0 {
			fmt.Fprintln(out, "All assets are within their limits.")
			return nil
		}
		for _, v := range violations {
			fmt.Fprintf(out, "%s [%s] %s #%d: %d/%d %q\n", v.AdGroup, v.AdGroupID, v.Kind, v.Index+1, v.Length, v.Limit, v.Value)
		}
		return nil
	},
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the campaign as CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer s.Close()

		if exportOut == "" || exportOut == "-" {
			return s.Export(cmd.OutOrStdout(), time.Now())
		}

		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOut, err)
		}
		if err := s.Export(f, time.Now()); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "CSV exported to %s\n", exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "write the CSV to this file instead of stdout")
	rootCmd.AddCommand(showCmd, inputCmd, stepCmd, resetCmd, limitsCmd, exportCmd)
}

func writeSummary(w io.Writer, st models.CampaignState) {
	fmt.Fprintf(w, "Step %d/%d: %s\n", st.Step, models.StepExport, models.StepNames[st.Step-1])
	if st.URL != "" || st.Location != "" {
		fmt.Fprintf(w, "URL: %s\nLocation: %s\n", st.URL, st.Location)
	}
	if info := st.ExtractedInfo; info != nil {
		fmt.Fprintf(w, "Business: %s (%s %s)\n", info.Title, info.Currency, info.CurrencySymbol)
	}
	if st.IsProcessing {
		fmt.Fprintf(w, "Processing: %s\n", st.ProcessStatus)
	}

	if len(st.Keywords) > 0 {
		selected := len(st.SelectedKeywords())
		fmt.Fprintf(w, "\nKeywords (%d selected of %d):\n", selected, len(st.Keywords))
		symbol := ""
		if st.ExtractedInfo != nil {
			symbol = st.ExtractedInfo.CurrencySymbol
		}
		for _, k := range st.Keywords {
			mark := " "
			if k.Selected {
				mark = "x"
			}
			fmt.Fprintf(w, "  [%s] %-40s %-10s vol %-7d comp %3d%% rel %3d%% cpc %s%.2f\n",
				mark, k.Term, k.Type, k.Volume, k.Competition, k.Relevance, symbol, k.CPC)
		}
	}

	if len(st.AdGroups) > 0 {
		fmt.Fprintf(w, "\nAd groups (%d):\n", len(st.AdGroups))
		for _, g := range st.AdGroups {
			image := ""
			if g.GeneratedImage != "" {
				image = ", image"
			}
			fmt.Fprintf(w, "  %s  %s\n", g.ID, g.Name)
			fmt.Fprintf(w, "    keywords: %s\n", strings.Join(g.Keywords, ", "))
			fmt.Fprintf(w, "    %d headlines, %d descriptions%s\n", len(g.Headlines), len(g.Descriptions), image)
		}
	}
}
