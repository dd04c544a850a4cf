package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikedutoitzs/floogleads/internal/campaign"
	"github.com/mikedutoitzs/floogleads/internal/config"
	"github.com/mikedutoitzs/floogleads/internal/generator"
	"github.com/mikedutoitzs/floogleads/internal/logging"
	"github.com/mikedutoitzs/floogleads/internal/models"
	"github.com/mikedutoitzs/floogleads/internal/sitefetch"
	"github.com/mikedutoitzs/floogleads/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOutput bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "adcraft",
	Short: "AdCraft - search campaign builder",
	Long: `adcraft drives the campaign wizard from the command line.

The wizard state is persisted after every command, so a campaign can be built
across several invocations:

  adcraft input https://example.com "London, UK"
  adcraft analyze
  adcraft groups generate
  adcraft export -o campaign_export.csv`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		} else if level == "info" {
			level = "warn"
		}
		logger, err = logging.New(level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print the resulting state as JSON")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// session is an opened service plus the resources to release after it.
type session struct {
	*campaign.Service
	closers []func()
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openSession opens the state store and, when withAI is set, the Gemini
// client. Commands that never call the model run without an API key.
func openSession(ctx context.Context, withAI bool) (*session, error) {
	st, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	s := &session{closers: []func(){func() { st.Close() }}}

	var gen campaign.Generator
	if withAI {
		client, err := generator.NewGeminiClient(ctx, generator.Config{
			APIKey:     cfg.Gemini.APIKey,
			TextModel:  cfg.Gemini.TextModel,
			ImageModel: cfg.Gemini.ImageModel,
		}, logger)
		if err != nil {
			s.Close()
			return nil, err
		}
		if cfg.SiteFetch.Enabled {
			client.WithPageFetcher(sitefetch.NewChromeFetcher(cfg.SiteFetch.Timeout, logger))
		}
		s.closers = append(s.closers, client.Close)
		gen = client
	}

	svc, err := campaign.NewService(ctx, st, gen, logger)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Service = svc
	return s, nil
}

// withSession runs fn against an opened session and prints the state it
// returns.
func withSession(cmd *cobra.Command, withAI bool, fn func(ctx context.Context, s *session) (models.CampaignState, error)) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, withAI)
	if err != nil {
		return err
	}
	defer s.Close()

	st, err := fn(ctx, s)
	if err != nil {
		return err
	}
	return printState(cmd.OutOrStdout(), st)
}

func printState(w io.Writer, st models.CampaignState) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}
	writeSummary(w, st)
	return nil
}
