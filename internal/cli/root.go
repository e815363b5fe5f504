package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mirelys/trilens/internal/archive"
	"github.com/mirelys/trilens/internal/config"
	"github.com/mirelys/trilens/internal/fallback"
	"github.com/mirelys/trilens/internal/store"
)

var (
	cfg     *config.Config
	logger  *zap.Logger
	rootCmd = &cobra.Command{
		Use:   "trilens",
		Short: "Trilens: three-lens event classification over a narrative ledger",
		Long: `Trilens interprets short text events (commit messages, issue bodies,
prompts) through three fixed lenses, accumulates the results into a
narrative ledger of beats, and scores the ledger against heuristic
quality rubrics.

Classify an event:
  trilens classify --text "fix: resolve login crash"

Score the current story:
  trilens analyze --session work`,
	}
)

// Execute runs the root command.
func Execute() error {
	defer func() {
		if logger != nil {
			logger.Sync()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(episodeCmd)
	rootCmd.AddCommand(decomposeCmd)
	rootCmd.AddCommand(archiveCmd)
}

func initConfig() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger, err = zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
}

// connectStore prefers Redis and degrades explicitly to the in-memory store
// when the backend is unreachable.
func connectStore(ctx context.Context) store.Store {
	st, err := store.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory store", zap.Error(err))
		return store.NewMemoryStore()
	}
	return st
}

func connectDB(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := archive.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w\nSet TRILENS_DATABASE_URL environment variable", err)
	}
	return pool, nil
}

// fallbackClassifier returns the optional language-model fallback, or nil
// when no API key is configured. Selection is explicit, never probed.
func fallbackClassifier() fallback.Classifier {
	if cfg.OpenAIAPIKey == "" {
		return nil
	}
	return fallback.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel)
}
