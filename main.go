package main

import (
	"fmt"
	"os"

	"ragchat/internal/config"
	"ragchat/internal/logging"
	"ragchat/internal/search"
	"ragchat/internal/session"
	"ragchat/internal/ui"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:           "ragchat",
		Short:         "Terminal chat client for a RAG search backend",
		Long:          `ragchat sends each query to a retrieval-augmented search API (Normal-RAG or Self-RAG) and shows the answer next to the resources it was built from.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "search backend origin")
	f.IntVarP(&cfg.TopK, "top-k", "k", cfg.TopK, "initial result count")
	f.StringVar(&cfg.Mode, "mode", cfg.Mode, "initial RAG mode (Normal-RAG or Self-RAG)")
	f.StringVar(&cfg.Category, "query-category", cfg.Category, "initial query category (Auto, Factual or Analytical)")
	f.BoolVar(&cfg.Rerank, "rerank", cfg.Rerank, "enable reranking in Normal-RAG mode")
	f.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-request timeout, 0 disables it")
	f.BoolVar(&cfg.SingleFlight, "single-flight", cfg.SingleFlight, "ignore new queries while one is in flight")
	f.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "where diagnostics are written")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	return cmd
}

func run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.Info().
		Str("base_url", cfg.BaseURL).
		Str("mode", cfg.Mode).
		Bool("single_flight", cfg.SingleFlight).
		Msg("starting")

	sess := session.New(session.Options{
		TopK:         cfg.TopK,
		Mode:         cfg.RAGMode(),
		Category:     cfg.QueryCategory(),
		Rerank:       cfg.Rerank,
		SingleFlight: cfg.SingleFlight,
	})

	p := ui.NewProgram(ui.Options{
		Client:  search.NewClient(cfg.BaseURL, cfg.Timeout),
		BaseURL: cfg.BaseURL,
		Session: sess,
		Log:     logger,
	})
	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("program exited with error")
		return err
	}
	logger.Info().Msg("exiting")
	return nil
}
