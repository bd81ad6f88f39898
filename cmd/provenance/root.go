package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/siherrmann/provenance"
	"github.com/siherrmann/provenance/core/pipeline"
	"github.com/siherrmann/provenance/helper"
	"github.com/siherrmann/provenance/model"
	"github.com/spf13/cobra"
)

var (
	flagTuning       string
	flagModelDir     string
	flagEmbeddingDim int
	flagVerbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "provenance",
	Short: "Policy clause retrieval with page level provenance",
	Long: `provenance ingests PDF policy documents into PostgreSQL, answers case queries
with cited clauses and renders the cited regions as highlighted page images.

The database is configured with the PROVENANCE_DB_* environment variables
or a .env file in the working directory.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagTuning, "tuning", "", "YAML file overriding the default heuristics")
	rootCmd.PersistentFlags().StringVar(&flagModelDir, "model-dir", helper.DefaultModelDir, "directory the embedding model is stored in")
	rootCmd.PersistentFlags().IntVar(&flagEmbeddingDim, "embedding-dim", pipeline.DefaultEmbeddingDim, "dimension of the embedding column")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log debug output")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return helper.NewLogger(os.Stdout, level)
}

// openProvenance connects to the database configured in the environment.
func openProvenance(logger *slog.Logger) (*provenance.Provenance, error) {
	config, err := helper.NewDatabaseConfiguration()
	if err != nil {
		return nil, fmt.Errorf("database configuration: %w", err)
	}

	tuning, err := model.LoadTuning(flagTuning)
	if err != nil {
		return nil, fmt.Errorf("load tuning: %w", err)
	}

	return provenance.NewProvenance(config, flagEmbeddingDim, tuning, logger)
}
