package main

import (
	"fmt"

	"github.com/siherrmann/provenance/database"
	"github.com/spf13/cobra"
)

var (
	flagIndexType      string
	flagM              int
	flagEfConstruction int
	flagLists          int
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the vector index of the chunks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProvenance(newLogger())
		if err != nil {
			return err
		}
		defer p.Close()

		params := database.IndexParams{
			M:              flagM,
			EfConstruction: flagEfConstruction,
			Lists:          flagLists,
		}
		if err := p.ChangeIndexType(cmd.Context(), database.IndexType(flagIndexType), params); err != nil {
			return err
		}

		fmt.Printf("Rebuilt chunk index as %s\n", flagIndexType)
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVar(&flagIndexType, "type", string(database.IndexTypeHNSW), "index type (hnsw or ivfflat)")
	indexCmd.Flags().IntVar(&flagM, "m", 0, "hnsw: max connections per layer (default 16)")
	indexCmd.Flags().IntVar(&flagEfConstruction, "ef-construction", 0, "hnsw: candidate list size while building (default 64)")
	indexCmd.Flags().IntVar(&flagLists, "lists", 0, "ivfflat: number of lists (default 100)")
	rootCmd.AddCommand(indexCmd)
}
