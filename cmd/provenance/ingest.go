package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var flagName string

var ingestCmd = &cobra.Command{
	Use:   "ingest <pdf>",
	Short: "Ingest a PDF document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		p, err := openProvenance(logger)
		if err != nil {
			return err
		}
		defer p.Close()

		if err := p.UseDefaultEmbedder(flagModelDir); err != nil {
			return err
		}

		start := time.Now()
		result, err := p.Ingest(cmd.Context(), args[0], flagName)
		if err != nil {
			return err
		}

		fmt.Printf("Ingested %s in %s\n", result.Document.Name, time.Since(start).Round(time.Millisecond))
		fmt.Printf("  Version:   %s\n", result.Document.VersionHash)
		fmt.Printf("  Pages:     %d\n", result.Pages)
		fmt.Printf("  Fragments: %d\n", result.Fragments)
		fmt.Printf("  Groups:    %d\n", result.Groups)
		fmt.Printf("  Inserted:  %d\n", result.Inserted)
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&flagName, "name", "", "document name (default: file name without extension)")
	rootCmd.AddCommand(ingestCmd)
}
