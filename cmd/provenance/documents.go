package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var documentsCmd = &cobra.Command{
	Use:   "documents <name>",
	Short: "List the ingested versions of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProvenance(newLogger())
		if err != nil {
			return err
		}
		defer p.Close()

		docs, err := p.ListDocuments(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Printf("No versions of %s\n", args[0])
			return nil
		}

		for _, doc := range docs {
			count, err := p.Chunks.CountChunks(cmd.Context(), &doc.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%s  %s  %d chunks  %s\n", doc.VersionHash, doc.CreatedAt.Format("2006-01-02 15:04:05"), count, doc.FilePath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(documentsCmd)
}
