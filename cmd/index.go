package cmd

import (
	"context"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"docrag/src/core/rag"
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the retrieval index for the document directory",
	Long: `The index command chunks and embeds every document in the configured
directory and writes the resulting index to the cache directory. By default an
up to date cached index is reused; pass --force to rebuild from scratch.`,
	Run: RunIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolP("force", "f", false, "Rebuild even when a cached index matches")
}

func RunIndex(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	force, _ := cmd.Flags().GetBool("force")

	var bar *progressbar.ProgressBar
	progress := rag.WithBuildProgress(func(done, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "embedding chunks")
		}
		bar.Set(done)
	})

	orchestrator, err := newOrchestrator(ctx, progress)
	if err != nil {
		fmt.Printf("Failed to initialize pipeline: %v\n", err)
		return
	}

	if force {
		err = orchestrator.Rebuild(ctx)
	} else {
		err = orchestrator.Initialize(ctx)
	}
	if err != nil {
		fmt.Printf("Indexing failed: %v\n", err)
		return
	}

	status := orchestrator.Status()
	fmt.Printf("Indexed %d documents into %d chunks\n", status.Documents, status.Chunks)
}
