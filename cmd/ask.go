package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question from the command line",
	Long: `The ask command indexes the configured document directory, answers one
question and exits. A cached index is reused when the corpus is unchanged.`,
	Args: cobra.MinimumNArgs(1),
	Run:  RunAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().IntP("k", "k", 0, "Number of chunks to retrieve (0 uses the configured default)")
}

func RunAsk(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	query := strings.Join(args, " ")
	k, _ := cmd.Flags().GetInt("k")

	orchestrator, err := newOrchestrator(ctx)
	if err != nil {
		fmt.Printf("Failed to initialize pipeline: %v\n", err)
		return
	}

	if err := orchestrator.Initialize(ctx); err != nil {
		fmt.Printf("Indexing failed: %v\n", err)
		return
	}

	answer, err := orchestrator.Answer(ctx, query, k)
	if err != nil {
		fmt.Printf("Failed to answer: %v\n", err)
		return
	}

	fmt.Println(answer.Text)
	if len(answer.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, chunk := range answer.Sources {
			fmt.Printf("  %s (chunk %d)\n", chunk.Document, chunk.Seq)
		}
	}
}
