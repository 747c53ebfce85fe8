package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"docrag/src/corpus"
	"docrag/src/fsutil"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that Ollama, the configured models and the document directory are usable",
	Run:   RunVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func RunVerify(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	ok := true

	client := newOllamaClient()
	models, err := client.Models(ctx)
	if err != nil {
		fmt.Printf("FAIL ollama unreachable at %s: %v\n", viper.GetString("ollama.url"), err)
		fmt.Println("\nStart it with: ollama serve")
		return
	}
	fmt.Printf("OK   ollama reachable, %d models installed\n", len(models))

	installed := make(map[string]bool, len(models))
	for _, m := range models {
		installed[m.Name] = true
		// "phi3:mini" and "phi3:mini:latest" name the same model
		installed[strings.TrimSuffix(m.Name, ":latest")] = true
	}

	for _, want := range []string{viper.GetString("models.llm"), viper.GetString("models.embedding")} {
		if installed[want] {
			fmt.Printf("OK   model %s installed\n", want)
		} else {
			fmt.Printf("FAIL model %s missing, run: ollama pull %s\n", want, want)
			ok = false
		}
	}

	docsDir := viper.GetString("rag.docs_dir")
	source, err := corpus.NewLocalSource(docsDir, fsutil.NewLocalFileStore())
	if err != nil {
		fmt.Printf("FAIL document directory %s: %v\n", docsDir, err)
		ok = false
	} else if docs, err := source.List(ctx); err != nil {
		fmt.Printf("FAIL document directory %s: %v\n", docsDir, err)
		ok = false
	} else {
		fmt.Printf("OK   document directory %s holds %d readable documents\n", docsDir, len(docs))
	}

	if ok {
		fmt.Println("\nAll checks passed")
	} else {
		fmt.Println("\nSome checks failed")
	}
}
