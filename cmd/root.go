package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docrag",
	Short: "Ask questions answered from a local document collection",
	Long: `docrag indexes a local document collection and answers natural-language
questions about it using a locally hosted Ollama model. Documents are
chunked, embedded and cached on disk; queries retrieve the most similar
chunks and condition the language model's answer on them.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	settingDefaultConfig()
}
