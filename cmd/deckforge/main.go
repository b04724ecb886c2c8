// Command deckforge turns raw text into paginated documents and exports
// them as PDF or PPTX.
//
//	deckforge generate notes.md -o doc.json
//	deckforge export doc.json --format pptx --profile 16:9
//	deckforge serve
//	deckforge mcp
//
// Settings come from deckforge.yaml (or --config), .env files and
// DECKFORGE_* environment variables.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lvillar/deckforge/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfgFile string
	debug   bool

	rootCmd = &cobra.Command{
		Use:           "deckforge",
		Short:         "Generate documents from text and export them as PDF or PPTX",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.Path(""),
		"config file (YAML); defaults and environment variables apply without one")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "deckforge %s\n", version)
		},
	})
	rootCmd.AddCommand(
		generateCommand(),
		exportCommand(),
		serveCommand(),
		mcpCommand(),
		templatesCommand(),
		profilesCommand(),
	)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "deckforge: %v\n", err)
		os.Exit(1)
	}
}
