package main

import (
	"fmt"
	"os"

	"crossexam/cmd/cli/scenario"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func init() {
	// The .env file carries OPENAI_API_KEY during development.
	_ = godotenv.Load()
	rootCmd.AddGroup(scenario.Group)
	rootCmd.AddCommand(scenario.Generate)
}

var rootCmd = &cobra.Command{
	Use:  "crossexam-cli",
	Long: `Command line utilities for the crossexam interview trainer`,
	Run: func(cmd *cobra.Command, args []string) {
		// Do Stuff Here
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
