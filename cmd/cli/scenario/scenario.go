package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"crossexam/internal/ai"
	"crossexam/internal/interview"
	"crossexam/internal/models"

	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "scenario",
	Title: "Scenario operations",
}

func init() {
	Generate.Flags().String("model", "gpt-4o-mini", "model used for generation")
}

var Generate = &cobra.Command{
	Use:     "gen [difficulty]",
	GroupID: "scenario",
	Short:   "Generate scenario",
	Long:    `Generates an interview scenario at the given difficulty tier and prints it as JSON. Useful for eyeballing scenario quality without clicking through the web UI.`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		model, err := cmd.Flags().GetString("model")
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "invalid model flag: %v\n", err)
			return
		}
		oracle := ai.NewClient(os.Getenv("OPENAI_API_KEY"), os.Getenv("CROSSEXAM_AI_BASE_URL"), model)

		scenario, err := interview.GenerateScenario(context.Background(), oracle, models.Difficulty(args[0]))
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Scenario generation error: %v\n", err)
			return
		}

		out, err := json.MarshalIndent(scenario, "", "  ")
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "JSON encode error: %v\n", err)
			return
		}
		fmt.Println(string(out))
	},
}
