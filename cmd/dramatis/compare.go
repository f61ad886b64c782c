package dramatis

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/storygraph/dramatis"
)

var compareCmd = &cobra.Command{
	Use:   "compare [file]",
	Short: "Compare LLM extraction against a baseline character list",
	Long: `Extract characters from a text file (or stdin) and compare the result
against a baseline list, typically from a traditional NER tool. Reports
precision, recall, F1, and the names unique to each side.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringSlice("baseline", nil, "baseline character names (required)")
	compareCmd.Flags().Bool("pretty", false, "indent JSON output")
	compareCmd.MarkFlagRequired("baseline")
}

func runCompare(cmd *cobra.Command, args []string) error {
	baseline, _ := cmd.Flags().GetStringSlice("baseline")

	text, err := readInput(args)
	if err != nil {
		return err
	}

	_, _, analyzer, err := loadStack()
	if err != nil {
		return err
	}
	defer analyzer.Close()

	extraction, err := analyzer.ExtractCharacters(context.Background(), text)
	if err != nil {
		return err
	}

	result := dramatis.Compare(baseline, extraction.Names())
	return writeJSON(cmd, os.Stdout, result)
}
