package dramatis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract characters from narrative text",
	Long: `Extract the cast of characters from a text file (or stdin when the
argument is omitted or "-"). Output is JSON: one record per character with
name, aliases, role, confidence, and first mention.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().Bool("pretty", false, "indent JSON output")
}

func runExtract(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}

	_, _, analyzer, err := loadStack()
	if err != nil {
		return err
	}
	defer analyzer.Close()

	result, err := analyzer.ExtractCharacters(context.Background(), text)
	if err != nil {
		return err
	}

	return writeJSON(cmd, os.Stdout, result)
}

// writeJSON encodes v to w, indented when --pretty is set.
func writeJSON(cmd *cobra.Command, w *os.File, v any) error {
	enc := json.NewEncoder(w)
	if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
