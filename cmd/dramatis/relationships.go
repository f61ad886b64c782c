package dramatis

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/storygraph/dramatis/pkg/types"
)

var relationshipsCmd = &cobra.Command{
	Use:   "relationships [file]",
	Short: "Analyze character relationships in narrative text",
	Long: `Analyze pairwise relationships between characters in a text file (or
stdin). The cast is extracted first unless --characters names it explicitly;
each relationship carries a type, a 1-10 strength score, and key scenes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRelationships,
}

func init() {
	rootCmd.AddCommand(relationshipsCmd)
	relationshipsCmd.Flags().StringSlice("characters", nil, "known character names (skips the extraction pass)")
	relationshipsCmd.Flags().Bool("pretty", false, "indent JSON output")
}

func runRelationships(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}

	_, log, analyzer, err := loadStack()
	if err != nil {
		return err
	}
	defer analyzer.Close()

	ctx := context.Background()

	var characters []types.Character
	names, _ := cmd.Flags().GetStringSlice("characters")
	if len(names) > 0 {
		for _, name := range names {
			characters = append(characters, types.Character{Name: name, Role: types.RoleUnknown})
		}
	} else {
		extraction, err := analyzer.ExtractCharacters(ctx, text)
		if err != nil {
			return err
		}
		log.Info("extracted cast for relationship analysis", "characters", len(extraction.Characters))
		characters = extraction.Characters
	}

	result, err := analyzer.AnalyzeRelationships(ctx, text, characters)
	if err != nil {
		return err
	}

	return writeJSON(cmd, os.Stdout, result)
}
