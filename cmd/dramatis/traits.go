package dramatis

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
)

var traitsCmd = &cobra.Command{
	Use:   "traits [file]",
	Short: "Extract a trait profile for one character",
	Long: `Build a detailed trait profile (personality, motivations, key actions,
character arc) for a single character from a text file (or stdin).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTraits,
}

func init() {
	rootCmd.AddCommand(traitsCmd)
	traitsCmd.Flags().String("character", "", "character name to profile (required)")
	traitsCmd.Flags().Bool("pretty", false, "indent JSON output")
	traitsCmd.MarkFlagRequired("character")
}

func runTraits(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("character")
	if name == "" {
		return errors.New("--character is required")
	}

	text, err := readInput(args)
	if err != nil {
		return err
	}

	_, _, analyzer, err := loadStack()
	if err != nil {
		return err
	}
	defer analyzer.Close()

	profile, err := analyzer.ExtractTraits(context.Background(), text, name)
	if err != nil {
		return err
	}

	return writeJSON(cmd, os.Stdout, profile)
}
