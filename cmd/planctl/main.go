package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	startDateFlag   string
	outputFile      string
	weekFlag        int
	weeksToRaceFlag int
)

var rootCmd = &cobra.Command{
	Use:   "planctl",
	Short: "Offline tooling for runplan schedule documents",
	Long:  "planctl validates, normalizes, and inspects stored training-plan documents (JSON or YAML) without going through the API.",
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a plan document's shape and schedule invariants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validatePlanFile(args[0])
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file>",
	Short: "Migrate a legacy plan document to the canonical format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return normalizePlanFile(args[0])
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress <file>",
	Short: "Compute the phase-progress summary for a plan document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return progressForPlanFile(args[0])
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(progressCmd)

	normalizeCmd.Flags().StringVarP(&startDateFlag, "start-date", "s", "", "Start date override (YYYY-MM-DD)")
	normalizeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the normalized document to this file (JSON)")

	progressCmd.Flags().IntVarP(&weekFlag, "week", "w", 0, "Current plan week (required)")
	progressCmd.Flags().IntVar(&weeksToRaceFlag, "weeks-to-race", -1, "Weeks until race week (omit if unknown)")
	progressCmd.MarkFlagRequired("week")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func fail(format string, a ...interface{}) error {
	return fmt.Errorf(format, a...)
}
