package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/smarthome/internal/synth"
)

var (
	previewPower float64
	previewSeed  int64
)

var previewCmd = &cobra.Command{
	Use:   "preview <pattern> <YYYY-MM-DD>",
	Short: "Show the usage intervals a pattern produces for one day",
	Long: `Runs the usage synthesizer for a single device-day without touching the database.
Patterns: 24x7, evening_night, morning_evening, seasonal, day_night, occasional.`,
	Args: cobra.ExactArgs(2),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().Float64Var(&previewPower, "power", 100, "device power draw in watts")
	previewCmd.Flags().Int64Var(&previewSeed, "seed", 42, "random seed")
	rootCmd.AddCommand(previewCmd)
}

// parsePreviewArgs checks the pattern, date and power of a preview
func parsePreviewArgs(args []string, power float64) (synth.Pattern, time.Time, error) {
	pattern, err := synth.ParsePattern(args[0])
	if err != nil {
		return 0, time.Time{}, err
	}
	day, err := time.ParseInLocation("2006-01-02", args[1], time.Local)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("parsing date: %w", err)
	}
	if power <= 0 {
		return 0, time.Time{}, errors.New("--power must be positive")
	}
	return pattern, day, nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	pattern, day, err := parsePreviewArgs(args, previewPower)
	if err != nil {
		return err
	}

	intervals := synth.Generate(pattern, day, previewPower, synth.NewSource(previewSeed))
	if len(intervals) == 0 {
		fmt.Printf("No usage for %s on %s\n", pattern, day.Format("2006-01-02"))
		return nil
	}

	fmt.Printf("\n%s at %.1f W on %s:\n", pattern, previewPower, day.Format("2006-01-02"))
	fmt.Println("----------------------------------------------")
	fmt.Printf("%-10s  %-10s  %10s  %8s\n", "Start", "End", "Duration", "kWh")
	fmt.Println("----------------------------------------------")

	var total float64
	for _, iv := range intervals {
		fmt.Printf("%-10s  %-10s  %10s  %8.4f\n",
			iv.Start.Format("15:04:05"), iv.End.Format("15:04:05"),
			iv.Duration().Round(time.Second), iv.EnergyKWh)
		total += iv.EnergyKWh
	}

	fmt.Println("----------------------------------------------")
	fmt.Printf("Total: %.4f kWh (%d intervals)\n", total, len(intervals))
	return nil
}
