package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jgoulah/smarthome/internal/analytics"
)

var analyzeUser int

var analyzeCmd = &cobra.Command{
	Use:   "analyze <report>",
	Short: "Print an analytics report as JSON",
	Long:  "Runs one analytics report over the stored data.\nReports: " + strings.Join(analytics.Reports(), ", "),
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeUser, "user", 0, "Restrict the report to one user id")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	data, err := analytics.New(db).Run(args[0], analyzeUser)
	if err != nil {
		return fmt.Errorf("running %s: %w", args[0], err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
