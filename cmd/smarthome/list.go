package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jgoulah/smarthome/internal/database"
)

var (
	listDevice int
	listUser   int
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored usage records",
	Long:  `Displays stored device usage records from the database, oldest first.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listDevice, "device", 0, "Filter by device id")
	listCmd.Flags().IntVar(&listUser, "user", 0, "Filter by user id")
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum number of records to show")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	data, err := db.ListUsage(database.UsageFilter{DeviceID: listDevice, UserID: listUser, Limit: listLimit})
	if err != nil {
		return fmt.Errorf("listing usage data: %w", err)
	}

	if len(data) == 0 {
		fmt.Println("No usage data found")
		return nil
	}

	total, err := db.CountUsage()
	if err != nil {
		return fmt.Errorf("counting usage data: %w", err)
	}

	fmt.Println("\nDevice Usage Data:")
	fmt.Println("--------------------------------------------------------------------------")
	fmt.Printf("%6s  %6s  %-19s  %-8s  %10s  %10s  %s\n", "Device", "User", "Start", "End", "Duration", "kWh", "Pub")
	fmt.Println("--------------------------------------------------------------------------")

	var kwh float64
	for _, record := range data {
		published := ""
		if record.Published {
			published = "✓"
		}
		fmt.Printf("%6d  %6d  %-19s  %-8s  %10s  %10.4f  %s\n",
			record.DeviceID, record.UserID,
			record.StartTime.Local().Format("2006-01-02 15:04:05"), record.EndTime.Local().Format("15:04:05"),
			record.Duration(), record.KWh(), published)
		kwh += record.KWh()
	}

	fmt.Println("--------------------------------------------------------------------------")
	fmt.Printf("Total: %.4f kWh (%d records shown, %s stored)\n", kwh, len(data), humanize.Comma(int64(total)))
	return nil
}
