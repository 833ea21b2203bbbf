package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/smarthome/internal/config"
	"github.com/jgoulah/smarthome/internal/publisher"
	"github.com/jgoulah/smarthome/pkg/models"
)

var (
	publishSink  string
	publishLimit int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish usage records to MQTT or Kafka",
	Long:  `Reads unpublished usage records from the database, sends each to the chosen sink and marks it as published.`,
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishSink, "sink", "mqtt", "Sink to publish to (mqtt or kafka)")
	publishCmd.Flags().IntVar(&publishLimit, "limit", 0, "Limit number of records to publish (0 = no limit)")
	rootCmd.AddCommand(publishCmd)
}

func newSink(cfg *config.Config, name string) (publisher.Sink, error) {
	switch name {
	case "mqtt":
		return publisher.NewMQTT(cfg.MQTT)
	case "kafka":
		return publisher.NewKafka(cfg.Kafka)
	}
	return nil, fmt.Errorf("unknown sink %q (use mqtt or kafka)", name)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	sink, err := newSink(cfg, publishSink)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer sink.Close()

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := publisher.Drain(ctx, db, sink, publishLimit, func(i, total int, u models.DeviceUsage, err error) {
		fmt.Printf("[%d/%d] Publishing usage %d (device %d, %.4f kWh)... ", i, total, u.ID, u.DeviceID, u.KWh())
		if err != nil {
			fmt.Printf("FAILED: %v\n", err)
			return
		}
		fmt.Printf("✓\n")
	})
	if err != nil {
		return err
	}

	if res.Pending == 0 {
		fmt.Println("No unpublished data found")
		return nil
	}
	fmt.Printf("\nSuccessfully published %d/%d records to %s\n", res.Published, res.Pending, publishSink)
	return nil
}
