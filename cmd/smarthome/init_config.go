package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jgoulah/smarthome/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the built-in catalogues",
	Long:  `Writes a config file containing the default generation settings, device categories, security events and feedback types, ready to edit.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	seed := int64(42)
	cfg := &config.Config{
		Generation: config.GenerationConfig{
			Seed:       &seed,
			Users:      10,
			DevicesMin: 3,
			DevicesMax: 5,
			Days:       90,
			BatchSize:  100,
		},
		Names:          config.DefaultNames,
		Categories:     config.DefaultCategories,
		SecurityEvents: config.DefaultSecurityEvents,
		Feedback:       config.DefaultFeedback,
		MQTT:           config.MQTTConfig{TopicPrefix: "smarthome"},
		Kafka:          config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "smarthome.usage"},
		Server:         config.ServerConfig{Addr: ":8000"},
	}
	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("✓ Wrote %s\n", path)
	return nil
}
