package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/smarthome/internal/config"
	"github.com/jgoulah/smarthome/internal/synth"
)

func TestApplyGenerateFlags(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantSeed  int64
		wantDays  int
		wantUsers int
	}{
		{"config kept without flags", nil, 42, 90, 10},
		{"explicit zero seed", []string{"--seed", "0"}, 0, 90, 10},
		{"seed days and users", []string{"--seed", "7", "--days", "14", "--users", "3"}, 7, 14, 3},
		{"zero days ignored", []string{"--days", "0"}, 42, 90, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "generate"}
			addGenerateFlags(cmd)
			require.NoError(t, cmd.Flags().Parse(tt.args))

			seed := int64(42)
			cfg := &config.Config{Generation: config.GenerationConfig{Seed: &seed, Days: 90, Users: 10}}
			applyGenerateFlags(cmd, cfg)

			require.NotNil(t, cfg.Generation.Seed)
			assert.Equal(t, tt.wantSeed, *cfg.Generation.Seed)
			assert.Equal(t, tt.wantDays, cfg.Generation.Days)
			assert.Equal(t, tt.wantUsers, cfg.Generation.Users)
		})
	}
}

func TestApplyGenerateFlagsLeavesUnsetSeed(t *testing.T) {
	cmd := &cobra.Command{Use: "generate"}
	addGenerateFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(nil))

	cfg := &config.Config{}
	applyGenerateFlags(cmd, cfg)
	assert.Nil(t, cfg.Generation.Seed)
}

func TestParsePreviewArgs(t *testing.T) {
	pattern, day, err := parsePreviewArgs([]string{"evening_night", "2024-07-01"}, 60)
	require.NoError(t, err)
	assert.Equal(t, synth.EveningNight, pattern)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.Local), day)

	tests := []struct {
		name    string
		args    []string
		power   float64
		wantErr string
	}{
		{"unknown pattern", []string{"always", "2024-07-01"}, 60, "unknown usage pattern"},
		{"bad date", []string{"24x7", "07/01/2024"}, 60, "parsing date"},
		{"zero power", []string{"24x7", "2024-07-01"}, 0, "--power must be positive"},
		{"negative power", []string{"24x7", "2024-07-01"}, -10, "--power must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parsePreviewArgs(tt.args, tt.power)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestPreviewCommand(t *testing.T) {
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		previewPower = 100
	})

	rootCmd.SetArgs([]string{"preview", "24x7"})
	assert.Error(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"preview", "24x7", "2024-07-01", "--power=-1"})
	assert.ErrorContains(t, rootCmd.Execute(), "--power must be positive")

	rootCmd.SetArgs([]string{"preview", "occasional", "2024-01-01", "--power", "15", "--seed", "42"})
	assert.NoError(t, rootCmd.Execute())
}
