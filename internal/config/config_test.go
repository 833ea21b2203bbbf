package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/smarthome/internal/synth"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.GetUsers())
	lo, hi := cfg.GetDevicesPerUser()
	assert.Equal(t, 3, lo)
	assert.Equal(t, 5, hi)
	assert.Equal(t, 90, cfg.GetDays())
	assert.Equal(t, 100, cfg.GetBatchSize())
	assert.Equal(t, ":8000", cfg.GetServerAddr())
	assert.Len(t, cfg.GetCategories(), 8)
	assert.Equal(t, "smarthome", cfg.MQTT.GetTopicPrefix())
	assert.Equal(t, "smarthome.usage", cfg.Kafka.GetTopic())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
generation:
  users: 2
  days: 7
  seed: 42
  end_date: "2024-03-01"
categories:
  - type: lamp
    names: [Desk Lamp]
    locations: [study]
    power_min: 5
    power_max: 10
    pattern: evening_night
security_events:
  - type: lamp_fault
    severity: low
    devices: [lamp]
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2, cfg.GetUsers())
	assert.Equal(t, 7, cfg.GetDays())
	assert.Equal(t, int64(42), cfg.GetSeed(time.Now()))
	require.Len(t, cfg.GetCategories(), 1)
	assert.Equal(t, synth.EveningNight, cfg.GetCategories()[0].Pattern)

	end, err := cfg.GetEndDate(time.Now())
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", end.Format("2006-01-02"))
}

func TestLoadUnknownPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories:
  - type: lamp
    names: [Desk Lamp]
    locations: [study]
    power_min: 5
    power_max: 10
    pattern: whenever
`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	seed := int64(7)
	cfg := &Config{
		Generation: GenerationConfig{Users: 3, Seed: &seed},
		Categories: DefaultCategories[:2],
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Generation, loaded.Generation)
	assert.Equal(t, cfg.Categories, loaded.Categories)
}

func TestGetEndDateDefaultsToToday(t *testing.T) {
	cfg := &Config{}
	now := time.Date(2024, 5, 17, 13, 45, 0, 0, time.UTC)

	end, err := cfg.GetEndDate(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), end)

	cfg.Generation.EndDate = "17/05/2024"
	_, err = cfg.GetEndDate(now)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestValidate(t *testing.T) {
	lamp := Category{
		Type:      "lamp",
		Names:     []string{"Desk Lamp"},
		Locations: []string{"study"},
		PowerMin:  5,
		PowerMax:  10,
		Pattern:   synth.EveningNight,
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "inverted device range", mutate: func(c *Config) {
			c.Generation.DevicesMin, c.Generation.DevicesMax = 6, 2
		}},
		{name: "missing pattern", mutate: func(c *Config) {
			c.Categories[0].Pattern = 0
		}},
		{name: "inverted power range", mutate: func(c *Config) {
			c.Categories[0].PowerMin, c.Categories[0].PowerMax = 10, 5
		}},
		{name: "no names", mutate: func(c *Config) {
			c.Categories[0].Names = nil
		}},
		{name: "duplicate category", mutate: func(c *Config) {
			c.Categories = append(c.Categories, c.Categories[0])
		}},
		{name: "unknown event category", mutate: func(c *Config) {
			c.SecurityEvents = []SecurityEventType{{Type: "x", Severity: "low", Devices: []string{"toaster"}}}
		}},
		{name: "feedback without ratings", mutate: func(c *Config) {
			c.Feedback = []FeedbackType{{Type: "x", Contents: []string{"ok"}}}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{
				Categories:     []Category{lamp},
				SecurityEvents: []SecurityEventType{{Type: "lamp_fault", Severity: "low", Devices: []string{"lamp"}}},
			}
			require.NoError(t, cfg.Validate())

			tc.mutate(cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
		})
	}
}
