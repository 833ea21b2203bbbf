package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jgoulah/smarthome/internal/synth"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config holds the application configuration
type Config struct {
	Generation     GenerationConfig    `yaml:"generation"`
	Names          []string            `yaml:"names,omitempty"`           // user name pool
	Categories     []Category          `yaml:"categories,omitempty"`      // device category table
	SecurityEvents []SecurityEventType `yaml:"security_events,omitempty"` // security event catalogue
	Feedback       []FeedbackType      `yaml:"feedback,omitempty"`        // feedback catalogue
	MQTT           MQTTConfig          `yaml:"mqtt,omitempty"`
	Kafka          KafkaConfig         `yaml:"kafka,omitempty"`
	Server         ServerConfig        `yaml:"server,omitempty"`
}

// GenerationConfig controls the synthetic data generator
type GenerationConfig struct {
	Users      int    `yaml:"users,omitempty"`       // fallback: 10
	DevicesMin int    `yaml:"devices_min,omitempty"` // fallback: 3
	DevicesMax int    `yaml:"devices_max,omitempty"` // fallback: 5
	Days       int    `yaml:"days,omitempty"`        // fallback: 90
	BatchSize  int    `yaml:"batch_size,omitempty"`  // fallback: 100
	Seed       *int64 `yaml:"seed,omitempty"`        // unset: time-based
	EndDate    string `yaml:"end_date,omitempty"`    // YYYY-MM-DD, unset: today
}

// Category describes one kind of device and how it is used
type Category struct {
	Type      string        `yaml:"type"`
	Names     []string      `yaml:"names"`
	Locations []string      `yaml:"locations"`
	PowerMin  float64       `yaml:"power_min"` // watts
	PowerMax  float64       `yaml:"power_max"` // watts
	Pattern   synth.Pattern `yaml:"pattern"`
}

// SecurityEventType is an alarm that devices of the listed categories can raise
type SecurityEventType struct {
	Type     string   `yaml:"type"`
	Severity string   `yaml:"severity"`
	Devices  []string `yaml:"devices"` // category types
}

// FeedbackType is a kind of user feedback with its allowed ratings and canned contents
type FeedbackType struct {
	Type     string   `yaml:"type"`
	Ratings  []int    `yaml:"ratings"`
	Contents []string `yaml:"contents"`
}

// MQTTConfig holds MQTT broker settings for publishing usage records
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`                 // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // fallback: "smarthome"
}

// KafkaConfig holds Kafka settings for publishing usage records
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic,omitempty"` // fallback: "smarthome.usage"
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"` // fallback: ":8000"
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetUsers returns the number of users to generate with a default of 10
func (c *Config) GetUsers() int {
	if c.Generation.Users <= 0 {
		return 10
	}
	return c.Generation.Users
}

// GetDevicesPerUser returns the inclusive range of devices per user, default 3-5
func (c *Config) GetDevicesPerUser() (int, int) {
	lo, hi := c.Generation.DevicesMin, c.Generation.DevicesMax
	if lo <= 0 {
		lo = 3
	}
	if hi <= 0 {
		hi = 5
	}
	return lo, hi
}

// GetDays returns the length of the historical window with a default of 90 (3 months)
func (c *Config) GetDays() int {
	if c.Generation.Days <= 0 {
		return 90
	}
	return c.Generation.Days
}

// GetBatchSize returns how many usage records are committed per transaction
func (c *Config) GetBatchSize() int {
	if c.Generation.BatchSize <= 0 {
		return 100
	}
	return c.Generation.BatchSize
}

// GetSeed returns the configured seed, or one derived from now
func (c *Config) GetSeed(now time.Time) int64 {
	if c.Generation.Seed != nil {
		return *c.Generation.Seed
	}
	return now.UnixNano()
}

// GetEndDate returns the last (exclusive) day of the generation window at local midnight
func (c *Config) GetEndDate(now time.Time) (time.Time, error) {
	if c.Generation.EndDate == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	}
	t, err := time.ParseInLocation("2006-01-02", c.Generation.EndDate, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: end_date: %v", ErrInvalid, err)
	}
	return t, nil
}

// GetNames returns the user name pool
func (c *Config) GetNames() []string {
	if len(c.Names) == 0 {
		return DefaultNames
	}
	return c.Names
}

// GetCategories returns the device category table
func (c *Config) GetCategories() []Category {
	if len(c.Categories) == 0 {
		return DefaultCategories
	}
	return c.Categories
}

// GetSecurityEvents returns the security event catalogue
func (c *Config) GetSecurityEvents() []SecurityEventType {
	if len(c.SecurityEvents) == 0 {
		return DefaultSecurityEvents
	}
	return c.SecurityEvents
}

// GetFeedbackTypes returns the feedback catalogue
func (c *Config) GetFeedbackTypes() []FeedbackType {
	if len(c.Feedback) == 0 {
		return DefaultFeedback
	}
	return c.Feedback
}

// GetServerAddr returns the HTTP listen address
func (c *Config) GetServerAddr() string {
	if c.Server.Addr == "" {
		return ":8000"
	}
	return c.Server.Addr
}

// GetTopicPrefix returns the MQTT topic prefix
func (m MQTTConfig) GetTopicPrefix() string {
	if m.TopicPrefix == "" {
		return "smarthome"
	}
	return m.TopicPrefix
}

// GetTopic returns the Kafka topic
func (k KafkaConfig) GetTopic() string {
	if k.Topic == "" {
		return "smarthome.usage"
	}
	return k.Topic
}
