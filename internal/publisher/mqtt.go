package publisher

import (
	"context"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jgoulah/smarthome/internal/config"
	"github.com/jgoulah/smarthome/pkg/models"
)

const mqttQoS = 1

// mqttClient is the part of mqtt.Client the sink uses
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

// MQTTSink publishes usage records to an MQTT broker
type MQTTSink struct {
	client      mqttClient
	topicPrefix string
	timeout     time.Duration
}

// NewMQTT connects to the configured broker
func NewMQTT(cfg config.MQTTConfig) (*MQTTSink, error) {
	if !cfg.Enabled {
		return nil, errors.New("MQTT publishing is not enabled in config")
	}
	if cfg.Broker == "" {
		return nil, errors.New("MQTT broker address is required when enabled")
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	opts.SetClientID("smarthome")
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	return newMQTTSink(client, cfg.GetTopicPrefix()), nil
}

func newMQTTSink(client mqttClient, prefix string) *MQTTSink {
	return &MQTTSink{client: client, topicPrefix: prefix, timeout: 10 * time.Second}
}

// Topic returns the topic a usage record is published on
func (s *MQTTSink) Topic(u models.DeviceUsage) string {
	return fmt.Sprintf("%s/%d/%d/usage", s.topicPrefix, u.UserID, u.DeviceID)
}

// Publish sends one usage record and waits for the broker to acknowledge it
func (s *MQTTSink) Publish(ctx context.Context, u models.DeviceUsage) error {
	body, err := Encode(u)
	if err != nil {
		return err
	}

	token := s.client.Publish(s.Topic(u), mqttQoS, false, body)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.timeout):
		return fmt.Errorf("publishing to %s: timed out after %s", s.Topic(u), s.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", s.Topic(u), err)
	}
	return nil
}

// Close disconnects from the MQTT broker
func (s *MQTTSink) Close() error {
	if s.client != nil && s.client.IsConnected() {
		s.client.Disconnect(250)
	}
	return nil
}
