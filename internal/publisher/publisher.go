// Package publisher ships stored usage records to a message broker.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jgoulah/smarthome/pkg/models"
)

// Sink publishes usage records to an external system
type Sink interface {
	Publish(ctx context.Context, u models.DeviceUsage) error
	Close() error
}

// Payload is the JSON body of every published usage record
type Payload struct {
	ID              int      `json:"id"`
	DeviceID        int      `json:"device_id"`
	UserID          int      `json:"user_id"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	DurationSeconds float64  `json:"duration_seconds"`
	EnergyKWh       *float64 `json:"energy_kwh"`
}

// Encode builds the JSON payload of a usage record
func Encode(u models.DeviceUsage) ([]byte, error) {
	body, err := json.Marshal(Payload{
		ID:              u.ID,
		DeviceID:        u.DeviceID,
		UserID:          u.UserID,
		StartTime:       u.StartTime.Format(time.RFC3339),
		EndTime:         u.EndTime.Format(time.RFC3339),
		DurationSeconds: u.Duration().Seconds(),
		EnergyKWh:       u.EnergyConsumption,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	return body, nil
}

// Key returns the message key that keeps a device's records in order
func Key(u models.DeviceUsage) []byte {
	return []byte(strconv.Itoa(u.DeviceID))
}
