package models

import "time"

// DeviceUsage represents a single usage interval of a device
type DeviceUsage struct {
	ID                int       `json:"id"`
	DeviceID          int       `json:"device_id"`
	UserID            int       `json:"user_id"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	EnergyConsumption *float64  `json:"energy_consumption"` // kWh
	Published         bool      `json:"published"`
}

// Duration returns how long the device was in use
func (u DeviceUsage) Duration() time.Duration {
	return u.EndTime.Sub(u.StartTime)
}

// KWh returns the energy consumption, or 0 if unknown
func (u DeviceUsage) KWh() float64 {
	if u.EnergyConsumption == nil {
		return 0
	}
	return *u.EnergyConsumption
}
