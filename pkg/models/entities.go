package models

import "time"

// User is a smart-home account holder
type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	HouseArea *float64  `json:"house_area"` // square meters
	CreatedAt time.Time `json:"created_at"`
}

// UserUpdate carries a partial user update; nil fields are left unchanged
type UserUpdate struct {
	Name      *string  `json:"name"`
	Email     *string  `json:"email"`
	Phone     *string  `json:"phone"`
	HouseArea *float64 `json:"house_area"`
}

// Device is a single appliance owned by a user
type Device struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Location *string `json:"location"`
	UserID   int     `json:"user_id"`
}

// DeviceUpdate carries a partial device update; nil fields are left unchanged
type DeviceUpdate struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	Location *string `json:"location"`
	UserID   *int    `json:"user_id"`
}

// SecurityEvent is an alarm raised by a device
type SecurityEvent struct {
	ID        int       `json:"id"`
	DeviceID  int       `json:"device_id"`
	EventType string    `json:"event_type"`
	Severity  string    `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

// Feedback is a user's rating of one of their devices
type Feedback struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	DeviceID     int       `json:"device_id"`
	FeedbackType string    `json:"feedback_type"`
	Content      *string   `json:"content"`
	Rating       *int      `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
}

// Run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// GenerationRun records one invocation of the test-data generator
type GenerationRun struct {
	ID             string     `json:"id"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	Seed           int64      `json:"seed"`
	Status         string     `json:"status"`
	Users          int        `json:"users"`
	Devices        int        `json:"devices"`
	UsageRecords   int        `json:"usage_records"`
	SecurityEvents int        `json:"security_events"`
	Feedback       int        `json:"feedback"`
	Error          string     `json:"error,omitempty"`
}
