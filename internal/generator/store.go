package generator

import (
	"context"

	"github.com/jgoulah/smarthome/internal/database"
	"github.com/jgoulah/smarthome/pkg/models"
)

// Batch collects usage rows in a single transaction
type Batch interface {
	Add(u *models.DeviceUsage) error
	Len() int
	Commit() error
	Rollback() error
}

// Store is the persistence collaborator of the driver.
// While a Batch is open no other Store method is called.
type Store interface {
	CreateUser(u *models.User) error
	CreateDevice(d *models.Device) error
	BeginUsageBatch(ctx context.Context) (Batch, error)
	CreateEvent(e *models.SecurityEvent) error
	CreateFeedback(f *models.Feedback) error
	CreateRun(r *models.GenerationRun) error
	FinishRun(r *models.GenerationRun) error
}

// dbStore adapts *database.DB to Store
type dbStore struct {
	*database.DB
}

// FromDB returns a Store backed by db
func FromDB(db *database.DB) Store {
	return dbStore{db}
}

func (s dbStore) BeginUsageBatch(ctx context.Context) (Batch, error) {
	b, err := s.DB.BeginUsageBatch(ctx)
	if err != nil {
		return nil, err
	}
	return b, nil
}
