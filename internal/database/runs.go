package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jgoulah/smarthome/pkg/models"
)

// CreateRun records the start of a generation run
func (db *DB) CreateRun(r *models.GenerationRun) error {
	_, err := db.conn.Exec(`
	INSERT INTO generation_runs (id, started_at, seed, status) VALUES (?, ?, ?, ?)
	`, r.ID, formatTime(r.StartedAt), r.Seed, r.Status)
	if err != nil {
		return fmt.Errorf("inserting generation run: %w", translateError(err))
	}
	return nil
}

// FinishRun stores the final status and counts of a generation run
func (db *DB) FinishRun(r *models.GenerationRun) error {
	var finished sql.NullString
	if r.FinishedAt != nil {
		finished = sql.NullString{String: formatTime(*r.FinishedAt), Valid: true}
	}

	res, err := db.conn.Exec(`
	UPDATE generation_runs
	SET finished_at = ?, status = ?, users = ?, devices = ?, usage_records = ?,
	    security_events = ?, feedback = ?, error = ?
	WHERE id = ?
	`, finished, r.Status, r.Users, r.Devices, r.UsageRecords, r.SecurityEvents, r.Feedback, r.Error, r.ID)
	if err != nil {
		return fmt.Errorf("updating generation run: %w", err)
	}
	return checkAffected(res)
}

// GetRun retrieves a generation run by id
func (db *DB) GetRun(id string) (*models.GenerationRun, error) {
	var r models.GenerationRun
	var started string
	var finished, errMsg sql.NullString

	err := db.conn.QueryRow(`
	SELECT id, started_at, finished_at, seed, status, users, devices, usage_records,
	       security_events, feedback, error
	FROM generation_runs WHERE id = ?
	`, id).Scan(&r.ID, &started, &finished, &r.Seed, &r.Status, &r.Users, &r.Devices,
		&r.UsageRecords, &r.SecurityEvents, &r.Feedback, &errMsg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying generation run: %w", err)
	}

	r.StartedAt, err = parseTime(started)
	if err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if finished.Valid {
		t, err := parseTime(finished.String)
		if err != nil {
			return nil, fmt.Errorf("parsing finished_at: %w", err)
		}
		r.FinishedAt = &t
	}
	r.Error = errMsg.String
	return &r, nil
}
