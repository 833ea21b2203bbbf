package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jgoulah/smarthome/pkg/models"
)

const eventColumns = `id, device_id, event_type, severity, timestamp`

func scanEvent(row rowScanner) (*models.SecurityEvent, error) {
	var e models.SecurityEvent
	var ts string
	if err := row.Scan(&e.ID, &e.DeviceID, &e.EventType, &e.Severity, &ts); err != nil {
		return nil, err
	}

	var err error
	e.Timestamp, err = parseTime(ts)
	if err != nil {
		return nil, fmt.Errorf("parsing timestamp: %w", err)
	}
	return &e, nil
}

// CreateEvent inserts a security event; a zero timestamp means now
func (db *DB) CreateEvent(e *models.SecurityEvent) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC().Truncate(time.Second)
	}

	res, err := db.conn.Exec(`
	INSERT INTO security_events (device_id, event_type, severity, timestamp) VALUES (?, ?, ?, ?)
	`, e.DeviceID, e.EventType, e.Severity, formatTime(e.Timestamp))
	if err != nil {
		return fmt.Errorf("inserting security event: %w", translateError(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading event id: %w", err)
	}
	e.ID = int(id)
	return nil
}

// GetEvent retrieves a security event by id
func (db *DB) GetEvent(id int) (*models.SecurityEvent, error) {
	row := db.conn.QueryRow(`SELECT `+eventColumns+` FROM security_events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying security event: %w", err)
	}
	return e, nil
}

// ListEvents retrieves a page of security events ordered by id
func (db *DB) ListEvents(skip, limit int) ([]models.SecurityEvent, error) {
	skip, limit = page(skip, limit)
	rows, err := db.conn.Query(`SELECT `+eventColumns+` FROM security_events ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("querying security events: %w", err)
	}
	defer rows.Close()

	results := []models.SecurityEvent{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, *e)
	}
	return results, rows.Err()
}

// UpdateEvent replaces every field of a security event
func (db *DB) UpdateEvent(id int, e *models.SecurityEvent) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC().Truncate(time.Second)
	}

	res, err := db.conn.Exec(`
	UPDATE security_events SET device_id = ?, event_type = ?, severity = ?, timestamp = ? WHERE id = ?
	`, e.DeviceID, e.EventType, e.Severity, formatTime(e.Timestamp), id)
	if err != nil {
		return fmt.Errorf("updating security event: %w", translateError(err))
	}
	if err := checkAffected(res); err != nil {
		return err
	}
	e.ID = id
	return nil
}

// DeleteEvent removes a security event
func (db *DB) DeleteEvent(id int) error {
	res, err := db.conn.Exec(`DELETE FROM security_events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting security event: %w", err)
	}
	return checkAffected(res)
}
