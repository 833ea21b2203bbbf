package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jgoulah/smarthome/pkg/models"
)

const deviceColumns = `id, name, type, location, user_id`

func scanDevice(row rowScanner) (*models.Device, error) {
	var d models.Device
	var location sql.NullString
	if err := row.Scan(&d.ID, &d.Name, &d.Type, &location, &d.UserID); err != nil {
		return nil, err
	}
	d.Location = stringPtr(location)
	return &d, nil
}

// CreateDevice inserts a device and fills in its id
func (db *DB) CreateDevice(d *models.Device) error {
	res, err := db.conn.Exec(`
	INSERT INTO devices (name, type, location, user_id) VALUES (?, ?, ?, ?)
	`, d.Name, d.Type, nullString(d.Location), d.UserID)
	if err != nil {
		return fmt.Errorf("inserting device: %w", translateError(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading device id: %w", err)
	}
	d.ID = int(id)
	return nil
}

// GetDevice retrieves a device by id
func (db *DB) GetDevice(id int) (*models.Device, error) {
	row := db.conn.QueryRow(`SELECT `+deviceColumns+` FROM devices WHERE id = ?`, id)
	d, err := scanDevice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying device: %w", err)
	}
	return d, nil
}

// ListDevices retrieves a page of devices, optionally only those of one user (userID > 0)
func (db *DB) ListDevices(skip, limit, userID int) ([]models.Device, error) {
	skip, limit = page(skip, limit)

	query := `SELECT ` + deviceColumns + ` FROM devices`
	args := []any{}
	if userID > 0 {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, limit, skip)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	results := []models.Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, *d)
	}
	return results, rows.Err()
}

// UpdateDevice applies the non-nil fields of upd and returns the updated device
func (db *DB) UpdateDevice(id int, upd models.DeviceUpdate) (*models.Device, error) {
	d, err := db.GetDevice(id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		d.Name = *upd.Name
	}
	if upd.Type != nil {
		d.Type = *upd.Type
	}
	if upd.Location != nil {
		d.Location = upd.Location
	}
	if upd.UserID != nil {
		d.UserID = *upd.UserID
	}

	_, err = db.conn.Exec(`
	UPDATE devices SET name = ?, type = ?, location = ?, user_id = ? WHERE id = ?
	`, d.Name, d.Type, nullString(d.Location), d.UserID, id)
	if err != nil {
		return nil, fmt.Errorf("updating device: %w", translateError(err))
	}
	return d, nil
}

// DeleteDevice removes a device together with its records
func (db *DB) DeleteDevice(id int) error {
	res, err := db.conn.Exec(`DELETE FROM devices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting device: %w", err)
	}
	return checkAffected(res)
}
