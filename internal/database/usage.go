package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jgoulah/smarthome/pkg/models"
)

const usageColumns = `id, device_id, user_id, start_time, end_time, energy_consumption, published`

func scanUsage(row rowScanner) (*models.DeviceUsage, error) {
	var u models.DeviceUsage
	var startStr, endStr string
	var energy sql.NullFloat64
	var published int

	if err := row.Scan(&u.ID, &u.DeviceID, &u.UserID, &startStr, &endStr, &energy, &published); err != nil {
		return nil, err
	}

	var err error
	u.StartTime, err = parseTime(startStr)
	if err != nil {
		return nil, fmt.Errorf("parsing start_time: %w", err)
	}
	u.EndTime, err = parseTime(endStr)
	if err != nil {
		return nil, fmt.Errorf("parsing end_time: %w", err)
	}
	u.EnergyConsumption = floatPtr(energy)
	u.Published = published != 0
	return &u, nil
}

func queryUsage(q interface {
	Query(query string, args ...any) (*sql.Rows, error)
}, query string, args ...any) ([]models.DeviceUsage, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying usage data: %w", err)
	}
	defer rows.Close()

	results := []models.DeviceUsage{}
	for rows.Next() {
		u, err := scanUsage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, *u)
	}
	return results, rows.Err()
}

// CreateUsage inserts a usage record and fills in its id
func (db *DB) CreateUsage(u *models.DeviceUsage) error {
	res, err := db.conn.Exec(`
	INSERT INTO device_usage (device_id, user_id, start_time, end_time, energy_consumption)
	VALUES (?, ?, ?, ?, ?)
	`, u.DeviceID, u.UserID, formatTime(u.StartTime), formatTime(u.EndTime), nullFloat(u.EnergyConsumption))
	if err != nil {
		return fmt.Errorf("inserting usage data: %w", translateError(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading usage id: %w", err)
	}
	u.ID = int(id)
	return nil
}

// GetUsage retrieves a usage record by id
func (db *DB) GetUsage(id int) (*models.DeviceUsage, error) {
	row := db.conn.QueryRow(`SELECT `+usageColumns+` FROM device_usage WHERE id = ?`, id)
	u, err := scanUsage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying usage data: %w", err)
	}
	return u, nil
}

// UsageFilter narrows ListUsage; zero values mean no filter
type UsageFilter struct {
	DeviceID int
	UserID   int
	Skip     int
	Limit    int
}

// ListUsage retrieves usage records ordered by start time
func (db *DB) ListUsage(f UsageFilter) ([]models.DeviceUsage, error) {
	skip, limit := page(f.Skip, f.Limit)

	query := `SELECT ` + usageColumns + ` FROM device_usage WHERE 1=1`
	args := []any{}
	if f.DeviceID > 0 {
		query += ` AND device_id = ?`
		args = append(args, f.DeviceID)
	}
	if f.UserID > 0 {
		query += ` AND user_id = ?`
		args = append(args, f.UserID)
	}
	query += ` ORDER BY start_time, id LIMIT ? OFFSET ?`
	args = append(args, limit, skip)

	return queryUsage(db.conn, query, args...)
}

// CountUsage returns the number of stored usage records
func (db *DB) CountUsage() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM device_usage`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting usage data: %w", err)
	}
	return n, nil
}

// UpdateUsage replaces every field of a usage record
func (db *DB) UpdateUsage(id int, u *models.DeviceUsage) error {
	res, err := db.conn.Exec(`
	UPDATE device_usage
	SET device_id = ?, user_id = ?, start_time = ?, end_time = ?, energy_consumption = ?
	WHERE id = ?
	`, u.DeviceID, u.UserID, formatTime(u.StartTime), formatTime(u.EndTime), nullFloat(u.EnergyConsumption), id)
	if err != nil {
		return fmt.Errorf("updating usage data: %w", translateError(err))
	}
	if err := checkAffected(res); err != nil {
		return err
	}
	u.ID = id
	return nil
}

// DeleteUsage removes a usage record
func (db *DB) DeleteUsage(id int) error {
	res, err := db.conn.Exec(`DELETE FROM device_usage WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting usage data: %w", err)
	}
	return checkAffected(res)
}

// ListUnpublishedUsage retrieves up to limit unpublished usage records, oldest first
func (db *DB) ListUnpublishedUsage(limit int) ([]models.DeviceUsage, error) {
	if limit <= 0 {
		limit = -1 // no limit
	}
	return queryUsage(db.conn, `
	SELECT `+usageColumns+`
	FROM device_usage
	WHERE published = 0
	ORDER BY start_time, id
	LIMIT ?
	`, limit)
}

// MarkPublished marks a usage record as published
func (db *DB) MarkPublished(id int) error {
	query := `UPDATE device_usage SET published = 1 WHERE id = ?`
	_, err := db.conn.Exec(query, id)
	if err != nil {
		return fmt.Errorf("marking record as published: %w", err)
	}
	return nil
}

// UsageBatch inserts usage records inside a single transaction.
// No other DB call may be made while a batch is open.
type UsageBatch struct {
	tx   *sql.Tx
	stmt *sql.Stmt
	n    int
}

// BeginUsageBatch starts a new usage transaction
func (db *DB) BeginUsageBatch(ctx context.Context) (*UsageBatch, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
	INSERT INTO device_usage (device_id, user_id, start_time, end_time, energy_consumption)
	VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("preparing insert: %w", err)
	}

	return &UsageBatch{tx: tx, stmt: stmt}, nil
}

// Add inserts one record into the open transaction
func (b *UsageBatch) Add(u *models.DeviceUsage) error {
	res, err := b.stmt.Exec(u.DeviceID, u.UserID, formatTime(u.StartTime), formatTime(u.EndTime), nullFloat(u.EnergyConsumption))
	if err != nil {
		return fmt.Errorf("inserting usage data: %w", translateError(err))
	}
	if id, err := res.LastInsertId(); err == nil {
		u.ID = int(id)
	}
	b.n++
	return nil
}

// Len returns the number of records added so far
func (b *UsageBatch) Len() int {
	return b.n
}

// Commit commits the transaction
func (b *UsageBatch) Commit() error {
	b.stmt.Close()
	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("committing usage batch: %w", err)
	}
	return nil
}

// Rollback discards every record added to the batch
func (b *UsageBatch) Rollback() error {
	b.stmt.Close()
	if err := b.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rolling back usage batch: %w", err)
	}
	return nil
}
