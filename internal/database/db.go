package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a row with the requested id does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique column (user email) already holds the value
	ErrDuplicate = errors.New("duplicate")
	// ErrReference is returned when a row refers to a user or device that does not exist
	ErrReference = errors.New("invalid reference")
)

// Timestamps are stored as UTC TEXT with optional fractional seconds
const (
	timeLayout = "2006-01-02 15:04:05.999999999"
	dateLayout = "2006-01-02"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps pragmas and open batches consistent
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT,
		house_area REAL,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS devices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		location TEXT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE
	);
	CREATE TABLE IF NOT EXISTS device_usage (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		device_id INTEGER NOT NULL REFERENCES devices(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		energy_consumption REAL,
		published INTEGER DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS security_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		device_id INTEGER NOT NULL REFERENCES devices(id) ON DELETE CASCADE,
		event_type TEXT NOT NULL,
		severity TEXT NOT NULL,
		timestamp TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS user_feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		device_id INTEGER NOT NULL REFERENCES devices(id) ON DELETE CASCADE,
		feedback_type TEXT NOT NULL,
		content TEXT,
		rating INTEGER,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS generation_runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		seed INTEGER NOT NULL,
		status TEXT NOT NULL,
		users INTEGER DEFAULT 0,
		devices INTEGER DEFAULT 0,
		usage_records INTEGER DEFAULT 0,
		security_events INTEGER DEFAULT 0,
		feedback INTEGER DEFAULT 0,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_devices_user ON devices(user_id);
	CREATE INDEX IF NOT EXISTS idx_usage_device ON device_usage(device_id);
	CREATE INDEX IF NOT EXISTS idx_usage_user ON device_usage(user_id);
	CREATE INDEX IF NOT EXISTS idx_usage_start_time ON device_usage(start_time);
	CREATE INDEX IF NOT EXISTS idx_usage_published ON device_usage(published);
	CREATE INDEX IF NOT EXISTS idx_events_device ON security_events(device_id);
	CREATE INDEX IF NOT EXISTS idx_feedback_device ON user_feedback(device_id);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// translateError maps SQLite constraint failures to package sentinels
func translateError(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return fmt.Errorf("%w: %v", ErrReference, err)
	}

	// without extended result codes only the primary code is set
	if se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		msg := se.Error()
		switch {
		case strings.Contains(msg, "UNIQUE"):
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		case strings.Contains(msg, "FOREIGN KEY"):
			return fmt.Errorf("%w: %v", ErrReference, err)
		}
	}
	return err
}

// checkAffected turns a zero-row UPDATE or DELETE into ErrNotFound
func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// page normalizes skip/limit the way the list endpoints expect
func page(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 100
	}
	return skip, limit
}

// formatTime stores the UTC instant; sortable as text and readable by strftime
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func floatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int64)
	return &i
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}
