package database

import (
	"database/sql"
	"fmt"
)

// DeviceCount is the number of usage records of one device
type DeviceCount struct {
	DeviceID   int
	DeviceName string
	Count      int
}

// DeviceHourCount is the number of usages of a device starting in a given hour of day
type DeviceHourCount struct {
	DeviceID   int
	DeviceName string
	Hour       int
	Count      int
}

// SlotCount is the number of usages of a device name starting within one clock hour
type SlotCount struct {
	Slot       string // "2006-01-02 15:00:00"
	DeviceName string
	Count      int
}

// AreaCount is the usage count of a device name in homes of a given area
type AreaCount struct {
	HouseArea  float64
	DeviceName string
	Count      int
}

// DeviceEventCount pairs a device name with a security event type
type DeviceEventCount struct {
	DeviceName string
	EventType  string
	Count      int
}

// RatingCount is the usage count of a device alongside one feedback rating it received
type RatingCount struct {
	DeviceID   int
	DeviceName string
	Rating     int
	Count      int
}

// DeviceEnergy is the total energy of all devices sharing a name
type DeviceEnergy struct {
	DeviceName string
	TotalKWh   float64
}

// userFilter appends "AND <column> = ?" when userID is set
func userFilter(query, column string, userID int, args []any) (string, []any) {
	if userID > 0 {
		query += ` AND ` + column + ` = ?`
		args = append(args, userID)
	}
	return query, args
}

func (db *DB) collect(query string, args []any, scan func(*sql.Rows) error) error {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return fmt.Errorf("querying analytics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
	}
	return rows.Err()
}

// UsageFrequency counts usage records per device, most used first
func (db *DB) UsageFrequency(userID int) ([]DeviceCount, error) {
	query, args := userFilter(`
	SELECT d.id, d.name, COUNT(u.id) AS usage_count
	FROM device_usage u JOIN devices d ON d.id = u.device_id
	WHERE 1=1`, "d.user_id", userID, nil)
	query += ` GROUP BY d.id, d.name ORDER BY usage_count DESC, d.id`

	results := []DeviceCount{}
	err := db.collect(query, args, func(rows *sql.Rows) error {
		var r DeviceCount
		if err := rows.Scan(&r.DeviceID, &r.DeviceName, &r.Count); err != nil {
			return err
		}
		results = append(results, r)
		return nil
	})
	return results, err
}

// UsageHours counts usage records per device and start hour
func (db *DB) UsageHours(userID int) ([]DeviceHourCount, error) {
	query, args := userFilter(`
	SELECT d.id, d.name, CAST(strftime('%H', u.start_time) AS INTEGER) AS hour, COUNT(u.id)
	FROM device_usage u JOIN devices d ON d.id = u.device_id
	WHERE 1=1`, "d.user_id", userID, nil)
	query += ` GROUP BY d.id, d.name, hour ORDER BY d.id, hour`

	results := []DeviceHourCount{}
	err := db.collect(query, args, func(rows *sql.Rows) error {
		var r DeviceHourCount
		if err := rows.Scan(&r.DeviceID, &r.DeviceName, &r.Hour, &r.Count); err != nil {
			return err
		}
		results = append(results, r)
		return nil
	})
	return results, err
}

// UsageTimeSlots counts usage records per device name and clock hour
func (db *DB) UsageTimeSlots(userID int) ([]SlotCount, error) {
	query, args := userFilter(`
	SELECT strftime('%Y-%m-%d %H:00:00', u.start_time) AS slot, d.name, COUNT(u.id)
	FROM device_usage u JOIN devices d ON d.id = u.device_id
	WHERE 1=1`, "d.user_id", userID, nil)
	query += ` GROUP BY slot, d.name ORDER BY slot, d.name`

	results := []SlotCount{}
	err := db.collect(query, args, func(rows *sql.Rows) error {
		var r SlotCount
		if err := rows.Scan(&r.Slot, &r.DeviceName, &r.Count); err != nil {
			return err
		}
		results = append(results, r)
		return nil
	})
	return results, err
}

// AreaUsage counts usage records per house area and device name
func (db *DB) AreaUsage(userID int) ([]AreaCount, error) {
	query, args := userFilter(`
	SELECT us.house_area, d.name, COUNT(u.id)
	FROM users us
	JOIN devices d ON d.user_id = us.id
	JOIN device_usage u ON u.device_id = d.id
	WHERE us.house_area IS NOT NULL`, "us.id", userID, nil)
	query += ` GROUP BY us.house_area, d.name ORDER BY us.house_area, d.name`

	results := []AreaCount{}
	err := db.collect(query, args, func(rows *sql.Rows) error {
		var r AreaCount
		if err := rows.Scan(&r.HouseArea, &r.DeviceName, &r.Count); err != nil {
			return err
		}
		results = append(results, r)
		return nil
	})
	return results, err
}

// SecurityUsage counts usage records against the security events of the same device
func (db *DB) SecurityUsage(userID int) ([]DeviceEventCount, error) {
	query, args := userFilter(`
	SELECT d.name, e.event_type, COUNT(u.id)
	FROM device_usage u
	JOIN devices d ON d.id = u.device_id
	JOIN security_events e ON e.device_id = d.id
	WHERE 1=1`, "d.user_id", userID, nil)
	query += ` GROUP BY d.name, e.event_type ORDER BY d.name, e.event_type`

	results := []DeviceEventCount{}
	err := db.collect(query, args, func(rows *sql.Rows) error {
		var r DeviceEventCount
		if err := rows.Scan(&r.DeviceName, &r.EventType, &r.Count); err != nil {
			return err
		}
		results = append(results, r)
		return nil
	})
	return results, err
}

// RatingUsage counts usage records of each rated device per rating
func (db *DB) RatingUsage(userID int) ([]RatingCount, error) {
	query, args := userFilter(`
	SELECT f.device_id, d.name, f.rating, COUNT(u.id)
	FROM user_feedback f
	JOIN devices d ON d.id = f.device_id
	JOIN device_usage u ON u.device_id = d.id
	WHERE f.rating IS NOT NULL`, "d.user_id", userID, nil)
	query += ` GROUP BY f.device_id, d.name, f.rating ORDER BY f.device_id, f.rating`

	results := []RatingCount{}
	err := db.collect(query, args, func(rows *sql.Rows) error {
		var r RatingCount
		if err := rows.Scan(&r.DeviceID, &r.DeviceName, &r.Rating, &r.Count); err != nil {
			return err
		}
		results = append(results, r)
		return nil
	})
	return results, err
}

// EnergyByDevice sums energy consumption per device name
func (db *DB) EnergyByDevice(userID int) ([]DeviceEnergy, error) {
	query, args := userFilter(`
	SELECT d.name, COALESCE(SUM(u.energy_consumption), 0)
	FROM devices d JOIN device_usage u ON u.device_id = d.id
	WHERE 1=1`, "d.user_id", userID, nil)
	query += ` GROUP BY d.name ORDER BY d.name`

	results := []DeviceEnergy{}
	err := db.collect(query, args, func(rows *sql.Rows) error {
		var r DeviceEnergy
		if err := rows.Scan(&r.DeviceName, &r.TotalKWh); err != nil {
			return err
		}
		results = append(results, r)
		return nil
	})
	return results, err
}
