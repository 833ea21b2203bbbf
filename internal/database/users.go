package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jgoulah/smarthome/pkg/models"
)

const userColumns = `id, name, email, phone, house_area, created_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var phone sql.NullString
	var area sql.NullFloat64
	var createdAt string

	if err := row.Scan(&u.ID, &u.Name, &u.Email, &phone, &area, &createdAt); err != nil {
		return nil, err
	}

	var err error
	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	u.Phone = stringPtr(phone)
	u.HouseArea = floatPtr(area)
	return &u, nil
}

// CreateUser inserts a user and fills in its id and creation time
func (db *DB) CreateUser(u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	res, err := db.conn.Exec(`
	INSERT INTO users (name, email, phone, house_area, created_at)
	VALUES (?, ?, ?, ?, ?)
	`, u.Name, u.Email, nullString(u.Phone), nullFloat(u.HouseArea), formatTime(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting user: %w", translateError(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading user id: %w", err)
	}
	u.ID = int(id)
	return nil
}

// GetUser retrieves a user by id
func (db *DB) GetUser(id int) (*models.User, error) {
	row := db.conn.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email address
func (db *DB) GetUserByEmail(email string) (*models.User, error) {
	row := db.conn.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return u, nil
}

// ListUsers retrieves a page of users ordered by id
func (db *DB) ListUsers(skip, limit int) ([]models.User, error) {
	skip, limit = page(skip, limit)
	rows, err := db.conn.Query(`SELECT `+userColumns+` FROM users ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	results := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, *u)
	}
	return results, rows.Err()
}

// UpdateUser applies the non-nil fields of upd and returns the updated user
func (db *DB) UpdateUser(id int, upd models.UserUpdate) (*models.User, error) {
	u, err := db.GetUser(id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Phone != nil {
		u.Phone = upd.Phone
	}
	if upd.HouseArea != nil {
		u.HouseArea = upd.HouseArea
	}

	_, err = db.conn.Exec(`
	UPDATE users SET name = ?, email = ?, phone = ?, house_area = ? WHERE id = ?
	`, u.Name, u.Email, nullString(u.Phone), nullFloat(u.HouseArea), id)
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", translateError(err))
	}
	return u, nil
}

// DeleteUser removes a user together with their devices and records
func (db *DB) DeleteUser(id int) error {
	res, err := db.conn.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return checkAffected(res)
}
