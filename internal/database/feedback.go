package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jgoulah/smarthome/pkg/models"
)

const feedbackColumns = `id, user_id, device_id, feedback_type, content, rating, created_at`

func scanFeedback(row rowScanner) (*models.Feedback, error) {
	var f models.Feedback
	var content sql.NullString
	var rating sql.NullInt64
	var createdAt string

	if err := row.Scan(&f.ID, &f.UserID, &f.DeviceID, &f.FeedbackType, &content, &rating, &createdAt); err != nil {
		return nil, err
	}

	var err error
	f.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	f.Content = stringPtr(content)
	f.Rating = intPtr(rating)
	return &f, nil
}

// CreateFeedback inserts a feedback row; a zero creation time means now
func (db *DB) CreateFeedback(f *models.Feedback) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	res, err := db.conn.Exec(`
	INSERT INTO user_feedback (user_id, device_id, feedback_type, content, rating, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`, f.UserID, f.DeviceID, f.FeedbackType, nullString(f.Content), nullInt(f.Rating), formatTime(f.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting feedback: %w", translateError(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading feedback id: %w", err)
	}
	f.ID = int(id)
	return nil
}

// GetFeedback retrieves a feedback row by id
func (db *DB) GetFeedback(id int) (*models.Feedback, error) {
	row := db.conn.QueryRow(`SELECT `+feedbackColumns+` FROM user_feedback WHERE id = ?`, id)
	f, err := scanFeedback(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	return f, nil
}

// ListFeedback retrieves a page of feedback ordered by id
func (db *DB) ListFeedback(skip, limit int) ([]models.Feedback, error) {
	skip, limit = page(skip, limit)
	rows, err := db.conn.Query(`SELECT `+feedbackColumns+` FROM user_feedback ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	results := []models.Feedback{}
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, *f)
	}
	return results, rows.Err()
}

// UpdateFeedback replaces every field of a feedback row
func (db *DB) UpdateFeedback(id int, f *models.Feedback) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	res, err := db.conn.Exec(`
	UPDATE user_feedback
	SET user_id = ?, device_id = ?, feedback_type = ?, content = ?, rating = ?, created_at = ?
	WHERE id = ?
	`, f.UserID, f.DeviceID, f.FeedbackType, nullString(f.Content), nullInt(f.Rating), formatTime(f.CreatedAt), id)
	if err != nil {
		return fmt.Errorf("updating feedback: %w", translateError(err))
	}
	if err := checkAffected(res); err != nil {
		return err
	}
	f.ID = id
	return nil
}

// DeleteFeedback removes a feedback row
func (db *DB) DeleteFeedback(id int) error {
	res, err := db.conn.Exec(`DELETE FROM user_feedback WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting feedback: %w", err)
	}
	return checkAffected(res)
}
