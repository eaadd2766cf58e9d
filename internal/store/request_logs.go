// ABOUTME: Request log persistence and queries.
// ABOUTME: Written by the logging middleware, read by the admin logs page.

package store

import (
	"log"
	"time"
)

type RequestLog struct {
	ID         int64
	Timestamp  time.Time
	Method     string
	Path       string
	StatusCode int
	DurationMs int
	UserID     string
	IPAddress  string
	UserAgent  string
}

// LogRequest inserts a request log entry. Failures are logged and swallowed;
// request logging must never fail a request.
func (s *Store) LogRequest(entry *RequestLog) {
	_, err := s.db.Exec(`
		INSERT INTO request_logs (method, path, status_code, duration_ms, user_id, ip_address, user_agent)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.Method, entry.Path, entry.StatusCode, entry.DurationMs, entry.UserID, entry.IPAddress, entry.UserAgent)
	if err != nil {
		log.Printf("Failed to log request: %v", err)
	}
}

// GetRequestLogs returns the most recent entries, newest first.
func (s *Store) GetRequestLogs(limit int) ([]*RequestLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT id, timestamp, method, path, status_code, duration_ms, user_id, ip_address, user_agent
		FROM request_logs
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*RequestLog
	for rows.Next() {
		var entry RequestLog
		if err := rows.Scan(&entry.ID, &entry.Timestamp, &entry.Method, &entry.Path,
			&entry.StatusCode, &entry.DurationMs, &entry.UserID, &entry.IPAddress, &entry.UserAgent); err != nil {
			return nil, err
		}
		logs = append(logs, &entry)
	}
	return logs, rows.Err()
}
