// ABOUTME: Durable key-value settings store.
// ABOUTME: Backs grid state persistence and the auth session snapshot.

package store

import "database/sql"

// GetSetting returns the value stored under key. A missing key is not an
// error; it returns ("", false, nil).
func (s *Store) GetSetting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv_settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// PutSetting stores value under key, replacing any previous value.
func (s *Store) PutSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv_settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// DeleteSetting removes key. Deleting a missing key is a no-op.
func (s *Store) DeleteSetting(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv_settings WHERE key = ?`, key)
	return err
}
