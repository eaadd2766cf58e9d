// ABOUTME: Session service over the durable key-value store.
// ABOUTME: Login issues a mock token and persists the user snapshot; no globals.

package auth

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	tokenKey = "auth_token"
	userKey  = "auth_user"
)

// loginLatency simulates the round trip to a real identity provider so the
// UI exercises its pending state.
const loginLatency = 300 * time.Millisecond

// KV is the durable storage the session reads and writes. *store.Store
// satisfies it.
type KV interface {
	GetSetting(key string) (string, bool, error)
	PutSetting(key, value string) error
	DeleteSetting(key string) error
}

// Service owns session state. It is constructed once at startup and passed
// where needed; there is no package-level singleton.
type Service struct {
	kv KV
}

func NewService(kv KV) *Service {
	return &Service{kv: kv}
}

// Login checks the credentials against the mock directory, then persists a
// fresh token and the user snapshot. Any mismatch returns
// ErrInvalidCredentials.
func (s *Service) Login(creds Credentials) (*User, string, error) {
	time.Sleep(loginLatency)

	user, ok := findMockUser(creds)
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	token := "mock-jwt-token-" + uuid.NewString()
	if err := s.kv.PutSetting(tokenKey, token); err != nil {
		return nil, "", fmt.Errorf("persist session token: %w", err)
	}
	snapshot, err := json.Marshal(user)
	if err != nil {
		return nil, "", err
	}
	if err := s.kv.PutSetting(userKey, string(snapshot)); err != nil {
		return nil, "", fmt.Errorf("persist user snapshot: %w", err)
	}
	return &user, token, nil
}

// Logout clears the persisted token and user snapshot.
func (s *Service) Logout() error {
	if err := s.kv.DeleteSetting(tokenKey); err != nil {
		return err
	}
	return s.kv.DeleteSetting(userKey)
}

// IsLoggedIn reports whether a session token is persisted.
func (s *Service) IsLoggedIn() bool {
	_, ok, err := s.kv.GetSetting(tokenKey)
	return err == nil && ok
}

// CurrentUser returns the persisted user snapshot, or false when no session
// exists or the snapshot fails to decode.
func (s *Service) CurrentUser() (*User, bool) {
	raw, ok, err := s.kv.GetSetting(userKey)
	if err != nil || !ok {
		return nil, false
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, false
	}
	return &user, true
}
