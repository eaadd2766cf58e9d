// ABOUTME: Mock user directory and role hierarchy.
// ABOUTME: Credentials are fixtures for local development, not a security boundary.

package auth

import "errors"

// Role gates access to routes. The hierarchy is admin over manager over
// user: a higher role may access anything a lower role may.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

var roleRank = map[Role]int{
	RoleUser:    1,
	RoleManager: 2,
	RoleAdmin:   3,
}

// Allows reports whether a holder of this role may access a route gated by
// required. Unknown roles allow nothing.
func (r Role) Allows(required Role) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	want, ok := roleRank[required]
	if !ok {
		return false
	}
	return have >= want
}

// User is the authenticated identity snapshot persisted with the session.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	EnterpriseID string `json:"enterpriseId"`
}

// Credentials is a login attempt.
type Credentials struct {
	Enterprise string
	Username   string
	Password   string
}

// ErrInvalidCredentials is returned for any enterprise/username/password
// mismatch; the message never says which part was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

type mockUser struct {
	password string
	user     User
}

var mockUsers = map[string]mockUser{
	"admin": {
		password: "admin123",
		user:     User{ID: "1", Username: "admin", Name: "Administrador", Role: RoleAdmin, EnterpriseID: "empresa1"},
	},
	"manager": {
		password: "manager123",
		user:     User{ID: "2", Username: "manager", Name: "Jefe de Campo", Role: RoleManager, EnterpriseID: "empresa1"},
	},
	"user": {
		password: "user123",
		user:     User{ID: "3", Username: "user", Name: "Operador", Role: RoleUser, EnterpriseID: "empresa1"},
	},
}

func findMockUser(creds Credentials) (User, bool) {
	entry, ok := mockUsers[creds.Username]
	if !ok {
		return User{}, false
	}
	if entry.password != creds.Password || entry.user.EnterpriseID != creds.Enterprise {
		return User{}, false
	}
	return entry.user, true
}
