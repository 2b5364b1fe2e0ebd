package auth

import (
	"strings"

	"github.com/paulpark6/salesvision/internal/shared"
)

// User represents a dashboard account.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         shared.Role
	PasswordHash string
	IsActive     bool
}

// Principal returns the session identity of the user.
func (u *User) Principal() shared.Principal {
	return shared.Principal{UserID: u.ID, Name: u.Name, Role: u.Role}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
