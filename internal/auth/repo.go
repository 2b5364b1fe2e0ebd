package auth

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/paulpark6/salesvision/internal/reports/seed"
	"github.com/paulpark6/salesvision/internal/shared"
)

// Repository defines lookup operations for dashboard accounts.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// MemoryRepository keeps accounts in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryRepository indexes users by email.
func NewMemoryRepository(users ...User) *MemoryRepository {
	repo := &MemoryRepository{users: make(map[string]User, len(users))}
	for _, u := range users {
		repo.users[normalizeEmail(u.Email)] = u
	}
	return repo
}

// FindByEmail returns the account registered under email.
func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[normalizeEmail(email)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &u, nil
}

// SeedUsers builds the demo accounts, one per role, sharing password.
func SeedUsers(password string, cost int) ([]User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash seed password: %w", err)
	}
	accounts := []struct {
		id, email, name string
		role            shared.Role
	}{
		{"usr-admin", "admin@example.com", seed.JohnDoe, shared.RoleAdmin},
		{"usr-manager", "alex.ray@example.com", seed.AlexRay, shared.RoleManager},
		{"usr-employee", "jane.smith@example.com", seed.JaneSmith, shared.RoleEmployee},
		{"usr-owner", "owner@example.com", "Owner", shared.RoleOwner},
	}
	users := make([]User, 0, len(accounts))
	for _, a := range accounts {
		users = append(users, User{
			ID:           a.id,
			Email:        a.email,
			Name:         a.name,
			Role:         a.role,
			PasswordHash: string(hash),
			IsActive:     true,
		})
	}
	return users, nil
}

var _ Repository = (*MemoryRepository)(nil)
