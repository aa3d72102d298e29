package repository

import (
	"context"
	"sync"

	"minivenmo/domain/entities"
)

// UserRepository is the in-process user registry
type UserRepository struct {
	mu    sync.RWMutex
	byKey map[string]*entities.User
	order []*entities.User
}

// NewUserRepository creates an empty user registry
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byKey: make(map[string]*entities.User),
		order: make([]*entities.User, 0),
	}
}

// GetByUsername retrieves a user by username, returning nil if not registered
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byKey[username], nil
}

// Create registers the user; a taken username is rejected
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKey[user.Username()]; exists {
		return entities.ErrUsernameTaken
	}
	r.byKey[user.Username()] = user
	r.order = append(r.order, user)
	return nil
}

// GetAll returns all users in registration order
func (r *UserRepository) GetAll(ctx context.Context) ([]*entities.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*entities.User, len(r.order))
	copy(users, r.order)
	return users, nil
}

// Count returns the number of registered users
func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
