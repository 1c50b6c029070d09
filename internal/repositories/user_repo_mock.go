package repositories

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopapi/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user. Like the unique email index in the database,
// an already-taken email fails with ErrDuplicateEmail.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return fmt.Errorf("%w: %s", models.ErrDuplicateEmail, user.Email)
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

// GetByEmail returns a user by their email.
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w with email: %s", models.ErrUserNotFound, email)
}

// GetByID returns a user by their ID.
func (r *MockUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("%w with id: %s", models.ErrUserNotFound, id)
	}
	return &user, nil
}

func (r *MockUserRepository) snapshot() map[string]models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(map[string]models.User, len(r.users))
	for id, user := range r.users {
		snap[id] = user
	}
	return snap
}

func (r *MockUserRepository) restore(snap map[string]models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = snap
}
