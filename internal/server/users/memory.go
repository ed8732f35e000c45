package users

import (
	"context"
	"sync"
	"time"

	"github.com/proxy201/nexus-auth/internal/common"
	"github.com/proxy201/nexus-auth/internal/server/models"
)

// MemoryRepository is a mutex-guarded in-memory Repository with the same
// semantics as the Postgres implementation, including the atomic
// check-and-insert on Create. Used in tests.
type MemoryRepository struct {
	mu     sync.Mutex
	byName map[string]*models.User
	byID   map[int64]*models.User
	nextID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byName: make(map[string]*models.User),
		byID:   make(map[int64]*models.User),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, name, passwordHash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return nil, common.ErrorAlreadyExists
	}

	r.nextID++
	now := time.Now().UTC()
	user := &models.User{
		ID:           r.nextID,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byName[name] = user
	r.byID[user.ID] = user

	copied := *user
	return &copied, nil
}

func (r *MemoryRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byName[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.PublicUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return user.Public(), nil
}

// Delete removes a user by id. Only exists to simulate the deleted-account
// case in tests; the server itself never deletes users.
func (r *MemoryRepository) Delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.byID[id]; ok {
		delete(r.byName, user.Name)
		delete(r.byID, id)
	}
}
