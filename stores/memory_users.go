package stores

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cityplus-be/models"
)

// MemoryUserStore is an in-memory UserStore used by tests.
type MemoryUserStore struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]models.User
	seq   map[primitive.ObjectID]int
	next  int
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		items: make(map[primitive.ObjectID]models.User),
		seq:   make(map[primitive.ObjectID]int),
	}
}

func (s *MemoryUserStore) Create(ctx context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.Email == user.Email {
			return models.User{}, ErrDuplicateEmail
		}
	}

	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	s.items[user.ID] = user
	s.next++
	s.seq[user.ID] = s.next
	return user, nil
}

func (s *MemoryUserStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.items[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.items {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemoryUserStore) GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[primitive.ObjectID]models.User, len(ids))
	for _, id := range ids {
		if user, ok := s.items[id]; ok {
			result[id] = user
		}
	}
	return result, nil
}

func (s *MemoryUserStore) List(ctx context.Context) ([]models.User, error) {
	return s.collect(func(models.User) bool { return true }), nil
}

func (s *MemoryUserStore) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return s.collect(func(u models.User) bool { return u.Role == role }), nil
}

func (s *MemoryUserStore) collect(keep func(models.User) bool) []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []models.User{}
	for _, user := range s.items {
		if keep(user) {
			users = append(users, user)
		}
	}
	// Newest first; fall back to insertion order for equal timestamps.
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return s.seq[users[i].ID] > s.seq[users[j].ID]
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users
}

func (s *MemoryUserStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.AccountStatus) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.items[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	user.Status = status
	user.UpdatedAt = time.Now()
	s.items[id] = user
	return user, nil
}

func (s *MemoryUserStore) Counts(ctx context.Context) (models.UserCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var counts models.UserCounts
	for _, user := range s.items {
		counts.Total++
		switch user.Role {
		case models.RoleCitizen:
			counts.Citizens++
		case models.RoleStaff:
			counts.Staff++
		case models.RoleAdmin:
			counts.Admins++
		}
	}
	return counts, nil
}
