package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

// UserStore guarda cuentas con índice por email.
type UserStore struct {
	mu      sync.RWMutex
	users   map[string]*entity.User
	byEmail map[string]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:   make(map[string]*entity.User),
		byEmail: make(map[string]string),
	}
}

func (s *UserStore) Create(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return domain.ErrDuplicate
	}
	s.users[user.ID] = cloneUser(user)
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	return cloneUser(s.users[id]), nil
}

func cloneUser(u *entity.User) *entity.User {
	out := *u
	if u.CompanyID != nil {
		id := *u.CompanyID
		out.CompanyID = &id
	}
	return &out
}
