package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/repository"
)

var _ repository.MessageRepository = (*MessageStore)(nil)

// MessageStore guarda mensajes por ID. UpdateLocked se serializa por mensaje.
type MessageStore struct {
	mu       sync.RWMutex
	messages map[string]*entity.Message

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewMessageStore() *MessageStore {
	return &MessageStore{
		messages: make(map[string]*entity.Message),
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *MessageStore) Create(_ context.Context, msg *entity.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.messages[msg.ID]; exists {
		return domain.ErrDuplicate
	}
	s.messages[msg.ID] = msg.Clone()
	return nil
}

func (s *MessageStore) GetByID(_ context.Context, id string) (*entity.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, nil
	}
	return m.Clone(), nil
}

// UpdateLocked aplica fn sobre una copia con el mutex del mensaje tomado y la guarda.
func (s *MessageStore) UpdateLocked(_ context.Context, id string, fn func(m *entity.Message) error) (*entity.Message, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	current, ok := s.messages[id]
	if ok {
		current = current.Clone()
	}
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if err := fn(current); err != nil {
		return nil, err
	}

	s.mu.Lock()
	current.ID = id
	s.messages[id] = current.Clone()
	s.mu.Unlock()
	return current, nil
}

func (s *MessageStore) lockFor(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *MessageStore) List(_ context.Context, f repository.MessageFilter) ([]*entity.Message, int, error) {
	matched := s.filter(func(m *entity.Message) bool {
		if f.CompanyCode != "" && m.CompanyCode != f.CompanyCode {
			return false
		}
		return f.Status == "" || m.Status == f.Status
	})
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return page(matched, f.Limit, f.Offset), len(matched), nil
}

func (s *MessageStore) filter(keep func(m *entity.Message) bool) []*entity.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.Message, 0)
	for _, m := range s.messages {
		if keep(m) {
			out = append(out, m.Clone())
		}
	}
	return out
}

func (s *MessageStore) byCompany(code string) []*entity.Message {
	return s.filter(func(m *entity.Message) bool { return m.CompanyCode == code })
}

func (s *MessageStore) countBetween(code string, from, to time.Time) int {
	n := 0
	for _, m := range s.byCompany(code) {
		if !m.CreatedAt.Before(from) && m.CreatedAt.Before(to) {
			n++
		}
	}
	return n
}
