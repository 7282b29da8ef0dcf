// Package memory implementa los puertos de persistencia en memoria.
// Sirve para tests y para STORE_DRIVER=memory en desarrollo; los datos se pierden al reiniciar.
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

var (
	_ repository.CompanyRepository  = (*CompanyStore)(nil)
	_ repository.CompanyStatsReader = (*CompanyStore)(nil)
)

// CompanyStore guarda empresas. Las escrituras de UpdateLocked se serializan por empresa
// con un mutex propio; el mapa se protege con mu.
type CompanyStore struct {
	mu        sync.RWMutex
	companies map[int64]*entity.Company
	byCode    map[string]int64
	nextID    int64

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

func NewCompanyStore() *CompanyStore {
	return &CompanyStore{
		companies: make(map[int64]*entity.Company),
		byCode:    make(map[string]int64),
		locks:     make(map[int64]*sync.Mutex),
	}
}

func (s *CompanyStore) Create(_ context.Context, company *entity.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byCode[company.Code]; exists {
		return domain.ErrDuplicate
	}
	s.nextID++
	company.ID = s.nextID
	s.companies[company.ID] = company.Clone()
	s.byCode[company.Code] = company.ID
	return nil
}

func (s *CompanyStore) GetByID(_ context.Context, id int64) (*entity.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.companies[id]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

func (s *CompanyStore) GetByCode(_ context.Context, code string) (*entity.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byCode[code]
	if !ok {
		return nil, nil
	}
	return s.companies[id].Clone(), nil
}

func (s *CompanyStore) ExistsByCode(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byCode[code]
	return ok, nil
}

func (s *CompanyStore) List(_ context.Context, limit, offset int) ([]*entity.Company, int, error) {
	s.mu.RLock()
	all := make([]*entity.Company, 0, len(s.companies))
	for _, c := range s.companies {
		all = append(all, c.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return page(all, limit, offset), len(all), nil
}

// UpdateLocked aplica fn sobre una copia con el mutex de la empresa tomado y la guarda.
func (s *CompanyStore) UpdateLocked(_ context.Context, id int64, fn func(c *entity.Company) error) (*entity.Company, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	current, ok := s.companies[id]
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
	s.companies[id] = current.Clone()
	s.mu.Unlock()
	return current, nil
}

// CountCompanies total y activas por estado efectivo en now.
func (s *CompanyStore) CountCompanies(_ context.Context, now time.Time) (repository.CompanyCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := repository.CompanyCounts{Total: len(s.companies)}
	for _, c := range s.companies {
		if c.EffectiveStatus(now) == entity.CompanyStatusActive {
			out.Active++
		}
	}
	return out, nil
}

func (s *CompanyStore) lockFor(id int64) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
