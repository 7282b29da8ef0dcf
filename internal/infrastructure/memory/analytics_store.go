package memory

import (
	"context"
	"time"

	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsStore)(nil)

// AnalyticsStore recorre los stores de empresas y mensajes en cada consulta.
type AnalyticsStore struct {
	*CompanyStore
	messages *MessageStore
}

func NewAnalyticsStore(companies *CompanyStore, messages *MessageStore) *AnalyticsStore {
	return &AnalyticsStore{CompanyStore: companies, messages: messages}
}

func (s *AnalyticsStore) CountByType(_ context.Context, companyCode string) (map[entity.MessageType]int, error) {
	out := make(map[entity.MessageType]int)
	for _, m := range s.messages.byCompany(companyCode) {
		out[m.Type]++
	}
	return out, nil
}

func (s *AnalyticsStore) CountByStatus(_ context.Context, companyCode string) (map[entity.MessageStatus]int, error) {
	out := make(map[entity.MessageStatus]int)
	for _, m := range s.messages.byCompany(companyCode) {
		out[m.Status]++
	}
	return out, nil
}

func (s *AnalyticsStore) CountCreatedBetween(_ context.Context, companyCode string, from, to time.Time) (int, error) {
	return s.messages.countBetween(companyCode, from, to), nil
}

func (s *AnalyticsStore) CountMessages(_ context.Context) (repository.MessageTotals, error) {
	all := s.messages.filter(func(*entity.Message) bool { return true })
	out := repository.MessageTotals{Total: len(all)}
	for _, m := range all {
		if m.Status == entity.MessageStatusResolved {
			out.Resolved++
		}
	}
	return out, nil
}
