package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/repository"
	"github.com/jhoicas/feedback-api/internal/infrastructure/memory"
)

func newMessage(id, code string, typ entity.MessageType, status entity.MessageStatus, at time.Time) *entity.Message {
	return &entity.Message{
		ID:          id,
		CompanyCode: code,
		Type:        typ,
		Content:     "contenido",
		Status:      status,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}

func TestMessageStore_CreateDuplicadoYUpdateLocked(t *testing.T) {
	ctx := context.Background()
	s := memory.NewMessageStore()
	now := time.Now()

	m := newMessage("FB-2026-AAAAAAAA", "COMP000001", entity.MessageTypePraise, entity.MessageStatusNew, now)
	require.NoError(t, s.Create(ctx, m))
	assert.ErrorIs(t, s.Create(ctx, m), domain.ErrDuplicate)

	resp := "gracias"
	updated, err := s.UpdateLocked(ctx, m.ID, func(cur *entity.Message) error {
		cur.Status = entity.MessageStatusResolved
		cur.Response = &resp
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MessageStatusResolved, updated.Status)

	got, err := s.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MessageStatusResolved, got.Status)
	require.NotNil(t, got.Response)
	assert.Equal(t, "gracias", *got.Response)

	// Un error de fn no guarda nada.
	_, err = s.UpdateLocked(ctx, m.ID, func(cur *entity.Message) error {
		cur.Status = entity.MessageStatusNew
		return domain.NewConflictError("message", "status")
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	got, err = s.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MessageStatusResolved, got.Status)

	missing, err := s.UpdateLocked(ctx, "FB-2026-ZZZZZZZZ", func(*entity.Message) error { return nil })
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMessageStore_UpdateLockedSerializaPorMensaje(t *testing.T) {
	ctx := context.Background()
	s := memory.NewMessageStore()
	m := newMessage("FB-2026-BBBBBBBB", "COMP000001", entity.MessageTypeComplaint, entity.MessageStatusNew, time.Now())
	require.NoError(t, s.Create(ctx, m))

	entered := make(chan struct{})
	release := make(chan struct{})
	firstDone := make(chan error, 1)
	go func() {
		_, err := s.UpdateLocked(ctx, m.ID, func(cur *entity.Message) error {
			close(entered)
			<-release
			cur.Status = entity.MessageStatusResolved
			return nil
		})
		firstDone <- err
	}()
	<-entered

	seen := make(chan entity.MessageStatus, 1)
	go func() {
		_, _ = s.UpdateLocked(ctx, m.ID, func(cur *entity.Message) error {
			seen <- cur.Status
			return nil
		})
	}()

	select {
	case st := <-seen:
		t.Fatalf("la segunda escritura entró con el mensaje bloqueado (estado %s)", st)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-firstDone)
	assert.Equal(t, entity.MessageStatusResolved, <-seen, "la segunda escritura ve el estado ya guardado")
}

func TestMessageStore_ListFiltraPorEmpresaYEstado(t *testing.T) {
	ctx := context.Background()
	s := memory.NewMessageStore()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Create(ctx, newMessage("FB-2026-00000001", "COMP000001", entity.MessageTypeComplaint, entity.MessageStatusNew, base)))
	require.NoError(t, s.Create(ctx, newMessage("FB-2026-00000002", "COMP000001", entity.MessageTypePraise, entity.MessageStatusResolved, base.Add(time.Hour))))
	require.NoError(t, s.Create(ctx, newMessage("FB-2026-00000003", "COMP000002", entity.MessageTypeSuggestion, entity.MessageStatusNew, base.Add(2*time.Hour))))

	list, total, err := s.List(ctx, repository.MessageFilter{CompanyCode: "COMP000001"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "FB-2026-00000002", list[0].ID)

	list, total, err = s.List(ctx, repository.MessageFilter{Status: entity.MessageStatusNew})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "FB-2026-00000003", list[0].ID)

	list, total, err = s.List(ctx, repository.MessageFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 1)
	assert.Equal(t, "FB-2026-00000002", list[0].ID)
}

func TestAnalyticsStore_Conteos(t *testing.T) {
	ctx := context.Background()
	companies := memory.NewCompanyStore()
	messages := memory.NewMessageStore()
	a := memory.NewAnalyticsStore(companies, messages)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, messages.Create(ctx, newMessage("FB-2026-00000001", "COMP000001", entity.MessageTypeComplaint, entity.MessageStatusNew, base)))
	require.NoError(t, messages.Create(ctx, newMessage("FB-2026-00000002", "COMP000001", entity.MessageTypeComplaint, entity.MessageStatusResolved, base.Add(time.Hour))))
	require.NoError(t, messages.Create(ctx, newMessage("FB-2026-00000003", "COMP000001", entity.MessageTypePraise, entity.MessageStatusInProgress, base.Add(48*time.Hour))))
	require.NoError(t, messages.Create(ctx, newMessage("FB-2026-00000004", "COMP000002", entity.MessageTypePraise, entity.MessageStatusResolved, base)))

	byType, err := a.CountByType(ctx, "COMP000001")
	require.NoError(t, err)
	assert.Equal(t, 2, byType[entity.MessageTypeComplaint])
	assert.Equal(t, 1, byType[entity.MessageTypePraise])
	assert.Equal(t, 0, byType[entity.MessageTypeSuggestion])

	byStatus, err := a.CountByStatus(ctx, "COMP000001")
	require.NoError(t, err)
	assert.Equal(t, 1, byStatus[entity.MessageStatusNew])
	assert.Equal(t, 1, byStatus[entity.MessageStatusInProgress])
	assert.Equal(t, 1, byStatus[entity.MessageStatusResolved])

	n, err := a.CountCreatedBetween(ctx, "COMP000001", base, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	totals, err := a.CountMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, totals.Total)
	assert.Equal(t, 2, totals.Resolved)
}
