package usecase_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/feedback-api/internal/application/dto"
	"github.com/jhoicas/feedback-api/internal/application/usecase"
	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/identifier"
	"github.com/jhoicas/feedback-api/internal/infrastructure/memory"
)

// heldMessages retiene la primera escritura dentro del bloqueo hasta que se cierre hold.
type heldMessages struct {
	*memory.MessageStore
	entered chan struct{} // se cierra cuando la primera escritura ya tiene el bloqueo
	arrived chan struct{} // una señal por llamada a UpdateLocked
	hold    chan struct{}
	calls   atomic.Int32
}

func (h *heldMessages) UpdateLocked(ctx context.Context, id string, fn func(m *entity.Message) error) (*entity.Message, error) {
	h.arrived <- struct{}{}
	return h.MessageStore.UpdateLocked(ctx, id, func(m *entity.Message) error {
		err := fn(m)
		if h.calls.Add(1) == 1 {
			close(h.entered)
			<-h.hold
		}
		return err
	})
}

func TestUpdateStatus_ResueltoNoVuelveAEnProcesoConEscriturasSolapadas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := registerAcme(t, f)
	msg, err := f.message.Submit(ctx, dto.SubmitMessageRequest{CompanyCode: c.Code, Type: "complaint", Content: "ruido"})
	require.NoError(t, err)

	held := &heldMessages{
		MessageStore: f.messages,
		entered:      make(chan struct{}),
		arrived:      make(chan struct{}, 2),
		hold:         make(chan struct{}),
	}
	uc := usecase.NewMessageUseCase(held, f.companies, f.quota, identifier.NewGenerator(), nil, nil)

	resolveErr := make(chan error, 1)
	go func() {
		_, err := uc.UpdateStatus(ctx, msg.ID, dto.UpdateMessageStatusRequest{Status: "resolved", Response: ptr("listo")})
		resolveErr <- err
	}()
	<-held.arrived
	<-held.entered

	progressErr := make(chan error, 1)
	go func() {
		_, err := uc.UpdateStatus(ctx, msg.ID, dto.UpdateMessageStatusRequest{Status: "in_progress"})
		progressErr <- err
	}()
	<-held.arrived
	close(held.hold)

	require.NoError(t, <-resolveErr)
	assert.ErrorIs(t, <-progressErr, domain.ErrConflict, "un mensaje resuelto no retrocede")

	got, err := f.message.Lookup(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "resolved", got.Status)
	require.NotNil(t, got.Response)
	assert.Equal(t, "listo", *got.Response)
}

func TestUpdateStatus_Concurrente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := registerAcme(t, f)

	const rounds, workers = 20, 8
	for r := 0; r < rounds; r++ {
		msg, err := f.message.Submit(ctx, dto.SubmitMessageRequest{CompanyCode: c.Code, Type: "suggestion", Content: "idea"})
		require.NoError(t, err)

		start := make(chan struct{})
		var wg sync.WaitGroup
		var progressOK atomic.Int32
		errs := make([]error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				req := dto.UpdateMessageStatusRequest{Status: "in_progress"}
				if i == 0 {
					req = dto.UpdateMessageStatusRequest{Status: "resolved", Response: ptr("hecho")}
				}
				_, errs[i] = f.message.UpdateStatus(ctx, msg.ID, req)
				if i != 0 && errs[i] == nil {
					progressOK.Add(1)
				}
			}(i)
		}
		close(start)
		wg.Wait()

		require.NoError(t, errs[0], "resolver siempre es un avance válido")
		for i := 1; i < workers; i++ {
			if errs[i] != nil {
				assert.ErrorIs(t, errs[i], domain.ErrConflict)
			}
		}
		assert.LessOrEqual(t, progressOK.Load(), int32(1), "solo una petición avanza de nuevo a en proceso")

		got, err := f.message.Lookup(ctx, msg.ID)
		require.NoError(t, err)
		assert.Equal(t, "resolved", got.Status)
		require.NotNil(t, got.Response)
	}
}
