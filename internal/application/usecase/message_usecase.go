package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/feedback-api/internal/application/dto"
	"github.com/jhoicas/feedback-api/internal/application/quota"
	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/repository"
	"github.com/jhoicas/feedback-api/internal/monitoring"
	"github.com/jhoicas/feedback-api/pkg/logger"
)

// maxMessageIDAttempts reintentos de inserción ante colisión de ID.
const maxMessageIDAttempts = 5

// QuotaReserver contrato mínimo del QuotaEnforcer que usa el flujo de mensajes.
type QuotaReserver interface {
	CheckAndReserve(ctx context.Context, companyID int64, kind quota.ResourceKind) error
	Release(ctx context.Context, companyID int64, kind quota.ResourceKind) error
}

// MessageIDGenerator genera IDs de mensaje con marcador de periodo.
type MessageIDGenerator interface {
	MessageID(now time.Time) string
}

// MessageUseCase flujo del feedback anónimo: envío, consulta pública y atención.
type MessageUseCase struct {
	repo      repository.MessageRepository
	companies repository.CompanyRepository
	quota     QuotaReserver
	ids       MessageIDGenerator
	log       *logger.Logger
	metrics   *monitoring.Metrics
	now       func() time.Time
}

// NewMessageUseCase construye el caso de uso. log y metrics pueden ser nil.
func NewMessageUseCase(
	repo repository.MessageRepository,
	companies repository.CompanyRepository,
	quota QuotaReserver,
	ids MessageIDGenerator,
	log *logger.Logger,
	metrics *monitoring.Metrics,
) *MessageUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &MessageUseCase{
		repo:      repo,
		companies: companies,
		quota:     quota,
		ids:       ids,
		log:       log.Component("message"),
		metrics:   metrics,
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *MessageUseCase) WithClock(now func() time.Time) *MessageUseCase {
	uc.now = now
	return uc
}

// Submit registra un mensaje anónimo. El ID devuelto es la única credencial del remitente.
func (uc *MessageUseCase) Submit(ctx context.Context, in dto.SubmitMessageRequest) (*dto.MessageResponse, error) {
	msgType := entity.MessageType(strings.ToLower(strings.TrimSpace(in.Type)))
	if !msgType.Valid() {
		return nil, domain.NewValidationError("type")
	}
	content := strings.TrimSpace(in.Content)
	if content == "" || utf8.RuneCountInString(content) > entity.MaxMessageLength {
		return nil, domain.NewValidationError("content")
	}

	company, err := uc.companies.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(in.CompanyCode)))
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.NewNotFoundError("company")
	}
	if company.Status == entity.CompanyStatusBlocked {
		return nil, domain.NewConflictError("company", "status")
	}

	if err := uc.quota.CheckAndReserve(ctx, company.ID, quota.ResourceMessage); err != nil {
		return nil, err
	}

	now := uc.now()
	msg := &entity.Message{
		CompanyCode: company.Code,
		Type:        msgType,
		Content:     content,
		Status:      entity.MessageStatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for attempt := 0; attempt < maxMessageIDAttempts; attempt++ {
		msg.ID = uc.ids.MessageID(now)
		err = uc.repo.Create(ctx, msg)
		if errors.Is(err, domain.ErrDuplicate) {
			uc.log.Debug().Str("message_id", msg.ID).Int("attempt", attempt+1).Msg("colisión de ID, se regenera")
			continue
		}
		if err != nil {
			uc.release(ctx, company.ID)
			return nil, err
		}
		uc.metrics.MessageSubmitted(string(msgType))
		return messageToResponse(msg, true), nil
	}

	uc.release(ctx, company.ID)
	uc.log.Error().Int("attempts", maxMessageIDAttempts).Msg("no se pudo generar un ID de mensaje único")
	return nil, domain.NewConflictError("message", "id")
}

func (uc *MessageUseCase) release(ctx context.Context, companyID int64) {
	if err := uc.quota.Release(ctx, companyID, quota.ResourceMessage); err != nil {
		uc.log.Error().Err(err).Int64("company_id", companyID).Msg("no se pudo liberar la reserva de cuota")
	}
}

// Lookup consulta pública por ID. No revela la empresa destinataria.
func (uc *MessageUseCase) Lookup(ctx context.Context, id string) (*dto.MessageResponse, error) {
	msg, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return messageToResponse(msg, false), nil
}

// OwnerCompanyID ID de la empresa dueña del mensaje, para el control de propiedad del AuthGate.
func (uc *MessageUseCase) OwnerCompanyID(ctx context.Context, id string) (int64, error) {
	msg, err := uc.get(ctx, id)
	if err != nil {
		return 0, err
	}
	company, err := uc.companies.GetByCode(ctx, msg.CompanyCode)
	if err != nil {
		return 0, err
	}
	if company == nil {
		return 0, domain.NewNotFoundError("company")
	}
	return company.ID, nil
}

// UpdateStatus avanza el estado (solo hacia delante) y opcionalmente registra la respuesta.
// Con respuesta y mismo estado se acepta como actualización de la respuesta.
func (uc *MessageUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateMessageStatusRequest) (*dto.MessageResponse, error) {
	to := entity.ParseMessageStatus(in.Status)
	if !to.Valid() {
		return nil, domain.NewValidationError("status")
	}
	var response string
	if in.Response != nil {
		response = strings.TrimSpace(*in.Response)
		if response == "" {
			return nil, domain.NewValidationError("response")
		}
	}

	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		return nil, domain.NewValidationError("id")
	}

	// La transición se valida contra el estado vigente, con el mensaje bloqueado.
	var changed bool
	msg, err := uc.repo.UpdateLocked(ctx, id, func(m *entity.Message) error {
		changed = m.Status != to
		if changed && !entity.CanAdvance(m.Status, to) {
			return domain.NewConflictError("message", "status")
		}
		if !changed && in.Response == nil {
			return domain.NewConflictError("message", "status")
		}
		m.Status = to
		if in.Response != nil {
			m.Response = &response
		}
		m.UpdatedAt = uc.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, domain.NewNotFoundError("message")
	}
	if changed {
		uc.metrics.MessageStatusChanged(string(to))
	}
	return messageToResponse(msg, true), nil
}

// ListByCompany bandeja de una empresa, opcionalmente filtrada por estado.
func (uc *MessageUseCase) ListByCompany(ctx context.Context, companyID int64, status string, limit, offset int) (*dto.MessageListResponse, error) {
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.NewNotFoundError("company")
	}
	return uc.list(ctx, company.Code, status, limit, offset)
}

// ListAll moderación de plataforma (todas las empresas).
func (uc *MessageUseCase) ListAll(ctx context.Context, status string, limit, offset int) (*dto.MessageListResponse, error) {
	return uc.list(ctx, "", status, limit, offset)
}

func (uc *MessageUseCase) list(ctx context.Context, code, status string, limit, offset int) (*dto.MessageListResponse, error) {
	st := entity.ParseMessageStatus(status)
	if status != "" && !st.Valid() {
		return nil, domain.NewValidationError("status")
	}
	list, total, err := uc.repo.List(ctx, repository.MessageFilter{
		CompanyCode: code,
		Status:      st,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MessageResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *messageToResponse(m, true))
	}
	return &dto.MessageListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

func (uc *MessageUseCase) get(ctx context.Context, id string) (*entity.Message, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		return nil, domain.NewValidationError("id")
	}
	msg, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, domain.NewNotFoundError("message")
	}
	return msg, nil
}

func messageToResponse(m *entity.Message, withCompany bool) *dto.MessageResponse {
	out := &dto.MessageResponse{
		ID:        m.ID,
		Type:      string(m.Type),
		Content:   m.Content,
		Status:    string(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if withCompany {
		out.CompanyCode = m.CompanyCode
	}
	if m.Response != nil {
		r := *m.Response
		out.Response = &r
	}
	return out
}
