package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/repository"
)

var _ repository.MessageRepository = (*MessageRepo)(nil)

const messageColumns = `id, company_code, type, content, status, response, created_at, updated_at`

// MessageRepo implementación del puerto MessageRepository sobre PostgreSQL.
type MessageRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool, tx: NewTxRunner(pool)}
}

// Create persiste el mensaje. ID repetido → domain.ErrDuplicate (el caso de uso regenera).
func (r *MessageRepo) Create(ctx context.Context, m *entity.Message) error {
	query := `INSERT INTO messages (` + messageColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query,
		m.ID, m.CompanyCode, string(m.Type), m.Content, string(m.Status), m.Response, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *MessageRepo) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	m, err := scanMessage(r.pool.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	return m, nil
}

// UpdateLocked bloquea la fila (SELECT ... FOR UPDATE), aplica fn y guarda estado y respuesta
// en la misma transacción.
func (r *MessageRepo) UpdateLocked(ctx context.Context, id string, fn func(m *entity.Message) error) (*entity.Message, error) {
	var out *entity.Message
	err := r.tx.Run(ctx, func(q Querier) error {
		m, err := scanMessage(q.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if isNoRows(err) {
				return nil
			}
			return fmt.Errorf("lock message: %w", err)
		}
		if err := fn(m); err != nil {
			return err
		}
		if _, err := q.Exec(ctx,
			`UPDATE messages SET status = $2, response = $3, updated_at = $4 WHERE id = $1`,
			id, string(m.Status), m.Response, m.UpdatedAt,
		); err != nil {
			return fmt.Errorf("update message: %w", err)
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List filtra por empresa y estado (vacío = todos), más recientes primero.
func (r *MessageRepo) List(ctx context.Context, f repository.MessageFilter) ([]*entity.Message, int, error) {
	const where = ` WHERE ($1 = '' OR company_code = $1) AND ($2 = '' OR status = $2)`
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages`+where, f.CompanyCode, string(f.Status)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}

	query := `SELECT ` + messageColumns + ` FROM messages` + where + ` ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, f.CompanyCode, string(f.Status), limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan message: %w", err)
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}

func scanMessage(row rowScanner) (*entity.Message, error) {
	var m entity.Message
	var typ, status string
	if err := row.Scan(&m.ID, &m.CompanyCode, &typ, &m.Content, &status, &m.Response, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Type = entity.MessageType(typ)
	m.Status = entity.MessageStatus(status)
	return &m, nil
}
