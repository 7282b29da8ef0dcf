package dto

import "time"

// SubmitMessageRequest envío anónimo. Longitud y tipo se validan en el caso de uso.
type SubmitMessageRequest struct {
	CompanyCode string `json:"company_code" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Content     string `json:"content" validate:"required"`
}

// UpdateMessageStatusRequest cambio de estado con respuesta opcional.
type UpdateMessageStatusRequest struct {
	Status   string  `json:"status" validate:"required"`
	Response *string `json:"response" validate:"omitempty,max=2000"`
}

// MessageResponse salida de un mensaje. CompanyCode se omite en la consulta pública.
type MessageResponse struct {
	ID          string    `json:"id"`
	CompanyCode string    `json:"company_code,omitempty"`
	Type        string    `json:"type"`
	Content     string    `json:"content"`
	Status      string    `json:"status"`
	Response    *string   `json:"response,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MessageListResponse lista paginada de mensajes.
type MessageListResponse struct {
	Items []MessageResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
