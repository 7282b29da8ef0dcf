package entity

import (
	"strings"
	"time"
)

// MaxMessageLength longitud máxima del contenido, en caracteres.
const MaxMessageLength = 1000

// MessageType categoría del feedback.
type MessageType string

const (
	MessageTypeComplaint  MessageType = "complaint"
	MessageTypePraise     MessageType = "praise"
	MessageTypeSuggestion MessageType = "suggestion"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeComplaint, MessageTypePraise, MessageTypeSuggestion:
		return true
	}
	return false
}

// MessageStatus estado del flujo de atención.
type MessageStatus string

const (
	MessageStatusNew        MessageStatus = "new"
	MessageStatusInProgress MessageStatus = "in_progress"
	MessageStatusResolved   MessageStatus = "resolved"
)

func (s MessageStatus) Valid() bool {
	switch s {
	case MessageStatusNew, MessageStatusInProgress, MessageStatusResolved:
		return true
	}
	return false
}

// ParseMessageStatus normaliza mayúsculas y guiones ("In-Progress" → in_progress).
// El resultado puede no ser válido; compruébese con Valid.
func ParseMessageStatus(s string) MessageStatus {
	return MessageStatus(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
}

// Solo avance: resolved es terminal y nunca se vuelve a new.
var messageTransitions = map[MessageStatus][]MessageStatus{
	MessageStatusNew:        {MessageStatusInProgress, MessageStatusResolved},
	MessageStatusInProgress: {MessageStatusResolved},
}

// CanAdvance informa si from → to es una transición legal del mensaje.
func CanAdvance(from, to MessageStatus) bool {
	for _, s := range messageTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Message feedback anónimo. El ID es la única credencial del remitente.
type Message struct {
	ID          string
	CompanyCode string
	Type        MessageType
	Content     string
	Status      MessageStatus
	Response    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (m *Message) Clone() *Message {
	out := *m
	if m.Response != nil {
		r := *m.Response
		out.Response = &r
	}
	return &out
}
