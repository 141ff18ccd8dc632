package domain

import "time"

// ConversationMode indica quién atiende la conversación.
type ConversationMode string

const (
	ModeBot   ConversationMode = "BOT"
	ModeHuman ConversationMode = "HUMAN"
)

// Conversation es el hilo entre un tenant y un número de teléfono externo.
// Existe a lo sumo una conversación viva por (tenant_id, phone_number);
// el soft-delete es reversible vía Restore, que además fuerza modo BOT.
type Conversation struct {
	ID           int64            `json:"id"`
	TenantID     int64            `json:"tenant_id"`
	PhoneNumber  string           `json:"phone_number"`
	Mode         ConversationMode `json:"mode"`
	HumanHandled bool             `json:"human_handled"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    *time.Time       `json:"deleted_at,omitempty"`
}

func (c *Conversation) IsDeleted() bool {
	return c.DeletedAt != nil
}

// ConversationSummary es la fila que consume el inbox web: la conversación
// más los datos del último mensaje para pintar la lista.
type ConversationSummary struct {
	Conversation
	MessageCount         int64  `json:"message_count"`
	LastMessage          string `json:"last_message"`
	LastMessageDirection string `json:"last_message_direction"`
	Replied              bool   `json:"replied"`
}
