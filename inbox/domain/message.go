package domain

import "time"

// MessageDirection distingue mensajes entrantes del contacto y salientes
// del bot o del operador.
type MessageDirection string

const (
	DirectionInbound  MessageDirection = "inbound"
	DirectionOutbound MessageDirection = "outbound"
)

// Message es inmutable una vez creado. El ID monotónico es el cursor de
// paginación; created_at puede colisionar al milisegundo y solo se usa para
// mostrar.
type Message struct {
	ID               int64            `json:"id"`
	ConversationID   int64            `json:"conversation_id"`
	Direction        MessageDirection `json:"direction"`
	Body             string           `json:"body"`
	TwilioMessageSID string           `json:"twilio_message_sid,omitempty"`
	MediaURL         *string          `json:"media_url,omitempty"`
	MediaType        *string          `json:"media_type,omitempty"`
	Latitude         *float64         `json:"latitude,omitempty"`
	Longitude        *float64         `json:"longitude,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

// MessagePage es el resultado del motor de paginación.
type MessagePage struct {
	Messages []*Message `json:"messages"`
	HasMore  bool       `json:"has_more"`
	// OldestMessageID es el cursor para pedir la página anterior
	// (nil cuando la página vino vacía).
	OldestMessageID *int64 `json:"oldest_message_id"`
	// Total es el conteo vivo de mensajes; solo informativo para la UI.
	Total int64 `json:"total"`
}
