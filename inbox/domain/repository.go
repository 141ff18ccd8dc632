package domain

import "context"

// ConversationRepository define la persistencia de conversaciones.
//
// GetByID es deliberadamente agnóstico del tenant: la validación de
// pertenencia es responsabilidad de la capa de aplicación y debe ejecutarse
// en todos los endpoints que reciben un id.
type ConversationRepository interface {
	InitSchema(ctx context.Context) error

	// GetOrCreate es un upsert idempotente sobre (tenant_id, phone_number):
	// inserta en modo BOT o toca updated_at si la fila ya existe, incluso
	// eliminada. Dos requests simultáneos para un número nuevo producen
	// exactamente una fila.
	GetOrCreate(ctx context.Context, tenantID int64, phoneNumber string) (*Conversation, error)

	GetByID(ctx context.Context, id int64) (*Conversation, error)
	GetByPhone(ctx context.Context, tenantID int64, phoneNumber string) (*Conversation, error)

	// ListActive retorna las conversaciones vivas del tenant con el resumen
	// del último mensaje, ordenadas por updated_at descendente.
	ListActive(ctx context.Context, tenantID int64) ([]*ConversationSummary, error)

	// SetMode sobreescribe el modo sin condiciones (last-writer-wins).
	SetMode(ctx context.Context, id int64, mode ConversationMode) (*Conversation, error)

	// SoftDelete marca deleted_at; falla con ErrAlreadyDeleted si ya lo está.
	SoftDelete(ctx context.Context, id int64) error

	// Restore limpia deleted_at y fuerza modo BOT; falla con ErrNotDeleted
	// sobre una conversación viva.
	Restore(ctx context.Context, id int64) (*Conversation, error)

	// MarkHandled enciende human_handled; flag de una sola vía, solo reporting.
	MarkHandled(ctx context.Context, id int64) error
}

// MessageRepository define la persistencia de mensajes. Los mensajes nunca
// se actualizan ni se borran.
type MessageRepository interface {
	InitSchema(ctx context.Context) error

	Save(ctx context.Context, msg *Message) error
	GetByID(ctx context.Context, id int64) (*Message, error)

	// ListPage retorna hasta limit mensajes en orden descendente por id,
	// acotados por id < beforeID cuando beforeID > 0.
	ListPage(ctx context.Context, conversationID int64, limit int, beforeID int64) ([]*Message, error)

	CountByConversation(ctx context.Context, conversationID int64) (int64, error)
	HasOutbound(ctx context.Context, conversationID int64) (bool, error)
}
