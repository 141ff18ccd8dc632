package domain

import "errors"

var (
	// ErrConversationNotFound se retorna cuando el id no existe
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrOwnershipMismatch se retorna cuando la conversación existe pero
	// pertenece a otro tenant. Nunca se filtra el contenido.
	ErrOwnershipMismatch = errors.New("conversation belongs to another tenant")

	// ErrAlreadyDeleted se retorna al soft-delete de una conversación ya eliminada
	ErrAlreadyDeleted = errors.New("conversation is already deleted")

	// ErrNotDeleted se retorna al restore de una conversación viva
	ErrNotDeleted = errors.New("conversation is not deleted")

	// ErrInvalidCursor se retorna ante un beforeId o limit inválido
	ErrInvalidCursor = errors.New("invalid pagination cursor")

	// ErrMessageNotFound se retorna cuando el id de mensaje no existe
	ErrMessageNotFound = errors.New("message not found")
)
