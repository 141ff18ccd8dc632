package rest

import (
	"errors"

	inboxDomain "github.com/AzielCF/az-inbox/inbox/domain"
	pkgError "github.com/AzielCF/az-inbox/pkg/error"
)

// wrapInboxErr traduce los errores sentinela del dominio al taxónomo HTTP
// del middleware de recovery. Errores desconocidos pasan sin tocar (500).
func wrapInboxErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, inboxDomain.ErrConversationNotFound):
		return pkgError.NotFoundError(err.Error())
	case errors.Is(err, inboxDomain.ErrOwnershipMismatch):
		return pkgError.ForbiddenError(err.Error())
	case errors.Is(err, inboxDomain.ErrAlreadyDeleted), errors.Is(err, inboxDomain.ErrNotDeleted):
		return pkgError.BadRequestError(err.Error())
	case errors.Is(err, inboxDomain.ErrInvalidCursor):
		return pkgError.ValidationError(err.Error())
	}
	return err
}
