package domain

import "errors"

var (
	// ErrTenantNotFound se retorna cuando el slug no corresponde a ningún tenant
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrDuplicateTenant se retorna al intentar crear un tenant con un slug existente
	ErrDuplicateTenant = errors.New("tenant with this slug already exists")

	// ErrStoreUnavailable marca un fallo transitorio del backing store.
	// El caller debe responder 5xx sin cachear un resultado negativo.
	ErrStoreUnavailable = errors.New("tenant store unavailable")

	// ErrMissingHost se retorna cuando el request no trae ningún header Host
	ErrMissingHost = errors.New("missing host header")

	// ErrInvalidSubdomain se retorna cuando el host no contiene un subdominio válido
	ErrInvalidSubdomain = errors.New("invalid tenant subdomain")
)
