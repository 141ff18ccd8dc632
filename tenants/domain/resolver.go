package domain

import (
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// reserved first labels that never identify a tenant
var reservedLabels = map[string]struct{}{
	"localhost": {},
	"127":       {},
	"0":         {},
	"0.0.0.0":   {},
}

// ResolveSlug deriva el slug del tenant desde los headers Host del request.
//
// El header X-Forwarded-Host tiene prioridad sobre Host (escenario con proxy
// reverso). El primer label del hostname es el candidato:
//
//	"crunchypaws.inbox.tiendasgt.com" -> "crunchypaws"
//	"localhost:3333"                  -> defaultSlug (desarrollo local)
//	""                                -> ErrMissingHost
//
// Un host sin subdominio que no sea loopback produce ErrInvalidSubdomain.
func ResolveSlug(hostHeader, forwardedHostHeader, defaultSlug string) (string, error) {
	host := forwardedHostHeader
	if host == "" {
		host = hostHeader
	}
	if strings.TrimSpace(host) == "" {
		return "", ErrMissingHost
	}

	// Remover el puerto si existe ("localhost:3333" -> "localhost")
	hostWithoutPort := strings.TrimSpace(strings.SplitN(host, ":", 2)[0])
	if hostWithoutPort == "" {
		return "", ErrMissingHost
	}

	parts := strings.Split(hostWithoutPort, ".")
	candidate := strings.ToLower(strings.TrimSpace(parts[0]))

	if len(parts) < 2 {
		// Sin subdominio. En hosts de desarrollo usamos el tenant por defecto
		// para no romper el flujo local; cualquier otro host es un error.
		if isLoopback(candidate) && defaultSlug != "" {
			return defaultSlug, nil
		}
		return "", ErrInvalidSubdomain
	}

	if candidate == "" {
		return "", ErrInvalidSubdomain
	}
	if _, ok := reservedLabels[candidate]; ok {
		// "127.0.0.1" y similares: hay puntos pero no hay tenant.
		if defaultSlug != "" && isLoopback(candidate) {
			return defaultSlug, nil
		}
		return "", ErrInvalidSubdomain
	}
	if !slugPattern.MatchString(candidate) {
		return "", ErrInvalidSubdomain
	}

	return candidate, nil
}

func isLoopback(label string) bool {
	return label == "localhost" || label == "127" || label == "0" || label == "0.0.0.0"
}
