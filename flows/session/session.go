package session

import (
	"context"
	"time"
)

// Entry es el estado de conversación del bot para un contacto concreto.
// Step identifica el punto del flujo ("ordering" mientras se captura un
// pedido); Data lleva pares libres que el flujo quiera recordar.
type Entry struct {
	Step     string            `json:"step"`
	Data     map[string]string `json:"data,omitempty"`
	ExpireAt time.Time         `json:"expire_at"`
}

// Store persiste el estado de flujo con TTL. Key recomendada:
// "<tenant_slug>|<phone_number>". Get retorna (nil, nil) cuando la clave no
// existe o expiró.
type Store interface {
	Save(ctx context.Context, key string, entry *Entry, ttl time.Duration) error
	Get(ctx context.Context, key string) (*Entry, error)
	Delete(ctx context.Context, key string) error
}
