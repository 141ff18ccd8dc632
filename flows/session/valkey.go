package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	valkeylib "github.com/valkey-io/valkey-go"

	"github.com/AzielCF/az-inbox/infrastructure/valkey"
)

// ValkeyStore implementa Store sobre Valkey para despliegues con más de una
// réplica del proceso. Valores JSON, claves con el prefijo del proceso.
type ValkeyStore struct {
	client *valkey.Client
	prefix string
}

func NewValkeyStore(client *valkey.Client) *ValkeyStore {
	return &ValkeyStore{
		client: client,
		prefix: client.Key("flowsession") + ":",
	}
}

func (s *ValkeyStore) fullKey(key string) string {
	return s.prefix + key
}

func (s *ValkeyStore) inner() valkeylib.Client {
	return s.client.Inner()
}

func (s *ValkeyStore) Save(ctx context.Context, key string, entry *Entry, ttl time.Duration) error {
	entry.ExpireAt = time.Now().Add(ttl)

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal flow session: %w", err)
	}

	cmd := s.inner().B().Set().
		Key(s.fullKey(key)).
		Value(string(data)).
		Ex(ttl).
		Build()

	if err := s.inner().Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to save flow session: %w", err)
	}
	return nil
}

func (s *ValkeyStore) Get(ctx context.Context, key string) (*Entry, error) {
	cmd := s.inner().B().Get().Key(s.fullKey(key)).Build()

	data, err := s.inner().Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkeylib.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get flow session: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flow session: %w", err)
	}
	return &entry, nil
}

func (s *ValkeyStore) Delete(ctx context.Context, key string) error {
	cmd := s.inner().B().Del().Key(s.fullKey(key)).Build()
	if err := s.inner().Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to delete flow session: %w", err)
	}
	return nil
}
