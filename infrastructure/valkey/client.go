package valkey

import (
	"context"
	"fmt"
	"strings"
	"time"

	valkeylib "github.com/valkey-io/valkey-go"
)

const connectTimeout = 5 * time.Second

// Config agrupa los parámetros de conexión a Valkey.
type Config struct {
	Address   string
	Password  string
	DB        int
	KeyPrefix string
}

// Client envuelve valkey-go con el prefijo de claves del proceso. Se crea una
// sola vez en el arranque y se inyecta como dependencia.
type Client struct {
	inner     valkeylib.Client
	keyPrefix string
}

// NewClient abre la conexión y la verifica con un ping acotado. El caller es
// responsable de llamar Close().
func NewClient(cfg Config) (*Client, error) {
	opts := valkeylib.ClientOption{
		InitAddress: []string{cfg.Address},
		SelectDB:    cfg.DB,
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	inner, err := valkeylib.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := inner.Do(ctx, inner.B().Ping().Build()).Error(); err != nil {
		inner.Close()
		return nil, fmt.Errorf("failed to ping valkey: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}

	return &Client{inner: inner, keyPrefix: prefix}, nil
}

// Inner expone el cliente valkey-go crudo para construir comandos.
func (c *Client) Inner() valkeylib.Client {
	return c.inner
}

func (c *Client) Close() {
	if c.inner != nil {
		c.inner.Close()
	}
}

// Key construye una clave con el prefijo del proceso.
// Ejemplo: Key("flowsession", "acme") -> "azinbox:flowsession:acme"
func (c *Client) Key(parts ...string) string {
	if len(parts) == 0 {
		return strings.TrimSuffix(c.keyPrefix, ":")
	}
	return c.keyPrefix + strings.Join(parts, ":")
}

// Ping verifica la conexión; usado por el endpoint de health.
func (c *Client) Ping(ctx context.Context) error {
	return c.inner.Do(ctx, c.inner.B().Ping().Build()).Error()
}
