package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AzielCF/az-inbox/tenants/domain"
	"github.com/sirupsen/logrus"
)

// Cache es el caché en memoria de tenants, consultado en cada request para
// resolver credenciales sin golpear la base de datos.
//
// Es una instancia única de larga vida creada en el arranque e inyectada a
// los handlers; no hay estado global escondido. Todas las operaciones son
// seguras bajo concurrencia: las lecturas de entradas ya cacheadas nunca se
// bloquean detrás de una consulta a la base por un miss ajeno.
type Cache struct {
	repo domain.TenantRepository

	mu          sync.RWMutex
	entries     map[string]*domain.Tenant
	initialized bool
}

func NewCache(repo domain.TenantRepository) *Cache {
	return &Cache{
		repo:    repo,
		entries: make(map[string]*domain.Tenant),
	}
}

// Initialize carga todos los tenants una sola vez. Llamadas posteriores son
// no-op mientras la primera haya tenido éxito.
func (c *Cache) Initialize(ctx context.Context) error {
	c.mu.RLock()
	done := c.initialized
	c.mu.RUnlock()
	if done {
		logrus.Debug("[TENANT CACHE] cache already initialized")
		return nil
	}

	tenants, err := c.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	c.mu.Lock()
	if !c.initialized {
		c.entries = make(map[string]*domain.Tenant, len(tenants))
		for _, t := range tenants {
			c.entries[t.Slug] = t
		}
		c.initialized = true
	}
	c.mu.Unlock()

	logrus.Infof("[TENANT CACHE] initialized with %d tenant(s)", len(tenants))
	for _, t := range tenants {
		logrus.Debugf("[TENANT CACHE] %s: id=%d credentials=%v from=%v env=%s",
			t.Slug, t.ID, t.HasCredentials(), t.WhatsappFrom != "", t.Environment)
	}
	return nil
}

// Get retorna el tenant del caché. En un miss (tenant creado después del
// arranque, o caché sin inicializar) consulta la base y puebla el caché como
// efecto secundario. Un fallo del store nunca cachea un resultado negativo.
func (c *Cache) Get(ctx context.Context, slug string) (*domain.Tenant, error) {
	c.mu.RLock()
	if c.initialized {
		if t, ok := c.entries[slug]; ok {
			c.mu.RUnlock()
			return t, nil
		}
	}
	c.mu.RUnlock()

	// Read-through: la consulta corre fuera del lock para no bloquear
	// lecturas concurrentes de entradas ya cacheadas.
	logrus.Infof("[TENANT CACHE] miss for '%s', querying store", slug)
	t, err := c.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	c.mu.Lock()
	c.entries[t.Slug] = t
	c.mu.Unlock()

	logrus.Infof("[TENANT CACHE] tenant '%s' added to cache", slug)
	return t, nil
}

// Refresh vuelve a leer un tenant del store. Si el tenant ya no existe se
// elimina del caché (caso de borrado administrativo).
func (c *Cache) Refresh(ctx context.Context, slug string) error {
	t, err := c.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			c.mu.Lock()
			delete(c.entries, slug)
			c.mu.Unlock()
			logrus.Infof("[TENANT CACHE] tenant '%s' removed from cache (gone from store)", slug)
			return nil
		}
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	c.mu.Lock()
	c.entries[slug] = t
	c.mu.Unlock()
	logrus.Infof("[TENANT CACHE] tenant '%s' refreshed", slug)
	return nil
}

// RefreshAll limpia y recarga el caché completo.
func (c *Cache) RefreshAll(ctx context.Context) error {
	tenants, err := c.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	c.mu.Lock()
	c.entries = make(map[string]*domain.Tenant, len(tenants))
	for _, t := range tenants {
		c.entries[t.Slug] = t
	}
	c.initialized = true
	c.mu.Unlock()

	logrus.Infof("[TENANT CACHE] full refresh, %d tenant(s)", len(tenants))
	return nil
}

// All retorna los tenants actualmente cacheados.
func (c *Cache) All() []*domain.Tenant {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*domain.Tenant, 0, len(c.entries))
	for _, t := range c.entries {
		out = append(out, t)
	}
	return out
}

func (c *Cache) IsInitialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}
