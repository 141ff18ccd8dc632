package domain

import "context"

// TenantRepository define las operaciones de persistencia para tenants.
type TenantRepository interface {
	InitSchema(ctx context.Context) error

	Create(ctx context.Context, tenant *Tenant) error
	GetByID(ctx context.Context, id int64) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	GetAll(ctx context.Context) ([]*Tenant, error)
	Update(ctx context.Context, tenant *Tenant) error
	Delete(ctx context.Context, id int64) error
}
