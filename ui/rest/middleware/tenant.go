package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	pkgError "github.com/AzielCF/az-inbox/pkg/error"
	"github.com/AzielCF/az-inbox/tenants/application"
	tenantDomain "github.com/AzielCF/az-inbox/tenants/domain"
)

// TenantContextKey es la clave en ctx.Locals donde queda el tenant resuelto.
const TenantContextKey = "tenant"

// Tenant resuelve el tenant de la request a partir del host (X-Forwarded-Host
// tiene prioridad sobre Host) y lo deja en los locals del contexto. Todas las
// rutas /webhook y /api pasan por aquí.
func Tenant(cache *application.Cache, defaultSlug string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		slug, err := tenantDomain.ResolveSlug(ctx.Get("Host", string(ctx.Request().Host())), ctx.Get("X-Forwarded-Host"), defaultSlug)
		if err != nil {
			panic(pkgError.ValidationError(err.Error()))
		}

		tenant, err := cache.Get(ctx.UserContext(), slug)
		if err != nil {
			switch {
			case errors.Is(err, tenantDomain.ErrTenantNotFound):
				panic(pkgError.NotFoundError("store not found: " + slug))
			case errors.Is(err, tenantDomain.ErrStoreUnavailable):
				logrus.WithError(err).Error("[TENANT] Store unavailable while resolving tenant")
				panic(pkgError.StoreUnavailableError("tenant store unavailable"))
			default:
				panic(err)
			}
		}

		ctx.Locals(TenantContextKey, tenant)
		return ctx.Next()
	}
}

// TenantFromCtx recupera el tenant que dejó el middleware. Panic si la ruta
// no pasó por Tenant(); eso es un error de cableado, no de la request.
func TenantFromCtx(ctx *fiber.Ctx) *tenantDomain.Tenant {
	tenant, ok := ctx.Locals(TenantContextKey).(*tenantDomain.Tenant)
	if !ok || tenant == nil {
		panic(pkgError.InternalServerError("tenant missing from request context"))
	}
	return tenant
}
