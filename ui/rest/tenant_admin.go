package rest

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	pkgError "github.com/AzielCF/az-inbox/pkg/error"
	"github.com/AzielCF/az-inbox/pkg/utils"
	"github.com/AzielCF/az-inbox/tenants/application"
	tenantDomain "github.com/AzielCF/az-inbox/tenants/domain"
)

// TenantAdmin expone la administración de tenants y del cache. Se monta bajo
// /admin con basicauth; no pasa por el middleware de resolución de tenant.
type TenantAdmin struct {
	Cache *application.Cache
}

func InitRestTenantAdmin(app fiber.Router, cache *application.Cache) TenantAdmin {
	rest := TenantAdmin{Cache: cache}
	app.Get("/tenants", rest.List)
	app.Post("/tenants/refresh", rest.RefreshAll)
	app.Post("/tenants/:slug/refresh", rest.Refresh)
	return rest
}

func (controller *TenantAdmin) List(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch tenants",
		Results: controller.Cache.All(),
	})
}

func (controller *TenantAdmin) Refresh(c *fiber.Ctx) error {
	slug := c.Params("slug")

	err := controller.Cache.Refresh(c.UserContext(), slug)
	if err != nil {
		if errors.Is(err, tenantDomain.ErrStoreUnavailable) {
			panic(pkgError.StoreUnavailableError("tenant store unavailable"))
		}
		utils.PanicIfNeeded(err)
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Tenant cache refreshed",
	})
}

func (controller *TenantAdmin) RefreshAll(c *fiber.Ctx) error {
	err := controller.Cache.RefreshAll(c.UserContext())
	if err != nil {
		if errors.Is(err, tenantDomain.ErrStoreUnavailable) {
			panic(pkgError.StoreUnavailableError("tenant store unavailable"))
		}
		utils.PanicIfNeeded(err)
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Tenant cache refreshed",
	})
}
