package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AzielCF/az-inbox/core/database"
	"github.com/AzielCF/az-inbox/infrastructure/valkey"
	"github.com/AzielCF/az-inbox/pkg/utils"
	"github.com/AzielCF/az-inbox/tenants/application"
)

type Health struct {
	Cache  *application.Cache
	Valkey *valkey.Client
}

// InitRestHealth registra el health check. Va fuera del middleware de tenant:
// los balanceadores lo consultan sin Host de tienda. vk puede ser nil cuando
// las sesiones de flow corren en memoria.
func InitRestHealth(app fiber.Router, cache *application.Cache, vk *valkey.Client) Health {
	rest := Health{Cache: cache, Valkey: vk}
	app.Get("/health", rest.GetStatus)
	return rest
}

func (controller *Health) GetStatus(c *fiber.Ctx) error {
	dbOK := true
	if sqlDB, err := database.SQLDB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
		dbOK = false
	}

	status := fiber.Map{
		"database":     dbOK,
		"tenant_cache": controller.Cache.IsInitialized(),
	}
	if controller.Valkey != nil {
		status["valkey"] = controller.Valkey.Ping(c.UserContext()) == nil
	}

	if !dbOK {
		return c.Status(503).JSON(utils.ResponseData{
			Status:  503,
			Code:    "STORE_UNAVAILABLE",
			Message: "Database unreachable",
			Results: status,
		})
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Service healthy",
		Results: status,
	})
}
