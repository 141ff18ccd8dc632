package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	coreconfig "github.com/AzielCF/az-inbox/core/config"
	"github.com/AzielCF/az-inbox/ui/rest"
	"github.com/AzielCF/az-inbox/ui/rest/middleware"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Serve the inbox HTTP API",
	Long:  `Expone el webhook de Twilio y la API del inbox sobre HTTP.`,
	Run:   restServer,
}

func init() {
	rootCmd.AddCommand(restCmd)
}

func restServer(_ *cobra.Command, _ []string) {
	cfg := coreconfig.Global

	fiberConfig := fiber.Config{
		Network:               "tcp",
		AppName:               "Az-Inbox Engine",
		DisableStartupMessage: false,
		ServerHeader:          "Hidden",
	}

	// Con proxies confiables el tenant se resuelve desde X-Forwarded-Host.
	if len(cfg.App.TrustedProxies) > 0 {
		fiberConfig.EnableTrustedProxyCheck = true
		fiberConfig.TrustedProxies = cfg.App.TrustedProxies
		fiberConfig.ProxyHeader = fiber.HeaderXForwardedHost
	}

	app := fiber.New(fiberConfig)

	app.Use(requestid.New())
	app.Use(cors.New())
	app.Use(middleware.Recovery())
	app.Use(limiter.New(limiter.Config{
		Max:        1000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	if cfg.App.Debug {
		app.Use(logger.New())
	}

	// Health va antes del middleware de tenant: el balanceador no manda
	// Host de tienda.
	rest.InitRestHealth(app.Group(cfg.App.BasePath), tenantCache, vkClient)

	tenantMiddleware := middleware.Tenant(tenantCache, cfg.Tenant.DefaultSlug)

	webhookGroup := app.Group(cfg.App.BasePath + "/webhook")
	webhookGroup.Use(tenantMiddleware)
	rest.InitRestWebhook(webhookGroup, inboxRouter)

	apiGroup := app.Group(cfg.App.BasePath + "/api")
	apiGroup.Use(tenantMiddleware)
	rest.InitRestConversation(apiGroup, inboxService)

	// Admin con basicauth, sin resolución de tenant.
	if len(cfg.App.BasicAuth) > 0 {
		account := make(map[string]string)
		for _, credential := range cfg.App.BasicAuth {
			ba := strings.Split(credential, ":")
			if len(ba) != 2 {
				logrus.Fatalln("Basic auth is not valid, please use the format <user>:<secret>")
			}
			account[ba[0]] = ba[1]
		}

		adminGroup := app.Group(cfg.App.BasePath + "/admin")
		adminGroup.Use(basicauth.New(basicauth.Config{Users: account}))
		rest.InitRestTenantAdmin(adminGroup, tenantCache)
	} else {
		logrus.Warn("[REST] APP_BASIC_AUTH not set; admin endpoints disabled")
	}

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "API Endpoint not found",
			"path":  c.Path(),
		})
	})

	// Graceful shutdown handler
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[REST] Reception of termination signal, shutting down gracefully...")
		if err := app.Shutdown(); err != nil {
			logrus.Errorf("[REST] Error during Fiber shutdown: %v", err)
		}
		StopApp()
	}()

	if err := app.Listen(":" + cfg.App.Port); err != nil {
		logrus.Fatalln("Failed to start: ", err.Error())
	}
}
