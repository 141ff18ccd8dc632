package cmd

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/AzielCF/az-inbox/core/config"
	"github.com/AzielCF/az-inbox/core/database"
	"github.com/AzielCF/az-inbox/flows"
	"github.com/AzielCF/az-inbox/flows/session"
	inboxApp "github.com/AzielCF/az-inbox/inbox/application"
	inboxRepo "github.com/AzielCF/az-inbox/inbox/repository"
	"github.com/AzielCF/az-inbox/infrastructure/twilio"
	"github.com/AzielCF/az-inbox/infrastructure/valkey"
	"github.com/AzielCF/az-inbox/pkg/utils"
	tenantApp "github.com/AzielCF/az-inbox/tenants/application"
	tenantRepo "github.com/AzielCF/az-inbox/tenants/repository"
)

var (
	db          *gorm.DB
	vkClient    *valkey.Client
	memSessions *session.MemoryStore

	tenantCache  *tenantApp.Cache
	inboxService *inboxApp.Service
	inboxRouter  *inboxApp.Router
)

// Flag overrides; aplican encima de las variables de entorno.
var (
	flagPort          string
	flagDebug         bool
	flagBasicAuth     []string
	flagDefaultTenant string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "az-inbox",
	Short: "Multi-tenant WhatsApp inbox API",
	Long: `Inbox multi-tenant sobre Twilio WhatsApp: webhook de mensajes
entrantes con bot de primera respuesta por tienda y API HTTP para que un
operador humano atienda las conversaciones.`,
}

func init() {
	// Load environment variables first
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initEnvConfig, initApp)
}

func initFlags() {
	rootCmd.PersistentFlags().StringVarP(
		&flagPort,
		"port", "p",
		"",
		"change port number with --port <number> | example: --port=8080",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&flagDebug,
		"debug", "d",
		false,
		"hide or displaying log with --debug <true/false> | example: --debug=true",
	)
	rootCmd.PersistentFlags().StringSliceVarP(
		&flagBasicAuth,
		"basic-auth", "b",
		nil,
		"basic auth credential for admin endpoints | -b=yourUsername:yourPassword",
	)
	rootCmd.PersistentFlags().StringVarP(
		&flagDefaultTenant,
		"default-tenant", "",
		"",
		`tenant slug used for loopback hosts during development --default-tenant <slug> | example: --default-tenant="crunchypaws"`,
	)
}

// initEnvConfig loads configuration from environment variables
func initEnvConfig() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalln("Failed to load configuration: ", err.Error())
	}

	if flagPort != "" {
		cfg.App.Port = flagPort
	}
	if flagDebug {
		cfg.App.Debug = true
	}
	if len(flagBasicAuth) > 0 {
		cfg.App.BasicAuth = flagBasicAuth
	}
	if flagDefaultTenant != "" {
		cfg.Tenant.DefaultSlug = flagDefaultTenant
	}

	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.Debugf("[APP] settings: %v", config.GetAllSettings())
	}
}

// initApp wires repositories, cache, transport and services.
func initApp() {
	cfg := config.Global
	ctx := context.Background()

	var err error
	db, err = database.NewDatabase(cfg)
	if err != nil {
		logrus.Fatalln("Failed to connect database: ", err.Error())
	}

	tenants := tenantRepo.NewTenantGormRepository(db)
	conversations := inboxRepo.NewConversationGormRepository(db)
	messages := inboxRepo.NewMessageGormRepository(db)

	if err := tenants.InitSchema(ctx); err != nil {
		logrus.Fatalln("Failed to migrate tenants schema: ", err.Error())
	}
	if err := conversations.InitSchema(ctx); err != nil {
		logrus.Fatalln("Failed to migrate conversations schema: ", err.Error())
	}
	if err := messages.InitSchema(ctx); err != nil {
		logrus.Fatalln("Failed to migrate messages schema: ", err.Error())
	}

	tenantCache = tenantApp.NewCache(tenants)
	// El arranque no depende del store: las requests repueblan el cache
	// vía read-through cuando vuelva.
	if err := tenantCache.Initialize(ctx); err != nil {
		logrus.WithError(err).Warn("[APP] Tenant cache population failed at startup")
	}

	var sessions session.Store
	if cfg.Database.ValkeyEnabled {
		vkClient, err = valkey.NewClient(valkey.Config{
			Address:   cfg.Database.ValkeyAddress,
			Password:  cfg.Database.ValkeyPassword,
			DB:        cfg.Database.ValkeyDB,
			KeyPrefix: cfg.Database.ValkeyKeyPrefix,
		})
		if err != nil {
			logrus.WithError(err).Warn("[APP] Valkey unavailable, falling back to in-memory flow sessions")
		} else {
			sessions = session.NewValkeyStore(vkClient)
			logrus.Info("[APP] Flow sessions backed by Valkey")
		}
	}
	if sessions == nil {
		memSessions = session.NewMemoryStore()
		sessions = memSessions
	}

	sender := twilio.NewClient(cfg.Twilio, cfg.IsProduction())

	registry := flows.NewRegistry(flows.Deps{
		Sender:        sender,
		Conversations: conversations,
		Messages:      messages,
		Sessions:      sessions,
		SessionTTL:    time.Duration(cfg.Flow.SessionTTLMinutes) * time.Minute,
	})

	inboxService = inboxApp.NewService(conversations, messages, sender)
	inboxRouter = inboxApp.NewRouter(conversations, messages, registry)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// StopApp performs a clean shutdown of all database connections and services.
func StopApp() {
	logrus.Info("[APP] Stopping application...")

	if vkClient != nil {
		vkClient.Close()
	}

	if memSessions != nil {
		memSessions.Close()
	}

	if sqlDB, err := database.SQLDB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logrus.Errorf("[APP] Error closing database: %v", err)
		}
	}

	logrus.Info("[APP] Application stopped cleanly.")
}
