package config

import "github.com/spf13/viper"

// Config holds all application configuration in a structured way.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Tenant   TenantConfig
	Twilio   TwilioConfig
	Flow     FlowConfig
}

type AppConfig struct {
	Version        string
	Port           string
	Debug          bool
	Environment    string // "development" or "production"
	BasicAuth      []string
	BasePath       string
	TrustedProxies []string
}

type DatabaseConfig struct {
	Driver   string // "postgres" or "sqlite"
	Host     string
	Port     int
	User     string
	Password string
	Name     string // File path for SQLite, DB name for Postgres

	ValkeyEnabled   bool
	ValkeyAddress   string
	ValkeyPassword  string
	ValkeyDB        int
	ValkeyKeyPrefix string
}

// TenantConfig controls subdomain resolution.
type TenantConfig struct {
	// DefaultSlug is used when the request comes from a loopback/dev host
	// without a subdomain (localhost:3333 during local development).
	DefaultSlug string
}

// TwilioConfig carries the process-wide fallback credentials. Tenants with
// credentials in the database take priority.
type TwilioConfig struct {
	AccountSID   string
	AuthToken    string
	WhatsappFrom string
	ForceMock    bool
}

type FlowConfig struct {
	SessionTTLMinutes int
}

// Global provides access to the loaded configuration (set once at startup).
var Global *Config

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// LoadConfig builds the defaults and applies the environment override layer
// on top. utils.LoadConfig wires viper to the process environment (and the
// optional .env file) before this runs.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Version:     "v1.0.0",
			Port:        "3000",
			Environment: "development",
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Name:            "storages/inbox.db",
			ValkeyAddress:   "127.0.0.1:6379",
			ValkeyKeyPrefix: "azinbox",
		},
		Tenant: TenantConfig{
			DefaultSlug: "crunchypaws",
		},
		Flow: FlowConfig{
			SessionTTLMinutes: 30,
		},
	}

	applyEnvOverrides(cfg)

	Global = cfg
	return cfg, nil
}

// applyEnvOverrides sobrepone el entorno a los defaults. viper mapea cada
// clave a su variable en mayúsculas (app_port -> APP_PORT).
func applyEnvOverrides(cfg *Config) {
	// Application settings
	if v := viper.GetString("app_port"); v != "" {
		cfg.App.Port = v
	}
	if viper.GetBool("app_debug") {
		cfg.App.Debug = true
	}
	if v := viper.GetString("app_env"); v != "" {
		cfg.App.Environment = v
	}
	if v := viper.GetString("app_base_path"); v != "" {
		cfg.App.BasePath = v
	}
	if v := viper.GetString("app_basic_auth"); v != "" {
		cfg.App.BasicAuth = splitNonEmpty(v)
	}
	if v := viper.GetString("app_trusted_proxies"); v != "" {
		cfg.App.TrustedProxies = splitNonEmpty(v)
	}

	// Database settings
	if v := viper.GetString("db_driver"); v != "" {
		cfg.Database.Driver = v
	}
	if v := viper.GetString("db_host"); v != "" {
		cfg.Database.Host = v
	}
	if v := viper.GetInt("db_port"); v != 0 {
		cfg.Database.Port = v
	}
	if v := viper.GetString("db_user"); v != "" {
		cfg.Database.User = v
	}
	if v := viper.GetString("db_password"); v != "" {
		cfg.Database.Password = v
	}
	if v := viper.GetString("db_name"); v != "" {
		cfg.Database.Name = v
	}

	// Valkey settings
	if viper.GetBool("valkey_enabled") {
		cfg.Database.ValkeyEnabled = true
	}
	if v := viper.GetString("valkey_address"); v != "" {
		cfg.Database.ValkeyAddress = v
	}
	if v := viper.GetString("valkey_password"); v != "" {
		cfg.Database.ValkeyPassword = v
	}
	if v := viper.GetInt("valkey_db"); v != 0 {
		cfg.Database.ValkeyDB = v
	}
	if v := viper.GetString("valkey_key_prefix"); v != "" {
		cfg.Database.ValkeyKeyPrefix = v
	}

	// Tenant / Twilio / Flow settings
	if v := viper.GetString("tenant_default_slug"); v != "" {
		cfg.Tenant.DefaultSlug = v
	}
	if v := viper.GetString("twilio_account_sid"); v != "" {
		cfg.Twilio.AccountSID = v
	}
	if v := viper.GetString("twilio_auth_token"); v != "" {
		cfg.Twilio.AuthToken = v
	}
	if v := viper.GetString("whatsapp_from"); v != "" {
		cfg.Twilio.WhatsappFrom = v
	}
	if viper.GetBool("enable_twilio_mock") {
		cfg.Twilio.ForceMock = true
	}
	if v := viper.GetInt("flow_session_ttl_minutes"); v > 0 {
		cfg.Flow.SessionTTLMinutes = v
	}
}
