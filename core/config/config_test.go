package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.AutomaticEnv()
	for _, key := range []string{"APP_PORT", "APP_DEBUG", "DB_DRIVER", "TENANT_DEFAULT_SLUG", "FLOW_SESSION_TTL_MINUTES"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.App.Port != "3000" {
		t.Errorf("App.Port = %q, want 3000", cfg.App.Port)
	}
	if cfg.App.Debug {
		t.Error("App.Debug = true por defecto")
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Tenant.DefaultSlug != "crunchypaws" {
		t.Errorf("Tenant.DefaultSlug = %q, want crunchypaws", cfg.Tenant.DefaultSlug)
	}
	if cfg.Flow.SessionTTLMinutes != 30 {
		t.Errorf("Flow.SessionTTLMinutes = %d, want 30", cfg.Flow.SessionTTLMinutes)
	}
	if Global != cfg {
		t.Error("LoadConfig() no publicó la configuración en Global")
	}
}

func TestLoadConfigAppliesEnvOverrides(t *testing.T) {
	viper.AutomaticEnv()
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_DEBUG", "true")
	t.Setenv("APP_BASIC_AUTH", "admin:secret, ops:pass")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("TENANT_DEFAULT_SLUG", "dkape")
	t.Setenv("ENABLE_TWILIO_MOCK", "true")
	t.Setenv("FLOW_SESSION_TTL_MINUTES", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.App.Port != "9090" {
		t.Errorf("App.Port = %q, want 9090", cfg.App.Port)
	}
	if !cfg.App.Debug {
		t.Error("App.Debug = false, el override de entorno no aplicó")
	}
	if len(cfg.App.BasicAuth) != 2 || cfg.App.BasicAuth[0] != "admin:secret" || cfg.App.BasicAuth[1] != "ops:pass" {
		t.Errorf("App.BasicAuth = %v, want [admin:secret ops:pass]", cfg.App.BasicAuth)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Database.Driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Database.Port != 5433 {
		t.Errorf("Database.Port = %d, want 5433", cfg.Database.Port)
	}
	if cfg.Tenant.DefaultSlug != "dkape" {
		t.Errorf("Tenant.DefaultSlug = %q, want dkape", cfg.Tenant.DefaultSlug)
	}
	if !cfg.Twilio.ForceMock {
		t.Error("Twilio.ForceMock = false, el override de entorno no aplicó")
	}
	if cfg.Flow.SessionTTLMinutes != 5 {
		t.Errorf("Flow.SessionTTLMinutes = %d, want 5", cfg.Flow.SessionTTLMinutes)
	}
}
