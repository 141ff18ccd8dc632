package config

import "strings"

// GetAllSettings returns a map of the settings currently loaded in memory,
// useful for the admin/debug surface.
func GetAllSettings() map[string]any {
	if Global == nil {
		return map[string]any{}
	}
	return map[string]any{
		"app_version":         Global.App.Version,
		"app_debug":           Global.App.Debug,
		"app_environment":     Global.App.Environment,
		"db_driver":           Global.Database.Driver,
		"valkey_enabled":      Global.Database.ValkeyEnabled,
		"tenant_default_slug": Global.Tenant.DefaultSlug,
		"twilio_force_mock":   Global.Twilio.ForceMock,
		"flow_session_ttl":    Global.Flow.SessionTTLMinutes,
	}
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
