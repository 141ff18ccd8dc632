package domain

import "time"

// Environment indica contra qué canal de Twilio opera el tenant.
type Environment string

const (
	EnvSandbox    Environment = "sandbox"
	EnvProduction Environment = "production"
)

// Tenant representa una tienda aislada, identificada por el subdominio (slug).
// Las credenciales de Twilio pueden estar vacías; en ese caso se usan las
// credenciales globales del proceso como fallback.
type Tenant struct {
	ID               int64       `json:"id"`
	Slug             string      `json:"slug"`
	Name             string      `json:"name"`
	TwilioAccountSID string      `json:"twilio_account_sid,omitempty"`
	TwilioAuthToken  string      `json:"-"`
	WhatsappFrom     string      `json:"whatsapp_from,omitempty"`
	Environment      Environment `json:"environment"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// HasCredentials reports whether the tenant carries its own Twilio
// credentials or must fall back to the process-wide defaults.
func (t *Tenant) HasCredentials() bool {
	return t.TwilioAccountSID != "" && t.TwilioAuthToken != ""
}
