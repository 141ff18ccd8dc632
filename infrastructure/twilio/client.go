package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AzielCF/az-inbox/core/config"
	tenantDomain "github.com/AzielCF/az-inbox/tenants/domain"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	httpTimeout = 15 * time.Second
	apiBaseURL  = "https://api.twilio.com/2010-04-01"
)

var httpClient = &http.Client{Timeout: httpTimeout}

// SendResult es el resultado de un intento de envío. Delivered en false con
// err nil indica un envío simulado (credenciales ausentes fuera de
// producción o mock forzado por configuración).
type SendResult struct {
	SID       string `json:"sid"`
	Delivered bool   `json:"delivered"`
}

// Sender abstrae el envío de mensajes salientes por WhatsApp. El destinatario
// va en formato "whatsapp:+<dígitos>".
type Sender interface {
	SendText(ctx context.Context, tenant *tenantDomain.Tenant, to, body string) (*SendResult, error)
	SendMedia(ctx context.Context, tenant *tenantDomain.Tenant, to, body, mediaURL string) (*SendResult, error)
}

type resolvedCredentials struct {
	accountSID string
	authToken  string
	from       string
}

// Client envía mensajes vía la API REST de Twilio. Las credenciales del
// tenant tienen prioridad; si están vacías se usan las globales del proceso.
type Client struct {
	cfg config.TwilioConfig
	// production bloquea los envíos simulados: sin credenciales es error.
	production bool
}

func NewClient(cfg config.TwilioConfig, production bool) *Client {
	return &Client{cfg: cfg, production: production}
}

func (c *Client) SendText(ctx context.Context, tenant *tenantDomain.Tenant, to, body string) (*SendResult, error) {
	return c.send(ctx, tenant, to, body, "")
}

func (c *Client) SendMedia(ctx context.Context, tenant *tenantDomain.Tenant, to, body, mediaURL string) (*SendResult, error) {
	return c.send(ctx, tenant, to, body, mediaURL)
}

func (c *Client) send(ctx context.Context, tenant *tenantDomain.Tenant, to, body, mediaURL string) (*SendResult, error) {
	creds := c.resolveCredentials(tenant)

	if c.cfg.ForceMock || creds.accountSID == "" || creds.authToken == "" {
		if c.production && !c.cfg.ForceMock {
			return nil, fmt.Errorf("no twilio credentials available for tenant %s in production", tenant.Slug)
		}
		return c.simulatedSend(tenant, to, body), nil
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", creds.from)
	form.Set("Body", body)
	if mediaURL != "" {
		form.Set("MediaUrl", mediaURL)
	}

	targetURL := fmt.Sprintf("%s/Accounts/%s/Messages.json", apiBaseURL, creds.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(creds.accountSID, creds.authToken)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("twilio send failed: status=%d body=%s", resp.StatusCode, string(data))
	}

	var parsed struct {
		SID string `json:"sid"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("twilio response parse failed: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"tenant": tenant.Slug,
		"to":     to,
		"sid":    parsed.SID,
	}).Info("[TRANSPORT] Message sent")

	return &SendResult{SID: parsed.SID, Delivered: true}, nil
}

// resolveCredentials aplica la prioridad tenant > proceso. El número From
// sigue la misma regla por separado: un tenant puede tener número propio y
// usar las credenciales globales.
func (c *Client) resolveCredentials(tenant *tenantDomain.Tenant) resolvedCredentials {
	creds := resolvedCredentials{
		accountSID: c.cfg.AccountSID,
		authToken:  c.cfg.AuthToken,
		from:       c.cfg.WhatsappFrom,
	}
	if tenant.HasCredentials() {
		creds.accountSID = tenant.TwilioAccountSID
		creds.authToken = tenant.TwilioAuthToken
	}
	if tenant.WhatsappFrom != "" {
		creds.from = tenant.WhatsappFrom
	}
	return creds
}

func (c *Client) simulatedSend(tenant *tenantDomain.Tenant, to, body string) *SendResult {
	sid := "SM-mock-" + uuid.NewString()
	logrus.WithFields(logrus.Fields{
		"tenant": tenant.Slug,
		"to":     to,
		"sid":    sid,
	}).Infof("[MOCK SEND] %s", body)
	return &SendResult{SID: sid, Delivered: false}
}
