package flows

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/AzielCF/az-inbox/flows/session"
	inboxDomain "github.com/AzielCF/az-inbox/inbox/domain"
	tenantDomain "github.com/AzielCF/az-inbox/tenants/domain"
)

const (
	menuMessage     = "¿Qué deseas hacer?\n1. Hacer pedido\n2. Hablar con una persona"
	handoffMessage  = "Alguien se comunicará contigo en breve"
	orderPrompt     = "Perfecto, escríbenos tu pedido en un solo mensaje."
	orderConfirmMsg = "Gracias, recibimos tu pedido. Escribe 2 si deseas hablar con una persona."

	stepOrdering = "ordering"
)

// MenuFlow presenta un menú numérico. "2" pasa la conversación a modo HUMAN;
// "1" abre una sesión de pedido con TTL y el siguiente mensaje se toma como
// el pedido; cualquier otra cosa repite el menú.
type MenuFlow struct {
	deps Deps
}

func NewMenuFlow(deps Deps) *MenuFlow {
	return &MenuFlow{deps: deps}
}

func (f *MenuFlow) Handle(ctx context.Context, in *inboxDomain.Inbound, conv *inboxDomain.Conversation, tenant *tenantDomain.Tenant) error {
	body := strings.TrimSpace(in.Body)
	key := sessionKey(tenant, conv)

	// El handoff a humano gana sobre cualquier sesión abierta.
	if body == "2" {
		if _, err := f.deps.Conversations.SetMode(ctx, conv.ID, inboxDomain.ModeHuman); err != nil {
			return err
		}
		if err := f.deps.Sessions.Delete(ctx, key); err != nil {
			logrus.WithError(err).Warn("[FLOW] Failed to clear flow session on handoff")
		}
		return f.deps.sendAndSave(ctx, tenant, conv, handoffMessage)
	}

	entry, err := f.deps.Sessions.Get(ctx, key)
	if err != nil {
		// Sin sesión seguimos pudiendo responder el menú.
		logrus.WithError(err).Warn("[FLOW] Failed to read flow session")
		entry = nil
	}

	if entry != nil && entry.Step == stepOrdering {
		if err := f.deps.Sessions.Delete(ctx, key); err != nil {
			logrus.WithError(err).Warn("[FLOW] Failed to clear flow session")
		}
		return f.deps.sendAndSave(ctx, tenant, conv, orderConfirmMsg)
	}

	if body == "1" {
		entry := &session.Entry{Step: stepOrdering}
		if err := f.deps.Sessions.Save(ctx, key, entry, f.deps.SessionTTL); err != nil {
			logrus.WithError(err).Warn("[FLOW] Failed to open order session")
		}
		return f.deps.sendAndSave(ctx, tenant, conv, orderPrompt)
	}

	return f.deps.sendAndSave(ctx, tenant, conv, menuMessage)
}
