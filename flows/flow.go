package flows

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AzielCF/az-inbox/flows/session"
	inboxDomain "github.com/AzielCF/az-inbox/inbox/domain"
	"github.com/AzielCF/az-inbox/infrastructure/twilio"
	tenantDomain "github.com/AzielCF/az-inbox/tenants/domain"
)

// Flow responde un mensaje entrante mientras la conversación está en modo
// BOT. El mensaje entrante ya fue persistido cuando Handle se invoca; el flow
// solo decide la respuesta automática y los cambios de modo.
type Flow interface {
	Handle(ctx context.Context, in *inboxDomain.Inbound, conv *inboxDomain.Conversation, tenant *tenantDomain.Tenant) error
}

// Deps agrupa los colaboradores compartidos por todos los flows.
type Deps struct {
	Sender        twilio.Sender
	Conversations inboxDomain.ConversationRepository
	Messages      inboxDomain.MessageRepository
	Sessions      session.Store
	SessionTTL    time.Duration
}

// sendAndSave envía la respuesta del bot y la persiste como mensaje saliente.
// El mensaje se guarda aunque el envío falle; los envíos son best-effort y el
// historial debe reflejar lo que el bot intentó decir.
func (d Deps) sendAndSave(ctx context.Context, tenant *tenantDomain.Tenant, conv *inboxDomain.Conversation, body string) error {
	var sid string
	result, err := d.Sender.SendText(ctx, tenant, conv.PhoneNumber, body)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"tenant":       tenant.Slug,
			"conversation": conv.ID,
		}).Error("[FLOW] Failed to send bot reply")
	} else {
		sid = result.SID
	}

	msg := &inboxDomain.Message{
		ConversationID:   conv.ID,
		Direction:        inboxDomain.DirectionOutbound,
		Body:             body,
		TwilioMessageSID: sid,
	}
	return d.Messages.Save(ctx, msg)
}

// sessionKey identifica el estado de flujo de un contacto dentro del tenant.
func sessionKey(tenant *tenantDomain.Tenant, conv *inboxDomain.Conversation) string {
	return tenant.Slug + "|" + conv.PhoneNumber
}
