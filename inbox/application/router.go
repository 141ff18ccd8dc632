package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/AzielCF/az-inbox/flows"
	"github.com/AzielCF/az-inbox/inbox/domain"
	tenantDomain "github.com/AzielCF/az-inbox/tenants/domain"
)

// Router orquesta los mensajes entrantes del webhook: upsert de la
// conversación, restauración si estaba eliminada, persistencia del entrante
// y despacho al flow del tenant cuando la conversación está en modo BOT.
type Router struct {
	conversations domain.ConversationRepository
	messages      domain.MessageRepository
	registry      *flows.Registry
}

func NewRouter(conversations domain.ConversationRepository, messages domain.MessageRepository, registry *flows.Registry) *Router {
	return &Router{
		conversations: conversations,
		messages:      messages,
		registry:      registry,
	}
}

// Route procesa un mensaje entrante. Retorna error solo ante fallos de
// persistencia del entrante; los fallos del flow (envío incluido) se
// registran y no se propagan para que el webhook siempre confirme recepción.
func (r *Router) Route(ctx context.Context, tenant *tenantDomain.Tenant, in *domain.Inbound) error {
	conv, err := r.conversations.GetOrCreate(ctx, tenant.ID, in.From)
	if err != nil {
		return err
	}

	if conv.IsDeleted() {
		conv, err = r.conversations.Restore(ctx, conv.ID)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"tenant":       tenant.Slug,
			"conversation": conv.ID,
		}).Info("[WEBHOOK] Conversation restored by inbound message")
	}

	msg := &domain.Message{
		ConversationID:   conv.ID,
		Direction:        domain.DirectionInbound,
		Body:             in.DisplayBody(),
		TwilioMessageSID: in.MessageSID,
		MediaURL:         in.MediaURL,
		MediaType:        in.MediaType,
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
	}
	if err := r.messages.Save(ctx, msg); err != nil {
		return err
	}

	// En modo HUMAN el bot guarda silencio: solo se persiste.
	if conv.Mode != domain.ModeBot {
		return nil
	}

	flow := r.registry.ForTenant(tenant.Slug)
	if err := flow.Handle(ctx, in, conv, tenant); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"tenant":       tenant.Slug,
			"conversation": conv.ID,
		}).Error("[WEBHOOK] Flow dispatch failed")
	}
	return nil
}
