package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/AzielCF/az-inbox/inbox/domain"
	"github.com/AzielCF/az-inbox/infrastructure/twilio"
	tenantDomain "github.com/AzielCF/az-inbox/tenants/domain"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// Service implementa las operaciones del inbox para operadores. Toda
// operación que recibe un id de conversación valida la pertenencia al tenant
// antes de tocar o devolver datos.
type Service struct {
	conversations domain.ConversationRepository
	messages      domain.MessageRepository
	sender        twilio.Sender
}

func NewService(conversations domain.ConversationRepository, messages domain.MessageRepository, sender twilio.Sender) *Service {
	return &Service{
		conversations: conversations,
		messages:      messages,
		sender:        sender,
	}
}

// getOwned carga la conversación y valida que pertenezca al tenant. El 403
// por pertenencia gana sobre cualquier otra condición de la conversación.
func (s *Service) getOwned(ctx context.Context, tenant *tenantDomain.Tenant, conversationID int64) (*domain.Conversation, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.TenantID != tenant.ID {
		return nil, domain.ErrOwnershipMismatch
	}
	return conv, nil
}

// ListConversations retorna las conversaciones vivas del tenant con su
// resumen, ordenadas por actividad reciente.
func (s *Service) ListConversations(ctx context.Context, tenant *tenantDomain.Tenant) ([]*domain.ConversationSummary, error) {
	summaries, err := s.conversations.ListActive(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}

	for _, summary := range summaries {
		replied, err := s.messages.HasOutbound(ctx, summary.ID)
		if err != nil {
			return nil, err
		}
		summary.Replied = replied
	}

	return summaries, nil
}

// GetMessages pagina el historial hacia atrás. Sin cursor entrega la página
// más reciente; con beforeID entrega mensajes estrictamente anteriores. Los
// mensajes salen en orden ascendente por id, listos para pintar.
func (s *Service) GetMessages(ctx context.Context, tenant *tenantDomain.Tenant, conversationID int64, limit int, beforeID int64) (*domain.MessagePage, error) {
	if beforeID < 0 {
		return nil, domain.ErrInvalidCursor
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	conv, err := s.getOwned(ctx, tenant, conversationID)
	if err != nil {
		return nil, err
	}

	descending, err := s.messages.ListPage(ctx, conv.ID, limit, beforeID)
	if err != nil {
		return nil, err
	}

	total, err := s.messages.CountByConversation(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	// Invertir a orden ascendente. El primero es el más antiguo de la página
	// y por lo tanto el cursor para pedir la anterior.
	ascending := make([]*domain.Message, len(descending))
	for i, msg := range descending {
		ascending[len(descending)-1-i] = msg
	}

	page := &domain.MessagePage{
		Messages: ascending,
		Total:    total,
	}
	if len(ascending) > 0 {
		oldest := ascending[0].ID
		page.OldestMessageID = &oldest
	}

	// La página inicial compara contra el total vivo; las páginas con cursor
	// solo pueden mirar si la página vino llena.
	if beforeID == 0 {
		page.HasMore = total > int64(len(ascending))
	} else {
		page.HasMore = len(ascending) == limit
	}

	return page, nil
}

// Reply envía la respuesta de un operador, con imagen adjunta cuando
// mediaURL no está vacío. La conversación pasa a HUMAN antes del envío; el
// saliente se persiste aunque Twilio falle y la conversación queda marcada
// como atendida por humano.
func (s *Service) Reply(ctx context.Context, tenant *tenantDomain.Tenant, conversationID int64, text, mediaURL string) (*domain.Message, error) {
	conv, err := s.getOwned(ctx, tenant, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.IsDeleted() {
		return nil, domain.ErrConversationNotFound
	}

	if conv.Mode != domain.ModeHuman {
		if _, err := s.conversations.SetMode(ctx, conv.ID, domain.ModeHuman); err != nil {
			return nil, err
		}
	}

	msg, err := s.sendOutbound(ctx, tenant, conv, text, mediaURL)
	if err != nil {
		return nil, err
	}

	if err := s.conversations.MarkHandled(ctx, conv.ID); err != nil {
		logrus.WithError(err).WithField("conversation", conv.ID).
			Warn("[INBOX] Failed to mark conversation as handled")
	}

	return msg, nil
}

// sendOutbound envía y persiste un mensaje de operador. El fallo de envío se
// registra pero no aborta: el historial conserva lo que el operador escribió.
func (s *Service) sendOutbound(ctx context.Context, tenant *tenantDomain.Tenant, conv *domain.Conversation, text, mediaURL string) (*domain.Message, error) {
	var (
		result *twilio.SendResult
		err    error
	)
	if mediaURL != "" {
		result, err = s.sender.SendMedia(ctx, tenant, conv.PhoneNumber, text, mediaURL)
	} else {
		result, err = s.sender.SendText(ctx, tenant, conv.PhoneNumber, text)
	}

	var sid string
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"tenant":       tenant.Slug,
			"conversation": conv.ID,
		}).Error("[INBOX] Outbound send failed, persisting anyway")
	} else {
		sid = result.SID
	}

	msg := &domain.Message{
		ConversationID:   conv.ID,
		Direction:        domain.DirectionOutbound,
		Body:             text,
		TwilioMessageSID: sid,
	}
	if mediaURL != "" {
		msg.MediaURL = &mediaURL
	}
	if err := s.messages.Save(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ResetBot devuelve la conversación al bot. Idempotente: resetear una
// conversación ya en BOT no es error.
func (s *Service) ResetBot(ctx context.Context, tenant *tenantDomain.Tenant, conversationID int64) (*domain.Conversation, error) {
	conv, err := s.getOwned(ctx, tenant, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.IsDeleted() {
		return nil, domain.ErrConversationNotFound
	}
	return s.conversations.SetMode(ctx, conv.ID, domain.ModeBot)
}

// Delete elimina lógicamente la conversación. El historial queda intacto y
// un mensaje entrante posterior la restaura.
func (s *Service) Delete(ctx context.Context, tenant *tenantDomain.Tenant, conversationID int64) error {
	if _, err := s.getOwned(ctx, tenant, conversationID); err != nil {
		return err
	}
	return s.conversations.SoftDelete(ctx, conversationID)
}

// SendToPhone inicia (o retoma) una conversación desde el lado del operador:
// upsert de la conversación, modo HUMAN y envío del primer saliente.
func (s *Service) SendToPhone(ctx context.Context, tenant *tenantDomain.Tenant, phoneNumber, text string) (*domain.Conversation, *domain.Message, error) {
	conv, err := s.conversations.GetOrCreate(ctx, tenant.ID, phoneNumber)
	if err != nil {
		return nil, nil, err
	}

	if conv.IsDeleted() {
		conv, err = s.conversations.Restore(ctx, conv.ID)
		if err != nil {
			return nil, nil, err
		}
	}

	if conv.Mode != domain.ModeHuman {
		conv, err = s.conversations.SetMode(ctx, conv.ID, domain.ModeHuman)
		if err != nil {
			return nil, nil, err
		}
	}

	msg, err := s.sendOutbound(ctx, tenant, conv, text, "")
	if err != nil {
		return nil, nil, err
	}

	if err := s.conversations.MarkHandled(ctx, conv.ID); err != nil {
		logrus.WithError(err).WithField("conversation", conv.ID).
			Warn("[INBOX] Failed to mark conversation as handled")
	}

	return conv, msg, nil
}
