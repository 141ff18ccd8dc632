package flows

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/AzielCF/az-inbox/flows/session"
	inboxDomain "github.com/AzielCF/az-inbox/inbox/domain"
	"github.com/AzielCF/az-inbox/infrastructure/twilio"
	tenantDomain "github.com/AzielCF/az-inbox/tenants/domain"
)

// fakeConversations solo implementa lo que los flows usan.
type fakeConversations struct {
	inboxDomain.ConversationRepository
	modes map[int64]inboxDomain.ConversationMode
}

func (f *fakeConversations) SetMode(ctx context.Context, id int64, mode inboxDomain.ConversationMode) (*inboxDomain.Conversation, error) {
	f.modes[id] = mode
	return &inboxDomain.Conversation{ID: id, Mode: mode}, nil
}

type fakeMessages struct {
	inboxDomain.MessageRepository
	saved []*inboxDomain.Message
}

func (f *fakeMessages) Save(ctx context.Context, msg *inboxDomain.Message) error {
	f.saved = append(f.saved, msg)
	return nil
}

type recordingSender struct {
	bodies []string
}

func (r *recordingSender) SendText(ctx context.Context, tenant *tenantDomain.Tenant, to, body string) (*twilio.SendResult, error) {
	r.bodies = append(r.bodies, body)
	return &twilio.SendResult{SID: "SMflow", Delivered: true}, nil
}

func (r *recordingSender) SendMedia(ctx context.Context, tenant *tenantDomain.Tenant, to, body, mediaURL string) (*twilio.SendResult, error) {
	return r.SendText(ctx, tenant, to, body)
}

func newMenuFixture(t *testing.T) (*MenuFlow, *fakeConversations, *fakeMessages, *recordingSender) {
	t.Helper()

	conversations := &fakeConversations{modes: make(map[int64]inboxDomain.ConversationMode)}
	messages := &fakeMessages{}
	sender := &recordingSender{}
	sessions := session.NewMemoryStore()
	t.Cleanup(sessions.Close)
	deps := Deps{
		Sender:        sender,
		Conversations: conversations,
		Messages:      messages,
		Sessions:      sessions,
		SessionTTL:    30 * time.Minute,
	}
	return NewMenuFlow(deps), conversations, messages, sender
}

var (
	menuTenant = &tenantDomain.Tenant{ID: 2, Slug: "dkape"}
	menuConv   = &inboxDomain.Conversation{ID: 10, TenantID: 2, PhoneNumber: "whatsapp:+50211112222", Mode: inboxDomain.ModeBot}
)

func TestMenuFlowRepliesMenuByDefault(t *testing.T) {
	flow, conversations, messages, sender := newMenuFixture(t)
	ctx := context.Background()

	in := &inboxDomain.Inbound{From: menuConv.PhoneNumber, Body: "hola"}
	if err := flow.Handle(ctx, in, menuConv, menuTenant); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	if len(sender.bodies) != 1 || !strings.Contains(sender.bodies[0], "1. Hacer pedido") {
		t.Errorf("respuesta = %v, se esperaba el menú", sender.bodies)
	}
	if len(messages.saved) != 1 || messages.saved[0].Direction != inboxDomain.DirectionOutbound {
		t.Errorf("el menú no quedó persistido como saliente: %+v", messages.saved)
	}
	if _, changed := conversations.modes[menuConv.ID]; changed {
		t.Error("el menú no debe cambiar el modo de la conversación")
	}
}

func TestMenuFlowOptionTwoHandsOffToHuman(t *testing.T) {
	flow, conversations, _, sender := newMenuFixture(t)
	ctx := context.Background()

	in := &inboxDomain.Inbound{From: menuConv.PhoneNumber, Body: "2"}
	if err := flow.Handle(ctx, in, menuConv, menuTenant); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	if conversations.modes[menuConv.ID] != inboxDomain.ModeHuman {
		t.Errorf("mode = %s, want HUMAN", conversations.modes[menuConv.ID])
	}
	if len(sender.bodies) != 1 || sender.bodies[0] != "Alguien se comunicará contigo en breve" {
		t.Errorf("respuesta = %v, se esperaba la confirmación de handoff", sender.bodies)
	}
}

func TestMenuFlowOrderSessionRoundTrip(t *testing.T) {
	flow, conversations, _, sender := newMenuFixture(t)
	ctx := context.Background()

	// "1" abre la sesión de pedido.
	if err := flow.Handle(ctx, &inboxDomain.Inbound{Body: "1"}, menuConv, menuTenant); err != nil {
		t.Fatalf("Handle(1) error: %v", err)
	}
	if len(sender.bodies) != 1 || !strings.Contains(sender.bodies[0], "pedido") {
		t.Fatalf("respuesta = %v, se esperaba el prompt de pedido", sender.bodies)
	}

	// El siguiente mensaje se toma como el pedido y cierra la sesión.
	if err := flow.Handle(ctx, &inboxDomain.Inbound{Body: "dos cafés y un croissant"}, menuConv, menuTenant); err != nil {
		t.Fatalf("Handle(pedido) error: %v", err)
	}
	if len(sender.bodies) != 2 || !strings.Contains(sender.bodies[1], "recibimos tu pedido") {
		t.Fatalf("respuesta = %v, se esperaba la confirmación del pedido", sender.bodies)
	}

	// Con la sesión cerrada, cualquier texto vuelve al menú.
	if err := flow.Handle(ctx, &inboxDomain.Inbound{Body: "gracias"}, menuConv, menuTenant); err != nil {
		t.Fatalf("Handle(gracias) error: %v", err)
	}
	if len(sender.bodies) != 3 || !strings.Contains(sender.bodies[2], "¿Qué deseas hacer?") {
		t.Fatalf("respuesta = %v, se esperaba el menú de nuevo", sender.bodies)
	}
	if _, changed := conversations.modes[menuConv.ID]; changed {
		t.Error("el ciclo de pedido no debe cambiar el modo")
	}
}

func TestRegistryVariantLookup(t *testing.T) {
	sessions := session.NewMemoryStore()
	t.Cleanup(sessions.Close)
	registry := NewRegistry(Deps{Sessions: sessions})

	if _, ok := registry.ForTenant("dkape").(*MenuFlow); !ok {
		t.Error("dkape debe resolver al flow de menú")
	}
	if _, ok := registry.ForTenant("crunchypaws").(*WelcomeFlow); !ok {
		t.Error("crunchypaws debe resolver al flow de bienvenida")
	}
	if _, ok := registry.ForTenant("desconocido").(*WelcomeFlow); !ok {
		t.Error("un slug sin variante debe caer al flow de bienvenida")
	}
}
