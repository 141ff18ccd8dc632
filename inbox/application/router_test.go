package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/AzielCF/az-inbox/flows"
	"github.com/AzielCF/az-inbox/flows/session"
	"github.com/AzielCF/az-inbox/inbox/domain"
	"github.com/AzielCF/az-inbox/inbox/repository"
)

func newTestRouter(t *testing.T) (*Router, *repository.ConversationGormRepository, *repository.MessageGormRepository, *fakeSender) {
	t.Helper()

	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	conversations := repository.NewConversationGormRepository(db)
	messages := repository.NewMessageGormRepository(db)
	ctx := context.Background()
	if err := conversations.InitSchema(ctx); err != nil {
		t.Fatalf("conversation InitSchema: %v", err)
	}
	if err := messages.InitSchema(ctx); err != nil {
		t.Fatalf("message InitSchema: %v", err)
	}

	sender := &fakeSender{}
	sessions := session.NewMemoryStore()
	t.Cleanup(sessions.Close)
	registry := flows.NewRegistry(flows.Deps{
		Sender:        sender,
		Conversations: conversations,
		Messages:      messages,
		Sessions:      sessions,
		SessionTTL:    30 * time.Minute,
	})

	return NewRouter(conversations, messages, registry), conversations, messages, sender
}

func TestRouteBotModeSendsAutoReply(t *testing.T) {
	router, conversations, messages, sender := newTestRouter(t)
	ctx := context.Background()

	in := &domain.Inbound{From: "whatsapp:+50211112222", Body: "hola", MessageSID: "SMin1"}
	if err := router.Route(ctx, tenantAcme, in); err != nil {
		t.Fatalf("Route() error: %v", err)
	}

	conv, err := conversations.GetByPhone(ctx, tenantAcme.ID, in.From)
	if err != nil {
		t.Fatalf("GetByPhone() error: %v", err)
	}
	if conv.Mode != domain.ModeBot {
		t.Errorf("mode = %s, el flow de bienvenida no cambia el modo", conv.Mode)
	}

	// Entrante persistido + respuesta automática persistida.
	count, err := messages.CountByConversation(ctx, conv.ID)
	if err != nil {
		t.Fatalf("CountByConversation() error: %v", err)
	}
	if count != 2 {
		t.Errorf("mensajes = %d, want 2 (entrante + bienvenida)", count)
	}
	if len(sender.calls()) != 1 {
		t.Errorf("envíos = %d, want 1", len(sender.calls()))
	}
}

func TestRouteHumanModeStoresWithoutReply(t *testing.T) {
	router, conversations, messages, sender := newTestRouter(t)
	ctx := context.Background()

	conv, err := conversations.GetOrCreate(ctx, tenantAcme.ID, "whatsapp:+50211112222")
	if err != nil {
		t.Fatalf("GetOrCreate() error: %v", err)
	}
	if _, err := conversations.SetMode(ctx, conv.ID, domain.ModeHuman); err != nil {
		t.Fatalf("SetMode() error: %v", err)
	}

	in := &domain.Inbound{From: conv.PhoneNumber, Body: "sigo esperando"}
	if err := router.Route(ctx, tenantAcme, in); err != nil {
		t.Fatalf("Route() error: %v", err)
	}

	count, err := messages.CountByConversation(ctx, conv.ID)
	if err != nil {
		t.Fatalf("CountByConversation() error: %v", err)
	}
	if count != 1 {
		t.Errorf("mensajes = %d, want 1 (solo el entrante)", count)
	}
	if len(sender.calls()) != 0 {
		t.Errorf("en modo HUMAN el bot respondió: %+v", sender.calls())
	}
}

func TestRouteRestoresDeletedConversation(t *testing.T) {
	router, conversations, _, _ := newTestRouter(t)
	ctx := context.Background()

	conv, err := conversations.GetOrCreate(ctx, tenantAcme.ID, "whatsapp:+50211112222")
	if err != nil {
		t.Fatalf("GetOrCreate() error: %v", err)
	}
	if _, err := conversations.SetMode(ctx, conv.ID, domain.ModeHuman); err != nil {
		t.Fatalf("SetMode() error: %v", err)
	}
	if err := conversations.SoftDelete(ctx, conv.ID); err != nil {
		t.Fatalf("SoftDelete() error: %v", err)
	}

	in := &domain.Inbound{From: conv.PhoneNumber, Body: "hola de nuevo"}
	if err := router.Route(ctx, tenantAcme, in); err != nil {
		t.Fatalf("Route() error: %v", err)
	}

	restored, err := conversations.GetByID(ctx, conv.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if restored.IsDeleted() {
		t.Error("el entrante no restauró la conversación")
	}
	if restored.Mode != domain.ModeBot {
		t.Errorf("mode tras restaurar = %s, want BOT", restored.Mode)
	}
}

func TestRoutePersistsPlaceholderBodies(t *testing.T) {
	router, conversations, messages, _ := newTestRouter(t)
	ctx := context.Background()

	mediaURL := "https://api.twilio.com/media/abc"
	mediaType := "image/jpeg"
	lat, lon := 14.6349, -90.5069

	cases := []struct {
		name string
		in   *domain.Inbound
		want string
	}{
		{
			name: "solo imagen",
			in:   &domain.Inbound{From: "whatsapp:+50200000001", MediaURL: &mediaURL, MediaType: &mediaType},
			want: domain.PlaceholderImage,
		},
		{
			name: "solo ubicacion",
			in:   &domain.Inbound{From: "whatsapp:+50200000002", Latitude: &lat, Longitude: &lon},
			want: domain.PlaceholderLocation,
		},
		{
			name: "vacio",
			in:   &domain.Inbound{From: "whatsapp:+50200000003", Body: "   "},
			want: domain.PlaceholderNoText,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := router.Route(ctx, tenantAcme, tc.in); err != nil {
				t.Fatalf("Route() error: %v", err)
			}
			conv, err := conversations.GetByPhone(ctx, tenantAcme.ID, tc.in.From)
			if err != nil {
				t.Fatalf("GetByPhone() error: %v", err)
			}
			page, err := messages.ListPage(ctx, conv.ID, 10, 0)
			if err != nil {
				t.Fatalf("ListPage() error: %v", err)
			}
			var inbound *domain.Message
			for _, msg := range page {
				if msg.Direction == domain.DirectionInbound {
					inbound = msg
					break
				}
			}
			if inbound == nil {
				t.Fatal("el entrante no quedó persistido")
			}
			if inbound.Body != tc.want {
				t.Errorf("body = %q, want %q", inbound.Body, tc.want)
			}
		})
	}
}

func TestRouteSendFailureStillAcks(t *testing.T) {
	router, conversations, messages, sender := newTestRouter(t)
	ctx := context.Background()

	sender.failWith = fmt.Errorf("twilio caído")

	in := &domain.Inbound{From: "whatsapp:+50211112222", Body: "hola"}
	if err := router.Route(ctx, tenantAcme, in); err != nil {
		t.Fatalf("Route() debe absorber fallos de envío, error: %v", err)
	}

	conv, err := conversations.GetByPhone(ctx, tenantAcme.ID, in.From)
	if err != nil {
		t.Fatalf("GetByPhone() error: %v", err)
	}
	count, err := messages.CountByConversation(ctx, conv.ID)
	if err != nil {
		t.Fatalf("CountByConversation() error: %v", err)
	}
	// Entrante + respuesta fallida persistida sin SID.
	if count != 2 {
		t.Errorf("mensajes = %d, want 2", count)
	}
}
