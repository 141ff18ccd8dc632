package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/AzielCF/az-inbox/inbox/domain"
)

// newTestDB abre una base sqlite en memoria aislada por test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
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
	// Una sola conexión: la base en memoria desaparece al cerrar la última.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

func newConversationRepo(t *testing.T) (*ConversationGormRepository, *MessageGormRepository) {
	t.Helper()

	db := newTestDB(t)
	convRepo := NewConversationGormRepository(db)
	msgRepo := NewMessageGormRepository(db)
	ctx := context.Background()
	if err := convRepo.InitSchema(ctx); err != nil {
		t.Fatalf("conversation InitSchema: %v", err)
	}
	if err := msgRepo.InitSchema(ctx); err != nil {
		t.Fatalf("message InitSchema: %v", err)
	}
	return convRepo, msgRepo
}

func TestGetOrCreateCreatesInBotMode(t *testing.T) {
	repo, _ := newConversationRepo(t)
	ctx := context.Background()

	conv, err := repo.GetOrCreate(ctx, 1, "whatsapp:+50211112222")
	if err != nil {
		t.Fatalf("GetOrCreate() error: %v", err)
	}
	if conv.Mode != domain.ModeBot {
		t.Errorf("mode = %s, want BOT", conv.Mode)
	}
	if conv.IsDeleted() {
		t.Error("conversación nueva no debe estar eliminada")
	}
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	repo, _ := newConversationRepo(t)
	ctx := context.Background()

	first, err := repo.GetOrCreate(ctx, 1, "whatsapp:+50211112222")
	if err != nil {
		t.Fatalf("GetOrCreate() error: %v", err)
	}
	second, err := repo.GetOrCreate(ctx, 1, "whatsapp:+50211112222")
	if err != nil {
		t.Fatalf("segundo GetOrCreate() error: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("ids distintos %d / %d, el upsert debe devolver la misma fila", first.ID, second.ID)
	}

	// Mismo número en otro tenant es otra conversación.
	other, err := repo.GetOrCreate(ctx, 2, "whatsapp:+50211112222")
	if err != nil {
		t.Fatalf("GetOrCreate() otro tenant error: %v", err)
	}
	if other.ID == first.ID {
		t.Error("el aislamiento por tenant se rompió: misma fila para tenants distintos")
	}
}

func TestGetOrCreateConcurrentSingleRow(t *testing.T) {
	repo, _ := newConversationRepo(t)
	ctx := context.Background()

	const workers = 10
	ids := make([]int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conv, err := repo.GetOrCreate(ctx, 7, "whatsapp:+50299998888")
			if assert.NoError(t, err) {
				ids[i] = conv.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		require.Equal(t, ids[0], ids[i], "se crearon filas distintas bajo concurrencia")
	}
}

func TestGetOrCreateReturnsDeletedRow(t *testing.T) {
	repo, _ := newConversationRepo(t)
	ctx := context.Background()

	conv, err := repo.GetOrCreate(ctx, 1, "whatsapp:+50211112222")
	if err != nil {
		t.Fatalf("GetOrCreate() error: %v", err)
	}
	if err := repo.SoftDelete(ctx, conv.ID); err != nil {
		t.Fatalf("SoftDelete() error: %v", err)
	}

	// El upsert no resucita: devuelve la fila eliminada y la restauración
	// es una decisión del caller.
	again, err := repo.GetOrCreate(ctx, 1, "whatsapp:+50211112222")
	if err != nil {
		t.Fatalf("GetOrCreate() sobre eliminada error: %v", err)
	}
	if again.ID != conv.ID {
		t.Errorf("id = %d, want %d", again.ID, conv.ID)
	}
	if !again.IsDeleted() {
		t.Error("la fila debía seguir eliminada")
	}
}

func TestSoftDeleteAndRestorePairs(t *testing.T) {
	repo, _ := newConversationRepo(t)
	ctx := context.Background()

	conv, err := repo.GetOrCreate(ctx, 1, "whatsapp:+50211112222")
	if err != nil {
		t.Fatalf("GetOrCreate() error: %v", err)
	}

	// Restaurar una conversación viva es error.
	if _, err := repo.Restore(ctx, conv.ID); !errors.Is(err, domain.ErrNotDeleted) {
		t.Fatalf("Restore() sobre viva = %v, want ErrNotDeleted", err)
	}

	if err := repo.SoftDelete(ctx, conv.ID); err != nil {
		t.Fatalf("SoftDelete() error: %v", err)
	}
	// Doble borrado es error.
	if err := repo.SoftDelete(ctx, conv.ID); !errors.Is(err, domain.ErrAlreadyDeleted) {
		t.Fatalf("segundo SoftDelete() = %v, want ErrAlreadyDeleted", err)
	}

	// Pasar a HUMAN antes de restaurar para verificar que Restore fuerza BOT.
	if _, err := repo.SetMode(ctx, conv.ID, domain.ModeHuman); err != nil {
		t.Fatalf("SetMode() error: %v", err)
	}
	restored, err := repo.Restore(ctx, conv.ID)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if restored.IsDeleted() {
		t.Error("Restore() no limpió deleted_at")
	}
	if restored.Mode != domain.ModeBot {
		t.Errorf("Restore() mode = %s, want BOT", restored.Mode)
	}

	// Sobre ids inexistentes todo es not found.
	if err := repo.SoftDelete(ctx, 9999); !errors.Is(err, domain.ErrConversationNotFound) {
		t.Errorf("SoftDelete(9999) = %v, want ErrConversationNotFound", err)
	}
	if _, err := repo.Restore(ctx, 9999); !errors.Is(err, domain.ErrConversationNotFound) {
		t.Errorf("Restore(9999) = %v, want ErrConversationNotFound", err)
	}
}

func TestListActiveExcludesDeletedAndSummarizes(t *testing.T) {
	repo, msgRepo := newConversationRepo(t)
	ctx := context.Background()

	alive, err := repo.GetOrCreate(ctx, 1, "whatsapp:+50211110001")
	if err != nil {
		t.Fatalf("GetOrCreate() error: %v", err)
	}
	gone, err := repo.GetOrCreate(ctx, 1, "whatsapp:+50211110002")
	if err != nil {
		t.Fatalf("GetOrCreate() error: %v", err)
	}
	if err := repo.SoftDelete(ctx, gone.ID); err != nil {
		t.Fatalf("SoftDelete() error: %v", err)
	}

	for _, body := range []string{"hola", "necesito ayuda"} {
		msg := &domain.Message{ConversationID: alive.ID, Direction: domain.DirectionInbound, Body: body}
		if err := msgRepo.Save(ctx, msg); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}

	summaries, err := repo.ListActive(ctx, 1)
	if err != nil {
		t.Fatalf("ListActive() error: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("ListActive() = %d conversaciones, want 1 (la eliminada no se lista)", len(summaries))
	}

	summary := summaries[0]
	if summary.ID != alive.ID {
		t.Errorf("id = %d, want %d", summary.ID, alive.ID)
	}
	if summary.MessageCount != 2 {
		t.Errorf("message_count = %d, want 2", summary.MessageCount)
	}
	if summary.LastMessage != "necesito ayuda" {
		t.Errorf("last_message = %q, want %q", summary.LastMessage, "necesito ayuda")
	}
	if summary.LastMessageDirection != string(domain.DirectionInbound) {
		t.Errorf("last_message_direction = %q, want inbound", summary.LastMessageDirection)
	}
}

func TestSetModeLastWriterWins(t *testing.T) {
	repo, _ := newConversationRepo(t)
	ctx := context.Background()

	conv, err := repo.GetOrCreate(ctx, 1, "whatsapp:+50211112222")
	if err != nil {
		t.Fatalf("GetOrCreate() error: %v", err)
	}

	if _, err := repo.SetMode(ctx, conv.ID, domain.ModeHuman); err != nil {
		t.Fatalf("SetMode(HUMAN) error: %v", err)
	}
	updated, err := repo.SetMode(ctx, conv.ID, domain.ModeBot)
	if err != nil {
		t.Fatalf("SetMode(BOT) error: %v", err)
	}
	if updated.Mode != domain.ModeBot {
		t.Errorf("mode = %s, want BOT", updated.Mode)
	}

	if _, err := repo.SetMode(ctx, 9999, domain.ModeBot); !errors.Is(err, domain.ErrConversationNotFound) {
		t.Errorf("SetMode(9999) = %v, want ErrConversationNotFound", err)
	}
}

func TestMarkHandled(t *testing.T) {
	repo, _ := newConversationRepo(t)
	ctx := context.Background()

	conv, err := repo.GetOrCreate(ctx, 1, "whatsapp:+50211112222")
	if err != nil {
		t.Fatalf("GetOrCreate() error: %v", err)
	}
	if err := repo.MarkHandled(ctx, conv.ID); err != nil {
		t.Fatalf("MarkHandled() error: %v", err)
	}

	got, err := repo.GetByID(ctx, conv.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if !got.HumanHandled {
		t.Error("human_handled no quedó encendido")
	}
}
