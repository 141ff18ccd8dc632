package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AzielCF/az-inbox/inbox/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// --- Persistence Model ---

type conversationModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	TenantID     int64  `gorm:"uniqueIndex:idx_conversations_tenant_phone,priority:1;not null"`
	PhoneNumber  string `gorm:"uniqueIndex:idx_conversations_tenant_phone,priority:2;not null"`
	Mode         string `gorm:"default:'BOT';not null"`
	HumanHandled bool   `gorm:"default:false;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time `gorm:"index"`
}

func (conversationModel) TableName() string {
	return "conversations"
}

type conversationSummaryRow struct {
	ID                   int64
	TenantID             int64
	PhoneNumber          string
	Mode                 string
	HumanHandled         bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
	DeletedAt            *time.Time
	MessageCount         int64
	LastMessage          *string
	LastMessageDirection *string
}

// --- Repository Implementation ---

type ConversationGormRepository struct {
	db *gorm.DB
}

func NewConversationGormRepository(db *gorm.DB) *ConversationGormRepository {
	return &ConversationGormRepository{db: db}
}

func (r *ConversationGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&conversationModel{})
}

// GetOrCreate resuelve la carrera de dos mensajes entrantes simultáneos para
// un número nuevo con un upsert sobre el índice único: el perdedor solo toca
// updated_at. No restaura conversaciones eliminadas; eso es decisión del
// router, no del store.
func (r *ConversationGormRepository) GetOrCreate(ctx context.Context, tenantID int64, phoneNumber string) (*domain.Conversation, error) {
	m := conversationModel{
		TenantID:    tenantID,
		PhoneNumber: phoneNumber,
		Mode:        string(domain.ModeBot),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "phone_number"}},
		DoUpdates: clause.Assignments(map[string]any{"updated_at": time.Now().UTC()}),
	}).Create(&m).Error
	if err != nil {
		return nil, err
	}

	// El upsert no retorna la fila completa en todos los drivers;
	// releer por la clave natural.
	return r.GetByPhone(ctx, tenantID, phoneNumber)
}

func (r *ConversationGormRepository) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	var m conversationModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, err
	}
	return fromConversationModel(m), nil
}

func (r *ConversationGormRepository) GetByPhone(ctx context.Context, tenantID int64, phoneNumber string) (*domain.Conversation, error) {
	var m conversationModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND phone_number = ?", tenantID, phoneNumber).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, err
	}
	return fromConversationModel(m), nil
}

func (r *ConversationGormRepository) ListActive(ctx context.Context, tenantID int64) ([]*domain.ConversationSummary, error) {
	var rows []conversationSummaryRow

	err := r.db.WithContext(ctx).
		Table("conversations c").
		Select(`c.*,
			(SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id) AS message_count,
			(SELECT m.body FROM messages m WHERE m.conversation_id = c.id ORDER BY m.id DESC LIMIT 1) AS last_message,
			(SELECT m.direction FROM messages m WHERE m.conversation_id = c.id ORDER BY m.id DESC LIMIT 1) AS last_message_direction`).
		Where("c.tenant_id = ? AND c.deleted_at IS NULL", tenantID).
		Order("c.updated_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.ConversationSummary, 0, len(rows))
	for _, row := range rows {
		s := &domain.ConversationSummary{
			Conversation: domain.Conversation{
				ID:           row.ID,
				TenantID:     row.TenantID,
				PhoneNumber:  row.PhoneNumber,
				Mode:         domain.ConversationMode(row.Mode),
				HumanHandled: row.HumanHandled,
				CreatedAt:    row.CreatedAt,
				UpdatedAt:    row.UpdatedAt,
				DeletedAt:    row.DeletedAt,
			},
			MessageCount: row.MessageCount,
		}
		if row.LastMessage != nil {
			s.LastMessage = *row.LastMessage
		}
		if row.LastMessageDirection != nil {
			s.LastMessageDirection = *row.LastMessageDirection
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func (r *ConversationGormRepository) SetMode(ctx context.Context, id int64, mode domain.ConversationMode) (*domain.Conversation, error) {
	result := r.db.WithContext(ctx).Model(&conversationModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"mode": string(mode), "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrConversationNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *ConversationGormRepository) SoftDelete(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&conversationModel{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{"deleted_at": now, "updated_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguir inexistente de ya-eliminada
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrAlreadyDeleted
	}
	return nil
}

func (r *ConversationGormRepository) Restore(ctx context.Context, id int64) (*domain.Conversation, error) {
	result := r.db.WithContext(ctx).Model(&conversationModel{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Updates(map[string]any{
			"deleted_at": nil,
			"mode":       string(domain.ModeBot),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrNotDeleted
	}
	return r.GetByID(ctx, id)
}

func (r *ConversationGormRepository) MarkHandled(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Model(&conversationModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"human_handled": true, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}

// --- Converters ---

func fromConversationModel(m conversationModel) *domain.Conversation {
	return &domain.Conversation{
		ID:           m.ID,
		TenantID:     m.TenantID,
		PhoneNumber:  m.PhoneNumber,
		Mode:         domain.ConversationMode(m.Mode),
		HumanHandled: m.HumanHandled,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		DeletedAt:    m.DeletedAt,
	}
}
