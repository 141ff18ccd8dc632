package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AzielCF/az-inbox/inbox/domain"
	"gorm.io/gorm"
)

// --- Persistence Model ---

type messageModel struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	ConversationID   int64  `gorm:"index:idx_messages_conversation;not null"`
	Direction        string `gorm:"not null"`
	Body             string `gorm:"type:text"`
	TwilioMessageSID string `gorm:"column:twilio_message_sid"`
	MediaURL         *string
	MediaType        *string
	Latitude         *float64
	Longitude        *float64
	CreatedAt        time.Time
}

func (messageModel) TableName() string {
	return "messages"
}

// --- Repository Implementation ---

type MessageGormRepository struct {
	db *gorm.DB
}

func NewMessageGormRepository(db *gorm.DB) *MessageGormRepository {
	return &MessageGormRepository{db: db}
}

func (r *MessageGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&messageModel{})
}

func (r *MessageGormRepository) Save(ctx context.Context, msg *domain.Message) error {
	m := toMessageModel(msg)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	msg.ID = m.ID
	msg.CreatedAt = m.CreatedAt
	return nil
}

func (r *MessageGormRepository) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	var m messageModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, err
	}
	return fromMessageModel(m), nil
}

// ListPage pagina hacia atrás por id estrictamente menor al cursor. El orden
// descendente por id (no por created_at, que puede colisionar al milisegundo)
// garantiza que inserciones concurrentes jamás desplacen ni dupliquen filas
// entre páginas ya entregadas.
func (r *MessageGormRepository) ListPage(ctx context.Context, conversationID int64, limit int, beforeID int64) ([]*domain.Message, error) {
	query := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID)

	if beforeID > 0 {
		query = query.Where("id < ?", beforeID)
	}

	var models []messageModel
	if err := query.Order("id DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}

	messages := make([]*domain.Message, 0, len(models))
	for _, m := range models {
		messages = append(messages, fromMessageModel(m))
	}
	return messages, nil
}

func (r *MessageGormRepository) CountByConversation(ctx context.Context, conversationID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&messageModel{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	return count, err
}

func (r *MessageGormRepository) HasOutbound(ctx context.Context, conversationID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&messageModel{}).
		Where("conversation_id = ? AND direction = ?", conversationID, string(domain.DirectionOutbound)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// --- Converters ---

func toMessageModel(msg *domain.Message) messageModel {
	return messageModel{
		ID:               msg.ID,
		ConversationID:   msg.ConversationID,
		Direction:        string(msg.Direction),
		Body:             msg.Body,
		TwilioMessageSID: msg.TwilioMessageSID,
		MediaURL:         msg.MediaURL,
		MediaType:        msg.MediaType,
		Latitude:         msg.Latitude,
		Longitude:        msg.Longitude,
		CreatedAt:        msg.CreatedAt,
	}
}

func fromMessageModel(m messageModel) *domain.Message {
	return &domain.Message{
		ID:               m.ID,
		ConversationID:   m.ConversationID,
		Direction:        domain.MessageDirection(m.Direction),
		Body:             m.Body,
		TwilioMessageSID: m.TwilioMessageSID,
		MediaURL:         m.MediaURL,
		MediaType:        m.MediaType,
		Latitude:         m.Latitude,
		Longitude:        m.Longitude,
		CreatedAt:        m.CreatedAt,
	}
}
