package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AzielCF/az-inbox/tenants/domain"
	"gorm.io/gorm"
)

// --- Persistence Model ---

type tenantModel struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	Slug             string `gorm:"uniqueIndex:idx_tenants_slug;not null"`
	Name             string `gorm:"not null"`
	TwilioAccountSID string `gorm:"column:twilio_account_sid"`
	TwilioAuthToken  string `gorm:"column:twilio_auth_token"`
	WhatsappFrom     string `gorm:"column:whatsapp_from"`
	Environment      string `gorm:"default:'sandbox'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (tenantModel) TableName() string {
	return "tenants"
}

// --- Repository Implementation ---

type TenantGormRepository struct {
	db *gorm.DB
}

func NewTenantGormRepository(db *gorm.DB) *TenantGormRepository {
	return &TenantGormRepository{db: db}
}

func (r *TenantGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&tenantModel{})
}

func (r *TenantGormRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	model := toTenantModel(tenant)

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		if isDuplicateErr(result.Error) {
			return domain.ErrDuplicateTenant
		}
		return result.Error
	}

	tenant.ID = model.ID
	tenant.CreatedAt = model.CreatedAt
	tenant.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *TenantGormRepository) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	var m tenantModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, err
	}
	return fromTenantModel(m), nil
}

func (r *TenantGormRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	var m tenantModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, err
	}
	return fromTenantModel(m), nil
}

func (r *TenantGormRepository) GetAll(ctx context.Context) ([]*domain.Tenant, error) {
	var models []tenantModel
	if err := r.db.WithContext(ctx).Order("slug ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	tenants := make([]*domain.Tenant, 0, len(models))
	for _, m := range models {
		tenants = append(tenants, fromTenantModel(m))
	}
	return tenants, nil
}

func (r *TenantGormRepository) Update(ctx context.Context, tenant *domain.Tenant) error {
	model := toTenantModel(tenant)

	result := r.db.WithContext(ctx).Model(&tenantModel{ID: tenant.ID}).Select("*").Omit("id", "created_at").Updates(&model)
	if result.Error != nil {
		if isDuplicateErr(result.Error) {
			return domain.ErrDuplicateTenant
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

func (r *TenantGormRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&tenantModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

// --- Converters ---

func toTenantModel(t *domain.Tenant) tenantModel {
	env := string(t.Environment)
	if env == "" {
		env = string(domain.EnvSandbox)
	}
	return tenantModel{
		ID:               t.ID,
		Slug:             t.Slug,
		Name:             t.Name,
		TwilioAccountSID: t.TwilioAccountSID,
		TwilioAuthToken:  t.TwilioAuthToken,
		WhatsappFrom:     t.WhatsappFrom,
		Environment:      env,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func fromTenantModel(m tenantModel) *domain.Tenant {
	return &domain.Tenant{
		ID:               m.ID,
		Slug:             m.Slug,
		Name:             m.Name,
		TwilioAccountSID: m.TwilioAccountSID,
		TwilioAuthToken:  m.TwilioAuthToken,
		WhatsappFrom:     m.WhatsappFrom,
		Environment:      domain.Environment(m.Environment),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// Duplicates detection (sqlite y postgres reportan distinto)
func isDuplicateErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
