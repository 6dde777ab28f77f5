package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"washdesk/internal/model"
)

// ProviderRepository handles CRUD for providers (tenants).
type ProviderRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

func (r *ProviderRepository) Create(ctx context.Context, provider *model.Provider) error {
	if err := r.db.WithContext(ctx).Create(provider).Error; err != nil {
		return fmt.Errorf("create provider: %w", err)
	}
	return nil
}

func (r *ProviderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Provider, error) {
	var provider model.Provider
	if err := r.db.WithContext(ctx).First(&provider, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

func (r *ProviderRepository) List(ctx context.Context) ([]model.Provider, error) {
	var providers []model.Provider
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&providers).Error; err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	return providers, nil
}

func (r *ProviderRepository) Save(ctx context.Context, provider *model.Provider) error {
	if err := r.db.WithContext(ctx).Save(provider).Error; err != nil {
		return fmt.Errorf("save provider: %w", err)
	}
	return nil
}

// FindEnabledByCodePrefix resolves a provider from a public enrollment code,
// which is a prefix of the provider id.
func (r *ProviderRepository) FindEnabledByCodePrefix(ctx context.Context, code string) (*model.Provider, error) {
	var provider model.Provider
	err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Where("CAST(id AS TEXT) LIKE ?", code+"%").
		First(&provider).Error
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

// FirstEnabled returns an arbitrary enabled provider, the fallback when an
// enrollment code does not resolve.
func (r *ProviderRepository) FirstEnabled(ctx context.Context) (*model.Provider, error) {
	var provider model.Provider
	if err := r.db.WithContext(ctx).Where("enabled = ?", true).First(&provider).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

func (r *ProviderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Provider{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count providers: %w", err)
	}
	return count, nil
}
