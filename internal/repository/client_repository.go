package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"washdesk/internal/model"
)

// ClientRepository handles CRUD for clients, always scoped to a provider.
type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client *model.Client) error {
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (r *ClientRepository) ListByProvider(ctx context.Context, providerID uuid.UUID, page, limit int) ([]model.Client, int64, error) {
	var (
		clients []model.Client
		total   int64
	)
	q := r.db.WithContext(ctx).Model(&model.Client{}).Where("provider_id = ?", providerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&clients).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	return clients, total, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, providerID, id uuid.UUID) (*model.Client, error) {
	var client model.Client
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND id = ?", providerID, id).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) FindByPhone(ctx context.Context, providerID uuid.UUID, phone string) (*model.Client, error) {
	var client model.Client
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND phone = ?", providerID, phone).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) Save(ctx context.Context, client *model.Client) error {
	if err := r.db.WithContext(ctx).Save(client).Error; err != nil {
		return fmt.Errorf("save client: %w", err)
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, providerID, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND id = ?", providerID, id).
		Delete(&model.Client{}).Error
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

func (r *ClientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Client{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return count, nil
}
