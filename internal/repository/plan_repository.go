package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"washdesk/internal/model"
)

// WashPlanRepository handles CRUD for wash plans.
type WashPlanRepository struct {
	db *gorm.DB
}

func NewWashPlanRepository(db *gorm.DB) *WashPlanRepository {
	return &WashPlanRepository{db: db}
}

func (r *WashPlanRepository) Create(ctx context.Context, plan *model.WashPlan) error {
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return fmt.Errorf("create wash plan: %w", err)
	}
	return nil
}

// ListAll returns every plan across all providers. The daily generator sweep
// is not tenant-scoped; weekday eligibility is evaluated by the caller since
// days_of_week is stored as JSON and must stay portable across drivers.
func (r *WashPlanRepository) ListAll(ctx context.Context) ([]model.WashPlan, error) {
	var plans []model.WashPlan
	if err := r.db.WithContext(ctx).Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("list wash plans: %w", err)
	}
	return plans, nil
}

// ListByProvider returns all plans of one provider, unpaged. Used by the
// monthly generator and the public enrollment page.
func (r *WashPlanRepository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]model.WashPlan, error) {
	var plans []model.WashPlan
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("name ASC").
		Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("list wash plans: %w", err)
	}
	return plans, nil
}

func (r *WashPlanRepository) ListByProviderPaged(ctx context.Context, providerID uuid.UUID, page, limit int) ([]model.WashPlan, int64, error) {
	var (
		plans []model.WashPlan
		total int64
	)
	q := r.db.WithContext(ctx).Model(&model.WashPlan{}).Where("provider_id = ?", providerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count wash plans: %w", err)
	}
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&plans).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list wash plans: %w", err)
	}
	return plans, total, nil
}

func (r *WashPlanRepository) FindByID(ctx context.Context, providerID, id uuid.UUID) (*model.WashPlan, error) {
	var plan model.WashPlan
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND id = ?", providerID, id).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *WashPlanRepository) Save(ctx context.Context, plan *model.WashPlan) error {
	if err := r.db.WithContext(ctx).Save(plan).Error; err != nil {
		return fmt.Errorf("save wash plan: %w", err)
	}
	return nil
}

func (r *WashPlanRepository) Delete(ctx context.Context, providerID, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND id = ?", providerID, id).
		Delete(&model.WashPlan{}).Error
	if err != nil {
		return fmt.Errorf("delete wash plan: %w", err)
	}
	return nil
}
