package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"washdesk/internal/model"
)

// ListJobsParams filters and orders a job listing.
type ListJobsParams struct {
	ProviderID uuid.UUID
	Page       int
	Limit      int
	// From/To bound scheduled_at; nil means unbounded.
	From *time.Time
	To   *time.Time
	// SortBy is one of "scheduledAt", "status", "clientName" or "carPlate";
	// SortOrder is "asc" or "desc".
	SortBy    string
	SortOrder string
}

// ValidJobSortBy reports whether s is a supported sort key. Empty means the
// scheduledAt default.
func ValidJobSortBy(s string) bool {
	switch s {
	case "", "scheduledAt", "status", "clientName", "carPlate":
		return true
	}
	return false
}

// WashJobRepository handles persistence for wash jobs.
type WashJobRepository struct {
	db *gorm.DB
}

func NewWashJobRepository(db *gorm.DB) *WashJobRepository {
	return &WashJobRepository{db: db}
}

func (r *WashJobRepository) Create(ctx context.Context, job *model.WashJob) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("create wash job: %w", err)
	}
	return nil
}

// ExistsOnDay is the duplicate guard: it reports whether a job for the same
// (provider, client, car) is already scheduled inside the [start, end) day
// bounds.
func (r *WashJobRepository) ExistsOnDay(ctx context.Context, providerID, clientID, carID uuid.UUID, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WashJob{}).
		Where("provider_id = ? AND client_id = ? AND car_id = ?", providerID, clientID, carID).
		Where("scheduled_at >= ? AND scheduled_at < ?", start, end).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check existing job: %w", err)
	}
	return count > 0, nil
}

func (r *WashJobRepository) FindByID(ctx context.Context, providerID, id uuid.UUID) (*model.WashJob, error) {
	var job model.WashJob
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Car").
		Where("provider_id = ? AND id = ?", providerID, id).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *WashJobRepository) List(ctx context.Context, params ListJobsParams) ([]model.WashJob, int64, error) {
	var (
		jobs  []model.WashJob
		total int64
	)
	q := r.db.WithContext(ctx).Model(&model.WashJob{}).
		Where("wash_jobs.provider_id = ?", params.ProviderID)
	if params.From != nil {
		q = q.Where("scheduled_at >= ?", *params.From)
	}
	if params.To != nil {
		q = q.Where("scheduled_at < ?", *params.To)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count wash jobs: %w", err)
	}

	direction := "DESC"
	if params.SortOrder == "asc" {
		direction = "ASC"
	}
	column := "scheduled_at"
	switch params.SortBy {
	case "status":
		column = "status"
	case "clientName":
		q = q.Select("wash_jobs.*").Joins("JOIN clients ON clients.id = wash_jobs.client_id")
		column = "clients.name"
	case "carPlate":
		q = q.Select("wash_jobs.*").Joins("JOIN cars ON cars.id = wash_jobs.car_id")
		column = "cars.plate_number"
	}
	err := q.Order(column + " " + direction).
		Preload("Client").
		Preload("Car").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list wash jobs: %w", err)
	}
	return jobs, total, nil
}

func (r *WashJobRepository) Save(ctx context.Context, job *model.WashJob) error {
	if err := r.db.WithContext(ctx).Save(job).Error; err != nil {
		return fmt.Errorf("save wash job: %w", err)
	}
	return nil
}

func (r *WashJobRepository) Delete(ctx context.Context, providerID, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND id = ?", providerID, id).
		Delete(&model.WashJob{}).Error
	if err != nil {
		return fmt.Errorf("delete wash job: %w", err)
	}
	return nil
}

func (r *WashJobRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.WashJob{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count wash jobs: %w", err)
	}
	return count, nil
}
