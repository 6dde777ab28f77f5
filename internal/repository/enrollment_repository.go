package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"washdesk/internal/model"
)

// EnrollmentRepository handles the client<->plan link table.
type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListActiveByPlan returns the ACTIVE enrollments of one plan, optionally
// narrowed to a single client. Paused and cancelled enrollments never leak
// into generation.
func (r *EnrollmentRepository) ListActiveByPlan(ctx context.Context, planID, clientID uuid.UUID) ([]model.ClientWashPlan, error) {
	q := r.db.WithContext(ctx).
		Where("wash_plan_id = ? AND status = ?", planID, model.EnrollmentStatusActive)
	if clientID != uuid.Nil {
		q = q.Where("client_id = ?", clientID)
	}
	var enrollments []model.ClientWashPlan
	if err := q.Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("list active enrollments: %w", err)
	}
	return enrollments, nil
}

// ListByPlan returns all enrollments of a plan with clients preloaded.
func (r *EnrollmentRepository) ListByPlan(ctx context.Context, planID uuid.UUID) ([]model.ClientWashPlan, error) {
	var enrollments []model.ClientWashPlan
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("wash_plan_id = ?", planID).
		Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

func (r *EnrollmentRepository) Find(ctx context.Context, planID, clientID uuid.UUID) (*model.ClientWashPlan, error) {
	var enrollment model.ClientWashPlan
	err := r.db.WithContext(ctx).
		Where("wash_plan_id = ? AND client_id = ?", planID, clientID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Enroll creates an ACTIVE enrollment, or returns the existing row for the
// (client, plan) pair; at most one exists.
func (r *EnrollmentRepository) Enroll(ctx context.Context, planID, clientID uuid.UUID) (*model.ClientWashPlan, error) {
	existing, err := r.Find(ctx, planID, clientID)
	switch {
	case err == nil:
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, fmt.Errorf("find enrollment: %w", err)
	}

	enrollment := &model.ClientWashPlan{
		WashPlanID: planID,
		ClientID:   clientID,
		Status:     model.EnrollmentStatusActive,
	}
	if err := r.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	return enrollment, nil
}

func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, enrollment *model.ClientWashPlan, status model.EnrollmentStatus) error {
	enrollment.Status = status
	if err := r.db.WithContext(ctx).Save(enrollment).Error; err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}
	return nil
}

func (r *EnrollmentRepository) Delete(ctx context.Context, planID, clientID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("wash_plan_id = ? AND client_id = ?", planID, clientID).
		Delete(&model.ClientWashPlan{}).Error
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}
