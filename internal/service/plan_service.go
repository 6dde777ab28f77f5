package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"washdesk/internal/model"
	"washdesk/internal/repository"
)

var (
	ErrPlanNotFound       = errors.New("wash plan not found")
	ErrPlanNameRequired   = errors.New("plan name is required")
	ErrBadWeekday         = errors.New("daysOfWeek values must be 0-6 (Sunday=0)")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrUnknownStatus      = errors.New("unknown enrollment status")
)

// PlanInput is the create/update payload for a wash plan.
type PlanInput struct {
	Name         string                 `json:"name"`
	DaysOfWeek   []int                  `json:"daysOfWeek"`
	TimesPerWeek int                    `json:"timesPerWeek"`
	Location     model.WashPlanLocation `json:"location"`
	WashesInPlan int                    `json:"washesInPlan"`
	PeriodWeeks  *int                   `json:"periodWeeks"`
}

// PlanService wraps wash-plan management and client enrollment.
type PlanService struct {
	planRepo       *repository.WashPlanRepository
	enrollmentRepo *repository.EnrollmentRepository
	clientRepo     *repository.ClientRepository
}

func NewPlanService(
	planRepo *repository.WashPlanRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	clientRepo *repository.ClientRepository,
) *PlanService {
	return &PlanService{planRepo: planRepo, enrollmentRepo: enrollmentRepo, clientRepo: clientRepo}
}

func validWeekdays(days []int) bool {
	for _, d := range days {
		if d < 0 || d > 6 {
			return false
		}
	}
	return true
}

func (s *PlanService) Create(ctx context.Context, providerID uuid.UUID, input PlanInput) (*model.WashPlan, error) {
	if input.Name == "" {
		return nil, ErrPlanNameRequired
	}
	if !validWeekdays(input.DaysOfWeek) {
		return nil, ErrBadWeekday
	}

	plan := &model.WashPlan{
		ProviderID:   providerID,
		Name:         input.Name,
		DaysOfWeek:   input.DaysOfWeek,
		TimesPerWeek: input.TimesPerWeek,
		Location:     input.Location,
		WashesInPlan: input.WashesInPlan,
		PeriodWeeks:  input.PeriodWeeks,
	}
	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) List(ctx context.Context, providerID uuid.UUID, page, limit int) ([]model.WashPlan, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.planRepo.ListByProviderPaged(ctx, providerID, page, limit)
}

func (s *PlanService) Get(ctx context.Context, providerID, id uuid.UUID) (*model.WashPlan, error) {
	plan, err := s.planRepo.FindByID(ctx, providerID, id)
	if err != nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

func (s *PlanService) Update(ctx context.Context, providerID, id uuid.UUID, input PlanInput) (*model.WashPlan, error) {
	plan, err := s.Get(ctx, providerID, id)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		plan.Name = input.Name
	}
	if input.DaysOfWeek != nil {
		if !validWeekdays(input.DaysOfWeek) {
			return nil, ErrBadWeekday
		}
		plan.DaysOfWeek = input.DaysOfWeek
	}
	if input.TimesPerWeek > 0 {
		plan.TimesPerWeek = input.TimesPerWeek
	}
	if input.Location != "" {
		plan.Location = input.Location
	}
	if input.WashesInPlan > 0 {
		plan.WashesInPlan = input.WashesInPlan
	}
	if input.PeriodWeeks != nil {
		plan.PeriodWeeks = input.PeriodWeeks
	}
	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) Delete(ctx context.Context, providerID, id uuid.UUID) error {
	if _, err := s.Get(ctx, providerID, id); err != nil {
		return err
	}
	return s.planRepo.Delete(ctx, providerID, id)
}

// EnrollClient subscribes a provider's client to a plan. Enrolling twice
// returns the existing enrollment unchanged.
func (s *PlanService) EnrollClient(ctx context.Context, providerID, planID, clientID uuid.UUID) (*model.ClientWashPlan, error) {
	if _, err := s.Get(ctx, providerID, planID); err != nil {
		return nil, err
	}
	if _, err := s.clientRepo.FindByID(ctx, providerID, clientID); err != nil {
		return nil, ErrEnrollmentNotFound
	}
	return s.enrollmentRepo.Enroll(ctx, planID, clientID)
}

func (s *PlanService) SetEnrollmentStatus(ctx context.Context, providerID, planID, clientID uuid.UUID, status model.EnrollmentStatus) (*model.ClientWashPlan, error) {
	if !model.ValidEnrollmentStatus(status) {
		return nil, ErrUnknownStatus
	}
	if _, err := s.Get(ctx, providerID, planID); err != nil {
		return nil, err
	}
	enrollment, err := s.enrollmentRepo.Find(ctx, planID, clientID)
	if err != nil {
		return nil, ErrEnrollmentNotFound
	}
	if err := s.enrollmentRepo.UpdateStatus(ctx, enrollment, status); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *PlanService) RemoveEnrollment(ctx context.Context, providerID, planID, clientID uuid.UUID) error {
	if _, err := s.Get(ctx, providerID, planID); err != nil {
		return err
	}
	return s.enrollmentRepo.Delete(ctx, planID, clientID)
}

// EnrolledClients lists a plan's enrollments with client details.
func (s *PlanService) EnrolledClients(ctx context.Context, providerID, planID uuid.UUID) ([]model.ClientWashPlan, error) {
	if _, err := s.Get(ctx, providerID, planID); err != nil {
		return nil, err
	}
	return s.enrollmentRepo.ListByPlan(ctx, planID)
}
