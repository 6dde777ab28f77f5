package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"washdesk/internal/model"
	"washdesk/internal/repository"
)

var ErrProviderNotFound = errors.New("provider not found")

// EnrollCarInput is one car on the public enrollment form.
type EnrollCarInput struct {
	PlateNumber string `json:"plateNumber"`
	Model       string `json:"model"`
	Color       string `json:"color"`
}

// EnrollInput is the public self-enrollment payload.
type EnrollInput struct {
	Code    string           `json:"code"`
	Name    string           `json:"name"`
	Phone   string           `json:"phone"`
	Address string           `json:"address"`
	Cars    []EnrollCarInput `json:"cars"`
	PlanIDs []uuid.UUID      `json:"planIds"`
}

// EnrollInfo is what the public enrollment page shows for a code.
type EnrollInfo struct {
	Provider struct {
		ID   uuid.UUID `json:"id"`
		Name string    `json:"name"`
	} `json:"provider"`
	Plans []model.WashPlan `json:"plans"`
}

// EnrollResult confirms a completed self-enrollment.
type EnrollResult struct {
	Provider struct {
		ID   uuid.UUID `json:"id"`
		Name string    `json:"name"`
	} `json:"provider"`
	Client struct {
		ID    uuid.UUID `json:"id"`
		Name  string    `json:"name"`
		Phone string    `json:"phone"`
	} `json:"client"`
}

// EnrollService implements public client self-enrollment: resolve the
// provider from a short code, find or create the client by phone, register
// cars by plate and subscribe to the chosen plans.
type EnrollService struct {
	providerRepo   *repository.ProviderRepository
	clientRepo     *repository.ClientRepository
	carRepo        *repository.CarRepository
	planRepo       *repository.WashPlanRepository
	enrollmentRepo *repository.EnrollmentRepository
}

func NewEnrollService(
	providerRepo *repository.ProviderRepository,
	clientRepo *repository.ClientRepository,
	carRepo *repository.CarRepository,
	planRepo *repository.WashPlanRepository,
	enrollmentRepo *repository.EnrollmentRepository,
) *EnrollService {
	return &EnrollService{
		providerRepo:   providerRepo,
		clientRepo:     clientRepo,
		carRepo:        carRepo,
		planRepo:       planRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// providerForCode resolves a provider from an enrollment code (a prefix of
// the provider id), falling back to the first enabled provider.
func (s *EnrollService) providerForCode(ctx context.Context, code string) (*model.Provider, error) {
	trimmed := strings.TrimSpace(code)
	if len(trimmed) >= 8 {
		provider, err := s.providerRepo.FindEnabledByCodePrefix(ctx, trimmed)
		if err == nil {
			return provider, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	provider, err := s.providerRepo.FirstEnabled(ctx)
	if err != nil {
		return nil, ErrProviderNotFound
	}
	return provider, nil
}

// Info returns the provider and its plans for the enrollment page.
func (s *EnrollService) Info(ctx context.Context, code string) (*EnrollInfo, error) {
	provider, err := s.providerForCode(ctx, code)
	if err != nil {
		return nil, err
	}
	plans, err := s.planRepo.ListByProvider(ctx, provider.ID)
	if err != nil {
		return nil, err
	}
	info := &EnrollInfo{Plans: plans}
	info.Provider.ID = provider.ID
	info.Provider.Name = provider.Name
	return info, nil
}

// Enroll performs the self-enrollment. It is idempotent per phone, plate and
// plan: repeating the call adds nothing new.
func (s *EnrollService) Enroll(ctx context.Context, input EnrollInput) (*EnrollResult, error) {
	provider, err := s.providerForCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(input.Code)
	if code == "" {
		code = provider.EnrollmentCode()
	}

	client, err := s.clientRepo.FindByPhone(ctx, provider.ID, input.Phone)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		now := time.Now().UTC()
		client = &model.Client{
			ProviderID:     provider.ID,
			Name:           input.Name,
			Phone:          input.Phone,
			Address:        strings.TrimSpace(input.Address),
			EnrollmentCode: code,
			EnrolledAt:     &now,
		}
		if err := s.clientRepo.Create(ctx, client); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if addr := strings.TrimSpace(input.Address); addr != "" && addr != client.Address {
			client.Address = addr
			if err := s.clientRepo.Save(ctx, client); err != nil {
				return nil, err
			}
		}
	}

	for _, c := range input.Cars {
		plate := strings.TrimSpace(c.PlateNumber)
		if plate == "" {
			continue
		}
		_, err := s.carRepo.FindByPlate(ctx, client.ID, plate)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		car := &model.Car{
			ClientID:    client.ID,
			PlateNumber: plate,
			Model:       strings.TrimSpace(c.Model),
			Color:       strings.TrimSpace(c.Color),
		}
		if err := s.carRepo.Create(ctx, car); err != nil {
			return nil, err
		}
	}

	for _, planID := range input.PlanIDs {
		// Only this provider's plans may be joined through the public form.
		if _, err := s.planRepo.FindByID(ctx, provider.ID, planID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		if _, err := s.enrollmentRepo.Enroll(ctx, planID, client.ID); err != nil {
			return nil, err
		}
	}

	result := &EnrollResult{}
	result.Provider.ID = provider.ID
	result.Provider.Name = provider.Name
	result.Client.ID = client.ID
	result.Client.Name = client.Name
	result.Client.Phone = client.Phone
	return result, nil
}
