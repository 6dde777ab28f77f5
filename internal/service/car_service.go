package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"washdesk/internal/model"
	"washdesk/internal/repository"
)

var (
	ErrCarNotFound    = errors.New("car not found")
	ErrPlateRequired  = errors.New("plate number is required")
	ErrCarClientScope = errors.New("client does not belong to this provider")
)

// CarInput is the create/update payload for a car.
type CarInput struct {
	ClientID    uuid.UUID `json:"clientId"`
	PlateNumber string    `json:"plateNumber"`
	Model       string    `json:"model"`
	Color       string    `json:"color"`
}

// CarService wraps car management for provider staff.
type CarService struct {
	carRepo    *repository.CarRepository
	clientRepo *repository.ClientRepository
}

func NewCarService(carRepo *repository.CarRepository, clientRepo *repository.ClientRepository) *CarService {
	return &CarService{carRepo: carRepo, clientRepo: clientRepo}
}

func (s *CarService) Create(ctx context.Context, providerID uuid.UUID, input CarInput) (*model.Car, error) {
	if input.PlateNumber == "" {
		return nil, ErrPlateRequired
	}
	if _, err := s.clientRepo.FindByID(ctx, providerID, input.ClientID); err != nil {
		return nil, ErrCarClientScope
	}
	car := &model.Car{
		ClientID:    input.ClientID,
		PlateNumber: input.PlateNumber,
		Model:       input.Model,
		Color:       input.Color,
	}
	if err := s.carRepo.Create(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

func (s *CarService) List(ctx context.Context, providerID, clientID uuid.UUID, page, limit int) ([]model.Car, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.carRepo.ListByProvider(ctx, providerID, clientID, page, limit)
}

func (s *CarService) Get(ctx context.Context, providerID, id uuid.UUID) (*model.Car, error) {
	car, err := s.carRepo.FindByID(ctx, providerID, id)
	if err != nil {
		return nil, ErrCarNotFound
	}
	return car, nil
}

func (s *CarService) Update(ctx context.Context, providerID, id uuid.UUID, input CarInput) (*model.Car, error) {
	car, err := s.Get(ctx, providerID, id)
	if err != nil {
		return nil, err
	}
	if input.PlateNumber != "" {
		car.PlateNumber = input.PlateNumber
	}
	if input.Model != "" {
		car.Model = input.Model
	}
	if input.Color != "" {
		car.Color = input.Color
	}
	if err := s.carRepo.Save(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

func (s *CarService) Delete(ctx context.Context, providerID, id uuid.UUID) error {
	if _, err := s.Get(ctx, providerID, id); err != nil {
		return err
	}
	return s.carRepo.Delete(ctx, id)
}
