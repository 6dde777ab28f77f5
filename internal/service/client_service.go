package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"washdesk/internal/model"
	"washdesk/internal/repository"
)

var (
	ErrClientNotFound     = errors.New("client not found")
	ErrClientNameRequired = errors.New("client name is required")
)

// ClientInput is the create/update payload for a client.
type ClientInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// ClientService wraps client management for provider staff.
type ClientService struct {
	clientRepo *repository.ClientRepository
	carRepo    *repository.CarRepository
}

func NewClientService(clientRepo *repository.ClientRepository, carRepo *repository.CarRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo, carRepo: carRepo}
}

func (s *ClientService) Create(ctx context.Context, providerID uuid.UUID, input ClientInput) (*model.Client, error) {
	if input.Name == "" {
		return nil, ErrClientNameRequired
	}
	now := time.Now().UTC()
	client := &model.Client{
		ProviderID: providerID,
		Name:       input.Name,
		Phone:      input.Phone,
		Address:    input.Address,
		EnrolledAt: &now,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) List(ctx context.Context, providerID uuid.UUID, page, limit int) ([]model.Client, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.clientRepo.ListByProvider(ctx, providerID, page, limit)
}

func (s *ClientService) Get(ctx context.Context, providerID, id uuid.UUID) (*model.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, providerID, id)
	if err != nil {
		return nil, ErrClientNotFound
	}
	return client, nil
}

func (s *ClientService) Update(ctx context.Context, providerID, id uuid.UUID, input ClientInput) (*model.Client, error) {
	client, err := s.Get(ctx, providerID, id)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		client.Name = input.Name
	}
	if input.Phone != "" {
		client.Phone = input.Phone
	}
	if input.Address != "" {
		client.Address = input.Address
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Delete(ctx context.Context, providerID, id uuid.UUID) error {
	if _, err := s.Get(ctx, providerID, id); err != nil {
		return err
	}
	return s.clientRepo.Delete(ctx, providerID, id)
}

// Cars lists the client's cars after checking provider scope.
func (s *ClientService) Cars(ctx context.Context, providerID, clientID uuid.UUID) ([]model.Car, error) {
	if _, err := s.Get(ctx, providerID, clientID); err != nil {
		return nil, err
	}
	return s.carRepo.ListByClient(ctx, clientID)
}
