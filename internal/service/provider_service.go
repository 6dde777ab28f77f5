package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"washdesk/internal/model"
	"washdesk/internal/repository"
)

var ErrProviderNameRequired = errors.New("provider name is required")

// ProviderInput is the create/update payload for a provider (tenant).
type ProviderInput struct {
	Name    string `json:"name"`
	Enabled *bool  `json:"enabled"`
}

// ProviderService wraps tenant management for the super admin.
type ProviderService struct {
	providerRepo *repository.ProviderRepository
}

func NewProviderService(providerRepo *repository.ProviderRepository) *ProviderService {
	return &ProviderService{providerRepo: providerRepo}
}

func (s *ProviderService) Create(ctx context.Context, input ProviderInput) (*model.Provider, error) {
	if input.Name == "" {
		return nil, ErrProviderNameRequired
	}
	provider := &model.Provider{Name: input.Name, Enabled: true}
	if input.Enabled != nil {
		provider.Enabled = *input.Enabled
	}
	if err := s.providerRepo.Create(ctx, provider); err != nil {
		return nil, err
	}
	return provider, nil
}

func (s *ProviderService) List(ctx context.Context) ([]model.Provider, error) {
	return s.providerRepo.List(ctx)
}

func (s *ProviderService) Get(ctx context.Context, id uuid.UUID) (*model.Provider, error) {
	provider, err := s.providerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProviderNotFound
	}
	return provider, nil
}

// Update applies partial edits. Disabling a provider takes it out of public
// enrollment but leaves its data and generation untouched.
func (s *ProviderService) Update(ctx context.Context, id uuid.UUID, input ProviderInput) (*model.Provider, error) {
	provider, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		provider.Name = input.Name
	}
	if input.Enabled != nil {
		provider.Enabled = *input.Enabled
	}
	if err := s.providerRepo.Save(ctx, provider); err != nil {
		return nil, err
	}
	return provider, nil
}
