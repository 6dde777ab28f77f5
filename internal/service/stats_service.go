package service

import (
	"context"

	"washdesk/internal/repository"
)

// Stats is the super-admin dashboard summary.
type Stats struct {
	ProvidersCount int64 `json:"providersCount"`
	ClientsCount   int64 `json:"clientsCount"`
	WashJobsCount  int64 `json:"washJobsCount"`
}

// StatsService aggregates cross-tenant counts for the super admin.
type StatsService struct {
	providerRepo *repository.ProviderRepository
	clientRepo   *repository.ClientRepository
	jobRepo      *repository.WashJobRepository
}

func NewStatsService(
	providerRepo *repository.ProviderRepository,
	clientRepo *repository.ClientRepository,
	jobRepo *repository.WashJobRepository,
) *StatsService {
	return &StatsService{providerRepo: providerRepo, clientRepo: clientRepo, jobRepo: jobRepo}
}

func (s *StatsService) Stats(ctx context.Context) (*Stats, error) {
	providers, err := s.providerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.clientRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{ProvidersCount: providers, ClientsCount: clients, WashJobsCount: jobs}, nil
}
