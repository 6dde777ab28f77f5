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
	ErrJobNotFound      = errors.New("wash job not found")
	ErrUnknownJobStatus = errors.New("unknown wash job status")
	// ErrStatusRegression rejects moving a progressed job back to NOT_STARTED.
	ErrStatusRegression = errors.New("wash job cannot return to NOT_STARTED")
)

// CreateJobInput is a staff-created job, outside the generator.
type CreateJobInput struct {
	ClientID         uuid.UUID  `json:"clientId"`
	CarID            uuid.UUID  `json:"carId"`
	AssignedWorkerID *uuid.UUID `json:"assignedWorkerId"`
	ScheduledAt      time.Time  `json:"scheduledAt"`
}

// UpdateJobInput carries partial updates; nil fields are left untouched.
type UpdateJobInput struct {
	Status           *model.WashJobStatus `json:"status"`
	AssignedWorkerID *uuid.UUID           `json:"assignedWorkerId"`
	ScheduledAt      *time.Time           `json:"scheduledAt"`
}

// JobService wraps wash-job business logic, including the status lifecycle.
type JobService struct {
	jobRepo *repository.WashJobRepository
	now     func() time.Time
}

func NewJobService(jobRepo *repository.WashJobRepository) *JobService {
	return &JobService{jobRepo: jobRepo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *JobService) Create(ctx context.Context, providerID uuid.UUID, input CreateJobInput) (*model.WashJob, error) {
	job := &model.WashJob{
		ProviderID:       providerID,
		ClientID:         input.ClientID,
		CarID:            input.CarID,
		AssignedWorkerID: input.AssignedWorkerID,
		Status:           model.WashJobStatusNotStarted,
		ScheduledAt:      input.ScheduledAt.UTC(),
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) List(ctx context.Context, params repository.ListJobsParams) ([]model.WashJob, int64, error) {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}
	return s.jobRepo.List(ctx, params)
}

func (s *JobService) Get(ctx context.Context, providerID, id uuid.UUID) (*model.WashJob, error) {
	job, err := s.jobRepo.FindByID(ctx, providerID, id)
	if err != nil {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// Update applies staff/worker edits. Status transitions stamp timestamps:
// the first move to IN_PROGRESS sets started_at, every move to COMPLETED
// overwrites completed_at (an idempotent re-completion, by contract).
func (s *JobService) Update(ctx context.Context, providerID, id uuid.UUID, input UpdateJobInput) (*model.WashJob, error) {
	job, err := s.Get(ctx, providerID, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		if err := s.applyStatus(job, *input.Status); err != nil {
			return nil, err
		}
	}
	if input.AssignedWorkerID != nil {
		job.AssignedWorkerID = input.AssignedWorkerID
	}
	if input.ScheduledAt != nil {
		job.ScheduledAt = input.ScheduledAt.UTC()
	}

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) applyStatus(job *model.WashJob, status model.WashJobStatus) error {
	if !model.ValidWashJobStatus(status) {
		return ErrUnknownJobStatus
	}
	if status == model.WashJobStatusNotStarted && job.Status != model.WashJobStatusNotStarted {
		return ErrStatusRegression
	}

	job.Status = status
	switch status {
	case model.WashJobStatusInProgress:
		if job.StartedAt == nil {
			now := s.now()
			job.StartedAt = &now
		}
	case model.WashJobStatusCompleted:
		now := s.now()
		job.CompletedAt = &now
	}
	return nil
}

func (s *JobService) Delete(ctx context.Context, providerID, id uuid.UUID) error {
	if _, err := s.Get(ctx, providerID, id); err != nil {
		return err
	}
	return s.jobRepo.Delete(ctx, providerID, id)
}
