package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"washdesk/internal/calendar"
	"washdesk/internal/model"
	"washdesk/internal/repository"
)

// Report summarizes one generation run: jobs inserted vs eligible pairs that
// already had one, plus any writes that did not go through.
type Report struct {
	Created  int       `json:"created"`
	Skipped  int       `json:"skipped"`
	Failures []Failure `json:"failures,omitempty"`
}

// Failure records a single (enrollment, car) write that failed.
type Failure struct {
	ClientID uuid.UUID `json:"clientId"`
	CarID    uuid.UUID `json:"carId"`
	Date     string    `json:"date"`
	Error    string    `json:"error"`
}

func (r *Report) merge(other Report) {
	r.Created += other.Created
	r.Skipped += other.Skipped
	r.Failures = append(r.Failures, other.Failures...)
}

// GeneratorService materializes wash jobs from active plan enrollments on
// both a daily and a monthly cadence. Each run is one logically sequential
// unit of work; overlapping runs (cron vs. a manual call) are not serialized,
// but the unique job-identity index turns the losing duplicate insert into a
// skip rather than a second job.
type GeneratorService struct {
	planRepo       *repository.WashPlanRepository
	enrollmentRepo *repository.EnrollmentRepository
	carRepo        *repository.CarRepository
	jobRepo        *repository.WashJobRepository
	logger         *slog.Logger
}

func NewGeneratorService(
	planRepo *repository.WashPlanRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	carRepo *repository.CarRepository,
	jobRepo *repository.WashJobRepository,
	logger *slog.Logger,
) *GeneratorService {
	return &GeneratorService{
		planRepo:       planRepo,
		enrollmentRepo: enrollmentRepo,
		carRepo:        carRepo,
		jobRepo:        jobRepo,
		logger:         logger,
	}
}

// GenerateForDate runs the daily pipeline for one date across all providers.
// A date whose weekday matches no plan yields an empty report, not an error.
func (s *GeneratorService) GenerateForDate(ctx context.Context, date time.Time) (Report, error) {
	return s.generate(ctx, date, uuid.Nil, uuid.Nil)
}

// GenerateMonth replays the daily pipeline for every day of a YYYY-MM month,
// scoped to one provider and optionally one client, and aggregates the
// per-day reports. Re-running a fully generated month reports created=0 with
// everything counted as skipped.
func (s *GeneratorService) GenerateMonth(ctx context.Context, providerID uuid.UUID, month string, clientID uuid.UUID) (Report, error) {
	days, err := calendar.MonthDays(month)
	if err != nil {
		return Report{}, err
	}

	var total Report
	for _, day := range days {
		report, err := s.generate(ctx, day, providerID, clientID)
		total.merge(report)
		if err != nil {
			return total, fmt.Errorf("generate %s: %w", day.Format(model.ScheduledDayLayout), err)
		}
	}

	s.logger.Info("monthly generation finished",
		"provider_id", providerID,
		"month", month,
		"created", total.Created,
		"skipped", total.Skipped,
		"failures", len(total.Failures),
	)
	return total, nil
}

// generate is the shared pipeline: weekday -> eligible plans -> active
// enrollments -> car fanout -> duplicate guard -> job write. providerID and
// clientID narrow the sweep when non-nil.
func (s *GeneratorService) generate(ctx context.Context, date time.Time, providerID, clientID uuid.UUID) (Report, error) {
	day := calendar.NoonUTC(date)
	weekday := calendar.Weekday(day)

	var (
		plans []model.WashPlan
		err   error
	)
	if providerID == uuid.Nil {
		plans, err = s.planRepo.ListAll(ctx)
	} else {
		plans, err = s.planRepo.ListByProvider(ctx, providerID)
	}
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, plan := range plans {
		if !planActiveOn(plan, weekday) {
			continue
		}
		// plan.WashesInPlan is deliberately not consulted: the subscription
		// budget belongs to billing and does not cap generation.
		enrollments, err := s.enrollmentRepo.ListActiveByPlan(ctx, plan.ID, clientID)
		if err != nil {
			return report, err
		}
		for _, enrollment := range enrollments {
			cars, err := s.carRepo.ListByClient(ctx, enrollment.ClientID)
			if err != nil {
				return report, err
			}
			for _, car := range cars {
				created, err := s.writeJob(ctx, plan.ProviderID, enrollment.ClientID, car.ID, day)
				if err != nil {
					// Best effort: record the failure and keep sweeping so one
					// bad row cannot abort the rest of the batch.
					report.Failures = append(report.Failures, Failure{
						ClientID: enrollment.ClientID,
						CarID:    car.ID,
						Date:     day.Format(model.ScheduledDayLayout),
						Error:    err.Error(),
					})
					s.logger.Error("job write failed",
						"client_id", enrollment.ClientID,
						"car_id", car.ID,
						"date", day.Format(model.ScheduledDayLayout),
						"error", err,
					)
					continue
				}
				if created {
					report.Created++
				} else {
					report.Skipped++
				}
			}
		}
	}

	return report, nil
}

// writeJob consults the duplicate guard immediately before the insert, once
// per (enrollment, car) pair. The read-then-write pair is racy across
// overlapping runs; a duplicate-key error from the identity index is treated
// as "already generated".
func (s *GeneratorService) writeJob(ctx context.Context, providerID, clientID, carID uuid.UUID, day time.Time) (bool, error) {
	start, end := calendar.DayBounds(day)
	exists, err := s.jobRepo.ExistsOnDay(ctx, providerID, clientID, carID, start, end)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	job := &model.WashJob{
		ProviderID:  providerID,
		ClientID:    clientID,
		CarID:       carID,
		Status:      model.WashJobStatusNotStarted,
		ScheduledAt: day,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func planActiveOn(plan model.WashPlan, weekday int) bool {
	for _, d := range plan.DaysOfWeek {
		if d == weekday {
			return true
		}
	}
	return false
}
