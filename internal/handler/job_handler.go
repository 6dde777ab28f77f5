package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"washdesk/internal/calendar"
	"washdesk/internal/repository"
	"washdesk/internal/service"
)

// JobHandler serves wash-job endpoints, including the two generation
// triggers.
type JobHandler struct {
	jobs      *service.JobService
	generator *service.GeneratorService
}

func NewJobHandler(jobs *service.JobService, generator *service.GeneratorService) *JobHandler {
	return &JobHandler{jobs: jobs, generator: generator}
}

// GenerateToday handles POST /wash-jobs/generate-today?date=YYYY-MM-DD.
// Without a date it generates for the current day. The sweep covers all
// providers, matching the nightly cron.
func (h *JobHandler) GenerateToday(w http.ResponseWriter, r *http.Request) {
	date := calendar.NoonUTC(time.Now())
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := calendar.ParseDate(raw)
		if err != nil {
			httpError(w, err.Error(), http.StatusBadRequest)
			return
		}
		date = parsed
	}

	report, err := h.generator.GenerateForDate(r.Context(), date)
	if err != nil {
		httpError(w, "generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// GenerateMonth handles POST /wash-jobs/generate-month?month=YYYY-MM&clientId=,
// scoped to the caller's provider (or the providerId override).
func (h *JobHandler) GenerateMonth(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if _, err := calendar.MonthDays(month); err != nil {
		httpError(w, err.Error(), http.StatusBadRequest)
		return
	}

	clientID := uuid.Nil
	if raw := r.URL.Query().Get("clientId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httpError(w, "invalid clientId", http.StatusBadRequest)
			return
		}
		clientID = parsed
	}

	report, err := h.generator.GenerateMonth(r.Context(), scopeWithOverride(r), month, clientID)
	if err != nil {
		httpError(w, "generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// Create handles POST /wash-jobs for direct staff-created jobs.
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateJobInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if input.ClientID == uuid.Nil || input.CarID == uuid.Nil {
		httpError(w, "clientId and carId are required", http.StatusBadRequest)
		return
	}
	if input.ScheduledAt.IsZero() {
		httpError(w, "scheduledAt is required", http.StatusBadRequest)
		return
	}

	job, err := h.jobs.Create(r.Context(), scopeWithOverride(r), input)
	if err != nil {
		httpError(w, "create failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, job)
}

// List handles GET /wash-jobs with paging, day filtering and sorting.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	sortBy := r.URL.Query().Get("sortBy")
	if !repository.ValidJobSortBy(sortBy) {
		httpError(w, "unsupported sortBy "+sortBy, http.StatusBadRequest)
		return
	}
	params := repository.ListJobsParams{
		ProviderID: scopeWithOverride(r),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
		SortBy:     sortBy,
		SortOrder:  r.URL.Query().Get("sortOrder"),
	}

	q := r.URL.Query()
	if raw := q.Get("date"); raw != "" {
		day, err := calendar.ParseDate(raw)
		if err != nil {
			httpError(w, err.Error(), http.StatusBadRequest)
			return
		}
		start, end := calendar.DayBounds(day)
		params.From, params.To = &start, &end
	} else {
		if raw := q.Get("dateFrom"); raw != "" {
			day, err := calendar.ParseDate(raw)
			if err != nil {
				httpError(w, err.Error(), http.StatusBadRequest)
				return
			}
			start, _ := calendar.DayBounds(day)
			params.From = &start
		}
		if raw := q.Get("dateTo"); raw != "" {
			day, err := calendar.ParseDate(raw)
			if err != nil {
				httpError(w, err.Error(), http.StatusBadRequest)
				return
			}
			_, end := calendar.DayBounds(day)
			params.To = &end
		}
	}

	jobs, total, err := h.jobs.List(r.Context(), params)
	if err != nil {
		httpError(w, "list failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, pagedResponse{Items: jobs, Total: total, Page: params.Page, Limit: params.Limit})
}

// Get handles GET /wash-jobs/{id}.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	job, err := h.jobs.Get(r.Context(), scopeWithOverride(r), id)
	if err != nil {
		httpError(w, err.Error(), http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// Update handles PATCH /wash-jobs/{id}: status transitions, worker
// assignment, rescheduling.
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input service.UpdateJobInput
	if !decodeJSON(w, r, &input) {
		return
	}

	job, err := h.jobs.Update(r.Context(), scopeWithOverride(r), id, input)
	switch {
	case errors.Is(err, service.ErrJobNotFound):
		httpError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrUnknownJobStatus), errors.Is(err, service.ErrStatusRegression):
		httpError(w, err.Error(), http.StatusBadRequest)
	case err != nil:
		httpError(w, "update failed: "+err.Error(), http.StatusInternalServerError)
	default:
		respondJSON(w, http.StatusOK, job)
	}
}

// Delete handles DELETE /wash-jobs/{id}.
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.jobs.Delete(r.Context(), scopeWithOverride(r), id); err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			httpError(w, err.Error(), http.StatusNotFound)
			return
		}
		httpError(w, "delete failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
