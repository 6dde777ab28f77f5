package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"washdesk/internal/model"
	"washdesk/internal/service"
)

// PlanHandler serves wash-plan management and enrollment endpoints.
type PlanHandler struct {
	plans *service.PlanService
}

func NewPlanHandler(plans *service.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

func planError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound), errors.Is(err, service.ErrEnrollmentNotFound):
		httpError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrPlanNameRequired),
		errors.Is(err, service.ErrBadWeekday),
		errors.Is(err, service.ErrUnknownStatus):
		httpError(w, err.Error(), http.StatusBadRequest)
	default:
		httpError(w, err.Error(), http.StatusInternalServerError)
	}
}

// Create handles POST /wash-plans.
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.PlanInput
	if !decodeJSON(w, r, &input) {
		return
	}
	plan, err := h.plans.Create(r.Context(), scopeWithOverride(r), input)
	if err != nil {
		planError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, plan)
}

// List handles GET /wash-plans.
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := queryInt(r, "page", 1), queryInt(r, "limit", 20)
	plans, total, err := h.plans.List(r.Context(), scopeWithOverride(r), page, limit)
	if err != nil {
		planError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pagedResponse{Items: plans, Total: total, Page: page, Limit: limit})
}

// Get handles GET /wash-plans/{id}.
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	plan, err := h.plans.Get(r.Context(), scopeWithOverride(r), id)
	if err != nil {
		planError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

// Update handles PATCH /wash-plans/{id}.
func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input service.PlanInput
	if !decodeJSON(w, r, &input) {
		return
	}
	plan, err := h.plans.Update(r.Context(), scopeWithOverride(r), id, input)
	if err != nil {
		planError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

// Delete handles DELETE /wash-plans/{id}.
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.plans.Delete(r.Context(), scopeWithOverride(r), id); err != nil {
		planError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Enroll handles POST /wash-plans/{id}/enroll with {"clientId": ...}.
func (h *PlanHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		ClientID string `json:"clientId"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	clientID, err := uuid.Parse(body.ClientID)
	if err != nil {
		httpError(w, "invalid clientId", http.StatusBadRequest)
		return
	}
	enrollment, err := h.plans.EnrollClient(r.Context(), scopeWithOverride(r), planID, clientID)
	if err != nil {
		planError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, enrollment)
}

// SetEnrollmentStatus handles PATCH /wash-plans/{id}/enroll/{clientId} with
// {"status": "ACTIVE"|"PAUSED"|"CANCELLED"}.
func (h *PlanHandler) SetEnrollmentStatus(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	clientID, ok := pathID(w, r, "clientId")
	if !ok {
		return
	}
	var body struct {
		Status model.EnrollmentStatus `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	enrollment, err := h.plans.SetEnrollmentStatus(r.Context(), scopeWithOverride(r), planID, clientID, body.Status)
	if err != nil {
		planError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, enrollment)
}

// RemoveEnrollment handles DELETE /wash-plans/{id}/enroll/{clientId}.
func (h *PlanHandler) RemoveEnrollment(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	clientID, ok := pathID(w, r, "clientId")
	if !ok {
		return
	}
	if err := h.plans.RemoveEnrollment(r.Context(), scopeWithOverride(r), planID, clientID); err != nil {
		planError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// EnrolledClients handles GET /wash-plans/{id}/clients.
func (h *PlanHandler) EnrolledClients(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	enrollments, err := h.plans.EnrolledClients(r.Context(), scopeWithOverride(r), planID)
	if err != nil {
		planError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, enrollments)
}
