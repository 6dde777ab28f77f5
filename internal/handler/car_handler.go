package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"washdesk/internal/service"
)

// CarHandler serves car management endpoints.
type CarHandler struct {
	cars *service.CarService
}

func NewCarHandler(cars *service.CarService) *CarHandler {
	return &CarHandler{cars: cars}
}

func carError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrCarNotFound), errors.Is(err, service.ErrCarClientScope):
		httpError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrPlateRequired):
		httpError(w, err.Error(), http.StatusBadRequest)
	default:
		httpError(w, err.Error(), http.StatusInternalServerError)
	}
}

// Create handles POST /cars.
func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CarInput
	if !decodeJSON(w, r, &input) {
		return
	}
	car, err := h.cars.Create(r.Context(), scopeWithOverride(r), input)
	if err != nil {
		carError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, car)
}

// List handles GET /cars with an optional clientId filter.
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := queryInt(r, "page", 1), queryInt(r, "limit", 20)
	clientID := uuid.Nil
	if raw := r.URL.Query().Get("clientId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httpError(w, "invalid clientId", http.StatusBadRequest)
			return
		}
		clientID = parsed
	}
	cars, total, err := h.cars.List(r.Context(), scopeWithOverride(r), clientID, page, limit)
	if err != nil {
		carError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pagedResponse{Items: cars, Total: total, Page: page, Limit: limit})
}

// Get handles GET /cars/{id}.
func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	car, err := h.cars.Get(r.Context(), scopeWithOverride(r), id)
	if err != nil {
		carError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, car)
}

// Update handles PATCH /cars/{id}.
func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input service.CarInput
	if !decodeJSON(w, r, &input) {
		return
	}
	car, err := h.cars.Update(r.Context(), scopeWithOverride(r), id, input)
	if err != nil {
		carError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, car)
}

// Delete handles DELETE /cars/{id}.
func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.cars.Delete(r.Context(), scopeWithOverride(r), id); err != nil {
		carError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
