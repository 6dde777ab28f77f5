package handler

import (
	"errors"
	"net/http"

	"washdesk/internal/service"
)

// ProviderHandler serves super-admin tenant management endpoints.
type ProviderHandler struct {
	providers *service.ProviderService
}

func NewProviderHandler(providers *service.ProviderService) *ProviderHandler {
	return &ProviderHandler{providers: providers}
}

func providerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProviderNotFound):
		httpError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrProviderNameRequired):
		httpError(w, err.Error(), http.StatusBadRequest)
	default:
		httpError(w, err.Error(), http.StatusInternalServerError)
	}
}

// Create handles POST /providers.
func (h *ProviderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.ProviderInput
	if !decodeJSON(w, r, &input) {
		return
	}
	provider, err := h.providers.Create(r.Context(), input)
	if err != nil {
		providerError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, provider)
}

// List handles GET /providers.
func (h *ProviderHandler) List(w http.ResponseWriter, r *http.Request) {
	providers, err := h.providers.List(r.Context())
	if err != nil {
		providerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, providers)
}

// Get handles GET /providers/{id}.
func (h *ProviderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	provider, err := h.providers.Get(r.Context(), id)
	if err != nil {
		providerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, provider)
}

// Update handles PATCH /providers/{id}.
func (h *ProviderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input service.ProviderInput
	if !decodeJSON(w, r, &input) {
		return
	}
	provider, err := h.providers.Update(r.Context(), id, input)
	if err != nil {
		providerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, provider)
}
