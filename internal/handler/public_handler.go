package handler

import (
	"errors"
	"net/http"

	"washdesk/internal/service"
)

// PublicHandler serves the unauthenticated self-enrollment endpoints.
type PublicHandler struct {
	enroll *service.EnrollService
}

func NewPublicHandler(enroll *service.EnrollService) *PublicHandler {
	return &PublicHandler{enroll: enroll}
}

// EnrollInfo handles GET /public/enroll-info?code=.
func (h *PublicHandler) EnrollInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.enroll.Info(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		if errors.Is(err, service.ErrProviderNotFound) {
			httpError(w, err.Error(), http.StatusNotFound)
			return
		}
		httpError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

// Enroll handles POST /public/enroll.
func (h *PublicHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var input service.EnrollInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if input.Name == "" || input.Phone == "" {
		httpError(w, "name and phone are required", http.StatusBadRequest)
		return
	}
	result, err := h.enroll.Enroll(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrProviderNotFound) {
			httpError(w, err.Error(), http.StatusNotFound)
			return
		}
		httpError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}
