package handler

import (
	"errors"
	"net/http"

	"washdesk/internal/service"
)

// ClientHandler serves client management endpoints.
type ClientHandler struct {
	clients *service.ClientService
}

func NewClientHandler(clients *service.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

func clientError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrClientNotFound):
		httpError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrClientNameRequired):
		httpError(w, err.Error(), http.StatusBadRequest)
	default:
		httpError(w, err.Error(), http.StatusInternalServerError)
	}
}

// Create handles POST /clients.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.ClientInput
	if !decodeJSON(w, r, &input) {
		return
	}
	client, err := h.clients.Create(r.Context(), scopeWithOverride(r), input)
	if err != nil {
		clientError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, client)
}

// List handles GET /clients.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := queryInt(r, "page", 1), queryInt(r, "limit", 20)
	clients, total, err := h.clients.List(r.Context(), scopeWithOverride(r), page, limit)
	if err != nil {
		clientError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pagedResponse{Items: clients, Total: total, Page: page, Limit: limit})
}

// Get handles GET /clients/{id}.
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	client, err := h.clients.Get(r.Context(), scopeWithOverride(r), id)
	if err != nil {
		clientError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, client)
}

// Update handles PATCH /clients/{id}.
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input service.ClientInput
	if !decodeJSON(w, r, &input) {
		return
	}
	client, err := h.clients.Update(r.Context(), scopeWithOverride(r), id, input)
	if err != nil {
		clientError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, client)
}

// Delete handles DELETE /clients/{id}.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.clients.Delete(r.Context(), scopeWithOverride(r), id); err != nil {
		clientError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Cars handles GET /clients/{id}/cars.
func (h *ClientHandler) Cars(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	cars, err := h.clients.Cars(r.Context(), scopeWithOverride(r), id)
	if err != nil {
		clientError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cars)
}
