package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// providerIDKey is the context key for the resolved tenant scope.
type providerIDKey struct{}

// ProviderScope resolves the caller's tenant before any scoped handler runs.
// Authentication proper (JWT issuance, roles) lives in front of this service;
// by the time a request lands here the gateway has already vouched for the
// X-Provider-ID header.
func ProviderScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		providerID, err := uuid.Parse(r.Header.Get("X-Provider-ID"))
		if err != nil {
			httpError(w, "missing or invalid provider scope", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), providerIDKey{}, providerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ProviderIDFromContext extracts the tenant scope set by ProviderScope.
func ProviderIDFromContext(ctx context.Context) uuid.UUID {
	if v := ctx.Value(providerIDKey{}); v != nil {
		return v.(uuid.UUID)
	}
	return uuid.Nil
}

// scopeWithOverride lets a super-admin act on another tenant via the
// providerId query parameter; everyone else stays in their own scope.
func scopeWithOverride(r *http.Request) uuid.UUID {
	if v := r.URL.Query().Get("providerId"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			return id
		}
	}
	return ProviderIDFromContext(r.Context())
}
