package handler

import "net/http"

// Handlers bundles every HTTP handler of the service.
type Handlers struct {
	Jobs      *JobHandler
	Plans     *PlanHandler
	Clients   *ClientHandler
	Cars      *CarHandler
	Public    *PublicHandler
	Super     *SuperHandler
	Providers *ProviderHandler
}

// NewRouter wires all routes. Everything except the public enrollment pages
// and the health check runs behind the provider-scope middleware.
func NewRouter(h Handlers) http.Handler {
	mux := http.NewServeMux()

	scoped := func(fn http.HandlerFunc) http.Handler {
		return ProviderScope(fn)
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Handle("POST /wash-jobs/generate-today", scoped(h.Jobs.GenerateToday))
	mux.Handle("POST /wash-jobs/generate-month", scoped(h.Jobs.GenerateMonth))
	mux.Handle("POST /wash-jobs", scoped(h.Jobs.Create))
	mux.Handle("GET /wash-jobs", scoped(h.Jobs.List))
	mux.Handle("GET /wash-jobs/{id}", scoped(h.Jobs.Get))
	mux.Handle("PATCH /wash-jobs/{id}", scoped(h.Jobs.Update))
	mux.Handle("DELETE /wash-jobs/{id}", scoped(h.Jobs.Delete))

	mux.Handle("POST /wash-plans", scoped(h.Plans.Create))
	mux.Handle("GET /wash-plans", scoped(h.Plans.List))
	mux.Handle("GET /wash-plans/{id}", scoped(h.Plans.Get))
	mux.Handle("PATCH /wash-plans/{id}", scoped(h.Plans.Update))
	mux.Handle("DELETE /wash-plans/{id}", scoped(h.Plans.Delete))
	mux.Handle("GET /wash-plans/{id}/clients", scoped(h.Plans.EnrolledClients))
	mux.Handle("POST /wash-plans/{id}/enroll", scoped(h.Plans.Enroll))
	mux.Handle("PATCH /wash-plans/{id}/enroll/{clientId}", scoped(h.Plans.SetEnrollmentStatus))
	mux.Handle("DELETE /wash-plans/{id}/enroll/{clientId}", scoped(h.Plans.RemoveEnrollment))

	mux.Handle("POST /clients", scoped(h.Clients.Create))
	mux.Handle("GET /clients", scoped(h.Clients.List))
	mux.Handle("GET /clients/{id}", scoped(h.Clients.Get))
	mux.Handle("PATCH /clients/{id}", scoped(h.Clients.Update))
	mux.Handle("DELETE /clients/{id}", scoped(h.Clients.Delete))
	mux.Handle("GET /clients/{id}/cars", scoped(h.Clients.Cars))

	mux.Handle("POST /cars", scoped(h.Cars.Create))
	mux.Handle("GET /cars", scoped(h.Cars.List))
	mux.Handle("GET /cars/{id}", scoped(h.Cars.Get))
	mux.Handle("PATCH /cars/{id}", scoped(h.Cars.Update))
	mux.Handle("DELETE /cars/{id}", scoped(h.Cars.Delete))

	mux.HandleFunc("GET /public/enroll-info", h.Public.EnrollInfo)
	mux.HandleFunc("POST /public/enroll", h.Public.Enroll)

	mux.Handle("GET /super/stats", scoped(h.Super.Stats))

	mux.Handle("POST /providers", scoped(h.Providers.Create))
	mux.Handle("GET /providers", scoped(h.Providers.List))
	mux.Handle("GET /providers/{id}", scoped(h.Providers.Get))
	mux.Handle("PATCH /providers/{id}", scoped(h.Providers.Update))

	return mux
}
