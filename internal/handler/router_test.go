package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"washdesk/internal/model"
	"washdesk/internal/repository"
	"washdesk/internal/service"
)

// testEnv is a fully wired API over an in-memory database, seeded with one
// provider, one client with a car, and a Mondays-only plan the client is
// actively enrolled in.
type testEnv struct {
	db       *gorm.DB
	router   http.Handler
	provider model.Provider
	client   model.Client
	car      model.Car
	plan     model.WashPlan
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	providerRepo := repository.NewProviderRepository(db)
	clientRepo := repository.NewClientRepository(db)
	carRepo := repository.NewCarRepository(db)
	planRepo := repository.NewWashPlanRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	jobRepo := repository.NewWashJobRepository(db)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	generatorSvc := service.NewGeneratorService(planRepo, enrollmentRepo, carRepo, jobRepo, logger)

	router := NewRouter(Handlers{
		Jobs:      NewJobHandler(service.NewJobService(jobRepo), generatorSvc),
		Plans:     NewPlanHandler(service.NewPlanService(planRepo, enrollmentRepo, clientRepo)),
		Clients:   NewClientHandler(service.NewClientService(clientRepo, carRepo)),
		Cars:      NewCarHandler(service.NewCarService(carRepo, clientRepo)),
		Public:    NewPublicHandler(service.NewEnrollService(providerRepo, clientRepo, carRepo, planRepo, enrollmentRepo)),
		Super:     NewSuperHandler(service.NewStatsService(providerRepo, clientRepo, jobRepo)),
		Providers: NewProviderHandler(service.NewProviderService(providerRepo)),
	})

	env := &testEnv{
		db:       db,
		router:   router,
		provider: model.Provider{Name: "Shine & Go", Enabled: true},
	}
	if err := db.Create(&env.provider).Error; err != nil {
		t.Fatalf("seed provider: %v", err)
	}
	env.client = model.Client{ProviderID: env.provider.ID, Name: "Anna", Phone: "+100200300"}
	if err := db.Create(&env.client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	env.car = model.Car{ClientID: env.client.ID, PlateNumber: "AB-123-CD"}
	if err := db.Create(&env.car).Error; err != nil {
		t.Fatalf("seed car: %v", err)
	}
	env.plan = model.WashPlan{
		ProviderID:   env.provider.ID,
		Name:         "Monday shine",
		DaysOfWeek:   []int{1},
		TimesPerWeek: 1,
		Location:     model.WashPlanLocationOutside,
		WashesInPlan: 4,
	}
	if err := db.Create(&env.plan).Error; err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	enrollment := model.ClientWashPlan{
		ClientID:   env.client.ID,
		WashPlanID: env.plan.ID,
		Status:     model.EnrollmentStatusActive,
	}
	if err := db.Create(&enrollment).Error; err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}
	return env
}

// do performs a request as the seeded provider unless scope is overridden.
func (e *testEnv) do(t *testing.T, method, target string, body any, scope uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if scope != uuid.Nil {
		req.Header.Set("X-Provider-ID", scope.String())
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return out
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", nil, uuid.Nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestScopedRoutesRejectMissingProvider(t *testing.T) {
	env := newTestEnv(t)
	for _, target := range []string{"/wash-jobs", "/wash-plans", "/clients", "/cars"} {
		rec := env.do(t, http.MethodGet, target, nil, uuid.Nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without scope: status = %d, want 401", target, rec.Code)
		}
	}
}

func TestGenerateToday(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/wash-jobs/generate-today?date=2024-06-10", nil, env.provider.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	report := decodeBody[service.Report](t, rec)
	if report.Created != 1 || report.Skipped != 0 {
		t.Fatalf("got %+v, want created=1 skipped=0", report)
	}

	rec = env.do(t, http.MethodPost, "/wash-jobs/generate-today?date=2024-06-10", nil, env.provider.ID)
	report = decodeBody[service.Report](t, rec)
	if report.Created != 0 || report.Skipped != 1 {
		t.Fatalf("rerun: got %+v, want created=0 skipped=1", report)
	}
}

func TestGenerateToday_BadDate(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/wash-jobs/generate-today?date=tomorrow", nil, env.provider.ID)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateMonth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/wash-jobs/generate-month?month=2024-06", nil, env.provider.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	report := decodeBody[service.Report](t, rec)
	// June 2024 has four Mondays.
	if report.Created != 4 {
		t.Fatalf("got %+v, want created=4", report)
	}
}

func TestGenerateMonth_BadMonth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/wash-jobs/generate-month?month=June", nil, env.provider.ID)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestJobListAndLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/wash-jobs/generate-today?date=2024-06-10", nil, env.provider.ID)

	rec := env.do(t, http.MethodGet, "/wash-jobs?date=2024-06-10", nil, env.provider.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	type listBody struct {
		Items []model.WashJob `json:"items"`
		Total int64           `json:"total"`
	}
	list := decodeBody[listBody](t, rec)
	if list.Total != 1 || len(list.Items) != 1 {
		t.Fatalf("list = %+v, want one job", list)
	}
	jobID := list.Items[0].ID

	patch := func(body map[string]any) *httptest.ResponseRecorder {
		return env.do(t, http.MethodPatch, fmt.Sprintf("/wash-jobs/%s", jobID), body, env.provider.ID)
	}

	rec = patch(map[string]any{"status": "IN_PROGRESS"})
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d, body %s", rec.Code, rec.Body.String())
	}
	job := decodeBody[model.WashJob](t, rec)
	if job.StartedAt == nil {
		t.Fatal("startedAt not stamped on IN_PROGRESS")
	}

	rec = patch(map[string]any{"status": "COMPLETED"})
	job = decodeBody[model.WashJob](t, rec)
	if job.CompletedAt == nil {
		t.Fatal("completedAt not stamped on COMPLETED")
	}

	if rec = patch(map[string]any{"status": "NOT_STARTED"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("regression status = %d, want 400", rec.Code)
	}
	if rec = patch(map[string]any{"status": "SCRUBBING"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown status = %d, want 400", rec.Code)
	}
}

func TestJobList_ForeignProviderSeesNothing(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/wash-jobs/generate-today?date=2024-06-10", nil, env.provider.ID)

	rec := env.do(t, http.MethodGet, "/wash-jobs", nil, uuid.New())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	type listBody struct {
		Total int64 `json:"total"`
	}
	if list := decodeBody[listBody](t, rec); list.Total != 0 {
		t.Fatalf("foreign provider sees %d jobs", list.Total)
	}
}

func TestPublicEnroll(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{
		"code":  env.provider.EnrollmentCode(),
		"name":  "Boris",
		"phone": "+700800900",
		"cars": []map[string]string{
			{"plateNumber": "EF-456-GH", "model": "Kodiaq", "color": "grey"},
		},
		"planIds": []string{env.plan.ID.String()},
	}
	rec := env.do(t, http.MethodPost, "/public/enroll", body, uuid.Nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	result := decodeBody[service.EnrollResult](t, rec)
	if result.Provider.ID != env.provider.ID || result.Client.Phone != "+700800900" {
		t.Fatalf("unexpected result %+v", result)
	}

	// The new enrollment is picked up by the next generation run.
	gen := env.do(t, http.MethodPost, "/wash-jobs/generate-today?date=2024-06-10", nil, env.provider.ID)
	report := decodeBody[service.Report](t, gen)
	if report.Created != 2 {
		t.Fatalf("got %+v, want a job for both enrolled clients", report)
	}
}

func TestPublicEnroll_RequiresNameAndPhone(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/public/enroll", map[string]any{"name": "Boris"}, uuid.Nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPublicEnrollInfo(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/public/enroll-info?code="+env.provider.EnrollmentCode(), nil, uuid.Nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	info := decodeBody[service.EnrollInfo](t, rec)
	if info.Provider.ID != env.provider.ID || len(info.Plans) != 1 {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestJobList_RejectsUnknownSortBy(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/wash-jobs?sortBy=clientPhone", nil, env.provider.ID)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestJobList_SortByClientNameAndPlate(t *testing.T) {
	env := newTestEnv(t)

	// The second client sorts after Anna by name and after AB-123 by plate.
	second := model.Client{ProviderID: env.provider.ID, Name: "Boris", Phone: "+700800900"}
	if err := env.db.Create(&second).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	if err := env.db.Create(&model.Car{ClientID: second.ID, PlateNumber: "EF-456-GH"}).Error; err != nil {
		t.Fatalf("seed car: %v", err)
	}
	enrollment := model.ClientWashPlan{
		ClientID:   second.ID,
		WashPlanID: env.plan.ID,
		Status:     model.EnrollmentStatusActive,
	}
	if err := env.db.Create(&enrollment).Error; err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}
	env.do(t, http.MethodPost, "/wash-jobs/generate-today?date=2024-06-10", nil, env.provider.ID)

	type listBody struct {
		Items []model.WashJob `json:"items"`
	}

	rec := env.do(t, http.MethodGet, "/wash-jobs?sortBy=clientName&sortOrder=asc", nil, env.provider.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("clientName sort status = %d, body %s", rec.Code, rec.Body.String())
	}
	list := decodeBody[listBody](t, rec)
	if len(list.Items) != 2 || list.Items[0].Client == nil || list.Items[0].Client.Name != "Anna" {
		t.Fatalf("clientName asc order wrong: %+v", list.Items)
	}

	rec = env.do(t, http.MethodGet, "/wash-jobs?sortBy=carPlate&sortOrder=desc", nil, env.provider.ID)
	list = decodeBody[listBody](t, rec)
	if len(list.Items) != 2 || list.Items[0].Car == nil || list.Items[0].Car.PlateNumber != "EF-456-GH" {
		t.Fatalf("carPlate desc order wrong: %+v", list.Items)
	}
}

func TestProviderManagement(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/providers", map[string]any{"name": ""}, env.provider.ID)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty name status = %d, want 400", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/providers", map[string]any{"name": "Bubbles"}, env.provider.ID)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[model.Provider](t, rec)
	if created.ID == uuid.Nil || !created.Enabled {
		t.Fatalf("unexpected provider %+v", created)
	}

	rec = env.do(t, http.MethodGet, "/providers", nil, env.provider.ID)
	if providers := decodeBody[[]model.Provider](t, rec); len(providers) != 2 {
		t.Fatalf("listed %d providers, want 2", len(providers))
	}

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/providers/%s", created.ID), map[string]any{"enabled": false}, env.provider.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body %s", rec.Code, rec.Body.String())
	}
	if updated := decodeBody[model.Provider](t, rec); updated.Enabled {
		t.Fatal("enabled not cleared")
	}

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/providers/%s", uuid.New()), nil, env.provider.ID)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id status = %d, want 404", rec.Code)
	}
}

func TestSuperStats(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/wash-jobs/generate-today?date=2024-06-10", nil, env.provider.ID)

	rec := env.do(t, http.MethodGet, "/super/stats", nil, env.provider.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	stats := decodeBody[service.Stats](t, rec)
	if stats.ProvidersCount != 1 || stats.ClientsCount != 1 || stats.WashJobsCount != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
