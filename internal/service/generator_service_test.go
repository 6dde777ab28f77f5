package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"washdesk/internal/calendar"
	"washdesk/internal/model"
	"washdesk/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture seeds one provider with one client and builds the generator on top.
type fixture struct {
	db        *gorm.DB
	generator *GeneratorService
	jobRepo   *repository.WashJobRepository
	provider  model.Provider
	client    model.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db: db,
		generator: NewGeneratorService(
			repository.NewWashPlanRepository(db),
			repository.NewEnrollmentRepository(db),
			repository.NewCarRepository(db),
			repository.NewWashJobRepository(db),
			testLogger(),
		),
		jobRepo:  repository.NewWashJobRepository(db),
		provider: model.Provider{Name: "Shine & Go", Enabled: true},
	}
	if err := db.Create(&f.provider).Error; err != nil {
		t.Fatalf("seed provider: %v", err)
	}
	f.client = model.Client{ProviderID: f.provider.ID, Name: "Anna", Phone: "+100200300"}
	if err := db.Create(&f.client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return f
}

func (f *fixture) addPlan(t *testing.T, days []int, washes int) model.WashPlan {
	t.Helper()
	plan := model.WashPlan{
		ProviderID:   f.provider.ID,
		Name:         "Weekly shine",
		DaysOfWeek:   days,
		TimesPerWeek: len(days),
		Location:     model.WashPlanLocationOutside,
		WashesInPlan: washes,
	}
	if err := f.db.Create(&plan).Error; err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return plan
}

func (f *fixture) enroll(t *testing.T, plan model.WashPlan, client model.Client, status model.EnrollmentStatus) {
	t.Helper()
	enrollment := model.ClientWashPlan{
		ClientID:   client.ID,
		WashPlanID: plan.ID,
		Status:     status,
	}
	if err := f.db.Create(&enrollment).Error; err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}
}

func (f *fixture) addCar(t *testing.T, client model.Client, plate string) model.Car {
	t.Helper()
	car := model.Car{ClientID: client.ID, PlateNumber: plate}
	if err := f.db.Create(&car).Error; err != nil {
		t.Fatalf("seed car: %v", err)
	}
	return car
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %s: %v", s, err)
	}
	return d
}

func (f *fixture) jobCount(t *testing.T) int64 {
	t.Helper()
	count, err := f.jobRepo.Count(context.Background())
	if err != nil {
		t.Fatalf("count jobs: %v", err)
	}
	return count
}

// Mon/Wed/Fri plan, one car. Monday creates one job, a repeat run skips it,
// Tuesday creates nothing.
func TestGenerateForDate_MondayPlan(t *testing.T) {
	f := newFixture(t)
	plan := f.addPlan(t, []int{1, 3, 5}, 12)
	f.enroll(t, plan, f.client, model.EnrollmentStatusActive)
	f.addCar(t, f.client, "AB-123-CD")

	ctx := context.Background()
	monday := mustDate(t, "2024-06-10")

	report, err := f.generator.GenerateForDate(ctx, monday)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if report.Created != 1 || report.Skipped != 0 {
		t.Fatalf("first run: got %+v, want created=1 skipped=0", report)
	}

	report, err = f.generator.GenerateForDate(ctx, monday)
	if err != nil {
		t.Fatalf("generate again: %v", err)
	}
	if report.Created != 0 || report.Skipped != 1 {
		t.Fatalf("second run: got %+v, want created=0 skipped=1", report)
	}

	tuesday := mustDate(t, "2024-06-11")
	report, err = f.generator.GenerateForDate(ctx, tuesday)
	if err != nil {
		t.Fatalf("generate tuesday: %v", err)
	}
	if report.Created != 0 || report.Skipped != 0 {
		t.Fatalf("tuesday: got %+v, want empty report", report)
	}

	if n := f.jobCount(t); n != 1 {
		t.Fatalf("expected exactly 1 job row, got %d", n)
	}
}

func TestGenerateForDate_JobShape(t *testing.T) {
	f := newFixture(t)
	plan := f.addPlan(t, []int{1}, 4)
	f.enroll(t, plan, f.client, model.EnrollmentStatusActive)
	car := f.addCar(t, f.client, "AB-123-CD")

	if _, err := f.generator.GenerateForDate(context.Background(), mustDate(t, "2024-06-10")); err != nil {
		t.Fatalf("generate: %v", err)
	}

	var job model.WashJob
	if err := f.db.First(&job).Error; err != nil {
		t.Fatalf("load job: %v", err)
	}
	if job.Status != model.WashJobStatusNotStarted {
		t.Errorf("status = %s", job.Status)
	}
	if job.StartedAt != nil || job.CompletedAt != nil {
		t.Error("fresh job must have nil start/completion timestamps")
	}
	if job.ProviderID != f.provider.ID || job.ClientID != f.client.ID || job.CarID != car.ID {
		t.Error("job not linked to the expected provider/client/car")
	}
	want := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	if !job.ScheduledAt.UTC().Equal(want) {
		t.Errorf("scheduledAt = %v, want %v", job.ScheduledAt, want)
	}
	if job.ScheduledDay != "2024-06-10" {
		t.Errorf("scheduledDay = %q", job.ScheduledDay)
	}
}

// A client with two cars under one active enrollment yields two jobs.
func TestGenerateForDate_CarFanout(t *testing.T) {
	f := newFixture(t)
	plan := f.addPlan(t, []int{1}, 8)
	f.enroll(t, plan, f.client, model.EnrollmentStatusActive)
	f.addCar(t, f.client, "AB-123-CD")
	f.addCar(t, f.client, "EF-456-GH")

	report, err := f.generator.GenerateForDate(context.Background(), mustDate(t, "2024-06-10"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if report.Created != 2 || report.Skipped != 0 {
		t.Fatalf("got %+v, want created=2 skipped=0", report)
	}
}

// Zero cars is no fanout, not an error.
func TestGenerateForDate_NoCars(t *testing.T) {
	f := newFixture(t)
	plan := f.addPlan(t, []int{1}, 8)
	f.enroll(t, plan, f.client, model.EnrollmentStatusActive)

	report, err := f.generator.GenerateForDate(context.Background(), mustDate(t, "2024-06-10"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if report.Created != 0 || report.Skipped != 0 {
		t.Fatalf("got %+v, want empty report", report)
	}
}

// Paused and cancelled enrollments contribute nothing on an eligible day.
func TestGenerateForDate_EnrollmentStatusGating(t *testing.T) {
	for _, status := range []model.EnrollmentStatus{model.EnrollmentStatusPaused, model.EnrollmentStatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			plan := f.addPlan(t, []int{1}, 8)
			f.enroll(t, plan, f.client, status)
			f.addCar(t, f.client, "AB-123-CD")

			report, err := f.generator.GenerateForDate(context.Background(), mustDate(t, "2024-06-10"))
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			if report.Created != 0 || report.Skipped != 0 {
				t.Fatalf("got %+v, want empty report", report)
			}
		})
	}
}

// The un-scoped daily run sweeps every provider in one pass.
func TestGenerateForDate_SweepsAllProviders(t *testing.T) {
	f := newFixture(t)
	plan := f.addPlan(t, []int{1}, 8)
	f.enroll(t, plan, f.client, model.EnrollmentStatusActive)
	f.addCar(t, f.client, "AB-123-CD")

	other := model.Provider{Name: "Bubbles", Enabled: true}
	if err := f.db.Create(&other).Error; err != nil {
		t.Fatalf("seed provider: %v", err)
	}
	otherClient := model.Client{ProviderID: other.ID, Name: "Boris", Phone: "+700800900"}
	if err := f.db.Create(&otherClient).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	otherPlan := model.WashPlan{
		ProviderID:   other.ID,
		Name:         "Monday special",
		DaysOfWeek:   []int{1},
		TimesPerWeek: 1,
		Location:     model.WashPlanLocationInside,
		WashesInPlan: 4,
	}
	if err := f.db.Create(&otherPlan).Error; err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	f.enroll(t, otherPlan, otherClient, model.EnrollmentStatusActive)
	f.addCar(t, otherClient, "ZZ-999-XX")

	report, err := f.generator.GenerateForDate(context.Background(), mustDate(t, "2024-06-10"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if report.Created != 2 {
		t.Fatalf("got %+v, want one job per provider", report)
	}
}

// June 2024 with a Mon/Wed plan: 4 Mondays + 4 Wednesdays = 8 jobs. The
// second run over the same month creates nothing and skips all 8.
func TestGenerateMonth(t *testing.T) {
	f := newFixture(t)
	plan := f.addPlan(t, []int{1, 3}, 8)
	f.enroll(t, plan, f.client, model.EnrollmentStatusActive)
	f.addCar(t, f.client, "AB-123-CD")

	ctx := context.Background()
	report, err := f.generator.GenerateMonth(ctx, f.provider.ID, "2024-06", uuid.Nil)
	if err != nil {
		t.Fatalf("generate month: %v", err)
	}
	if report.Created != 8 || report.Skipped != 0 {
		t.Fatalf("got %+v, want created=8 skipped=0", report)
	}

	var jobs []model.WashJob
	if err := f.db.Order("scheduled_day ASC").Find(&jobs).Error; err != nil {
		t.Fatalf("load jobs: %v", err)
	}
	wantDays := []string{
		"2024-06-03", "2024-06-05", "2024-06-10", "2024-06-12",
		"2024-06-17", "2024-06-19", "2024-06-24", "2024-06-26",
	}
	if len(jobs) != len(wantDays) {
		t.Fatalf("have %d jobs, want %d", len(jobs), len(wantDays))
	}
	for i, job := range jobs {
		if job.ScheduledDay != wantDays[i] {
			t.Errorf("job %d scheduled on %s, want %s", i, job.ScheduledDay, wantDays[i])
		}
	}

	report, err = f.generator.GenerateMonth(ctx, f.provider.ID, "2024-06", uuid.Nil)
	if err != nil {
		t.Fatalf("generate month again: %v", err)
	}
	if report.Created != 0 || report.Skipped != 8 {
		t.Fatalf("rerun: got %+v, want created=0 skipped=8", report)
	}
}

func TestGenerateMonth_BadMonthToken(t *testing.T) {
	f := newFixture(t)
	if _, err := f.generator.GenerateMonth(context.Background(), f.provider.ID, "June 2024", uuid.Nil); !errors.Is(err, calendar.ErrBadMonth) {
		t.Fatalf("expected ErrBadMonth, got %v", err)
	}
}

// An explicit filter for an unknown client yields zero eligible pairs.
func TestGenerateMonth_UnknownClientFilter(t *testing.T) {
	f := newFixture(t)
	plan := f.addPlan(t, []int{1}, 8)
	f.enroll(t, plan, f.client, model.EnrollmentStatusActive)
	f.addCar(t, f.client, "AB-123-CD")

	report, err := f.generator.GenerateMonth(context.Background(), f.provider.ID, "2024-06", uuid.New())
	if err != nil {
		t.Fatalf("generate month: %v", err)
	}
	if report.Created != 0 || report.Skipped != 0 {
		t.Fatalf("got %+v, want empty report", report)
	}
}

// The client filter narrows generation to one client's enrollments.
func TestGenerateMonth_ClientScoped(t *testing.T) {
	f := newFixture(t)
	plan := f.addPlan(t, []int{1}, 8)
	f.enroll(t, plan, f.client, model.EnrollmentStatusActive)
	f.addCar(t, f.client, "AB-123-CD")

	second := model.Client{ProviderID: f.provider.ID, Name: "Boris", Phone: "+700800900"}
	if err := f.db.Create(&second).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	f.enroll(t, plan, second, model.EnrollmentStatusActive)
	f.addCar(t, second, "EF-456-GH")

	report, err := f.generator.GenerateMonth(context.Background(), f.provider.ID, "2024-06", f.client.ID)
	if err != nil {
		t.Fatalf("generate month: %v", err)
	}
	// 4 Mondays in June 2024, only the filtered client's car.
	if report.Created != 4 {
		t.Fatalf("got %+v, want created=4", report)
	}

	var count int64
	if err := f.db.Model(&model.WashJob{}).Where("client_id = ?", second.ID).Count(&count).Error; err != nil {
		t.Fatalf("count jobs: %v", err)
	}
	if count != 0 {
		t.Fatalf("filtered-out client received %d jobs", count)
	}
}

// The washes-in-plan budget is never consulted by generation; a 1-wash plan
// still yields a job on every eligible day.
func TestGenerate_IgnoresWashesBudget(t *testing.T) {
	f := newFixture(t)
	plan := f.addPlan(t, []int{1, 3}, 1)
	f.enroll(t, plan, f.client, model.EnrollmentStatusActive)
	f.addCar(t, f.client, "AB-123-CD")

	ctx := context.Background()
	for _, date := range []string{"2024-06-10", "2024-06-12"} {
		report, err := f.generator.GenerateForDate(ctx, mustDate(t, date))
		if err != nil {
			t.Fatalf("generate %s: %v", date, err)
		}
		if report.Created != 1 {
			t.Fatalf("generate %s: got %+v, want created=1", date, report)
		}
	}
	if n := f.jobCount(t); n != 2 {
		t.Fatalf("expected 2 jobs despite washesInPlan=1, got %d", n)
	}
}

// A row that slips past the read guard still trips the job-identity index;
// the duplicate-key error is counted as a skip, not a failure.
func TestGenerateForDate_DuplicateKeyCountsAsSkip(t *testing.T) {
	f := newFixture(t)
	plan := f.addPlan(t, []int{1}, 8)
	f.enroll(t, plan, f.client, model.EnrollmentStatusActive)
	car := f.addCar(t, f.client, "AB-123-CD")

	existing := model.WashJob{
		ProviderID:  f.provider.ID,
		ClientID:    f.client.ID,
		CarID:       car.ID,
		Status:      model.WashJobStatusNotStarted,
		ScheduledAt: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC),
	}
	if err := f.db.Create(&existing).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}
	// Move scheduled_at out of the day's range without the hooks re-syncing
	// scheduled_day, so the read guard misses the row but the unique index
	// still holds 2024-06-10.
	err := f.db.Model(&model.WashJob{}).
		Where("id = ?", existing.ID).
		UpdateColumn("scheduled_at", time.Date(2024, 6, 9, 12, 0, 0, 0, time.UTC)).Error
	if err != nil {
		t.Fatalf("detach scheduled_at: %v", err)
	}

	report, genErr := f.generator.GenerateForDate(context.Background(), mustDate(t, "2024-06-10"))
	if genErr != nil {
		t.Fatalf("generate: %v", genErr)
	}
	if report.Created != 0 || report.Skipped != 1 || len(report.Failures) != 0 {
		t.Fatalf("got %+v, want created=0 skipped=1 with no failures", report)
	}
}

// A failed write is recorded per pair and the sweep keeps going instead of
// aborting the batch.
func TestGenerateForDate_RecordsFailuresAndContinues(t *testing.T) {
	f := newFixture(t)
	plan := f.addPlan(t, []int{1}, 8)
	f.enroll(t, plan, f.client, model.EnrollmentStatusActive)
	f.addCar(t, f.client, "AB-123-CD")
	f.addCar(t, f.client, "EF-456-GH")

	// Break every job write while leaving plans, enrollments and cars intact.
	if err := f.db.Migrator().DropTable(&model.WashJob{}); err != nil {
		t.Fatalf("drop jobs table: %v", err)
	}

	report, err := f.generator.GenerateForDate(context.Background(), mustDate(t, "2024-06-10"))
	if err != nil {
		t.Fatalf("generate must not abort on per-pair write errors, got %v", err)
	}
	if report.Created != 0 || report.Skipped != 0 {
		t.Fatalf("got %+v, want no created or skipped jobs", report)
	}
	if len(report.Failures) != 2 {
		t.Fatalf("recorded %d failures, want one per car", len(report.Failures))
	}
	for _, failure := range report.Failures {
		if failure.ClientID != f.client.ID || failure.Date != "2024-06-10" || failure.Error == "" {
			t.Fatalf("incomplete failure record: %+v", failure)
		}
	}
}

// A staff-created job for the same car and day makes the generator skip.
func TestGenerateForDate_RespectsManualJob(t *testing.T) {
	f := newFixture(t)
	plan := f.addPlan(t, []int{1}, 8)
	f.enroll(t, plan, f.client, model.EnrollmentStatusActive)
	car := f.addCar(t, f.client, "AB-123-CD")

	manual := model.WashJob{
		ProviderID:  f.provider.ID,
		ClientID:    f.client.ID,
		CarID:       car.ID,
		Status:      model.WashJobStatusNotStarted,
		ScheduledAt: time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC),
	}
	if err := f.db.Create(&manual).Error; err != nil {
		t.Fatalf("seed manual job: %v", err)
	}

	report, err := f.generator.GenerateForDate(context.Background(), mustDate(t, "2024-06-10"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if report.Created != 0 || report.Skipped != 1 {
		t.Fatalf("got %+v, want created=0 skipped=1", report)
	}
}
