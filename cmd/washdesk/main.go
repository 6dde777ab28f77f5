package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"washdesk/internal/config"
	"washdesk/internal/handler"
	"washdesk/internal/logger"
	"washdesk/internal/repository"
	"washdesk/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	slogger := logger.New()

	db, err := repository.NewDB(cfg.DB)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	providerRepo := repository.NewProviderRepository(db)
	clientRepo := repository.NewClientRepository(db)
	carRepo := repository.NewCarRepository(db)
	planRepo := repository.NewWashPlanRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	jobRepo := repository.NewWashJobRepository(db)

	generatorSvc := service.NewGeneratorService(planRepo, enrollmentRepo, carRepo, jobRepo, slogger)
	jobSvc := service.NewJobService(jobRepo)
	planSvc := service.NewPlanService(planRepo, enrollmentRepo, clientRepo)
	clientSvc := service.NewClientService(clientRepo, carRepo)
	carSvc := service.NewCarService(carRepo, clientRepo)
	enrollSvc := service.NewEnrollService(providerRepo, clientRepo, carRepo, planRepo, enrollmentRepo)
	statsSvc := service.NewStatsService(providerRepo, clientRepo, jobRepo)
	providerSvc := service.NewProviderService(providerRepo)

	router := handler.NewRouter(handler.Handlers{
		Jobs:      handler.NewJobHandler(jobSvc, generatorSvc),
		Plans:     handler.NewPlanHandler(planSvc),
		Clients:   handler.NewClientHandler(clientSvc),
		Cars:      handler.NewCarHandler(carSvc),
		Public:    handler.NewPublicHandler(enrollSvc),
		Super:     handler.NewSuperHandler(statsSvc),
		Providers: handler.NewProviderHandler(providerSvc),
	})

	// The cron owns the timer; the generator stays stateless and is equally
	// reachable through the manual endpoints.
	if cfg.GenerateAt != "" {
		scheduler := service.NewSchedulerService(time.Local)
		_, err := scheduler.ScheduleDaily(cfg.GenerateAt, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			report, err := generatorSvc.GenerateForDate(jobCtx, time.Now())
			if err != nil {
				slogger.Error("daily generation failed", "error", err)
				return
			}
			slogger.Info("daily generation finished",
				"created", report.Created,
				"skipped", report.Skipped,
				"failures", len(report.Failures),
			)
		})
		if err != nil {
			log.Fatalf("schedule daily generation: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slogger.Info("washdesk listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slogger.Error("shutdown", "error", err)
	}
	slogger.Info("shutdown complete")
}
