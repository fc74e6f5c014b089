package main

import (
	"github.com/nisshin-gakuen/admission-portal/internal/config"
	"github.com/nisshin-gakuen/admission-portal/internal/handlers"
	"github.com/nisshin-gakuen/admission-portal/internal/models"
	"github.com/nisshin-gakuen/admission-portal/internal/services"
	"github.com/nisshin-gakuen/admission-portal/internal/utils"
	"github.com/nisshin-gakuen/admission-portal/pkg/logger"
)

// appServices holds the initialized services and handlers the router needs.
type appServices struct {
	scheduler   *services.Scheduler
	taskQueue   services.TaskQueue
	worker      *services.Worker
	authHandler *handlers.AuthHandler
}

// bootstrap initializes all application dependencies: database, services,
// schedulers, and the import queue.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	services.InitSystemLogger(models.GetDB())

	// Scheduled announcement publication and audit log retention
	scheduler := services.NewScheduler(models.GetDB())
	scheduler.Start()

	// Import queue (Redis-backed if enabled, otherwise in-process)
	importService := services.NewImportService(models.GetDB())
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(importService.Process)
	}

	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(importService.Process)
			worker.Start()
		}
	}

	authHandler := handlers.NewAuthHandler(models.GetDB(), cfg)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		scheduler:   scheduler,
		taskQueue:   taskQueue,
		worker:      worker,
		authHandler: authHandler,
	}
}

// shutdown gracefully stops all background services.
func (s *appServices) shutdown() {
	s.scheduler.Stop()
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	logger.Info().Msg("Background services stopped")
}
