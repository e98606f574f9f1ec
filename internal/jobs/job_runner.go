package jobs

import (
	"database/sql"

	"github.com/google/uuid"

	"fleetledger-backend/internal/config"
	"fleetledger-backend/internal/logger"
	"fleetledger-backend/internal/repository/postgres"
	"fleetledger-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	db       *sql.DB
	store    *postgres.Store
	services *Services
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Assignment service.AssignmentService
	Email      service.EmailService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(db *sql.DB, store *postgres.Store, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		db:       db,
		store:    store,
		services: services,
		config:   cfg,
	}
}

// Config exposes the runner's configuration to the scheduler.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery. Each run gets an
// id so overlapping executions can be told apart in the logs.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	runID := uuid.New().String()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "run_id", runID, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName, "run_id", runID)
	jobFunc()
	logger.Info("Job completed", "job", jobName, "run_id", runID)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.ExpireAssignmentRequests()
}
