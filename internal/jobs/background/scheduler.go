package background

import (
	"context"
	"sync"
	"time"

	"scholaris/internal/models"
	"scholaris/internal/repositories"
	"scholaris/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// JobScheduler runs the periodic maintenance sweeps across all tenants.
type JobScheduler struct {
	scheduler      gocron.Scheduler
	tenantRepo     repositories.TenantRepository
	billingService services.BillingService
	libraryService services.LibraryService
	engagementSvc  services.EngagementService
	logger         zerolog.Logger

	jobs map[string]gocron.Job
	mu   sync.RWMutex
}

func NewJobScheduler(tenantRepo repositories.TenantRepository, billingService services.BillingService,
	libraryService services.LibraryService, engagementSvc services.EngagementService, logger zerolog.Logger) (*JobScheduler, error) {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:      scheduler,
		tenantRepo:     tenantRepo,
		billingService: billingService,
		libraryService: libraryService,
		engagementSvc:  engagementSvc,
		logger:         logger,
		jobs:           make(map[string]gocron.Job),
	}

	js.registerJobs()
	return js, nil
}

func (js *JobScheduler) Start() {
	js.logger.Info().Int("jobs", len(js.jobs)).Msg("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.logger.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Overdue sweep - once a day, flips past-due invoices and loans.
	overdueJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.sweepOverdue, context.Background()),
		gocron.WithName("overdue-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		js.logger.Error().Err(err).Msg("failed to register overdue sweep job")
	} else {
		js.jobs["overdue-sweep"] = overdueJob
	}

	// Event reminders - once a day, pings organizers about events starting
	// within the next 24 hours.
	reminderJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.sendEventReminders, context.Background()),
		gocron.WithName("event-reminders"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		js.logger.Error().Err(err).Msg("failed to register event reminder job")
	} else {
		js.jobs["event-reminders"] = reminderJob
	}
}

// sweepOverdue walks every active tenant and marks past-due invoices and
// library loans. Tenants are processed with bounded concurrency so one big
// school cannot starve the rest.
func (js *JobScheduler) sweepOverdue(ctx context.Context) error {
	tenants, err := js.tenantRepo.List(ctx, 1000, 0)
	if err != nil {
		js.logger.Error().Err(err).Msg("overdue sweep: failed to list tenants")
		return err
	}

	semaphore := make(chan struct{}, 5)
	var wg sync.WaitGroup

	for _, tenant := range tenants {
		if tenant.Status != models.TenantStatusActive {
			continue
		}

		wg.Add(1)
		go func(tenantID uuid.UUID) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			invoices, err := js.billingService.MarkOverdueInvoices(ctx, tenantID)
			if err != nil {
				js.logger.Error().Err(err).Str("tenant_id", tenantID.String()).Msg("overdue sweep: invoices failed")
			}
			loans, err := js.libraryService.MarkOverdueLoans(ctx, tenantID)
			if err != nil {
				js.logger.Error().Err(err).Str("tenant_id", tenantID.String()).Msg("overdue sweep: loans failed")
			}

			if invoices > 0 || loans > 0 {
				js.logger.Info().
					Str("tenant_id", tenantID.String()).
					Int("invoices", invoices).
					Int64("loans", loans).
					Msg("overdue sweep completed for tenant")
			}
		}(tenant.ID)
	}

	wg.Wait()
	return nil
}

// sendEventReminders notifies organizers about events starting in the next
// 24 hours.
func (js *JobScheduler) sendEventReminders(ctx context.Context) error {
	tenants, err := js.tenantRepo.List(ctx, 1000, 0)
	if err != nil {
		js.logger.Error().Err(err).Msg("event reminders: failed to list tenants")
		return err
	}

	now := time.Now()
	cutoff := now.Add(24 * time.Hour)

	for _, tenant := range tenants {
		if tenant.Status != models.TenantStatusActive {
			continue
		}

		events, err := js.engagementSvc.ListEvents(ctx, tenant.ID, 200, 0)
		if err != nil {
			js.logger.Error().Err(err).Str("tenant_id", tenant.ID.String()).Msg("event reminders: failed to list events")
			continue
		}

		for _, event := range events {
			if event.StartsAt.Before(now) || event.StartsAt.After(cutoff) {
				continue
			}
			js.engagementSvc.Notify(ctx, tenant.ID, event.CreatedBy,
				"Upcoming event: "+event.Title,
				"Your event starts at "+event.StartsAt.Format(time.RFC1123),
				"event_reminder")
		}
	}

	return nil
}

// JobNames reports the registered job names, mostly for the health surface.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}
