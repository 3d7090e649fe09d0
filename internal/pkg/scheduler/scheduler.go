package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/TorbenVoss/MemberFox/app/repository"
	"github.com/TorbenVoss/MemberFox/internal/pkg/billing"
	"github.com/robfig/cron/v3"
)

// refreshHorizonDays selects subscriptions whose period ends within the next
// days for the nightly sweep.
const refreshHorizonDays = 3

// Scheduler runs the periodic reconciliation sweeps against the billing
// service: a nightly refresh of soon-expiring subscriptions and a dangling
// remote subscription cleanup.
type Scheduler struct {
	svc  *billing.Service
	cron *cron.Cron
}

// New creates a scheduler bound to a billing service.
func New(svc *billing.Service) *Scheduler {
	return &Scheduler{
		svc:  svc,
		cron: cron.New(),
	}
}

// Start registers the sweep jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("15 3 * * *", s.runRefresh); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("45 3 * * *", s.runDanglingCleanup); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	dayStart := 0
	dayEnd := refreshHorizonDays
	result, err := s.svc.RefreshActiveSubscriptions(ctx, repository.SubscriptionFilter{
		ActiveOnly: true,
		DayStart:   &dayStart,
		DayEnd:     &dayEnd,
	})
	if err != nil {
		log.Printf("[scheduler] subscription refresh %s failed: %v", result.RunID, err)
		return
	}
	log.Printf("[scheduler] subscription refresh %s: %d selected, %d updated, %d skipped",
		result.RunID, result.Selected, result.Updated, result.Skipped)
}

func (s *Scheduler) runDanglingCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	result, err := s.svc.ClearDanglingSubscriptions(ctx)
	if err != nil {
		log.Printf("[scheduler] dangling cleanup %s failed: %v", result.RunID, err)
		return
	}
	log.Printf("[scheduler] dangling cleanup %s: %d customers checked, %d canceled",
		result.RunID, result.CustomersChecked, result.Canceled)
}
