package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/TorbenVoss/MemberFox/app/repository"
	"github.com/TorbenVoss/MemberFox/internal/pkg/billing"
	"github.com/TorbenVoss/MemberFox/internal/pkg/database"
	"github.com/TorbenVoss/MemberFox/internal/pkg/env"
)

// syncsubs refreshes local subscription state from the billing gateway, or
// with --clear-dangling cancels remote active subscriptions that have no
// local record. Day-window flags select rows by current_period_end; values
// below zero leave the window unset, and only one of --days-ago, --days-left
// and the --day-start/--day-end pair may be given.
func main() {
	clearDangling := flag.Bool("clear-dangling", false, "cancel dangling remote subscriptions instead of refreshing")
	daysAgo := flag.Int("days-ago", -1, "select rows whose period ended this many days ago")
	daysLeft := flag.Int("days-left", -1, "select rows whose period ends in this many days")
	dayStart := flag.Int("day-start", -1, "start of the day offset window")
	dayEnd := flag.Int("day-end", -1, "end of the day offset window")
	flag.Parse()

	env.SetupEnvFile()
	database.SetupDatabase()

	gateway, err := billing.NewStripeGatewayFromEnv()
	if err != nil {
		log.Fatalf("billing gateway not configured: %v", err)
	}
	customGroups := env.GetEnv("BILLING_CUSTOM_GROUPS", "true") == "true"
	svc := billing.NewServiceFromDB(database.GetDB(), gateway, customGroups)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *clearDangling {
		result, err := svc.ClearDanglingSubscriptions(ctx)
		if err != nil {
			log.Fatalf("dangling cleanup failed: %v", err)
		}
		log.Printf("dangling cleanup %s: %d customers checked, %d canceled",
			result.RunID, result.CustomersChecked, result.Canceled)
		return
	}

	if (*dayStart > -1) != (*dayEnd > -1) {
		log.Fatal("--day-start and --day-end must be given together")
	}

	filter := repository.SubscriptionFilter{ActiveOnly: true}
	if *daysAgo > -1 {
		filter.DaysAgo = daysAgo
	}
	if *daysLeft > -1 {
		filter.DaysLeft = daysLeft
	}
	if *dayStart > -1 {
		filter.DayStart = dayStart
		filter.DayEnd = dayEnd
	}
	if err := filter.Validate(); err != nil {
		log.Fatalf("invalid flag combination: %v", err)
	}

	result, err := svc.RefreshActiveSubscriptions(ctx, filter)
	if err != nil {
		log.Fatalf("subscription refresh failed: %v", err)
	}
	log.Printf("subscription refresh %s: %d selected, %d updated, %d skipped",
		result.RunID, result.Selected, result.Updated, result.Skipped)
}
