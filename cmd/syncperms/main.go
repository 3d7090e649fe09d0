package main

import (
	"log"

	"github.com/TorbenVoss/MemberFox/app/repository"
	"github.com/TorbenVoss/MemberFox/internal/pkg/database"
	"github.com/TorbenVoss/MemberFox/internal/pkg/entitlements"
	"github.com/TorbenVoss/MemberFox/internal/pkg/env"
)

// syncperms sets each group's permission set equal to its plan's permission
// set for every active plan.
func main() {
	env.SetupEnvFile()
	database.SetupDatabase()

	repos := repository.NewRepositories(database.GetDB())
	customGroups := env.GetEnv("BILLING_CUSTOM_GROUPS", "true") == "true"
	projector := entitlements.NewProjector(repos.Plan, repos.Group, customGroups)

	if err := projector.SyncPlanPermissions(); err != nil {
		log.Fatalf("permission sync failed: %v", err)
	}
	log.Println("permission sync complete")
}
