package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/TorbenVoss/MemberFox/app/repository"
	"github.com/TorbenVoss/MemberFox/internal/pkg/billing"
	"github.com/TorbenVoss/MemberFox/internal/pkg/cache"
	"github.com/TorbenVoss/MemberFox/internal/pkg/database"
	"github.com/TorbenVoss/MemberFox/internal/pkg/env"
	"github.com/TorbenVoss/MemberFox/internal/pkg/router"
	"github.com/TorbenVoss/MemberFox/internal/pkg/scheduler"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	app := fiber.New(fiber.Config{
		AppName: "memberfox",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	router.InstallRouter(app)

	startScheduler()

	return app
}

func startScheduler() {
	gateway, err := billing.NewStripeGatewayFromEnv()
	if err != nil {
		log.Printf("scheduler disabled, billing gateway not configured: %v", err)
		return
	}
	customGroups := env.GetEnv("BILLING_CUSTOM_GROUPS", "true") == "true"
	svc := billing.NewServiceFromDB(database.GetDB(), gateway, customGroups)
	sched := scheduler.New(svc)
	if err := sched.Start(); err != nil {
		log.Printf("scheduler failed to start: %v", err)
	}
}
