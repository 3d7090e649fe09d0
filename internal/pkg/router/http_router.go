package router

import (
	"github.com/TorbenVoss/MemberFox/app/controllers"
	"github.com/TorbenVoss/MemberFox/internal/pkg/middleware"
	"github.com/TorbenVoss/MemberFox/internal/pkg/session"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
	h.registerProtectedRoutes(app)
	h.registerAPIRoutes(app)
	h.registerAdminRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Pricing pages
	app.Get("/pricing", controllers.HandlePricing)
	app.Get("/pricing/:interval", controllers.HandlePricing)

	// Checkout entry point: store the price, then bounce to /checkout/start
	app.Get("/checkout/price/:id", controllers.HandlePriceRedirect)
}

func (h HttpRouter) registerProtectedRoutes(app *fiber.App) {
	app.Get("/checkout/start", middleware.RequireAuth, controllers.HandleCheckoutStart)
	app.Get("/checkout/success", middleware.RequireAuth, controllers.HandleCheckoutSuccess)

	app.Get("/account/billing", middleware.RequireAuth, controllers.HandleAccountBilling)
	app.Post("/account/billing/refresh", middleware.RequireAuth, controllers.HandleBillingRefresh)
	app.Get("/account/billing/cancel", middleware.RequireAuth, controllers.HandleBillingCancel)
	app.Post("/account/billing/cancel", middleware.RequireAuth, controllers.HandleBillingCancel)
}

func (h HttpRouter) registerAPIRoutes(app *fiber.App) {
	// JSON surface for frontend polling; 401 instead of a login redirect.
	api := app.Group("/api", middleware.RequireAPISessionAuth)
	api.Get("/billing", controllers.HandleAccountBilling)
}

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	admin := app.Group("/admin", middleware.RequireAdmin)
	admin.Post("/plans", controllers.HandleAdminCreatePlan)
	admin.Post("/prices", controllers.HandleAdminCreatePrice)
	admin.Post("/sync-permissions", controllers.HandleAdminSyncPermissions)
}
