package controllers

import (
	"context"
	"time"

	"github.com/TorbenVoss/MemberFox/app/models"
	"github.com/TorbenVoss/MemberFox/app/repository"
	"github.com/TorbenVoss/MemberFox/internal/pkg/entitlements"
	"github.com/TorbenVoss/MemberFox/internal/pkg/env"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type createPlanRequest struct {
	Name        string   `json:"name"`
	Subtitle    string   `json:"subtitle"`
	Features    string   `json:"features"`
	Order       int      `json:"order"`
	Featured    bool     `json:"featured"`
	Permissions []string `json:"permissions"`
	GroupIDs    []uint   `json:"group_ids"`
}

// HandleAdminCreatePlan creates a plan and provisions its gateway product.
func HandleAdminCreatePlan(c *fiber.Ctx) error {
	var req createPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	repos := repository.GetGlobalRepositories()
	plan := &models.Plan{
		Name:     req.Name,
		Subtitle: req.Subtitle,
		Features: req.Features,
		Order:    req.Order,
		Featured: req.Featured,
		Active:   true,
	}
	for _, code := range req.Permissions {
		if !models.IsPlanPermissionCode(code) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "permission outside the allowed set: " + code})
		}
		perm, err := repos.Group.GetOrCreatePermission(code, code)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "permission_lookup_failed"})
		}
		plan.Permissions = append(plan.Permissions, *perm)
	}
	for _, groupID := range req.GroupIDs {
		group, err := repos.Group.GetByID(groupID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown group"})
		}
		plan.Groups = append(plan.Groups, *group)
	}

	if err := repos.Plan.Create(plan); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	svc, err := getBillingService()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "billing_not_configured"})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := svc.ProvisionPlan(ctx, plan); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "gateway_product_failed"})
	}

	return c.Status(fiber.StatusCreated).JSON(plan)
}

type createPriceRequest struct {
	PlanID   uint   `json:"plan_id"`
	Interval string `json:"interval"`
	Price    string `json:"price"`
	Featured bool   `json:"featured"`
}

// HandleAdminCreatePrice creates a plan price and provisions its gateway
// price. Saving a featured price unsets featured on its siblings.
func HandleAdminCreatePrice(c *fiber.Ctx) error {
	var req createPriceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}
	amount, err := decimal.NewFromString(req.Price)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid price"})
	}

	repos := repository.GetGlobalRepositories()
	price := &models.PlanPrice{
		PlanID:   &req.PlanID,
		Interval: req.Interval,
		Price:    amount,
		Featured: req.Featured,
	}
	if err := repos.Price.Save(price); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	svc, err := getBillingService()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "billing_not_configured"})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := svc.ProvisionPrice(ctx, price); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "gateway_price_failed"})
	}

	return c.Status(fiber.StatusCreated).JSON(price)
}

// HandleAdminSyncPermissions replaces each group's permission set with its
// plan's for every active plan.
func HandleAdminSyncPermissions(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	customGroups := env.GetEnv("BILLING_CUSTOM_GROUPS", "true") == "true"
	projector := entitlements.NewProjector(repos.Plan, repos.Group, customGroups)
	if err := projector.SyncPlanPermissions(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "permission_sync_failed"})
	}
	return c.JSON(fiber.Map{"ok": true})
}
