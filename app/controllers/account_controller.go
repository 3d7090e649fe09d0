package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/TorbenVoss/MemberFox/app/repository"
	"github.com/TorbenVoss/MemberFox/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"
)

// HandleAccountBilling shows the user's subscription state.
func HandleAccountBilling(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	sub, err := repository.GetGlobalRepositories().Subscription.GetByUserID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"subscribed": false})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "billing_unavailable"})
	}

	return c.JSON(fiber.Map{
		"subscribed":           sub.IsActiveStatus(),
		"plan":                 sub.PlanName(),
		"status":               sub.Status,
		"billing_period":       sub.BillingPeriodLabel(),
		"cancel_at_period_end": sub.CancelAtPeriodEnd,
		"user_cancelled":       sub.UserCancelled,
	})
}

// HandleBillingRefresh re-fetches the user's subscription from the gateway.
func HandleBillingRefresh(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	svc, err := getBillingService()
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Billing is not configured"}).Redirect("/account/billing")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if _, err := svc.RefreshUserSubscription(ctx, userCtx.UserID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Subscription refresh failed"}).Redirect("/account/billing")
	}
	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": "Subscription refreshed"}).Redirect("/account/billing")
}

// HandleBillingCancel ends the subscription at period end on the user's
// request and records the user_cancelled flag.
func HandleBillingCancel(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	svc, err := getBillingService()
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Billing is not configured"}).Redirect("/account/billing")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if _, err := svc.CancelUserSubscription(ctx, userCtx.UserID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Cancellation failed"}).Redirect("/account/billing")
	}
	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": "Subscription will end at the period end"}).Redirect("/account/billing")
}
