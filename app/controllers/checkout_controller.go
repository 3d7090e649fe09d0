package controllers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/TorbenVoss/MemberFox/app/repository"
	"github.com/TorbenVoss/MemberFox/internal/pkg/billing"
	"github.com/TorbenVoss/MemberFox/internal/pkg/env"
	"github.com/TorbenVoss/MemberFox/internal/pkg/session"
	"github.com/TorbenVoss/MemberFox/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
)

// HandlePriceRedirect stores the selected price in the session and forwards to
// the generic checkout start endpoint.
func HandlePriceRedirect(c *fiber.Ctx) error {
	priceID := strings.TrimSpace(c.Params("id"))
	if priceID == "" {
		return c.Redirect("/pricing", fiber.StatusSeeOther)
	}
	if err := session.SetSessionValue(c, checkoutPriceSessionKey, priceID); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not start checkout"}).Redirect("/pricing")
	}
	return c.Redirect("/checkout/start", fiber.StatusSeeOther)
}

// HandleCheckoutStart resolves the stored price, ensures a gateway customer
// and redirects the user to the provider-hosted checkout page.
func HandleCheckoutStart(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	rawPriceID := session.GetSessionValue(c, checkoutPriceSessionKey)
	priceID, err := strconv.ParseUint(rawPriceID, 10, 64)
	if rawPriceID == "" || err != nil {
		return c.Redirect("/pricing", fiber.StatusSeeOther)
	}

	svc, err := getBillingService()
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Billing is not configured"}).Redirect("/pricing")
	}

	user, err := repository.GetGlobalRepositories().User.GetByID(userCtx.UserID)
	if err != nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	successURL := base + "/checkout/success"
	cancelURL := base + "/pricing"

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	checkoutURL, err := svc.StartCheckout(ctx, user, uint(priceID), successURL, cancelURL)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not start checkout"}).Redirect("/pricing")
	}
	return c.Redirect(checkoutURL, fiber.StatusSeeOther)
}

// HandleCheckoutSuccess finalizes a completed checkout session. Account
// linkage failures surface as a user-visible error without partial writes.
func HandleCheckoutSuccess(c *fiber.Ctx) error {
	sessionID := strings.TrimSpace(c.Query("session_id"))
	if sessionID == "" {
		return c.Redirect("/pricing", fiber.StatusSeeOther)
	}

	svc, err := getBillingService()
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Billing is not configured"}).Redirect("/pricing")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sub, err := svc.FinalizeCheckout(ctx, sessionID)
	if err != nil {
		if billing.IsAccountLinkError(err) {
			return flash.WithError(c, fiber.Map{"type": "error", "message": "There was an error with your account. Please contact us."}).Redirect("/pricing")
		}
		if billing.IsGatewayError(err) {
			return flash.WithError(c, fiber.Map{"type": "error", "message": "The payment provider could not be reached. Please try again."}).Redirect("/pricing")
		}
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Checkout could not be completed"}).Redirect("/pricing")
	}

	msg := "Subscription activated"
	if name := sub.PlanName(); name != "" {
		msg = "Subscribed to " + name
	}
	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": msg}).Redirect("/account/billing")
}
