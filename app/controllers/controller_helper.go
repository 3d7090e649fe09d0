package controllers

import (
	"github.com/TorbenVoss/MemberFox/internal/pkg/billing"
	"github.com/TorbenVoss/MemberFox/internal/pkg/database"
	"github.com/TorbenVoss/MemberFox/internal/pkg/env"
)

// Shared Locals/session keys used across controllers and middlewares
const (
	USER_ID        = "user_id"
	USER_NAME      = "user_name"
	USER_IS_ADMIN  = "user_is_admin"
	FROM_PROTECTED = "from_protected"
)

// checkoutPriceSessionKey stores the selected price id between the pricing
// page redirect and the checkout start endpoint.
const checkoutPriceSessionKey = "checkout_price_id"

// getBillingService builds the billing service graph for a request.
func getBillingService() (*billing.Service, error) {
	gateway, err := billing.NewStripeGatewayFromEnv()
	if err != nil {
		return nil, err
	}
	customGroups := env.GetEnv("BILLING_CUSTOM_GROUPS", "true") == "true"
	return billing.NewServiceFromDB(database.GetDB(), gateway, customGroups), nil
}
