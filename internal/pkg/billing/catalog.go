package billing

import (
	"context"
	"fmt"
	"strconv"

	"github.com/TorbenVoss/MemberFox/app/models"
)

// ProvisionPlan creates the provider product for a plan that has none yet and
// stores the resulting product id. Plans with a product id are left alone:
// the id is immutable once set.
func (s *Service) ProvisionPlan(ctx context.Context, plan *models.Plan) error {
	if plan.StripeID != "" {
		return nil
	}
	productID, err := s.gateway.CreateProduct(ctx, plan.Name, map[string]string{
		"plan_id": strconv.FormatUint(uint64(plan.ID), 10),
	})
	if err != nil {
		return err
	}
	plan.StripeID = productID
	return s.plans.Save(plan)
}

// ProvisionPrice creates the provider price for a plan price that has none
// yet. The owning plan must already be provisioned.
func (s *Service) ProvisionPrice(ctx context.Context, price *models.PlanPrice) error {
	if price.StripeID != "" {
		return nil
	}
	if price.PlanID == nil {
		return fmt.Errorf("price %d has no plan", price.ID)
	}
	plan, err := s.plans.GetByID(*price.PlanID)
	if err != nil {
		return err
	}
	if plan.StripeID == "" {
		return fmt.Errorf("plan %d must be provisioned before its prices", plan.ID)
	}

	priceID, err := s.gateway.CreatePrice(ctx, "usd", plan.StripeID, price.UnitAmount(), price.Interval, map[string]string{
		"price_id": strconv.FormatUint(uint64(price.ID), 10),
	})
	if err != nil {
		return err
	}
	price.StripeID = priceID
	return s.prices.Save(price)
}
