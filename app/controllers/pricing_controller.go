package controllers

import (
	"github.com/TorbenVoss/MemberFox/app/models"
	"github.com/TorbenVoss/MemberFox/app/repository"
	"github.com/gofiber/fiber/v2"
)

// HandlePricing lists the featured price of every active plan for one billing
// interval. The interval path parameter defaults to month.
func HandlePricing(c *fiber.Ctx) error {
	interval := c.Params("interval", models.PriceIntervalMonth)
	switch interval {
	case models.PriceIntervalMonth, models.PriceIntervalYear:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "interval must be month or year",
		})
	}

	prices, err := repository.GetGlobalRepositories().Price.ListFeaturedByInterval(interval)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "pricing_unavailable",
		})
	}

	type priceView struct {
		ID       uint     `json:"id"`
		Plan     string   `json:"plan"`
		Subtitle string   `json:"subtitle"`
		Features []string `json:"features"`
		Interval string   `json:"interval"`
		Price    string   `json:"price"`
	}
	views := make([]priceView, 0, len(prices))
	for _, p := range prices {
		v := priceView{
			ID:       p.ID,
			Interval: p.Interval,
			Price:    p.DisplayPrice(),
		}
		if p.Plan != nil {
			v.Plan = p.Plan.Name
			v.Subtitle = p.Plan.Subtitle
			v.Features = p.Plan.FeatureList()
		}
		views = append(views, v)
	}

	return c.JSON(fiber.Map{"interval": interval, "prices": views})
}
