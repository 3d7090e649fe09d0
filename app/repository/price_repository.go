package repository

import (
	"errors"

	"github.com/TorbenVoss/MemberFox/app/models"
	"gorm.io/gorm"
)

// priceRepository implements the PriceRepository interface
type priceRepository struct {
	db *gorm.DB
}

// NewPriceRepository creates a new price repository instance
func NewPriceRepository(db *gorm.DB) PriceRepository {
	return &priceRepository{db: db}
}

// GetByID retrieves a price with its plan preloaded
func (r *priceRepository) GetByID(id uint) (*models.PlanPrice, error) {
	var price models.PlanPrice
	err := r.db.Preload("Plan").First(&price, id).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// GetByStripeID resolves a price by its provider price id
func (r *priceRepository) GetByStripeID(stripeID string) (*models.PlanPrice, error) {
	var price models.PlanPrice
	err := r.db.Preload("Plan").Where("stripe_id = ?", stripeID).First(&price).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// ListFeaturedByInterval returns the featured prices of active plans for one
// billing interval, ordered for the pricing page.
func (r *priceRepository) ListFeaturedByInterval(interval string) ([]models.PlanPrice, error) {
	var prices []models.PlanPrice
	err := r.db.
		Preload("Plan").
		Joins("JOIN plans ON plans.id = plan_prices.plan_id").
		Where("plan_prices.featured = ? AND plan_prices.interval = ? AND plans.active = ?", true, interval, true).
		Order("plans.sort_order ASC").
		Find(&prices).Error
	return prices, err
}

// Save persists a price and keeps the single-featured-price-per-(plan,
// interval) invariant: when the saved price is featured, featured is unset on
// every sibling with the same plan and interval in the same transaction. The
// provider price id is immutable once set.
func (r *priceRepository) Save(price *models.PlanPrice) error {
	if err := price.Validate(); err != nil {
		return err
	}
	if price.ID != 0 {
		var stored models.PlanPrice
		if err := r.db.Select("stripe_id").First(&stored, price.ID).Error; err != nil {
			return err
		}
		if stored.StripeID != "" && price.StripeID != stored.StripeID {
			return errors.New("price stripe_id is immutable once set")
		}
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(price).Error; err != nil {
			return err
		}
		if !price.Featured || price.PlanID == nil {
			return nil
		}
		return tx.Model(&models.PlanPrice{}).
			Where("plan_id = ? AND `interval` = ? AND id <> ?", *price.PlanID, price.Interval, price.ID).
			Update("featured", false).Error
	})
}
