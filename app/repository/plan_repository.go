package repository

import (
	"errors"

	"github.com/TorbenVoss/MemberFox/app/models"
	"gorm.io/gorm"
)

// planRepository implements the PlanRepository interface
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository instance
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

// Create creates a new plan in the database
func (r *planRepository) Create(plan *models.Plan) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	return r.db.Create(plan).Error
}

// GetByID retrieves a plan with its groups, permissions and prices
func (r *planRepository) GetByID(id uint) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.
		Preload("Groups").
		Preload("Permissions").
		Preload("Prices").
		First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetByStripeID resolves a plan by its provider product id
func (r *planRepository) GetByStripeID(stripeID string) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.
		Preload("Groups").
		Preload("Permissions").
		Where("stripe_id = ?", stripeID).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetByPriceStripeID resolves a plan through one of its prices' provider ids
func (r *planRepository) GetByPriceStripeID(priceStripeID string) (*models.Plan, error) {
	var price models.PlanPrice
	err := r.db.Where("stripe_id = ?", priceStripeID).First(&price).Error
	if err != nil {
		return nil, err
	}
	if price.PlanID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(*price.PlanID)
}

// ListActive returns all active plans with groups and permissions preloaded,
// ordered for pricing pages.
func (r *planRepository) ListActive() ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.
		Preload("Groups").
		Preload("Permissions").
		Where("active = ?", true).
		Order("sort_order ASC, featured DESC").
		Find(&plans).Error
	return plans, err
}

// ListActiveExcept returns all active plans other than the given one. Used by
// the group projector to compute group ownership of competing plans.
func (r *planRepository) ListActiveExcept(planID uint) ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.
		Preload("Groups").
		Where("active = ? AND id <> ?", true, planID).
		Find(&plans).Error
	return plans, err
}

// Save persists plan changes. The provider product id is immutable once set:
// an attempt to overwrite it with a different value is rejected.
func (r *planRepository) Save(plan *models.Plan) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	if plan.ID != 0 {
		var stored models.Plan
		if err := r.db.Select("stripe_id").First(&stored, plan.ID).Error; err != nil {
			return err
		}
		if stored.StripeID != "" && plan.StripeID != stored.StripeID {
			return errors.New("plan stripe_id is immutable once set")
		}
	}
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(plan).Error
}
