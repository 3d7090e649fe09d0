package repository

import (
	"time"

	"github.com/TorbenVoss/MemberFox/app/models"
	"github.com/TorbenVoss/MemberFox/internal/pkg/dateutil"
	"gorm.io/gorm"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// GetByUserID retrieves the subscription record of a user
func (r *subscriptionRepository) GetByUserID(userID uint) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := r.db.Preload("Plan").Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetByStripeID resolves a subscription by its provider subscription id
func (r *subscriptionRepository) GetByStripeID(stripeID string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := r.db.Preload("Plan").Where("LOWER(stripe_id) = LOWER(?)", stripeID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ExistsByStripeID reports whether a local record mirrors the given provider id
func (r *subscriptionRepository) ExistsByStripeID(stripeID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserSubscription{}).
		Where("LOWER(stripe_id) = LOWER(?)", stripeID).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a new subscription record
func (r *subscriptionRepository) Create(sub *models.UserSubscription) error {
	return r.db.Create(sub).Error
}

// Save persists subscription changes in a single write
func (r *subscriptionRepository) Save(sub *models.UserSubscription) error {
	return r.db.Save(sub).Error
}

// ListForRefresh selects the subscription rows matched by the composable
// reconciliation filter. Day-window boundaries are normalized to day start
// 00:00:00 and day end 23:59:59 and are inclusive on both ends.
func (r *subscriptionRepository) ListForRefresh(filter SubscriptionFilter) ([]models.UserSubscription, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	now := filter.Now
	if now.IsZero() {
		now = time.Now()
	}

	q := r.db.Model(&models.UserSubscription{}).Preload("Plan")
	if filter.ActiveOnly {
		q = q.Where("status IN ?", []models.SubscriptionStatus{
			models.SubStatusActive,
			models.SubStatusTrialing,
		})
	}
	if len(filter.UserIDs) > 0 {
		q = q.Where("user_id IN ?", filter.UserIDs)
	}
	if filter.DaysAgo != nil {
		start, end := dateutil.DayWindow(now, -*filter.DaysAgo)
		q = q.Where("current_period_end BETWEEN ? AND ?", start, end)
	}
	if filter.DaysLeft != nil {
		start, end := dateutil.DayWindow(now, *filter.DaysLeft)
		q = q.Where("current_period_end BETWEEN ? AND ?", start, end)
	}
	if filter.DayStart != nil && filter.DayEnd != nil {
		start, end := dateutil.DayRange(now, *filter.DayStart, *filter.DayEnd)
		q = q.Where("current_period_end BETWEEN ? AND ?", start, end)
	}

	var subs []models.UserSubscription
	err := q.Find(&subs).Error
	return subs, err
}
