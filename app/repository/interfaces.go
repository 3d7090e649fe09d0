package repository

import (
	"errors"
	"time"

	"github.com/TorbenVoss/MemberFox/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByCustomerStripeID(stripeID string) (*models.User, error)
	Update(user *models.User) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// CustomerRepository defines the interface for billing customer records
type CustomerRepository interface {
	GetByUserID(userID uint) (*models.Customer, error)
	GetOrCreateByUserID(userID uint, initEmail string) (*models.Customer, error)
	GetByStripeID(stripeID string) (*models.Customer, error)
	ListWithStripeID() ([]models.Customer, error)
	Update(customer *models.Customer) error
}

// PlanRepository defines the interface for plan catalog operations
type PlanRepository interface {
	Create(plan *models.Plan) error
	GetByID(id uint) (*models.Plan, error)
	GetByStripeID(stripeID string) (*models.Plan, error)
	GetByPriceStripeID(priceStripeID string) (*models.Plan, error)
	ListActive() ([]models.Plan, error)
	ListActiveExcept(planID uint) ([]models.Plan, error)
	Save(plan *models.Plan) error
}

// PriceRepository defines the interface for plan price operations
type PriceRepository interface {
	GetByID(id uint) (*models.PlanPrice, error)
	GetByStripeID(stripeID string) (*models.PlanPrice, error)
	ListFeaturedByInterval(interval string) ([]models.PlanPrice, error)
	Save(price *models.PlanPrice) error
}

// ErrConflictingWindows signals that more than one day-window criterion was
// set on a SubscriptionFilter.
var ErrConflictingWindows = errors.New("days-ago, days-left and the day range are mutually exclusive")

// SubscriptionFilter composes the row selection criteria for reconciliation
// sweeps. Nil offset fields leave the corresponding day-window criterion unset;
// Now anchors the window computation (zero value means time.Now). At most one
// of DaysAgo, DaysLeft and the DayStart/DayEnd pair may be set: the windows
// select disjoint days, so combining them would silently match nothing.
type SubscriptionFilter struct {
	UserIDs    []uint
	ActiveOnly bool
	DaysAgo    *int
	DaysLeft   *int
	DayStart   *int
	DayEnd     *int
	Now        time.Time
}

// Validate rejects filters that combine day-window criteria.
func (f SubscriptionFilter) Validate() error {
	windows := 0
	if f.DaysAgo != nil {
		windows++
	}
	if f.DaysLeft != nil {
		windows++
	}
	if f.DayStart != nil && f.DayEnd != nil {
		windows++
	}
	if windows > 1 {
		return ErrConflictingWindows
	}
	return nil
}

// SubscriptionRepository defines the interface for user subscription records
type SubscriptionRepository interface {
	GetByUserID(userID uint) (*models.UserSubscription, error)
	GetByStripeID(stripeID string) (*models.UserSubscription, error)
	ExistsByStripeID(stripeID string) (bool, error)
	Create(sub *models.UserSubscription) error
	Save(sub *models.UserSubscription) error
	ListForRefresh(filter SubscriptionFilter) ([]models.UserSubscription, error)
}

// GroupRepository defines the interface for group membership and permissions
type GroupRepository interface {
	Create(group *models.Group) error
	GetByID(id uint) (*models.Group, error)
	GetUserGroupIDs(userID uint) ([]uint, error)
	ReplaceUserGroups(userID uint, groupIDs []uint) error
	ReplaceGroupPermissions(groupID uint, permissions []models.Permission) error
	GetOrCreatePermission(codename, name string) (*models.Permission, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Customer     CustomerRepository
	Plan         PlanRepository
	Price        PriceRepository
	Subscription SubscriptionRepository
	Group        GroupRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Customer:     NewCustomerRepository(db),
		Plan:         NewPlanRepository(db),
		Price:        NewPriceRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Group:        NewGroupRepository(db),
	}
}
