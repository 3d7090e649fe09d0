package repository

import (
	"errors"

	"github.com/TorbenVoss/MemberFox/app/models"
	"gorm.io/gorm"
)

// customerRepository implements the CustomerRepository interface
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository instance
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// GetByUserID retrieves the customer record linked to a user
func (r *customerRepository) GetByUserID(userID uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.Where("user_id = ?", userID).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetOrCreateByUserID returns the customer record for a user, creating it
// lazily on first billing-related access.
func (r *customerRepository) GetOrCreateByUserID(userID uint, initEmail string) (*models.Customer, error) {
	customer, err := r.GetByUserID(userID)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer = &models.Customer{
		UserID:    userID,
		InitEmail: initEmail,
	}
	if err := r.db.Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// GetByStripeID resolves a customer by their provider customer id
func (r *customerRepository) GetByStripeID(stripeID string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.Where("stripe_id = ?", stripeID).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListWithStripeID returns every customer that has a provider-side customer object
func (r *customerRepository) ListWithStripeID() ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.Where("stripe_id IS NOT NULL AND stripe_id <> ''").Find(&customers).Error
	return customers, err
}

// Update persists changes to a customer record
func (r *customerRepository) Update(customer *models.Customer) error {
	return r.db.Save(customer).Error
}
