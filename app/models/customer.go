package models

import "time"

// Customer links a local user to the billing provider's customer object.
// The record is created lazily on first billing-related access; the remote
// customer is only created once the init email is confirmed.
type Customer struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User               *User     `gorm:"foreignKey:UserID" json:"-"`
	StripeID           string    `gorm:"type:varchar(191);default:null;index" json:"stripe_id"`
	InitEmail          string    `gorm:"type:varchar(200);default:''" json:"init_email"`
	InitEmailConfirmed bool      `gorm:"default:false" json:"init_email_confirmed"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasRemoteCustomer reports whether a provider-side customer exists for this record.
func (c *Customer) HasRemoteCustomer() bool {
	return c.StripeID != ""
}

// NeedsRemoteCustomer reports whether a provider customer should be created:
// the email is confirmed but no remote id has been stored yet.
func (c *Customer) NeedsRemoteCustomer() bool {
	return c.InitEmailConfirmed && c.StripeID == ""
}
