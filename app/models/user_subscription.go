package models

import (
	"fmt"
	"strings"
	"time"
)

// SubscriptionStatus is the closed set of provider subscription states.
type SubscriptionStatus string

const (
	SubStatusActive            SubscriptionStatus = "active"
	SubStatusTrialing          SubscriptionStatus = "trialing"
	SubStatusIncomplete        SubscriptionStatus = "incomplete"
	SubStatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
	SubStatusPastDue           SubscriptionStatus = "past_due"
	SubStatusCanceled          SubscriptionStatus = "canceled"
	SubStatusUnpaid            SubscriptionStatus = "unpaid"
	SubStatusPaused            SubscriptionStatus = "paused"
)

// ActiveSubscriptionStatuses are the states that grant plan entitlements.
var ActiveSubscriptionStatuses = []SubscriptionStatus{
	SubStatusActive,
	SubStatusTrialing,
}

// ParseSubscriptionStatus maps a provider status string onto the closed enumeration.
func ParseSubscriptionStatus(s string) (SubscriptionStatus, error) {
	status := SubscriptionStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case SubStatusActive, SubStatusTrialing, SubStatusIncomplete, SubStatusIncompleteExpired,
		SubStatusPastDue, SubStatusCanceled, SubStatusUnpaid, SubStatusPaused:
		return status, nil
	default:
		return "", fmt.Errorf("unknown subscription status %q", s)
	}
}

// IsActiveState reports whether the status grants access to plan groups.
func (s SubscriptionStatus) IsActiveState() bool {
	for _, active := range ActiveSubscriptionStatuses {
		if s == active {
			return true
		}
	}
	return false
}

// UserSubscription is the one-to-one local mirror of a user's provider
// subscription. Rows are never hard-deleted; lifecycle is tracked via Status.
type UserSubscription struct {
	ID                  uint               `gorm:"primaryKey" json:"id"`
	UserID              uint               `gorm:"not null;uniqueIndex" json:"user_id"`
	User                *User              `gorm:"foreignKey:UserID" json:"-"`
	PlanID              *uint              `gorm:"index;default:null" json:"plan_id"`
	Plan                *Plan              `gorm:"foreignKey:PlanID" json:"-"`
	StripeID            string             `gorm:"type:varchar(191);default:null;index" json:"stripe_id"`
	Status              SubscriptionStatus `gorm:"type:varchar(32);default:null;index" json:"status"`
	CurrentPeriodStart  *time.Time         `gorm:"type:timestamp;default:null" json:"current_period_start,omitempty"`
	CurrentPeriodEnd    *time.Time         `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	OriginalPeriodStart *time.Time         `gorm:"type:timestamp;default:null" json:"original_period_start,omitempty"`
	CancelAtPeriodEnd   bool               `gorm:"default:false" json:"cancel_at_period_end"`
	UserCancelled       bool               `gorm:"default:false" json:"user_cancelled"`
	CreatedAt           time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActiveStatus reports whether the subscription currently entitles the user.
func (us *UserSubscription) IsActiveStatus() bool {
	return us.Status.IsActiveState()
}

// PlanName returns the display name of the attached plan, if any.
func (us *UserSubscription) PlanName() string {
	if us.Plan == nil {
		return ""
	}
	return us.Plan.Name
}

// BillingPeriodLabel renders the current billing window for account pages.
func (us *UserSubscription) BillingPeriodLabel() string {
	if us.CurrentPeriodStart == nil || us.CurrentPeriodEnd == nil {
		return ""
	}
	const layout = "Jan 2, 2006"
	return us.CurrentPeriodStart.Format(layout) + " - " + us.CurrentPeriodEnd.Format(layout)
}

// ApplyPeriodStart sets the current period start and populates
// OriginalPeriodStart exactly once, on the first non-nil period start.
func (us *UserSubscription) ApplyPeriodStart(start *time.Time) {
	us.CurrentPeriodStart = start
	if us.OriginalPeriodStart == nil && start != nil {
		us.OriginalPeriodStart = start
	}
}
