package billing

import (
	"time"

	"github.com/TorbenVoss/MemberFox/app/models"
)

// Cancellation reasons recorded against the provider when subscriptions are
// ended by the system rather than the user.
const (
	ReasonAutoEndedNewMembership = "Auto ended new membership"
	ReasonDanglingActive         = "Dangling active subscriptions"

	FeedbackOther = "other"
)

// NormalizedSubscription is the provider-agnostic snapshot of a remote
// subscription. Provider epoch timestamps are already converted to UTC
// instants; optional fields stay nil when the provider omits them.
type NormalizedSubscription struct {
	Status             models.SubscriptionStatus
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	CancelAtPeriodEnd  bool
}

// CheckoutSession is the provider-agnostic view of a checkout session: the
// customer it belongs to and the subscription it created.
type CheckoutSession struct {
	ID             string
	CustomerID     string
	SubscriptionID string
}

// CheckoutCustomerPlan carries everything a completed checkout session
// resolves to: the provider customer, the purchased price, the subscription
// and its initial billing window.
type CheckoutCustomerPlan struct {
	CustomerID     string
	PlanPriceID    string
	SubscriptionID string
	PeriodStart    *time.Time
	PeriodEnd      *time.Time
	Status         models.SubscriptionStatus
}

// CancelParams configures a remote subscription cancellation.
type CancelParams struct {
	Reason            string
	Feedback          string
	CancelAtPeriodEnd bool
}
