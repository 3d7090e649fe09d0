package billing

import "context"

// Gateway wraps the payment provider behind a stable interface returning
// normalized records. Every error crossing this boundary is a *GatewayError.
type Gateway interface {
	CreateCustomer(ctx context.Context, name, email string, metadata map[string]string) (string, error)
	CreateProduct(ctx context.Context, name string, metadata map[string]string) (string, error)
	CreatePrice(ctx context.Context, currency, productID string, unitAmount int64, interval string, metadata map[string]string) (string, error)
	StartCheckoutSession(ctx context.Context, customerID, successURL, cancelURL, priceID string) (string, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*NormalizedSubscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string, params CancelParams) (*NormalizedSubscription, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	GetCheckoutCustomerPlan(ctx context.Context, sessionID string) (*CheckoutCustomerPlan, error)
	ListCustomerActiveSubscriptions(ctx context.Context, customerID string) ([]string, error)
}
