package billing

import (
	"context"
	"errors"
	"strings"

	"github.com/TorbenVoss/MemberFox/app/models"
	"github.com/TorbenVoss/MemberFox/internal/pkg/dateutil"
	"github.com/TorbenVoss/MemberFox/internal/pkg/env"
	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	customerpkg "github.com/stripe/stripe-go/v82/customer"
	pricepkg "github.com/stripe/stripe-go/v82/price"
	productpkg "github.com/stripe/stripe-go/v82/product"
	subscriptionpkg "github.com/stripe/stripe-go/v82/subscription"
)

// CheckoutSessionPlaceholder is the token the provider substitutes with the
// real session id on redirect.
const CheckoutSessionPlaceholder = "{CHECKOUT_SESSION_ID}"

// StripeGateway implements Gateway against the Stripe API.
type StripeGateway struct{}

// NewStripeGatewayFromEnv configures the global Stripe client from the
// environment. Test-mode keys are rejected outside dev.
func NewStripeGatewayFromEnv() (*StripeGateway, error) {
	key := strings.TrimSpace(env.GetEnv("STRIPE_API_KEY", ""))
	if key == "" {
		return nil, errors.New("STRIPE_API_KEY is not configured")
	}
	if strings.Contains(key, "sk_test") && !env.IsDev() {
		return nil, errors.New("test-mode stripe key is not allowed in production")
	}
	stripe.Key = key
	return &StripeGateway{}, nil
}

// WithSessionPlaceholder appends the session id placeholder to a checkout
// success URL exactly once. URLs that already end with the placeholder are
// returned unchanged.
func WithSessionPlaceholder(successURL string) string {
	suffix := "session_id=" + CheckoutSessionPlaceholder
	if strings.HasSuffix(successURL, suffix) {
		return successURL
	}
	sep := "?"
	if strings.Contains(successURL, "?") {
		sep = "&"
	}
	return successURL + sep + suffix
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, name, email string, metadata map[string]string) (string, error) {
	params := &stripe.CustomerParams{
		Name:     stripe.String(name),
		Email:    stripe.String(email),
		Metadata: metadata,
	}
	params.Context = ctx
	c, err := customerpkg.New(params)
	if err != nil {
		return "", gatewayErr("create customer", err)
	}
	return c.ID, nil
}

func (g *StripeGateway) CreateProduct(ctx context.Context, name string, metadata map[string]string) (string, error) {
	params := &stripe.ProductParams{
		Name:     stripe.String(name),
		Metadata: metadata,
	}
	params.Context = ctx
	p, err := productpkg.New(params)
	if err != nil {
		return "", gatewayErr("create product", err)
	}
	return p.ID, nil
}

func (g *StripeGateway) CreatePrice(ctx context.Context, currency, productID string, unitAmount int64, interval string, metadata map[string]string) (string, error) {
	if productID == "" {
		return "", gatewayErr("create price", errors.New("product id is required"))
	}
	params := &stripe.PriceParams{
		Currency:   stripe.String(currency),
		Product:    stripe.String(productID),
		UnitAmount: stripe.Int64(unitAmount),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String(interval),
		},
		Metadata: metadata,
	}
	params.Context = ctx
	p, err := pricepkg.New(params)
	if err != nil {
		return "", gatewayErr("create price", err)
	}
	return p.ID, nil
}

func (g *StripeGateway) StartCheckoutSession(ctx context.Context, customerID, successURL, cancelURL, priceID string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Customer:   stripe.String(customerID),
		SuccessURL: stripe.String(WithSessionPlaceholder(successURL)),
		CancelURL:  stripe.String(cancelURL),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
	}
	params.Context = ctx
	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", gatewayErr("start checkout session", err)
	}
	return sess.URL, nil
}

func (g *StripeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*NormalizedSubscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	sub, err := subscriptionpkg.Get(subscriptionID, params)
	if err != nil {
		return nil, gatewayErr("get subscription", err)
	}
	return normalizeStripeSubscription(sub)
}

func (g *StripeGateway) CancelSubscription(ctx context.Context, subscriptionID string, p CancelParams) (*NormalizedSubscription, error) {
	feedback := p.Feedback
	if feedback == "" {
		feedback = FeedbackOther
	}

	var sub *stripe.Subscription
	var err error
	if p.CancelAtPeriodEnd {
		params := &stripe.SubscriptionParams{
			CancelAtPeriodEnd: stripe.Bool(true),
			CancellationDetails: &stripe.SubscriptionCancellationDetailsParams{
				Comment:  stripe.String(p.Reason),
				Feedback: stripe.String(feedback),
			},
		}
		params.Context = ctx
		sub, err = subscriptionpkg.Update(subscriptionID, params)
	} else {
		params := &stripe.SubscriptionCancelParams{
			CancellationDetails: &stripe.SubscriptionCancelCancellationDetailsParams{
				Comment:  stripe.String(p.Reason),
				Feedback: stripe.String(feedback),
			},
		}
		params.Context = ctx
		sub, err = subscriptionpkg.Cancel(subscriptionID, params)
	}
	if err != nil {
		return nil, gatewayErr("cancel subscription", err)
	}
	return normalizeStripeSubscription(sub)
}

func (g *StripeGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := checkoutsession.Get(sessionID, params)
	if err != nil {
		return nil, gatewayErr("get checkout session", err)
	}
	if sess.Customer == nil || sess.Subscription == nil {
		return nil, gatewayErr("get checkout session", errors.New("session has no customer or subscription"))
	}
	return &CheckoutSession{
		ID:             sess.ID,
		CustomerID:     sess.Customer.ID,
		SubscriptionID: sess.Subscription.ID,
	}, nil
}

func (g *StripeGateway) GetCheckoutCustomerPlan(ctx context.Context, sessionID string) (*CheckoutCustomerPlan, error) {
	sess, err := g.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	subParams := &stripe.SubscriptionParams{}
	subParams.Context = ctx
	sub, err := subscriptionpkg.Get(sess.SubscriptionID, subParams)
	if err != nil {
		return nil, gatewayErr("get subscription", err)
	}
	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return nil, gatewayErr("get subscription", errors.New("subscription has no priced items"))
	}

	status, err := models.ParseSubscriptionStatus(string(sub.Status))
	if err != nil {
		return nil, gatewayErr("get subscription", err)
	}

	item := sub.Items.Data[0]
	return &CheckoutCustomerPlan{
		CustomerID:     sess.CustomerID,
		PlanPriceID:    item.Price.ID,
		SubscriptionID: sub.ID,
		PeriodStart:    dateutil.FromUnix(item.CurrentPeriodStart),
		PeriodEnd:      dateutil.FromUnix(item.CurrentPeriodEnd),
		Status:         status,
	}, nil
}

func (g *StripeGateway) ListCustomerActiveSubscriptions(ctx context.Context, customerID string) ([]string, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}
	params.Context = ctx

	var ids []string
	iter := subscriptionpkg.List(params)
	for iter.Next() {
		ids = append(ids, iter.Subscription().ID)
	}
	if err := iter.Err(); err != nil {
		return nil, gatewayErr("list customer subscriptions", err)
	}
	return ids, nil
}

func normalizeStripeSubscription(sub *stripe.Subscription) (*NormalizedSubscription, error) {
	status, err := models.ParseSubscriptionStatus(string(sub.Status))
	if err != nil {
		return nil, gatewayErr("normalize subscription", err)
	}
	out := &NormalizedSubscription{
		Status:            status,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		out.CurrentPeriodStart = dateutil.FromUnix(item.CurrentPeriodStart)
		out.CurrentPeriodEnd = dateutil.FromUnix(item.CurrentPeriodEnd)
	}
	return out, nil
}
