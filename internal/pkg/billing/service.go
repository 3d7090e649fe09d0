package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/TorbenVoss/MemberFox/app/models"
	"github.com/TorbenVoss/MemberFox/app/repository"
	"github.com/TorbenVoss/MemberFox/internal/pkg/entitlements"
	"gorm.io/gorm"
)

// ReasonUserEnded is recorded when the user cancels from the account page.
const ReasonUserEnded = "User wanted to end"

// Service owns the subscription lifecycle: checkout finalization, user
// cancellation and local refresh from gateway state. All UserSubscription
// mutations go through the per-user lock.
type Service struct {
	users     repository.UserRepository
	customers repository.CustomerRepository
	plans     repository.PlanRepository
	prices    repository.PriceRepository
	subs      repository.SubscriptionRepository
	gateway   Gateway
	projector *entitlements.Projector
	locks     *userLocks
}

// NewService creates a billing service from injected repositories, a gateway
// and the group projector.
func NewService(repos *repository.Repositories, gateway Gateway, projector *entitlements.Projector) *Service {
	return &Service{
		users:     repos.User,
		customers: repos.Customer,
		plans:     repos.Plan,
		prices:    repos.Price,
		subs:      repos.Subscription,
		gateway:   gateway,
		projector: projector,
		locks:     sharedUserLocks,
	}
}

// NewServiceFromDB wires the default service graph from a GORM DB handle.
// customGroups selects the projector mode (see entitlements.NewProjector).
func NewServiceFromDB(db *gorm.DB, gateway Gateway, customGroups bool) *Service {
	repos := repository.NewRepositories(db)
	projector := entitlements.NewProjector(repos.Plan, repos.Group, customGroups)
	return NewService(repos, gateway, projector)
}

// EnsureCustomer returns the user's customer record, creating the local row
// lazily and the remote customer once the init email is confirmed.
func (s *Service) EnsureCustomer(ctx context.Context, user *models.User) (*models.Customer, error) {
	customer, err := s.customers.GetOrCreateByUserID(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	if !customer.NeedsRemoteCustomer() {
		return customer, nil
	}

	stripeID, err := s.gateway.CreateCustomer(ctx, user.Name, customer.InitEmail, map[string]string{
		"user_id": strconv.FormatUint(uint64(user.ID), 10),
	})
	if err != nil {
		return nil, err
	}
	customer.StripeID = stripeID
	if err := s.customers.Update(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// StartCheckout opens a gateway checkout session for a stored price.
func (s *Service) StartCheckout(ctx context.Context, user *models.User, priceID uint, successURL, cancelURL string) (string, error) {
	price, err := s.prices.GetByID(priceID)
	if err != nil {
		return "", err
	}
	if price.StripeID == "" {
		return "", fmt.Errorf("price %d has no gateway price id", priceID)
	}
	customer, err := s.EnsureCustomer(ctx, user)
	if err != nil {
		return "", err
	}
	if !customer.HasRemoteCustomer() {
		return "", fmt.Errorf("customer for user %d has no gateway customer id", user.ID)
	}
	return s.gateway.StartCheckoutSession(ctx, customer.StripeID, successURL, cancelURL, price.StripeID)
}

// FinalizeCheckout applies a completed checkout session to the local
// UserSubscription. Unresolvable plan or user aborts with *AccountLinkError
// and no partial write. When the session introduces a genuinely new provider
// subscription id for a user that already has one, the old remote
// subscription is canceled first with ReasonAutoEndedNewMembership.
func (s *Service) FinalizeCheckout(ctx context.Context, sessionID string) (*models.UserSubscription, error) {
	checkout, err := s.gateway.GetCheckoutCustomerPlan(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.GetByPriceStripeID(checkout.PlanPriceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AccountLinkError{Missing: "plan", Ref: checkout.PlanPriceID}
		}
		return nil, err
	}
	user, err := s.users.GetByCustomerStripeID(checkout.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AccountLinkError{Missing: "user", Ref: checkout.CustomerID}
		}
		return nil, err
	}

	unlock := s.locks.lock(user.ID)
	defer unlock()

	sub, err := s.subs.GetByUserID(user.ID)
	existed := err == nil
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		sub = &models.UserSubscription{
			UserID:        user.ID,
			UserCancelled: false,
		}
	}

	// Compare the stored external id against the newly resolved one; only a
	// true replacement ends the old remote subscription, a refresh of the
	// same id does not.
	if existed && sub.StripeID != "" && sub.StripeID != checkout.SubscriptionID {
		if _, err := s.gateway.CancelSubscription(ctx, sub.StripeID, CancelParams{
			Reason:            ReasonAutoEndedNewMembership,
			Feedback:          FeedbackOther,
			CancelAtPeriodEnd: false,
		}); err != nil {
			return nil, err
		}
		// The row now mirrors a fresh remote subscription; cancellation
		// state from the replaced one must not stick to it.
		sub.UserCancelled = false
		sub.CancelAtPeriodEnd = false
	}

	sub.PlanID = &plan.ID
	sub.Plan = plan
	sub.StripeID = checkout.SubscriptionID
	sub.Status = checkout.Status
	sub.ApplyPeriodStart(checkout.PeriodStart)
	sub.CurrentPeriodEnd = checkout.PeriodEnd

	if existed {
		err = s.subs.Save(sub)
	} else {
		err = s.subs.Create(sub)
	}
	if err != nil {
		return nil, err
	}

	if err := s.projector.ProjectUserGroups(user.ID, plan); err != nil {
		return nil, err
	}
	return sub, nil
}

// CancelUserSubscription ends the user's subscription at period end and marks
// it as cancelled by the user.
func (s *Service) CancelUserSubscription(ctx context.Context, userID uint) (*models.UserSubscription, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	sub, err := s.subs.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if sub.StripeID == "" || !sub.IsActiveStatus() {
		return sub, nil
	}

	norm, err := s.gateway.CancelSubscription(ctx, sub.StripeID, CancelParams{
		Reason:            ReasonUserEnded,
		Feedback:          FeedbackOther,
		CancelAtPeriodEnd: true,
	})
	if err != nil {
		return nil, err
	}

	applyNormalized(sub, norm)
	sub.UserCancelled = true
	if err := s.subs.Save(sub); err != nil {
		return nil, err
	}
	if err := s.projector.ProjectUserGroups(userID, sub.Plan); err != nil {
		return nil, err
	}
	return sub, nil
}

// RefreshUserSubscription overwrites the local record with current gateway
// state for a single user.
func (s *Service) RefreshUserSubscription(ctx context.Context, userID uint) (*models.UserSubscription, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	sub, err := s.subs.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if sub.StripeID == "" {
		return sub, nil
	}

	norm, err := s.gateway.GetSubscription(ctx, sub.StripeID)
	if err != nil {
		return nil, err
	}
	applyNormalized(sub, norm)
	if err := s.subs.Save(sub); err != nil {
		return nil, err
	}
	if err := s.projector.ProjectUserGroups(userID, sub.Plan); err != nil {
		return nil, err
	}
	return sub, nil
}

// applyNormalized copies gateway state onto the local record with explicit
// field assignment. OriginalPeriodStart is only populated on the first
// non-nil period start.
func applyNormalized(sub *models.UserSubscription, n *NormalizedSubscription) {
	sub.Status = n.Status
	sub.ApplyPeriodStart(n.CurrentPeriodStart)
	sub.CurrentPeriodEnd = n.CurrentPeriodEnd
	sub.CancelAtPeriodEnd = n.CancelAtPeriodEnd
}
