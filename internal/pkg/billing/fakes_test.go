package billing

import (
	"context"
	"strings"

	"github.com/TorbenVoss/MemberFox/app/models"
	"github.com/TorbenVoss/MemberFox/app/repository"
	"github.com/TorbenVoss/MemberFox/internal/pkg/entitlements"
	"gorm.io/gorm"
)

// In-memory repository and gateway stand-ins for service and sweep tests.
// They keep just enough state to exercise the lifecycle paths without a
// database or provider account.

type fakeUserRepo struct {
	byID         map[uint]*models.User
	byCustomerID map[string]*models.User
}

func (r *fakeUserRepo) Create(user *models.User) error { return nil }
func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeUserRepo) GetByCustomerStripeID(stripeID string) (*models.User, error) {
	if u, ok := r.byCustomerID[stripeID]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeUserRepo) Update(user *models.User) error         { return nil }
func (r *fakeUserRepo) List(_, _ int) ([]models.User, error)   { return nil, nil }
func (r *fakeUserRepo) Count() (int64, error)                  { return 0, nil }

type fakeCustomerRepo struct {
	byUserID map[uint]*models.Customer
	updated  []*models.Customer
}

func (r *fakeCustomerRepo) GetByUserID(userID uint) (*models.Customer, error) {
	if c, ok := r.byUserID[userID]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeCustomerRepo) GetOrCreateByUserID(userID uint, initEmail string) (*models.Customer, error) {
	if c, ok := r.byUserID[userID]; ok {
		return c, nil
	}
	c := &models.Customer{UserID: userID, InitEmail: initEmail}
	if r.byUserID == nil {
		r.byUserID = make(map[uint]*models.Customer)
	}
	r.byUserID[userID] = c
	return c, nil
}
func (r *fakeCustomerRepo) GetByStripeID(stripeID string) (*models.Customer, error) {
	for _, c := range r.byUserID {
		if c.StripeID == stripeID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeCustomerRepo) ListWithStripeID() ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range r.byUserID {
		if c.StripeID != "" {
			out = append(out, *c)
		}
	}
	return out, nil
}
func (r *fakeCustomerRepo) Update(customer *models.Customer) error {
	r.updated = append(r.updated, customer)
	return nil
}

type fakePlanRepo struct {
	byPriceStripeID map[string]*models.Plan
	active          []models.Plan
}

func (r *fakePlanRepo) Create(plan *models.Plan) error { return nil }
func (r *fakePlanRepo) GetByID(id uint) (*models.Plan, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakePlanRepo) GetByStripeID(stripeID string) (*models.Plan, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakePlanRepo) GetByPriceStripeID(priceStripeID string) (*models.Plan, error) {
	if p, ok := r.byPriceStripeID[priceStripeID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakePlanRepo) ListActive() ([]models.Plan, error) { return r.active, nil }
func (r *fakePlanRepo) ListActiveExcept(planID uint) ([]models.Plan, error) {
	var out []models.Plan
	for _, p := range r.active {
		if p.ID != planID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *fakePlanRepo) Save(plan *models.Plan) error { return nil }

type fakePriceRepo struct {
	byID map[uint]*models.PlanPrice
}

func (r *fakePriceRepo) GetByID(id uint) (*models.PlanPrice, error) {
	if p, ok := r.byID[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakePriceRepo) GetByStripeID(stripeID string) (*models.PlanPrice, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakePriceRepo) ListFeaturedByInterval(interval string) ([]models.PlanPrice, error) {
	return nil, nil
}
func (r *fakePriceRepo) Save(price *models.PlanPrice) error { return nil }

type fakeSubRepo struct {
	byUserID    map[uint]*models.UserSubscription
	refreshRows []models.UserSubscription
	created     int
	saved       int
}

func (r *fakeSubRepo) GetByUserID(userID uint) (*models.UserSubscription, error) {
	if s, ok := r.byUserID[userID]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeSubRepo) GetByStripeID(stripeID string) (*models.UserSubscription, error) {
	for _, s := range r.byUserID {
		if strings.EqualFold(s.StripeID, stripeID) {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeSubRepo) ExistsByStripeID(stripeID string) (bool, error) {
	_, err := r.GetByStripeID(stripeID)
	if err == nil {
		return true, nil
	}
	return false, nil
}
func (r *fakeSubRepo) Create(sub *models.UserSubscription) error {
	if r.byUserID == nil {
		r.byUserID = make(map[uint]*models.UserSubscription)
	}
	r.byUserID[sub.UserID] = sub
	r.created++
	return nil
}
func (r *fakeSubRepo) Save(sub *models.UserSubscription) error {
	if r.byUserID == nil {
		r.byUserID = make(map[uint]*models.UserSubscription)
	}
	r.byUserID[sub.UserID] = sub
	r.saved++
	return nil
}
func (r *fakeSubRepo) ListForRefresh(filter repository.SubscriptionFilter) ([]models.UserSubscription, error) {
	return r.refreshRows, nil
}

type fakeGroupRepo struct {
	userGroups map[uint][]uint
	replaced   map[uint][][]uint
}

func (r *fakeGroupRepo) Create(group *models.Group) error            { return nil }
func (r *fakeGroupRepo) GetByID(id uint) (*models.Group, error)      { return nil, gorm.ErrRecordNotFound }
func (r *fakeGroupRepo) GetUserGroupIDs(userID uint) ([]uint, error) { return r.userGroups[userID], nil }
func (r *fakeGroupRepo) ReplaceUserGroups(userID uint, groupIDs []uint) error {
	if r.replaced == nil {
		r.replaced = make(map[uint][][]uint)
	}
	r.replaced[userID] = append(r.replaced[userID], groupIDs)
	if r.userGroups == nil {
		r.userGroups = make(map[uint][]uint)
	}
	r.userGroups[userID] = groupIDs
	return nil
}
func (r *fakeGroupRepo) ReplaceGroupPermissions(groupID uint, permissions []models.Permission) error {
	return nil
}
func (r *fakeGroupRepo) GetOrCreatePermission(codename, name string) (*models.Permission, error) {
	return &models.Permission{Codename: codename, Name: name}, nil
}

type cancelCall struct {
	subscriptionID string
	params         CancelParams
}

type fakeGateway struct {
	subs             map[string]*NormalizedSubscription
	checkouts        map[string]*CheckoutCustomerPlan
	activeByCustomer map[string][]string

	createdCustomers  int
	cancelCalls       []cancelCall
	cancelErrByID     map[string]error
	getErrByID        map[string]error
	listErrByCustomer map[string]error
}

func (g *fakeGateway) CreateCustomer(_ context.Context, name, email string, _ map[string]string) (string, error) {
	g.createdCustomers++
	return "cus_test_" + email, nil
}
func (g *fakeGateway) CreateProduct(_ context.Context, name string, _ map[string]string) (string, error) {
	return "prod_test_" + name, nil
}
func (g *fakeGateway) CreatePrice(_ context.Context, _, productID string, _ int64, _ string, _ map[string]string) (string, error) {
	return "price_test_" + productID, nil
}
func (g *fakeGateway) StartCheckoutSession(_ context.Context, _, _, _, priceID string) (string, error) {
	return "https://checkout.test/" + priceID, nil
}
func (g *fakeGateway) GetSubscription(_ context.Context, subscriptionID string) (*NormalizedSubscription, error) {
	if err := g.getErrByID[subscriptionID]; err != nil {
		return nil, gatewayErr("get subscription", err)
	}
	if s, ok := g.subs[subscriptionID]; ok {
		return s, nil
	}
	return nil, gatewayErr("get subscription", gorm.ErrRecordNotFound)
}
func (g *fakeGateway) CancelSubscription(_ context.Context, subscriptionID string, params CancelParams) (*NormalizedSubscription, error) {
	if err := g.cancelErrByID[subscriptionID]; err != nil {
		return nil, gatewayErr("cancel subscription", err)
	}
	g.cancelCalls = append(g.cancelCalls, cancelCall{subscriptionID: subscriptionID, params: params})
	if s, ok := g.subs[subscriptionID]; ok {
		out := *s
		if params.CancelAtPeriodEnd {
			out.CancelAtPeriodEnd = true
		} else {
			out.Status = models.SubStatusCanceled
		}
		return &out, nil
	}
	return &NormalizedSubscription{Status: models.SubStatusCanceled}, nil
}
func (g *fakeGateway) GetCheckoutSession(_ context.Context, sessionID string) (*CheckoutSession, error) {
	if c, ok := g.checkouts[sessionID]; ok {
		return &CheckoutSession{
			ID:             sessionID,
			CustomerID:     c.CustomerID,
			SubscriptionID: c.SubscriptionID,
		}, nil
	}
	return nil, gatewayErr("get checkout session", gorm.ErrRecordNotFound)
}
func (g *fakeGateway) GetCheckoutCustomerPlan(_ context.Context, sessionID string) (*CheckoutCustomerPlan, error) {
	if c, ok := g.checkouts[sessionID]; ok {
		return c, nil
	}
	return nil, gatewayErr("get checkout session", gorm.ErrRecordNotFound)
}
func (g *fakeGateway) ListCustomerActiveSubscriptions(_ context.Context, customerID string) ([]string, error) {
	if err := g.listErrByCustomer[customerID]; err != nil {
		return nil, gatewayErr("list customer subscriptions", err)
	}
	return g.activeByCustomer[customerID], nil
}

type testFixture struct {
	users     *fakeUserRepo
	customers *fakeCustomerRepo
	plans     *fakePlanRepo
	prices    *fakePriceRepo
	subs      *fakeSubRepo
	groups    *fakeGroupRepo
	gateway   *fakeGateway
	service   *Service
}

func newTestFixture(customGroups bool) *testFixture {
	f := &testFixture{
		users:     &fakeUserRepo{byID: map[uint]*models.User{}, byCustomerID: map[string]*models.User{}},
		customers: &fakeCustomerRepo{byUserID: map[uint]*models.Customer{}},
		plans:     &fakePlanRepo{byPriceStripeID: map[string]*models.Plan{}},
		prices:    &fakePriceRepo{byID: map[uint]*models.PlanPrice{}},
		subs:      &fakeSubRepo{byUserID: map[uint]*models.UserSubscription{}},
		groups:    &fakeGroupRepo{userGroups: map[uint][]uint{}},
		gateway: &fakeGateway{
			subs:             map[string]*NormalizedSubscription{},
			checkouts:        map[string]*CheckoutCustomerPlan{},
			activeByCustomer: map[string][]string{},
		},
	}
	repos := &repository.Repositories{
		User:         f.users,
		Customer:     f.customers,
		Plan:         f.plans,
		Price:        f.prices,
		Subscription: f.subs,
		Group:        f.groups,
	}
	projector := entitlements.NewProjector(f.plans, f.groups, customGroups)
	f.service = NewService(repos, f.gateway, projector)
	return f
}
