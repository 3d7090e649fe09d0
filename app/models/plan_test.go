package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanValidatePermissionCodes(t *testing.T) {
	plan := &Plan{
		Name:        "Pro",
		Permissions: []Permission{{Codename: PermPro}, {Codename: PermBasicAI}},
	}
	require.NoError(t, plan.Validate())

	plan.Permissions = append(plan.Permissions, Permission{Codename: "superuser"})
	err := plan.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPlanPermission)
}

func TestIsPlanPermissionCode(t *testing.T) {
	for _, code := range PlanPermissionCodes {
		assert.True(t, IsPlanPermissionCode(code), "code %q", code)
	}
	assert.False(t, IsPlanPermissionCode("superuser"))
	assert.False(t, IsPlanPermissionCode(""))
}

func TestPlanFeatureList(t *testing.T) {
	plan := &Plan{Features: "Unlimited projects\n\n  Priority support  \nAPI access\n"}
	assert.Equal(t, []string{"Unlimited projects", "Priority support", "API access"}, plan.FeatureList())

	plan.Features = "   "
	assert.Nil(t, plan.FeatureList())
}

func TestPlanGroupIDs(t *testing.T) {
	plan := &Plan{Groups: []Group{{ID: 3}, {ID: 9}}}
	assert.Equal(t, []uint{3, 9}, plan.GroupIDs())

	assert.Empty(t, (&Plan{}).GroupIDs())
}

func TestPlanPriceValidateInterval(t *testing.T) {
	price := &PlanPrice{Interval: PriceIntervalMonth}
	require.NoError(t, price.Validate())

	price.Interval = PriceIntervalYear
	require.NoError(t, price.Validate())

	price.Interval = "weekly"
	err := price.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPriceInterval)
}

func TestPlanPriceUnitAmount(t *testing.T) {
	price := &PlanPrice{Price: decimal.RequireFromString("19.99")}
	assert.Equal(t, int64(1999), price.UnitAmount())

	price.Price = decimal.RequireFromString("100")
	assert.Equal(t, int64(10000), price.UnitAmount())
}

func TestPlanPriceDisplayPrice(t *testing.T) {
	price := &PlanPrice{Price: decimal.RequireFromString("19.9")}
	assert.Equal(t, "$19.90", price.DisplayPrice())
}
