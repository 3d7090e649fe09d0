package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PriceIntervalMonth = "month"
	PriceIntervalYear  = "year"
)

var (
	ErrInvalidPriceInterval  = errors.New("price interval must be month or year")
	ErrInvalidPlanPermission = errors.New("plan permission outside the allowed set")
)

// PlanPrice is a priced, interval-scoped offering of a plan. StripeID mirrors
// the provider price id and is immutable once set. At most one price per
// (plan, interval) may be featured; the repository unsets featured siblings
// whenever a price is saved as featured.
type PlanPrice struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	PlanID    *uint           `gorm:"index;default:null" json:"plan_id"`
	Plan      *Plan           `gorm:"foreignKey:PlanID" json:"-"`
	Interval  string          `gorm:"type:varchar(16);not null;default:'month';index" json:"interval"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:99.99" json:"price"`
	StripeID  string          `gorm:"type:varchar(191);default:null;uniqueIndex" json:"stripe_id"`
	Featured  bool            `gorm:"default:true;index" json:"featured"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (pp *PlanPrice) Validate() error {
	switch pp.Interval {
	case PriceIntervalMonth, PriceIntervalYear:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPriceInterval, pp.Interval)
	}
}

// UnitAmount returns the price in the provider's smallest currency unit.
func (pp *PlanPrice) UnitAmount() int64 {
	return pp.Price.Mul(decimal.NewFromInt(100)).IntPart()
}

// DisplayPrice formats the price for pricing pages.
func (pp *PlanPrice) DisplayPrice() string {
	return "$" + pp.Price.StringFixed(2)
}
