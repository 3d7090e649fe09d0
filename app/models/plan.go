package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Plan is a billable product tier. Its StripeID mirrors the provider product id
// and is immutable once set; the repository enforces this on update.
type Plan struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(120);default:''" json:"name" validate:"max=120"`
	Subtitle    string       `gorm:"type:text;default:null" json:"subtitle"`
	Active      bool         `gorm:"default:true;index" json:"active"`
	Features    string       `gorm:"type:text;default:null" json:"features"`
	StripeID    string       `gorm:"type:varchar(191);default:null;uniqueIndex" json:"stripe_id"`
	Order       int          `gorm:"column:sort_order;default:-1" json:"order"`
	Featured    bool         `gorm:"default:true" json:"featured"`
	Permissions []Permission `gorm:"many2many:plan_permissions;" json:"permissions,omitempty"`
	Groups      []Group      `gorm:"many2many:plan_groups;" json:"groups,omitempty"`
	Prices      []PlanPrice  `gorm:"foreignKey:PlanID" json:"prices,omitempty"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Plan) Validate() error {
	v := validator.New()
	if err := v.Struct(p); err != nil {
		return err
	}
	for _, perm := range p.Permissions {
		if !IsPlanPermissionCode(perm.Codename) {
			return ErrInvalidPlanPermission
		}
	}
	return nil
}

// FeatureList returns the ordered feature lines of the plan.
// Empty lines are skipped, order is preserved.
func (p *Plan) FeatureList() []string {
	if strings.TrimSpace(p.Features) == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(p.Features, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// GroupIDs returns the ids of the groups attached to the plan.
func (p *Plan) GroupIDs() []uint {
	ids := make([]uint, 0, len(p.Groups))
	for _, g := range p.Groups {
		ids = append(ids, g.ID)
	}
	return ids
}
