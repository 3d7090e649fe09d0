package models

import "time"

// Permission is a named capability that can be attached to groups and plans.
// Plan permissions are restricted to the codes in PlanPermissionCodes.
type Permission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Codename  string    `gorm:"type:varchar(100);uniqueIndex" json:"codename"`
	Name      string    `gorm:"type:varchar(200)" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Group bundles permissions and is the unit of membership that plans project onto users.
type Group struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(150);uniqueIndex" json:"name"`
	Permissions []Permission `gorm:"many2many:group_permissions;" json:"permissions,omitempty"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// PlanPermissionCodes is the closed set of permission codenames a plan may carry.
var PlanPermissionCodes = []string{
	PermAdvanced,
	PermPro,
	PermBasic,
	PermBasicAI,
}

const (
	PermAdvanced = "advanced"
	PermPro      = "pro"
	PermBasic    = "basic"
	PermBasicAI  = "basic_ai"
)

// IsPlanPermissionCode reports whether codename belongs to the closed plan permission set.
func IsPlanPermissionCode(codename string) bool {
	for _, c := range PlanPermissionCodes {
		if c == codename {
			return true
		}
	}
	return false
}
