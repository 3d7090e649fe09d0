package entitlements

import (
	"github.com/TorbenVoss/MemberFox/app/models"
	"github.com/TorbenVoss/MemberFox/app/repository"
)

// Projector derives group membership and group permissions from the plan
// catalog. It must be invoked explicitly after every UserSubscription persist;
// there is no ambient save listener.
type Projector struct {
	plans  repository.PlanRepository
	groups repository.GroupRepository

	// customGroups preserves group memberships that no other active plan owns.
	// When disabled the user's groups are replaced with the plan's exactly.
	customGroups bool
}

// NewProjector creates a projector. customGroups selects the projection mode
// at construction time; there is no global toggle.
func NewProjector(plans repository.PlanRepository, groups repository.GroupRepository, customGroups bool) *Projector {
	return &Projector{
		plans:        plans,
		groups:       groups,
		customGroups: customGroups,
	}
}

// ProjectUserGroups recomputes the user's group memberships from their current
// plan. plan may be nil when the subscription carries no plan; the target set
// is then empty.
//
// With custom groups enabled the result is
//
//	final = target ∪ (current − groups owned by other active plans)
//
// so manually assigned and cross-plan groups survive, while groups owned by
// plans the user is no longer subscribed to are dropped.
func (p *Projector) ProjectUserGroups(userID uint, plan *models.Plan) error {
	var target []uint
	var planID uint
	if plan != nil {
		target = plan.GroupIDs()
		planID = plan.ID
	}

	if !p.customGroups {
		return p.groups.ReplaceUserGroups(userID, target)
	}

	otherPlans, err := p.plans.ListActiveExcept(planID)
	if err != nil {
		return err
	}
	owned := make(map[uint]struct{})
	for _, other := range otherPlans {
		for _, id := range other.GroupIDs() {
			owned[id] = struct{}{}
		}
	}

	current, err := p.groups.GetUserGroupIDs(userID)
	if err != nil {
		return err
	}

	final := make(map[uint]struct{}, len(target)+len(current))
	for _, id := range target {
		final[id] = struct{}{}
	}
	for _, id := range current {
		if _, isOwned := owned[id]; !isOwned {
			final[id] = struct{}{}
		}
	}

	finalIDs := make([]uint, 0, len(final))
	for id := range final {
		finalIDs = append(finalIDs, id)
	}
	return p.groups.ReplaceUserGroups(userID, finalIDs)
}

// SyncPlanPermissions sets each group's permission set equal to its plan's
// permission set for every active plan. Full replace, idempotent.
func (p *Projector) SyncPlanPermissions() error {
	plans, err := p.plans.ListActive()
	if err != nil {
		return err
	}
	for _, plan := range plans {
		for _, group := range plan.Groups {
			if err := p.groups.ReplaceGroupPermissions(group.ID, plan.Permissions); err != nil {
				return err
			}
		}
	}
	return nil
}
