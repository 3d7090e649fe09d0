package billing

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/TorbenVoss/MemberFox/app/repository"
	"github.com/google/uuid"
)

// rowTimeout bounds each per-row gateway call during a sweep.
const rowTimeout = 15 * time.Second

// RefreshResult summarizes a reconciliation sweep. The sweep is at-least-once
// and non-transactional: rows already updated stay updated even when the run
// as a whole fails, and re-running is safe.
type RefreshResult struct {
	RunID    string
	Selected int
	Updated  int
	Skipped  int
	Failed   int
}

// CleanupResult summarizes a dangling-subscription cleanup run.
type CleanupResult struct {
	RunID            string
	CustomersChecked int
	Canceled         int
	Failed           int
}

// RefreshActiveSubscriptions fetches current gateway state for every
// subscription matched by the filter and overwrites the local fields.
// Per-row gateway failures are logged and counted without stopping the
// sweep; the run reports success only when every selected row was updated.
// Cancellation of the sweep is checked between rows via ctx.
func (s *Service) RefreshActiveSubscriptions(ctx context.Context, filter repository.SubscriptionFilter) (*RefreshResult, error) {
	result := &RefreshResult{RunID: uuid.NewString()}

	rows, err := s.subs.ListForRefresh(filter)
	if err != nil {
		return result, err
	}
	result.Selected = len(rows)

	for i := range rows {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("refresh sweep %s canceled after %d of %d rows: %w",
				result.RunID, result.Updated, result.Selected, err)
		}

		sub := &rows[i]
		if sub.StripeID == "" {
			result.Skipped++
			continue
		}

		if err := s.refreshRow(ctx, sub.UserID); err != nil {
			result.Failed++
			log.Printf("[billing] refresh sweep %s: user=%d sub=%s failed: %v",
				result.RunID, sub.UserID, sub.StripeID, err)
			continue
		}
		result.Updated++
	}

	if result.Failed > 0 {
		return result, fmt.Errorf("refresh sweep %s incomplete: %d of %d rows updated, %d failed",
			result.RunID, result.Updated, result.Selected-result.Skipped, result.Failed)
	}
	return result, nil
}

func (s *Service) refreshRow(ctx context.Context, userID uint) error {
	rowCtx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()
	_, err := s.RefreshUserSubscription(rowCtx, userID)
	return err
}

// ClearDanglingSubscriptions cancels every remote active subscription that has
// no matching local UserSubscription record. This guards against orphaned
// remote state, e.g. a subscription created by a checkout whose finalization
// crashed before the local write. Cancellation is immediate, not at period
// end. Per-subscription failures are reported, not fatal.
func (s *Service) ClearDanglingSubscriptions(ctx context.Context) (*CleanupResult, error) {
	result := &CleanupResult{RunID: uuid.NewString()}

	customers, err := s.customers.ListWithStripeID()
	if err != nil {
		return result, err
	}

	for _, customer := range customers {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("dangling cleanup %s canceled: %w", result.RunID, err)
		}
		result.CustomersChecked++

		remoteIDs, err := s.gateway.ListCustomerActiveSubscriptions(ctx, customer.StripeID)
		if err != nil {
			result.Failed++
			log.Printf("[billing] dangling cleanup %s: customer=%s list failed: %v",
				result.RunID, customer.StripeID, err)
			continue
		}

		for _, remoteID := range remoteIDs {
			exists, err := s.subs.ExistsByStripeID(remoteID)
			if err != nil {
				return result, err
			}
			if exists {
				continue
			}
			if _, err := s.gateway.CancelSubscription(ctx, remoteID, CancelParams{
				Reason:            ReasonDanglingActive,
				CancelAtPeriodEnd: false,
			}); err != nil {
				result.Failed++
				log.Printf("[billing] dangling cleanup %s: cancel %s failed: %v",
					result.RunID, remoteID, err)
				continue
			}
			result.Canceled++
		}
	}

	if result.Failed > 0 {
		return result, fmt.Errorf("dangling cleanup %s finished with %d failures", result.RunID, result.Failed)
	}
	return result, nil
}
