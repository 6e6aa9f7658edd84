package accessgrant

import (
	"fmt"
	"time"

	"github.com/pinegate/pinegate/internal/shared/biztime"
)

// ComputeExpiration applies the expiration policy of an access type.
// A nil result means lifetime access.
func ComputeExpiration(t Terms, now time.Time) (*time.Time, error) {
	switch t.AccessType {
	case AccessTypeFullPurchase:
		return nil, nil
	case AccessTypeTrial:
		if t.TrialDurationDays == nil || *t.TrialDurationDays <= 0 {
			return nil, fmt.Errorf("trial access requires a positive trial duration")
		}
		exp := biztime.AddDaysUTC(now, *t.TrialDurationDays)
		return &exp, nil
	case AccessTypeSubscription:
		if t.SubscriptionExpiresAt == nil {
			return nil, fmt.Errorf("subscription access requires a subscription expiry")
		}
		exp := *t.SubscriptionExpiresAt
		return &exp, nil
	default:
		return nil, fmt.Errorf("invalid access type: %s", t.AccessType)
	}
}
