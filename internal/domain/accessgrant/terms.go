package accessgrant

import (
	"fmt"
	"strings"
	"time"
)

// Terms are the caller-supplied values that drive one grant attempt.
type Terms struct {
	PineID                string
	BuyerUsername         string
	AccessType            AccessType
	TrialDurationDays     *int
	SubscriptionExpiresAt *time.Time
}

func (t Terms) Validate() error {
	if strings.TrimSpace(t.PineID) == "" {
		return fmt.Errorf("pine ID is required")
	}
	if strings.TrimSpace(t.BuyerUsername) == "" {
		return fmt.Errorf("buyer username is required")
	}
	if !t.AccessType.IsValid() {
		return fmt.Errorf("invalid access type: %s", t.AccessType)
	}
	switch t.AccessType {
	case AccessTypeTrial:
		if t.TrialDurationDays == nil || *t.TrialDurationDays <= 0 {
			return fmt.Errorf("trial_duration_days must be positive for trial access")
		}
	case AccessTypeSubscription:
		if t.SubscriptionExpiresAt == nil {
			return fmt.Errorf("subscription_expires_at is required for subscription access")
		}
	}
	return nil
}

func (t Terms) normalized() Terms {
	t.PineID = strings.TrimSpace(t.PineID)
	t.BuyerUsername = strings.TrimSpace(t.BuyerUsername)
	return t
}
