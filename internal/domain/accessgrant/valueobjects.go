package accessgrant

import "fmt"

type AccessType string

const (
	AccessTypeFullPurchase AccessType = "full_purchase"
	AccessTypeTrial        AccessType = "trial"
	AccessTypeSubscription AccessType = "subscription"
)

var validAccessTypes = map[AccessType]bool{
	AccessTypeFullPurchase: true,
	AccessTypeTrial:        true,
	AccessTypeSubscription: true,
}

func (a AccessType) String() string {
	return string(a)
}

func (a AccessType) IsValid() bool {
	return validAccessTypes[a]
}

func NewAccessType(s string) (AccessType, error) {
	a := AccessType(s)
	if !a.IsValid() {
		return "", fmt.Errorf("invalid access type: %s", s)
	}
	return a, nil
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusAssigned Status = "assigned"
	StatusFailed   Status = "failed"
	StatusExpired  Status = "expired"
)

var validStatuses = map[Status]bool{
	StatusPending:  true,
	StatusAssigned: true,
	StatusFailed:   true,
	StatusExpired:  true,
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	return validStatuses[s]
}

func (s Status) IsAssigned() bool {
	return s == StatusAssigned
}

func (s Status) IsPending() bool {
	return s == StatusPending
}

// CanStartAttempt reports whether an assign attempt may start from this status.
// An assigned grant only leaves that state through revocation.
func (s Status) CanStartAttempt() bool {
	return s == StatusPending || s == StatusFailed || s == StatusExpired
}

type LogLevel string

const (
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
	LogLevelSuccess LogLevel = "success"
)

func (l LogLevel) String() string {
	return string(l)
}

func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelInfo, LogLevelWarning, LogLevelError, LogLevelSuccess:
		return true
	}
	return false
}
