package seller

import "fmt"

// ConnectionStatus is the health of a seller's stored platform session.
// The zero value means the session has never been validated.
type ConnectionStatus string

const (
	StatusUnknown      ConnectionStatus = ""
	StatusActive       ConnectionStatus = "active"
	StatusExpired      ConnectionStatus = "expired"
	StatusError        ConnectionStatus = "error"
	StatusDisconnected ConnectionStatus = "disconnected"
)

var validConnectionStatuses = map[ConnectionStatus]bool{
	StatusUnknown:      true,
	StatusActive:       true,
	StatusExpired:      true,
	StatusError:        true,
	StatusDisconnected: true,
}

func (s ConnectionStatus) String() string {
	if s == StatusUnknown {
		return "unknown"
	}
	return string(s)
}

func (s ConnectionStatus) IsValid() bool {
	return validConnectionStatuses[s]
}

func (s ConnectionStatus) IsActive() bool {
	return s == StatusActive
}

func (s ConnectionStatus) IsUnknown() bool {
	return s == StatusUnknown
}

func NewConnectionStatus(s string) (ConnectionStatus, error) {
	status := ConnectionStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid connection status: %s", s)
	}
	return status, nil
}
