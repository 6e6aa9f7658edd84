package seller

import "errors"

var (
	// ErrConnectionNotFound is returned when a seller has never submitted credentials
	ErrConnectionNotFound = errors.New("seller connection not found")

	// ErrNoCredentials is returned when a connection has no stored session
	ErrNoCredentials = errors.New("seller connection has no credentials")

	// ErrNotSealed is returned when a credential value is not vault ciphertext
	ErrNotSealed = errors.New("credential value is not sealed")

	// ErrVersionConflict is returned when the connection was modified concurrently
	ErrVersionConflict = errors.New("seller connection was modified concurrently")
)
