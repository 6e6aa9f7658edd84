package seller

import (
	"fmt"
	"strings"
	"time"

	"github.com/pinegate/pinegate/internal/shared/biztime"
)

// SealChecker reports whether a stored value is vault ciphertext.
type SealChecker interface {
	IsSealed(value string) bool
}

// Opener decrypts vault ciphertext.
type Opener interface {
	Decrypt(ciphertext string) (string, error)
}

// SellerConnection holds one seller's encrypted platform session and its health.
type SellerConnection struct {
	id               uint
	sellerID         uint
	platformUsername string
	sessionIDEnc     *string
	sessionSignEnc   *string
	status           ConnectionStatus
	lastValidatedAt  *time.Time
	lastError        string
	version          int
	createdAt        time.Time
	updatedAt        time.Time
}

func NewSellerConnection(sellerID uint, platformUsername string) (*SellerConnection, error) {
	if sellerID == 0 {
		return nil, fmt.Errorf("seller ID is required")
	}
	platformUsername = strings.TrimSpace(platformUsername)
	if platformUsername == "" {
		return nil, fmt.Errorf("platform username is required")
	}

	now := biztime.NowUTC()
	return &SellerConnection{
		sellerID:         sellerID,
		platformUsername: platformUsername,
		status:           StatusUnknown,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

func ReconstructSellerConnection(
	id uint,
	sellerID uint,
	platformUsername string,
	sessionIDEnc *string,
	sessionSignEnc *string,
	status ConnectionStatus,
	lastValidatedAt *time.Time,
	lastError string,
	version int,
	createdAt, updatedAt time.Time,
) (*SellerConnection, error) {
	if id == 0 {
		return nil, fmt.Errorf("connection ID cannot be zero")
	}
	if sellerID == 0 {
		return nil, fmt.Errorf("seller ID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid connection status: %s", status)
	}

	return &SellerConnection{
		id:               id,
		sellerID:         sellerID,
		platformUsername: platformUsername,
		sessionIDEnc:     sessionIDEnc,
		sessionSignEnc:   sessionSignEnc,
		status:           status,
		lastValidatedAt:  lastValidatedAt,
		lastError:        lastError,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

func (c *SellerConnection) ID() uint {
	return c.id
}

func (c *SellerConnection) SellerID() uint {
	return c.sellerID
}

func (c *SellerConnection) PlatformUsername() string {
	return c.platformUsername
}

func (c *SellerConnection) SessionIDEnc() *string {
	return c.sessionIDEnc
}

func (c *SellerConnection) SessionSignEnc() *string {
	return c.sessionSignEnc
}

func (c *SellerConnection) Status() ConnectionStatus {
	return c.status
}

func (c *SellerConnection) LastValidatedAt() *time.Time {
	return c.lastValidatedAt
}

func (c *SellerConnection) LastError() string {
	return c.lastError
}

func (c *SellerConnection) Version() int {
	return c.version
}

func (c *SellerConnection) CreatedAt() time.Time {
	return c.createdAt
}

func (c *SellerConnection) UpdatedAt() time.Time {
	return c.updatedAt
}

func (c *SellerConnection) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("connection ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("connection ID cannot be zero")
	}
	c.id = id
	return nil
}

// SetVersion records the version persisted by the repository.
func (c *SellerConnection) SetVersion(version int) {
	c.version = version
}

// HasCredentials reports whether both halves of the session are stored.
func (c *SellerConnection) HasCredentials() bool {
	return c.sessionIDEnc != nil && *c.sessionIDEnc != "" &&
		c.sessionSignEnc != nil && *c.sessionSignEnc != ""
}

// IsUsable reports whether outbound calls may be made with this connection.
func (c *SellerConnection) IsUsable() bool {
	return c.status.IsActive() && c.HasCredentials()
}

// IsProbeCandidate reports whether the health prober should consider this connection.
func (c *SellerConnection) IsProbeCandidate() bool {
	return (c.status.IsActive() || c.status.IsUnknown()) && c.HasCredentials()
}

// ValidatedWithin reports whether the last successful or failed validation is younger than window.
func (c *SellerConnection) ValidatedWithin(now time.Time, window time.Duration) bool {
	if c.lastValidatedAt == nil {
		return false
	}
	return now.Sub(*c.lastValidatedAt) < window
}

// OpenSession decrypts the stored session pair.
func (c *SellerConnection) OpenSession(opener Opener) (Session, error) {
	if !c.HasCredentials() {
		return Session{}, ErrNoCredentials
	}
	id, err := opener.Decrypt(*c.sessionIDEnc)
	if err != nil {
		return Session{}, fmt.Errorf("failed to decrypt session id: %w", err)
	}
	sign, err := opener.Decrypt(*c.sessionSignEnc)
	if err != nil {
		return Session{}, fmt.Errorf("failed to decrypt session signature: %w", err)
	}
	return NewSession(id, sign)
}

// ReplaceCredentials stores a new sealed session pair and resets the status to unknown
// until the session is tested. Plaintext values are rejected.
func (c *SellerConnection) ReplaceCredentials(platformUsername, sessionIDEnc, sessionSignEnc string, checker SealChecker) error {
	if !checker.IsSealed(sessionIDEnc) || !checker.IsSealed(sessionSignEnc) {
		return ErrNotSealed
	}
	if u := strings.TrimSpace(platformUsername); u != "" {
		c.platformUsername = u
	}
	c.sessionIDEnc = &sessionIDEnc
	c.sessionSignEnc = &sessionSignEnc
	c.status = StatusUnknown
	c.lastError = ""
	c.lastValidatedAt = nil
	c.updatedAt = biztime.NowUTC()
	return nil
}

// MarkActive records a successful validation.
func (c *SellerConnection) MarkActive(at time.Time) {
	c.status = StatusActive
	c.lastError = ""
	c.lastValidatedAt = &at
	c.updatedAt = at
}

// MarkExpired records that the platform no longer accepts the session.
func (c *SellerConnection) MarkExpired(at time.Time, reason string) {
	c.status = StatusExpired
	c.lastError = reason
	c.lastValidatedAt = &at
	c.updatedAt = at
}

// MarkError records an unexpected failure while validating the session.
func (c *SellerConnection) MarkError(at time.Time, message string) {
	c.status = StatusError
	c.lastError = message
	c.lastValidatedAt = &at
	c.updatedAt = at
}

// Disconnect drops the stored session.
func (c *SellerConnection) Disconnect(at time.Time) {
	c.sessionIDEnc = nil
	c.sessionSignEnc = nil
	c.status = StatusDisconnected
	c.lastError = ""
	c.updatedAt = at
}
