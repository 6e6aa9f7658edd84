package accessgrant

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/pinegate/pinegate/internal/shared/biztime"
)

// Details keys shared between the orchestrator and readers of a grant.
const (
	DetailAmbiguousResponse = "ambiguous_response"
	DetailVerification      = "verification"
	DetailResponse          = "response"
	DetailRevocation        = "revocation"
	DetailAttempt           = "attempt"
)

// Grant is the lifecycle of one buyer's access to one seller script.
type Grant struct {
	id            uint
	purchaseID    string
	sellerID      uint
	buyerID       uint
	programID     uint
	terms         Terms
	scriptID      string
	status        Status
	attempts      int
	lastAttemptAt *time.Time
	assignedAt    *time.Time
	expiresAt     *time.Time
	errorMessage  string
	details       map[string]any
	version       int
	createdAt     time.Time
	updatedAt     time.Time
}

func NewGrant(purchaseID string, sellerID, buyerID, programID uint, terms Terms) (*Grant, error) {
	purchaseID = strings.TrimSpace(purchaseID)
	if purchaseID == "" {
		return nil, fmt.Errorf("purchase ID is required")
	}
	if sellerID == 0 {
		return nil, fmt.Errorf("seller ID is required")
	}
	if buyerID == 0 {
		return nil, fmt.Errorf("buyer ID is required")
	}
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	return &Grant{
		purchaseID: purchaseID,
		sellerID:   sellerID,
		buyerID:    buyerID,
		programID:  programID,
		terms:      terms.normalized(),
		status:     StatusPending,
		details:    map[string]any{},
		version:    1,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructGrant(
	id uint,
	purchaseID string,
	sellerID, buyerID, programID uint,
	terms Terms,
	scriptID string,
	status Status,
	attempts int,
	lastAttemptAt, assignedAt, expiresAt *time.Time,
	errorMessage string,
	details map[string]any,
	version int,
	createdAt, updatedAt time.Time,
) (*Grant, error) {
	if id == 0 {
		return nil, fmt.Errorf("grant ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid grant status: %s", status)
	}
	if !terms.AccessType.IsValid() {
		return nil, fmt.Errorf("invalid access type: %s", terms.AccessType)
	}
	if details == nil {
		details = map[string]any{}
	}

	return &Grant{
		id:            id,
		purchaseID:    purchaseID,
		sellerID:      sellerID,
		buyerID:       buyerID,
		programID:     programID,
		terms:         terms,
		scriptID:      scriptID,
		status:        status,
		attempts:      attempts,
		lastAttemptAt: lastAttemptAt,
		assignedAt:    assignedAt,
		expiresAt:     expiresAt,
		errorMessage:  errorMessage,
		details:       details,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

func (g *Grant) ID() uint {
	return g.id
}

func (g *Grant) PurchaseID() string {
	return g.purchaseID
}

func (g *Grant) SellerID() uint {
	return g.sellerID
}

func (g *Grant) BuyerID() uint {
	return g.buyerID
}

func (g *Grant) ProgramID() uint {
	return g.programID
}

func (g *Grant) Terms() Terms {
	return g.terms
}

func (g *Grant) PineID() string {
	return g.terms.PineID
}

func (g *Grant) BuyerUsername() string {
	return g.terms.BuyerUsername
}

func (g *Grant) AccessType() AccessType {
	return g.terms.AccessType
}

// ScriptID is the externally addressable identifier resolved on the last attempt.
func (g *Grant) ScriptID() string {
	return g.scriptID
}

func (g *Grant) Status() Status {
	return g.status
}

func (g *Grant) Attempts() int {
	return g.attempts
}

func (g *Grant) LastAttemptAt() *time.Time {
	return g.lastAttemptAt
}

func (g *Grant) AssignedAt() *time.Time {
	return g.assignedAt
}

func (g *Grant) ExpiresAt() *time.Time {
	return g.expiresAt
}

func (g *Grant) ErrorMessage() string {
	return g.errorMessage
}

func (g *Grant) Details() map[string]any {
	return maps.Clone(g.details)
}

func (g *Grant) Version() int {
	return g.version
}

func (g *Grant) CreatedAt() time.Time {
	return g.createdAt
}

func (g *Grant) UpdatedAt() time.Time {
	return g.updatedAt
}

func (g *Grant) SetID(id uint) error {
	if g.id != 0 {
		return fmt.Errorf("grant ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("grant ID cannot be zero")
	}
	g.id = id
	return nil
}

// SetVersion records the version persisted by the repository.
func (g *Grant) SetVersion(version int) {
	g.version = version
}

// ApplyTerms overwrites the request values so a corrected username or access type
// takes effect on the next attempt.
func (g *Grant) ApplyTerms(terms Terms) error {
	if g.status.IsAssigned() {
		return ErrAlreadyAssigned
	}
	if err := terms.Validate(); err != nil {
		return err
	}
	g.terms = terms.normalized()
	g.updatedAt = biztime.NowUTC()
	return nil
}

// BeginAttempt counts a new attempt and moves the grant back to pending.
func (g *Grant) BeginAttempt(now time.Time) error {
	if !g.status.CanStartAttempt() {
		return ErrAlreadyAssigned
	}
	g.attempts++
	g.lastAttemptAt = &now
	g.status = StatusPending
	g.errorMessage = ""
	g.details = map[string]any{DetailAttempt: g.attempts}
	g.updatedAt = now
	return nil
}

// RecordScriptID stores the identifier the attempt resolved.
func (g *Grant) RecordScriptID(scriptID string) {
	g.scriptID = scriptID
}

// MarkAssigned closes the current attempt successfully.
func (g *Grant) MarkAssigned(now time.Time, expiresAt *time.Time, details map[string]any) error {
	if !g.status.IsPending() {
		return ErrNotPending
	}
	g.status = StatusAssigned
	g.assignedAt = &now
	g.expiresAt = expiresAt
	g.errorMessage = ""
	g.MergeDetails(details)
	g.updatedAt = now
	return nil
}

// MarkFailed closes the current attempt with an actionable message.
func (g *Grant) MarkFailed(now time.Time, message string, details map[string]any) error {
	if !g.status.IsPending() {
		return ErrNotPending
	}
	g.status = StatusFailed
	g.errorMessage = message
	g.MergeDetails(details)
	g.updatedAt = now
	return nil
}

// Expire records a revocation. It is allowed from every status.
func (g *Grant) Expire(now time.Time, details map[string]any) {
	g.status = StatusExpired
	g.expiresAt = &now
	g.MergeDetails(details)
	g.updatedAt = now
}

// MergeDetails adds diagnostic values to the details blob.
func (g *Grant) MergeDetails(details map[string]any) {
	if g.details == nil {
		g.details = map[string]any{}
	}
	maps.Copy(g.details, details)
}
