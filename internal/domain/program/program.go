package program

import (
	"fmt"
	"strings"
	"time"

	"github.com/pinegate/pinegate/internal/shared/biztime"
)

// Program is a marketplace offering backed by one seller script. The storefront
// owns it; this service only disables it when the seller's session breaks.
type Program struct {
	id             uint
	sellerID       uint
	pineID         string
	title          string
	status         Status
	disabledReason string
	createdAt      time.Time
	updatedAt      time.Time
}

func NewProgram(sellerID uint, pineID, title string) (*Program, error) {
	if sellerID == 0 {
		return nil, fmt.Errorf("seller ID is required")
	}
	pineID = strings.TrimSpace(pineID)
	if pineID == "" {
		return nil, fmt.Errorf("pine ID is required")
	}

	now := biztime.NowUTC()
	return &Program{
		sellerID:  sellerID,
		pineID:    pineID,
		title:     title,
		status:    StatusActive,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructProgram(
	id uint,
	sellerID uint,
	pineID string,
	title string,
	status Status,
	disabledReason string,
	createdAt, updatedAt time.Time,
) (*Program, error) {
	if id == 0 {
		return nil, fmt.Errorf("program ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid program status: %s", status)
	}
	return &Program{
		id:             id,
		sellerID:       sellerID,
		pineID:         pineID,
		title:          title,
		status:         status,
		disabledReason: disabledReason,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (p *Program) ID() uint {
	return p.id
}

func (p *Program) SellerID() uint {
	return p.sellerID
}

func (p *Program) PineID() string {
	return p.pineID
}

func (p *Program) Title() string {
	return p.title
}

func (p *Program) Status() Status {
	return p.status
}

func (p *Program) DisabledReason() string {
	return p.disabledReason
}

func (p *Program) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Program) UpdatedAt() time.Time {
	return p.updatedAt
}

func (p *Program) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("program ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("program ID cannot be zero")
	}
	p.id = id
	return nil
}
