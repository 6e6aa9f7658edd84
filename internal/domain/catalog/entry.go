package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one published script of a seller as last seen on the platform.
type Entry struct {
	id           uint
	sellerID     uint
	scriptID     string
	pineID       *string
	title        string
	scriptURL    string
	imageURL     string
	likesCount   int
	reviewsCount int
	lastSyncedAt time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

// NewEntry builds an entry from one scraped listing record.
func NewEntry(
	sellerID uint,
	scriptID string,
	pineID string,
	title string,
	scriptURL string,
	imageURL string,
	likesCount int,
	reviewsCount int,
	syncedAt time.Time,
) (*Entry, error) {
	if sellerID == 0 {
		return nil, fmt.Errorf("seller ID is required")
	}
	scriptID = strings.TrimSpace(scriptID)
	if scriptID == "" {
		return nil, fmt.Errorf("script ID is required")
	}
	if len(scriptID) > 191 {
		return nil, fmt.Errorf("script ID exceeds maximum length of 191 characters")
	}

	var pid *string
	if p := strings.TrimSpace(pineID); p != "" {
		pid = &p
	}

	return &Entry{
		sellerID:     sellerID,
		scriptID:     scriptID,
		pineID:       pid,
		title:        strings.TrimSpace(title),
		scriptURL:    scriptURL,
		imageURL:     imageURL,
		likesCount:   max(likesCount, 0),
		reviewsCount: max(reviewsCount, 0),
		lastSyncedAt: syncedAt,
		createdAt:    syncedAt,
		updatedAt:    syncedAt,
	}, nil
}

func ReconstructEntry(
	id uint,
	sellerID uint,
	scriptID string,
	pineID *string,
	title string,
	scriptURL string,
	imageURL string,
	likesCount int,
	reviewsCount int,
	lastSyncedAt time.Time,
	createdAt, updatedAt time.Time,
) (*Entry, error) {
	if id == 0 {
		return nil, fmt.Errorf("catalog entry ID cannot be zero")
	}
	if scriptID == "" {
		return nil, fmt.Errorf("script ID is required")
	}

	return &Entry{
		id:           id,
		sellerID:     sellerID,
		scriptID:     scriptID,
		pineID:       pineID,
		title:        title,
		scriptURL:    scriptURL,
		imageURL:     imageURL,
		likesCount:   likesCount,
		reviewsCount: reviewsCount,
		lastSyncedAt: lastSyncedAt,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (e *Entry) ID() uint {
	return e.id
}

func (e *Entry) SellerID() uint {
	return e.sellerID
}

func (e *Entry) ScriptID() string {
	return e.scriptID
}

func (e *Entry) PineID() *string {
	return e.pineID
}

func (e *Entry) Title() string {
	return e.title
}

func (e *Entry) ScriptURL() string {
	return e.scriptURL
}

func (e *Entry) ImageURL() string {
	return e.imageURL
}

func (e *Entry) LikesCount() int {
	return e.likesCount
}

func (e *Entry) ReviewsCount() int {
	return e.reviewsCount
}

func (e *Entry) LastSyncedAt() time.Time {
	return e.lastSyncedAt
}

func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}

func (e *Entry) UpdatedAt() time.Time {
	return e.updatedAt
}

func (e *Entry) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("catalog entry ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("catalog entry ID cannot be zero")
	}
	e.id = id
	return nil
}

// ExternalScriptID returns the first of (pine id, script id) that the platform's
// access endpoints accept.
func (e *Entry) ExternalScriptID() (string, error) {
	if e.pineID != nil && IsExternalScriptID(*e.pineID) {
		return *e.pineID, nil
	}
	if IsExternalScriptID(e.scriptID) {
		return e.scriptID, nil
	}
	return "", ErrNoExternalID
}
