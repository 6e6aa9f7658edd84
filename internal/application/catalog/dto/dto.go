package dto

import (
	"time"

	"github.com/pinegate/pinegate/internal/domain/catalog"
)

type CatalogEntryDTO struct {
	ID               uint      `json:"id"`
	SellerID         uint      `json:"seller_id"`
	ScriptID         string    `json:"script_id"`
	PineID           *string   `json:"pine_id"`
	ExternalScriptID string    `json:"external_script_id,omitempty"`
	Title            string    `json:"title"`
	ScriptURL        string    `json:"script_url"`
	ImageURL         string    `json:"image_url,omitempty"`
	LikesCount       int       `json:"likes_count"`
	ReviewsCount     int       `json:"reviews_count"`
	LastSyncedAt     time.Time `json:"last_synced_at"`
}

type SyncResultDTO struct {
	SellerID uint      `json:"seller_id"`
	Count    int       `json:"count"`
	Skipped  int       `json:"skipped,omitempty"`
	SyncedAt time.Time `json:"synced_at"`
}

func ToCatalogEntryDTO(e *catalog.Entry) *CatalogEntryDTO {
	if e == nil {
		return nil
	}
	// entries without an addressable id are still listed
	external, _ := e.ExternalScriptID()
	return &CatalogEntryDTO{
		ID:               e.ID(),
		SellerID:         e.SellerID(),
		ScriptID:         e.ScriptID(),
		PineID:           e.PineID(),
		ExternalScriptID: external,
		Title:            e.Title(),
		ScriptURL:        e.ScriptURL(),
		ImageURL:         e.ImageURL(),
		LikesCount:       e.LikesCount(),
		ReviewsCount:     e.ReviewsCount(),
		LastSyncedAt:     e.LastSyncedAt(),
	}
}

func ToCatalogEntryDTOs(entries []*catalog.Entry) []*CatalogEntryDTO {
	out := make([]*CatalogEntryDTO, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			out = append(out, ToCatalogEntryDTO(e))
		}
	}
	return out
}
