package accessgrant

import "time"

type CreateGrantRequest struct {
	PurchaseID            string     `json:"purchase_id" binding:"required,max=128"`
	SellerID              uint       `json:"seller_id" binding:"required"`
	BuyerID               uint       `json:"buyer_id" binding:"required"`
	ProgramID             uint       `json:"program_id"`
	PineID                string     `json:"pine_id" binding:"required,max=128"`
	BuyerUsername         string     `json:"buyer_username" binding:"required" validate:"platform_username"`
	AccessType            string     `json:"access_type" binding:"required,oneof=full_purchase trial subscription"`
	TrialDurationDays     *int       `json:"trial_duration_days" binding:"omitempty,gte=1,lte=365"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at"`
}

type AssignAccessRequest struct {
	GrantID               uint       `json:"grant_id" binding:"required"`
	PineID                string     `json:"pine_id" binding:"required,max=128"`
	BuyerUsername         string     `json:"buyer_username" binding:"required" validate:"platform_username"`
	AccessType            string     `json:"access_type" binding:"required,oneof=full_purchase trial subscription"`
	TrialDurationDays     *int       `json:"trial_duration_days" binding:"omitempty,gte=1,lte=365"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at"`
}

// RevokeAccessRequest falls back to the values stored on the grant when
// pine_id or buyer_username is omitted.
type RevokeAccessRequest struct {
	GrantID       uint   `json:"grant_id" binding:"required"`
	PineID        string `json:"pine_id" binding:"omitempty,max=128"`
	BuyerUsername string `json:"buyer_username" validate:"omitempty,platform_username"`
}
