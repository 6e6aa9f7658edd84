package seller

// ConnectSellerRequest carries the two session cookies copied from a signed-in browser.
type ConnectSellerRequest struct {
	PlatformUsername string `json:"platform_username" validate:"omitempty,platform_username"`
	SessionID        string `json:"session_id" binding:"required,max=512"`
	SessionSign      string `json:"session_sign" binding:"required,max=512"`
}
