package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderUserAgent     = "User-Agent"

	// Context keys
	ContextKeyRequestID = "request_id"
	ContextKeyActor     = "actor"
	ContextKeyRole      = "role"

	// Service token roles
	RoleService = "service"
	RoleAdmin   = "admin"
	RoleSeller  = "seller"

	// Database table names
	TableSellerConnections = "seller_connections"
	TableCatalogEntries    = "catalog_entries"
	TablePrograms          = "programs"
	TableAccessGrants      = "access_grants"
	TableAssignmentLogs    = "assignment_logs"

	// Platform session cookies
	CookieSessionID     = "sessionid"
	CookieSessionIDSign = "sessionid_sign"

	// Lock key prefixes
	LockKeyGrant = "grant_lock:"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
)
