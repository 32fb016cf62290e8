package constants

const (
	// SessionCookieName is the name of the cookie carrying the session ID.
	SessionCookieName = "timesheet_session"

	// SessionKeySessionID is the key under which the server-side session ID
	// is stored inside the cookie session.
	SessionKeySessionID = "session_id"

	// ContextKeyUserID is the gin context key for the authenticated user ID.
	ContextKeyUserID = "user_id"
	// ContextKeySessionID is the gin context key for the server-side session ID.
	ContextKeySessionID = "session_id"
	// ContextKeyIdentity is the gin context key for the loaded Identity row.
	ContextKeyIdentity = "identity"
	// ContextKeyMembership is the gin context key for the membership resolved
	// for the active tenant.
	ContextKeyMembership = "membership"
	// ContextKeyTenantID is the gin context key for the validated active tenant.
	ContextKeyTenantID = "tenant_id"

	MinPasswordLength = 8

	// MaxAssignmentSearchResults caps the admin user search result size.
	MaxAssignmentSearchResults = 20

	// MaxImportBatchSize caps the number of rows accepted in one bulk import.
	MaxImportBatchSize = 500

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
