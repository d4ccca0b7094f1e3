package handler

const (
	errInternalServer     = "Internal server error"
	errDatabase           = "Database error"
	errInvalidRequest     = "Invalid request body"
	errDuplicateEmail     = "Email already registered"
	errInvalidCredentials = "Invalid credentials"
	errInvalidPassword    = "Password must be at most 72 bytes"
	errNotAList           = "Expected a list of market objects"
	errBadSource          = "Invalid market data url"
	errUpstream           = "Market data source unavailable"
	errInvalidLimit       = "limit must be a positive integer"
)
