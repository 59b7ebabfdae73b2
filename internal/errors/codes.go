package errors

// Error codes returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map messages from these codes.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthSessionExpired     = "AUTH_SESSION_EXPIRED"     // refresh failed, logged out
	AuthRegistrationFailed = "AUTH_REGISTRATION_FAILED"
	AuthPasswordReset      = "AUTH_PASSWORD_RESET_FAILED"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Profile (PROFILE_) ====================
	ProfileInvalid = "PROFILE_INVALID"

	// ==================== Cart (CART_) ====================
	CartLineNotFound   = "CART_LINE_NOT_FOUND"
	CartInvalidQty     = "CART_INVALID_QUANTITY"
	CartInvalidProduct = "CART_INVALID_PRODUCT"
	CartEmpty          = "CART_EMPTY"

	// ==================== Catalogue / orders ====================
	ProductNotFound   = "PRODUCT_NOT_FOUND"
	ProductOutOfStock = "PRODUCT_OUT_OF_STOCK"
	OrderNotFound     = "ORDER_NOT_FOUND"
	OrderFailed       = "ORDER_FAILED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound = "RESOURCE_NOT_FOUND"

	// ==================== Upstream shop API (UPSTREAM_) ====================
	UpstreamRejected    = "UPSTREAM_REJECTED"    // shop API answered 4xx
	UpstreamError       = "UPSTREAM_ERROR"       // shop API answered 5xx
	UpstreamUnreachable = "UPSTREAM_UNREACHABLE" // network failure

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError  = "INTERNAL_SERVER_ERROR"
	InternalStorageError = "INTERNAL_STORAGE_ERROR"
	InternalExportError  = "INTERNAL_EXPORT_ERROR"
)
