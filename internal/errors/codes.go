package errors

// Error codes returned in the "error" field of every failure response.
// Format: CATEGORY_SPECIFIC_DETAIL. The frontend maps codes to toasts.
const (
	// Authentication
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthAccountInactive    = "AUTH_ACCOUNT_INACTIVE"

	// Authorization
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// Validation
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// Generic resources
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// Orders and delivery
	OrderNotFound                 = "ORDER_NOT_FOUND"
	OrderNotAssigned              = "ORDER_NOT_ASSIGNED"
	OrderInvalidStatus            = "ORDER_INVALID_STATUS"
	OrderEmpty                    = "ORDER_EMPTY"
	DeliveryPersonNotFound        = "DELIVERY_PERSON_NOT_FOUND"
	DeliveryPersonHasActiveOrders = "DELIVERY_PERSON_HAS_ACTIVE_ORDERS"
	DeliveryManagerNotFound       = "DELIVERY_MANAGER_NOT_FOUND"
	DeliveryDetailsNotFound       = "DELIVERY_DETAILS_NOT_FOUND"
	DeliveryDetailsExists         = "DELIVERY_DETAILS_EXISTS"

	// Refunds
	RefundNotFound      = "REFUND_NOT_FOUND"
	RefundAlreadyExists = "REFUND_ALREADY_EXISTS"
	RefundNotEligible   = "REFUND_NOT_ELIGIBLE"
	RefundNotPending    = "REFUND_NOT_PENDING"
	RefundInvalidStatus = "REFUND_INVALID_STATUS"

	// Catalog
	ProductNotFound     = "PRODUCT_NOT_FOUND"
	ReviewNotFound      = "REVIEW_NOT_FOUND"
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS"
	CartItemNotFound    = "CART_ITEM_NOT_FOUND"

	// HR
	EmployeeNotFound   = "EMPLOYEE_NOT_FOUND"
	AttendanceNotFound = "ATTENDANCE_NOT_FOUND"
	LeaveNotFound      = "LEAVE_NOT_FOUND"

	// Uploads
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadTooManyFiles    = "UPLOAD_TOO_MANY_FILES"
	UploadFailed          = "UPLOAD_FAILED"

	// Internal
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
