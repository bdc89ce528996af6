package errors

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a store error translated for the client.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// ParseError classifies a store error. Driver text never reaches the client;
// callers log the original error themselves.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    InternalServerError,
			Message: "Something went wrong, please try again",
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Status:  http.StatusNotFound,
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	errLower := strings.ToLower(err.Error())

	// Postgres 23505 and SQLite "UNIQUE constraint failed" both land here when
	// TranslateError is off or the driver has no translator.
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(errLower, "duplicate key") ||
		strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower, context)
	}

	if errors.Is(err, gorm.ErrForeignKeyViolated) || strings.Contains(errLower, "foreign key constraint") {
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    ResourceConflict,
			Message: "Referenced data does not exist or is still in use",
		}
	}

	if strings.Contains(errLower, "violates not-null constraint") || strings.Contains(errLower, "not null constraint failed") {
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	return ErrorInfo{
		Status:  http.StatusInternalServerError,
		Code:    InternalDatabaseError,
		Message: defaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string, context string) ErrorInfo {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(errLower, "delivery_details") || strings.Contains(contextLower, "delivery details"):
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    DeliveryDetailsExists,
			Message: "Delivery details already exist for this order",
		}
	case strings.Contains(errLower, "refunds") || strings.Contains(contextLower, "refund"):
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    RefundAlreadyExists,
			Message: "A refund request already exists for this order",
		}
	case strings.Contains(errLower, "reviews") || strings.Contains(contextLower, "review"):
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    ReviewAlreadyExists,
			Message: "You have already reviewed this product",
		}
	case strings.Contains(errLower, "email"):
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    AuthEmailAlreadyExists,
			Message: "Email already exists",
		}
	}

	return ErrorInfo{
		Status:  http.StatusBadRequest,
		Code:    ResourceAlreadyExists,
		Message: "Record already exists",
	}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	for _, entry := range []struct{ key, msg string }{
		{"delivery details", "Delivery details not found"},
		{"delivery person", "Delivery person not found"},
		{"delivery manager", "Delivery manager not found"},
		{"refund", "Refund request not found"},
		{"order", "Order not found"},
		{"product", "Product not found"},
		{"review", "Review not found"},
		{"cart", "Cart item not found"},
		{"attendance", "Attendance record not found"},
		{"leave", "Leave request not found"},
		{"employee", "Employee not found"},
		{"user", "User not found"},
	} {
		if strings.Contains(contextLower, entry.key) {
			return entry.msg
		}
	}
	return "Requested data was not found"
}

func defaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create record, please try again"
	case strings.Contains(contextLower, "update"):
		return "Failed to update record, please try again"
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete record, please try again"
	}
	return "Something went wrong, please try again"
}

// ParseAndRespond classifies err and writes the envelope with the derived status.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, err error, context string) {
	info := ParseError(err, context)
	c.JSON(info.Status, ErrorResponse{
		Success: false,
		Error:   info.Code,
		Message: info.Message,
	})
}
