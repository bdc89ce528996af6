package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stepup/stepup-backend/internal/app/service"
	apperrors "github.com/stepup/stepup-backend/internal/errors"
	"github.com/stepup/stepup-backend/internal/middleware"
	"github.com/stepup/stepup-backend/internal/storage"
	"github.com/stepup/stepup-backend/pkg/util"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// serviceErrors maps service sentinels to the response envelope. Order
// matters only where one sentinel wraps another.
var serviceErrors = []errorMapping{
	{service.ErrOrderNotFound, http.StatusNotFound, apperrors.OrderNotFound, "Order not found"},
	{service.ErrOrderNotAssigned, http.StatusNotFound, apperrors.OrderNotAssigned, "Order not found or not assigned to you"},
	{service.ErrInvalidDeliveryStatus, http.StatusBadRequest, apperrors.OrderInvalidStatus, "Status must be one of: processing, pickedup, delivered, cancelled"},
	{service.ErrDeliveryPersonNotFound, http.StatusNotFound, apperrors.DeliveryPersonNotFound, "Delivery person not found"},
	{service.ErrDeliveryPersonHasActiveOrders, http.StatusBadRequest, apperrors.DeliveryPersonHasActiveOrders, "Delivery person still has active orders"},
	{service.ErrInvalidDeliveryPersonStatus, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Status must be active or inactive"},
	{service.ErrDeliveryManagerNotFound, http.StatusNotFound, apperrors.DeliveryManagerNotFound, "Delivery manager not found"},
	{service.ErrDeliveryDetailsExists, http.StatusBadRequest, apperrors.DeliveryDetailsExists, "Delivery details already exist for this order"},
	{service.ErrDeliveryDetailsNotFound, http.StatusNotFound, apperrors.DeliveryDetailsNotFound, "Delivery details not found"},

	{service.ErrEmptyOrder, http.StatusBadRequest, apperrors.OrderEmpty, "Order has no items"},
	{service.ErrInvalidPaymentMethod, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Payment method must be one of: card, cash_on_delivery, payhere"},
	{service.ErrInvalidPaymentStatus, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Payment status cannot be changed to the requested value"},
	{service.ErrShippingAddressMissing, http.StatusBadRequest, apperrors.ValidationRequired, "Shipping address is required"},

	{service.ErrRefundNotFound, http.StatusNotFound, apperrors.RefundNotFound, "Refund request not found"},
	{service.ErrRefundAlreadyExists, http.StatusBadRequest, apperrors.RefundAlreadyExists, "A refund request already exists for this order"},
	{service.ErrRefundNotEligible, http.StatusBadRequest, apperrors.RefundNotEligible, "Order is not eligible for a refund"},
	{service.ErrRefundNotPending, http.StatusBadRequest, apperrors.RefundNotPending, "Refund request is no longer pending"},
	{service.ErrInvalidRefundStatus, http.StatusBadRequest, apperrors.RefundInvalidStatus, "Refund status must be approved or rejected"},
	{service.ErrTooManyImages, http.StatusBadRequest, apperrors.UploadTooManyFiles, "Too many images"},
	{storage.ErrInvalidImageType, http.StatusBadRequest, apperrors.UploadInvalidFileType, "Only jpeg, png and webp images are allowed"},
	{storage.ErrImageTooLarge, http.StatusBadRequest, apperrors.UploadFileTooLarge, "Image exceeds the maximum allowed size"},

	{service.ErrProductNotFound, http.StatusNotFound, apperrors.ProductNotFound, "Product not found"},
	{service.ErrInsufficientStock, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Not enough stock for the requested quantity"},
	{service.ErrInvalidProductOption, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Selected color or size is not available"},
	{service.ErrInvalidCategory, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Invalid product category"},
	{service.ErrCartItemNotFound, http.StatusNotFound, apperrors.CartItemNotFound, "Cart item not found"},
	{service.ErrInvalidQuantity, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Quantity must be at least 1"},
	{service.ErrReviewNotFound, http.StatusNotFound, apperrors.ReviewNotFound, "Review not found"},
	{service.ErrReviewAlreadyExists, http.StatusBadRequest, apperrors.ReviewAlreadyExists, "You have already reviewed this product"},
	{service.ErrInvalidRating, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Rating must be between 1 and 5"},

	{service.ErrEmployeeNotFound, http.StatusNotFound, apperrors.EmployeeNotFound, "Employee not found"},
	{service.ErrInvalidRole, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Invalid role"},
	{service.ErrAttendanceNotFound, http.StatusNotFound, apperrors.AttendanceNotFound, "Attendance record not found"},
	{service.ErrAttendanceAlreadyExists, http.StatusBadRequest, apperrors.ResourceAlreadyExists, "Attendance already recorded for this day"},
	{service.ErrInvalidAttendanceStatus, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Status must be one of: present, absent, late, on_leave"},
	{service.ErrInvalidTimeRange, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Check-out must not be before check-in"},
	{service.ErrLeaveNotFound, http.StatusNotFound, apperrors.LeaveNotFound, "Leave request not found"},
	{service.ErrInvalidLeaveType, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Leave type must be one of: sick, casual, annual, unpaid"},
	{service.ErrInvalidLeaveStatus, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Leave status must be approved or rejected"},
	{service.ErrInvalidLeaveDates, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Leave end date must not be before start date"},
	{service.ErrLeaveNotPending, http.StatusBadRequest, apperrors.ResourceConflict, "Leave request has already been decided"},

	{service.ErrEmailAlreadyExists, http.StatusBadRequest, apperrors.AuthEmailAlreadyExists, "Email already exists"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password"},
	{service.ErrAccountInactive, http.StatusForbidden, apperrors.AuthAccountInactive, "Account is inactive"},
	{service.ErrUserNotFound, http.StatusNotFound, apperrors.ResourceNotFound, "User not found"},
	{util.ErrPasswordTooShort, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Password must be at least 6 characters"},
}

// respondError writes the envelope for err. Known sentinels map to their
// codes, validation failures list the offending field, and anything else is
// classified by ParseError and logged.
func respondError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		log.Warn("Validation failed", map[string]interface{}{
			"context": context,
			"field":   verr.Field,
		})
		apperrors.RespondWithValidationError(c, verr.Message, map[string]string{verr.Field: verr.Message})
		return
	}

	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			fields := map[string]interface{}{
				"context": context,
				"code":    m.code,
			}
			if m.status >= http.StatusInternalServerError {
				log.Error("Request failed", err, fields)
			} else {
				log.Warn("Request rejected", fields)
			}
			apperrors.RespondWithError(c, m.status, m.code, m.message)
			return
		}
	}

	info := apperrors.ParseError(err, context)
	if info.Status >= http.StatusInternalServerError {
		log.Error("Request failed", err, map[string]interface{}{
			"context": context,
		})
	} else {
		log.Warn("Request rejected by store", map[string]interface{}{
			"context": context,
			"code":    info.Code,
		})
	}
	apperrors.RespondWithError(c, info.Status, info.Code, info.Message)
}

// respondBindError reports a request body that failed gin binding. Validator
// errors are listed per JSON field.
func respondBindError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)
	log.Warn("Invalid request body", map[string]interface{}{
		"path":  c.Request.URL.Path,
		"error": err.Error(),
	})

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			name := lowerFirst(fe.Field())
			fields[name] = bindingMessage(name, fe)
		}
		apperrors.RespondWithValidationError(c, "Invalid input", fields)
		return
	}
	apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
}

func bindingMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "oneof":
		return field + " must be one of: " + fe.Param()
	}
	return field + " is invalid"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// parseIDParam reads a positive numeric path parameter and answers 400 when
// it is malformed.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID parameter", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// parseIDQuery reads an optional numeric query parameter. A missing value
// yields nil.
func parseIDQuery(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return nil, false
	}
	v := uint(id)
	return &v, true
}

// requireUserID reads the authenticated caller ID and answers 401 when it is
// missing.
func requireUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return 0, false
	}
	return userID, true
}

// respondOK wraps payload in the success envelope.
func respondOK(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}
