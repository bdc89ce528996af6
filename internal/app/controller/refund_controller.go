package controller

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/service"
	apperrors "github.com/stepup/stepup-backend/internal/errors"
	"github.com/stepup/stepup-backend/internal/middleware"
	"github.com/stepup/stepup-backend/internal/storage"
)

type RefundController struct {
	refundService service.RefundService
	maxImages     int
}

func NewRefundController(refundService service.RefundService, maxImages int) *RefundController {
	return &RefundController{
		refundService: refundService,
		maxImages:     maxImages,
	}
}

// CreateRefundForm is the multipart body of a refund request. Images arrive
// under the "images" field.
type CreateRefundForm struct {
	Reason            string                  `form:"reason" binding:"required"`
	Description       string                  `form:"description"`
	ContactPreference model.ContactPreference `form:"contactPreference" binding:"required"`
	ContactDetails    string                  `form:"contactDetails" binding:"required"`
}

type UpdateRefundRequest struct {
	Reason            *string                  `json:"reason"`
	Description       *string                  `json:"description"`
	ContactPreference *model.ContactPreference `json:"contactPreference"`
	ContactDetails    *string                  `json:"contactDetails"`
}

type UpdateRefundStatusRequest struct {
	Status    model.RefundStatus `json:"status" binding:"required"`
	AdminNote string             `json:"adminNote"`
}

// CreateRefundRequest opens a refund for a paid, delivered order
// POST /api/refunds/order/:orderId/refund-request
func (ctrl *RefundController) CreateRefundRequest(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	var form CreateRefundForm
	if err := c.ShouldBind(&form); err != nil {
		respondBindError(c, err)
		return
	}

	var headers []*multipart.FileHeader
	if mf, err := c.MultipartForm(); err == nil && mf != nil {
		headers = mf.File["images"]
	}
	if len(headers) > ctrl.maxImages {
		apperrors.BadRequest(c, apperrors.UploadTooManyFiles, "Too many images")
		return
	}

	images := make([]storage.Image, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			log.Error("Failed to open uploaded image", err, map[string]interface{}{
				"filename": fh.Filename,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to read uploaded image")
			return
		}
		defer f.Close()
		images = append(images, storage.Image{Name: fh.Filename, Reader: f})
	}

	refund, err := ctrl.refundService.CreateRefundRequest(c.Request.Context(), userID, orderID, service.RefundInput{
		Reason:            form.Reason,
		Description:       form.Description,
		ContactPreference: form.ContactPreference,
		ContactDetails:    form.ContactDetails,
	}, images)
	if err != nil {
		respondError(c, err, "create refund")
		return
	}

	log.Info("Refund request created", map[string]interface{}{
		"refund_id": refund.ID,
		"order_id":  orderID,
		"images":    len(images),
	})

	respondOK(c, http.StatusCreated, gin.H{
		"message": "Refund request submitted successfully",
		"refund":  refund,
	})
}

// GetMyRefunds lists the caller's refund requests
// GET /api/refunds
func (ctrl *RefundController) GetMyRefunds(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	refunds, err := ctrl.refundService.ListUserRefunds(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "list refunds")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"refunds": refunds,
		"count":   len(refunds),
	})
}

// GetMyRefund returns one of the caller's refund requests
// GET /api/refunds/:refundId
func (ctrl *RefundController) GetMyRefund(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	refundID, ok := parseIDParam(c, "refundId")
	if !ok {
		return
	}

	refund, err := ctrl.refundService.GetRefund(c.Request.Context(), userID, refundID)
	if err != nil {
		respondError(c, err, "get refund")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"refund": refund})
}

// UpdateMyRefund edits a pending refund request
// PUT /api/refunds/:refundId
func (ctrl *RefundController) UpdateMyRefund(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	refundID, ok := parseIDParam(c, "refundId")
	if !ok {
		return
	}

	var req UpdateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	refund, err := ctrl.refundService.UpdateRefundRequest(c.Request.Context(), userID, refundID, service.RefundUpdateInput{
		Reason:            req.Reason,
		Description:       req.Description,
		ContactPreference: req.ContactPreference,
		ContactDetails:    req.ContactDetails,
	})
	if err != nil {
		respondError(c, err, "update refund")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"refund": refund})
}

// DeleteMyRefund withdraws a pending refund request
// DELETE /api/refunds/:refundId
func (ctrl *RefundController) DeleteMyRefund(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	refundID, ok := parseIDParam(c, "refundId")
	if !ok {
		return
	}

	if err := ctrl.refundService.DeleteRefundRequest(c.Request.Context(), userID, refundID); err != nil {
		respondError(c, err, "delete refund")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Refund request withdrawn"})
}

// ListRefunds returns every refund request for back-office review
// GET /api/refunds/manage?status=
func (ctrl *RefundController) ListRefunds(c *gin.Context) {
	refunds, err := ctrl.refundService.ListRefunds(c.Request.Context(), model.RefundStatus(c.Query("status")))
	if err != nil {
		respondError(c, err, "list refunds")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"refunds": refunds,
		"count":   len(refunds),
	})
}

// GetRefund returns any refund request for back-office review
// GET /api/refunds/manage/:refundId
func (ctrl *RefundController) GetRefund(c *gin.Context) {
	refundID, ok := parseIDParam(c, "refundId")
	if !ok {
		return
	}

	refund, err := ctrl.refundService.GetRefundByID(c.Request.Context(), refundID)
	if err != nil {
		respondError(c, err, "get refund")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"refund": refund})
}

// UpdateRefundStatus approves or rejects a pending refund
// PUT /api/refunds/:refundId/status
func (ctrl *RefundController) UpdateRefundStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	refundID, ok := parseIDParam(c, "refundId")
	if !ok {
		return
	}

	var req UpdateRefundStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	refund, err := ctrl.refundService.UpdateRefundStatus(c.Request.Context(), refundID, req.Status, req.AdminNote)
	if err != nil {
		respondError(c, err, "update refund")
		return
	}

	log.Info("Refund decided", map[string]interface{}{
		"refund_id": refundID,
		"status":    refund.Status,
	})

	respondOK(c, http.StatusOK, gin.H{
		"message": "Refund status updated",
		"refund":  refund,
	})
}
