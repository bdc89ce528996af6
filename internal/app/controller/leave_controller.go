package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/repository"
	"github.com/stepup/stepup-backend/internal/app/service"
	apperrors "github.com/stepup/stepup-backend/internal/errors"
	"github.com/stepup/stepup-backend/internal/middleware"
)

type LeaveController struct {
	leaveService service.LeaveService
}

func NewLeaveController(leaveService service.LeaveService) *LeaveController {
	return &LeaveController{
		leaveService: leaveService,
	}
}

type LeaveRequest struct {
	LeaveType model.LeaveType `json:"leaveType" binding:"required"`
	StartDate string          `json:"startDate" binding:"required"`
	EndDate   string          `json:"endDate" binding:"required"`
	Reason    string          `json:"reason" binding:"max=2000"`
}

type UpdateLeaveStatusRequest struct {
	Status model.LeaveStatus `json:"status" binding:"required"`
}

func (r LeaveRequest) toInput(c *gin.Context) (service.LeaveInput, bool) {
	start, ok := parseDate(r.StartDate)
	if !ok {
		apperrors.RespondWithValidationError(c, "startDate must be YYYY-MM-DD", map[string]string{"startDate": "startDate must be YYYY-MM-DD"})
		return service.LeaveInput{}, false
	}
	end, ok := parseDate(r.EndDate)
	if !ok {
		apperrors.RespondWithValidationError(c, "endDate must be YYYY-MM-DD", map[string]string{"endDate": "endDate must be YYYY-MM-DD"})
		return service.LeaveInput{}, false
	}
	return service.LeaveInput{
		LeaveType: r.LeaveType,
		StartDate: start,
		EndDate:   end,
		Reason:    r.Reason,
	}, true
}

// RequestLeave files a leave request for the caller
// POST /api/leaves
func (ctrl *LeaveController) RequestLeave(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	employeeID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req LeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}

	leave, err := ctrl.leaveService.Create(c.Request.Context(), employeeID, input)
	if err != nil {
		respondError(c, err, "create leave")
		return
	}

	log.Info("Leave requested", map[string]interface{}{
		"leave_id":    leave.ID,
		"employee_id": employeeID,
	})

	respondOK(c, http.StatusCreated, gin.H{"leave": leave})
}

// GetMyLeaves lists the caller's leave requests
// GET /api/leaves/my
func (ctrl *LeaveController) GetMyLeaves(c *gin.Context) {
	employeeID, ok := requireUserID(c)
	if !ok {
		return
	}
	ctrl.respondList(c, repository.LeaveFilter{
		EmployeeID: &employeeID,
		Status:     model.LeaveStatus(c.Query("status")),
	})
}

// ListLeaves returns leave requests for HR review
// GET /api/leaves?status=&employeeId=
func (ctrl *LeaveController) ListLeaves(c *gin.Context) {
	employeeID, ok := parseIDQuery(c, "employeeId")
	if !ok {
		return
	}
	ctrl.respondList(c, repository.LeaveFilter{
		EmployeeID: employeeID,
		Status:     model.LeaveStatus(c.Query("status")),
	})
}

func (ctrl *LeaveController) respondList(c *gin.Context, filter repository.LeaveFilter) {
	if filter.Status != "" && !filter.Status.Valid() {
		respondError(c, service.ErrInvalidLeaveStatus, "list leaves")
		return
	}

	leaves, err := ctrl.leaveService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "list leaves")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"leaves": leaves,
		"count":  len(leaves),
	})
}

// GetLeave returns one leave request
// GET /api/leaves/:id
func (ctrl *LeaveController) GetLeave(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	leave, err := ctrl.leaveService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "get leave")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"leave": leave})
}

// UpdateLeave edits type, dates and reason of a request
// PUT /api/leaves/:id
func (ctrl *LeaveController) UpdateLeave(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req LeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}

	leave, err := ctrl.leaveService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err, "update leave")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"leave": leave})
}

// UpdateLeaveStatus approves or rejects a pending request
// PUT /api/leaves/:id/status
func (ctrl *LeaveController) UpdateLeaveStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateLeaveStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	leave, err := ctrl.leaveService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err, "update leave")
		return
	}

	log.Info("Leave decided", map[string]interface{}{
		"leave_id": id,
		"status":   leave.Status,
	})

	respondOK(c, http.StatusOK, gin.H{"leave": leave})
}

// DeleteLeave removes a leave request
// DELETE /api/leaves/:id
func (ctrl *LeaveController) DeleteLeave(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.leaveService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "delete leave")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Leave request deleted successfully"})
}
