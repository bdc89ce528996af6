package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/repository"
	"github.com/stepup/stepup-backend/internal/app/service"
	apperrors "github.com/stepup/stepup-backend/internal/errors"
)

const dateLayout = "2006-01-02"

type AttendanceController struct {
	attendanceService service.AttendanceService
}

func NewAttendanceController(attendanceService service.AttendanceService) *AttendanceController {
	return &AttendanceController{
		attendanceService: attendanceService,
	}
}

type AttendanceRequest struct {
	EmployeeID uint                   `json:"employeeId" binding:"required"`
	Date       string                 `json:"date" binding:"required"`
	Status     model.AttendanceStatus `json:"status" binding:"required"`
	CheckIn    *time.Time             `json:"checkIn"`
	CheckOut   *time.Time             `json:"checkOut"`
	Notes      string                 `json:"notes"`
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (r AttendanceRequest) toInput(c *gin.Context) (service.AttendanceInput, bool) {
	date, ok := parseDate(r.Date)
	if !ok {
		apperrors.RespondWithValidationError(c, "date must be YYYY-MM-DD", map[string]string{"date": "date must be YYYY-MM-DD"})
		return service.AttendanceInput{}, false
	}
	return service.AttendanceInput{
		EmployeeID: r.EmployeeID,
		Date:       date,
		Status:     r.Status,
		CheckIn:    r.CheckIn,
		CheckOut:   r.CheckOut,
		Notes:      r.Notes,
	}, true
}

// ListAttendance returns attendance, optionally for one employee and range
// GET /api/attendance?employeeId=&from=&to=
func (ctrl *AttendanceController) ListAttendance(c *gin.Context) {
	var filter repository.AttendanceFilter

	employeeID, ok := parseIDQuery(c, "employeeId")
	if !ok {
		return
	}
	filter.EmployeeID = employeeID

	for key, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		t, ok := parseDate(raw)
		if !ok {
			apperrors.RespondWithValidationError(c, key+" must be YYYY-MM-DD", map[string]string{key: key + " must be YYYY-MM-DD"})
			return
		}
		*dst = &t
	}

	ctrl.respondList(c, filter)
}

// ListEmployeeAttendance returns attendance for one employee
// GET /api/attendance/employee/:employeeId
func (ctrl *AttendanceController) ListEmployeeAttendance(c *gin.Context) {
	id, ok := parseIDParam(c, "employeeId")
	if !ok {
		return
	}
	ctrl.respondList(c, repository.AttendanceFilter{EmployeeID: &id})
}

func (ctrl *AttendanceController) respondList(c *gin.Context, filter repository.AttendanceFilter) {
	records, err := ctrl.attendanceService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "list attendance")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"attendance": records,
		"count":      len(records),
	})
}

// CreateAttendance records one employee-day
// POST /api/attendance
func (ctrl *AttendanceController) CreateAttendance(c *gin.Context) {
	var req AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}

	record, err := ctrl.attendanceService.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "create attendance")
		return
	}

	respondOK(c, http.StatusCreated, gin.H{"attendance": record})
}

// GetAttendance returns one record
// GET /api/attendance/:id
func (ctrl *AttendanceController) GetAttendance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := ctrl.attendanceService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "get attendance")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"attendance": record})
}

// UpdateAttendance replaces status, times and notes of a record
// PUT /api/attendance/:id
func (ctrl *AttendanceController) UpdateAttendance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}

	record, err := ctrl.attendanceService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err, "update attendance")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"attendance": record})
}

// DeleteAttendance removes a record
// DELETE /api/attendance/:id
func (ctrl *AttendanceController) DeleteAttendance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.attendanceService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "delete attendance")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Attendance record deleted successfully"})
}
