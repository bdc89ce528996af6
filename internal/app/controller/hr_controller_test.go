package controller

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/repository"
	"github.com/stepup/stepup-backend/internal/app/service"
	apperrors "github.com/stepup/stepup-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type hrFixture struct {
	db       *gorm.DB
	hr       *model.User
	employee *model.User
	router   *gin.Engine
}

func setupHRControllerTest(t *testing.T) *hrFixture {
	testDB := setupControllerDB(t)

	employeeService := service.NewEmployeeService(repository.NewUserRepository(testDB))
	employees := NewEmployeeController(employeeService)
	attendance := NewAttendanceController(service.NewAttendanceService(repository.NewAttendanceRepository(testDB), employeeService))
	leaves := NewLeaveController(service.NewLeaveService(repository.NewLeaveRepository(testDB)))

	f := &hrFixture{
		db:       testDB,
		hr:       seedUser(t, testDB, "hr@stepup.lk", model.RoleHRManager),
		employee: seedUser(t, testDB, "staff@stepup.lk", model.RoleEmployee),
	}

	router := gin.New()
	hr := router.Group("", asUser(f.hr.ID, model.RoleHRManager))
	hr.GET("/employees", employees.ListEmployees)
	hr.POST("/employees", employees.CreateEmployee)
	hr.GET("/employees/:id", employees.GetEmployee)
	hr.PUT("/employees/:id", employees.UpdateEmployee)
	hr.DELETE("/employees/:id", employees.DeleteEmployee)
	hr.POST("/attendance", attendance.CreateAttendance)
	hr.GET("/attendance", attendance.ListAttendance)
	hr.GET("/attendance/employee/:employeeId", attendance.ListEmployeeAttendance)
	hr.PUT("/attendance/:id", attendance.UpdateAttendance)
	hr.GET("/leaves", leaves.ListLeaves)
	hr.PUT("/leaves/:id/status", leaves.UpdateLeaveStatus)

	self := router.Group("/self", asUser(f.employee.ID, model.RoleEmployee))
	self.POST("/leaves", leaves.RequestLeave)
	self.GET("/leaves", leaves.GetMyLeaves)

	f.router = router
	return f
}

func TestEmployeeController_Lifecycle(t *testing.T) {
	f := setupHRControllerTest(t)
	seedUser(t, f.db, "shopper@example.com", model.RoleCustomer)

	w := performJSON(f.router, http.MethodPost, "/employees", CreateEmployeeRequest{
		Name:     "Dilani",
		Email:    "dilani@stepup.lk",
		Password: "password123",
		Role:     model.RoleDeliveryManager,
		Age:      29,
	})
	requireStatus(t, w, http.StatusCreated)
	created := decodeBody(t, w)["employee"].(map[string]interface{})
	assert.Equal(t, "delivery_manager", created["role"])
	assert.NotContains(t, created, "passwordHash")
	id := uint(created["id"].(float64))

	w = performJSON(f.router, http.MethodGet, "/employees", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, float64(3), decodeBody(t, w)["count"], "customers are not staff")

	w = performJSON(f.router, http.MethodPut, fmt.Sprintf("/employees/%d", id), UpdateEmployeeRequest{Age: ptr(30)})
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, float64(30), decodeBody(t, w)["employee"].(map[string]interface{})["age"])

	w = performJSON(f.router, http.MethodDelete, fmt.Sprintf("/employees/%d", id), nil)
	requireStatus(t, w, http.StatusOK)

	w = performJSON(f.router, http.MethodGet, fmt.Sprintf("/employees/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.EmployeeNotFound, errorCode(t, w))
}

func TestEmployeeController_CreateRejections(t *testing.T) {
	f := setupHRControllerTest(t)

	tests := []struct {
		name     string
		body     CreateEmployeeRequest
		wantCode string
	}{
		{"customer role", CreateEmployeeRequest{Name: "A", Email: "a@stepup.lk", Password: "password123", Role: model.RoleCustomer}, apperrors.ValidationInvalidInput},
		{"unknown role", CreateEmployeeRequest{Name: "B", Email: "b@stepup.lk", Password: "password123", Role: "janitor"}, apperrors.ValidationInvalidInput},
		{"duplicate email", CreateEmployeeRequest{Name: "C", Email: "staff@stepup.lk", Password: "password123"}, apperrors.AuthEmailAlreadyExists},
		{"too young", CreateEmployeeRequest{Name: "D", Email: "d@stepup.lk", Password: "password123", Age: 12}, apperrors.ValidationInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(f.router, http.MethodPost, "/employees", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
}

func TestAttendanceController_CreateAndList(t *testing.T) {
	f := setupHRControllerTest(t)
	checkIn := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	checkOut := checkIn.Add(8 * time.Hour)

	w := performJSON(f.router, http.MethodPost, "/attendance", AttendanceRequest{
		EmployeeID: f.employee.ID,
		Date:       "2026-03-02",
		Status:     model.AttendancePresent,
		CheckIn:    &checkIn,
		CheckOut:   &checkOut,
	})
	requireStatus(t, w, http.StatusCreated)
	recordID := uint(decodeBody(t, w)["attendance"].(map[string]interface{})["id"].(float64))

	t.Run("same day twice", func(t *testing.T) {
		w := performJSON(f.router, http.MethodPost, "/attendance", AttendanceRequest{
			EmployeeID: f.employee.ID,
			Date:       "2026-03-02",
			Status:     model.AttendanceLate,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ResourceAlreadyExists, errorCode(t, w))
	})

	t.Run("check-out before check-in", func(t *testing.T) {
		early := checkIn.Add(-time.Hour)
		w := performJSON(f.router, http.MethodPut, fmt.Sprintf("/attendance/%d", recordID), AttendanceRequest{
			EmployeeID: f.employee.ID,
			Date:       "2026-03-02",
			Status:     model.AttendancePresent,
			CheckIn:    &checkIn,
			CheckOut:   &early,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ValidationInvalidInput, errorCode(t, w))
	})

	t.Run("malformed date", func(t *testing.T) {
		w := performJSON(f.router, http.MethodPost, "/attendance", AttendanceRequest{
			EmployeeID: f.employee.ID,
			Date:       "02/03/2026",
			Status:     model.AttendancePresent,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeBody(t, w)["fields"], "date")
	})

	t.Run("unknown employee", func(t *testing.T) {
		w := performJSON(f.router, http.MethodPost, "/attendance", AttendanceRequest{
			EmployeeID: 9999,
			Date:       "2026-03-03",
			Status:     model.AttendancePresent,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperrors.EmployeeNotFound, errorCode(t, w))
	})

	w = performJSON(f.router, http.MethodGet, fmt.Sprintf("/attendance/employee/%d", f.employee.ID), nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])
}

func TestLeaveController_RequestAndDecide(t *testing.T) {
	f := setupHRControllerTest(t)

	w := performJSON(f.router, http.MethodPost, "/self/leaves", LeaveRequest{
		LeaveType: model.LeaveAnnual,
		StartDate: "2026-04-13",
		EndDate:   "2026-04-15",
		Reason:    "New year holidays",
	})
	requireStatus(t, w, http.StatusCreated)
	leave := decodeBody(t, w)["leave"].(map[string]interface{})
	assert.Equal(t, "pending", leave["status"])
	assert.Equal(t, float64(f.employee.ID), leave["employeeId"])
	leaveID := uint(leave["id"].(float64))

	w = performJSON(f.router, http.MethodGet, "/leaves?status=pending", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])

	statusPath := fmt.Sprintf("/leaves/%d/status", leaveID)
	w = performJSON(f.router, http.MethodPut, statusPath, UpdateLeaveStatusRequest{Status: model.LeavePending})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ValidationInvalidInput, errorCode(t, w))

	w = performJSON(f.router, http.MethodPut, statusPath, UpdateLeaveStatusRequest{Status: model.LeaveApproved})
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "approved", decodeBody(t, w)["leave"].(map[string]interface{})["status"])

	w = performJSON(f.router, http.MethodPut, statusPath, UpdateLeaveStatusRequest{Status: model.LeaveRejected})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ResourceConflict, errorCode(t, w))

	w = performJSON(f.router, http.MethodGet, "/self/leaves", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])
}

func TestLeaveController_RequestRejections(t *testing.T) {
	f := setupHRControllerTest(t)

	tests := []struct {
		name string
		body LeaveRequest
	}{
		{"end before start", LeaveRequest{LeaveType: model.LeaveSick, StartDate: "2026-05-10", EndDate: "2026-05-08"}},
		{"unknown type", LeaveRequest{LeaveType: "sabbatical", StartDate: "2026-05-10", EndDate: "2026-05-12"}},
		{"bad date", LeaveRequest{LeaveType: model.LeaveSick, StartDate: "tomorrow", EndDate: "2026-05-12"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(f.router, http.MethodPost, "/self/leaves", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, apperrors.ValidationInvalidInput, errorCode(t, w))
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&model.Leave{}).Count(&count).Error)
	assert.Zero(t, count)
}
