package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/service"
	"github.com/stepup/stepup-backend/internal/middleware"
)

type EmployeeController struct {
	employeeService service.EmployeeService
}

func NewEmployeeController(employeeService service.EmployeeService) *EmployeeController {
	return &EmployeeController{
		employeeService: employeeService,
	}
}

type CreateEmployeeRequest struct {
	Name     string         `json:"name" binding:"required"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=6"`
	Role     model.UserRole `json:"role"`
	Age      int            `json:"age" binding:"omitempty,min=16,max=100"`
	Phone    string         `json:"phone"`
}

type UpdateEmployeeRequest struct {
	Name     *string         `json:"name"`
	Role     *model.UserRole `json:"role"`
	Age      *int            `json:"age" binding:"omitempty,min=16,max=100"`
	Phone    *string         `json:"phone"`
	Password *string         `json:"password" binding:"omitempty,min=6"`
}

// ListEmployees returns every staff account
// GET /api/employees
func (ctrl *EmployeeController) ListEmployees(c *gin.Context) {
	employees, err := ctrl.employeeService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "list employees")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"employees": employees,
		"count":     len(employees),
	})
}

// CreateEmployee adds a staff account
// POST /api/employees
func (ctrl *EmployeeController) CreateEmployee(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if req.Role != "" {
		role, err := model.ParseUserRole(string(req.Role))
		if err != nil {
			respondError(c, service.ErrInvalidRole, "create employee")
			return
		}
		req.Role = role
	}

	employee, err := ctrl.employeeService.Create(c.Request.Context(), service.EmployeeInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Age:      req.Age,
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(c, err, "create employee")
		return
	}

	log.Info("Employee created", map[string]interface{}{
		"employee_id": employee.ID,
		"role":        employee.Role,
	})

	respondOK(c, http.StatusCreated, gin.H{"employee": employee})
}

// GetEmployee returns one staff account
// GET /api/employees/:id
func (ctrl *EmployeeController) GetEmployee(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	employee, err := ctrl.employeeService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "get employee")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"employee": employee})
}

// UpdateEmployee patches a staff account
// PUT /api/employees/:id
func (ctrl *EmployeeController) UpdateEmployee(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if req.Role != nil {
		role, err := model.ParseUserRole(string(*req.Role))
		if err != nil {
			respondError(c, service.ErrInvalidRole, "update employee")
			return
		}
		req.Role = &role
	}

	employee, err := ctrl.employeeService.Update(c.Request.Context(), id, service.EmployeeUpdate{
		Name:     req.Name,
		Role:     req.Role,
		Age:      req.Age,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err, "update employee")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"employee": employee})
}

// DeleteEmployee removes a staff account
// DELETE /api/employees/:id
func (ctrl *EmployeeController) DeleteEmployee(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.employeeService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "delete employee")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}
