package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/repository"
	"github.com/stepup/stepup-backend/internal/app/service"
	apperrors "github.com/stepup/stepup-backend/internal/errors"
	"github.com/stepup/stepup-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DeliveryManagerController serves the manager console: area orders,
// assignment, rider administration and reports.
type DeliveryManagerController struct {
	managerService service.DeliveryManagerService
	personService  service.DeliveryPersonService
	orderService   service.OrderService
	workflow       service.OrderWorkflow
	reports        service.ReportService
}

func NewDeliveryManagerController(
	managerService service.DeliveryManagerService,
	personService service.DeliveryPersonService,
	orderService service.OrderService,
	workflow service.OrderWorkflow,
	reports service.ReportService,
) *DeliveryManagerController {
	return &DeliveryManagerController{
		managerService: managerService,
		personService:  personService,
		orderService:   orderService,
		workflow:       workflow,
		reports:        reports,
	}
}

type DeliveryManagerRegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	PhoneNumber  string `json:"phoneNumber"`
	AssignedArea string `json:"assignedArea"`
}

type DeliveryManagerUpdateRequest struct {
	Name         *string `json:"name"`
	PhoneNumber  *string `json:"phoneNumber"`
	AssignedArea *string `json:"assignedArea"`
	Password     *string `json:"password" binding:"omitempty,min=6"`
	IsActive     *bool   `json:"isActive"`
}

func (r DeliveryManagerUpdateRequest) toInput() service.DeliveryManagerUpdate {
	return service.DeliveryManagerUpdate{
		Name:         r.Name,
		PhoneNumber:  r.PhoneNumber,
		AssignedArea: r.AssignedArea,
		Password:     r.Password,
		IsActive:     r.IsActive,
	}
}

type AssignDeliveryPersonRequest struct {
	DeliveryPersonID uint `json:"deliveryPersonId" binding:"required"`
}

// Register creates a delivery manager account
// POST /api/delivery/manager/register
func (ctrl *DeliveryManagerController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req DeliveryManagerRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	manager, token, err := ctrl.managerService.Register(c.Request.Context(), service.DeliveryManagerInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		PhoneNumber:  req.PhoneNumber,
		AssignedArea: req.AssignedArea,
	})
	if err != nil {
		respondError(c, err, "register delivery manager")
		return
	}

	log.Info("Delivery manager registered", map[string]interface{}{
		"delivery_manager_id": manager.ID,
		"assigned_area":       manager.AssignedArea,
	})

	respondOK(c, http.StatusCreated, gin.H{
		"deliveryManager": manager,
		"token":           token,
	})
}

// Login signs a delivery manager in
// POST /api/delivery/manager/login
func (ctrl *DeliveryManagerController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	manager, token, err := ctrl.managerService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "login delivery manager")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"deliveryManager": manager,
		"token":           token,
	})
}

// GetProfile returns the caller's manager profile
// GET /api/delivery/manager/profile
func (ctrl *DeliveryManagerController) GetProfile(c *gin.Context) {
	managerID, ok := requireUserID(c)
	if !ok {
		return
	}

	manager, err := ctrl.managerService.GetByID(c.Request.Context(), managerID)
	if err != nil {
		respondError(c, err, "get delivery manager")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"deliveryManager": manager})
}

// UpdateProfile patches the caller's profile. Managers cannot deactivate
// themselves.
// PUT /api/delivery/manager/profile
func (ctrl *DeliveryManagerController) UpdateProfile(c *gin.Context) {
	managerID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req DeliveryManagerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.IsActive = nil

	manager, err := ctrl.managerService.Update(c.Request.Context(), managerID, req.toInput())
	if err != nil {
		respondError(c, err, "update delivery manager")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"deliveryManager": manager})
}

// ListManagers returns every delivery manager (admin)
// GET /api/delivery/manager/managers
func (ctrl *DeliveryManagerController) ListManagers(c *gin.Context) {
	managers, err := ctrl.managerService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "list delivery managers")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"deliveryManagers": managers,
		"count":            len(managers),
	})
}

// GetManager returns one delivery manager (admin)
// GET /api/delivery/manager/managers/:id
func (ctrl *DeliveryManagerController) GetManager(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	manager, err := ctrl.managerService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "get delivery manager")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"deliveryManager": manager})
}

// UpdateManager patches a delivery manager, including activation (admin)
// PUT /api/delivery/manager/managers/:id
func (ctrl *DeliveryManagerController) UpdateManager(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req DeliveryManagerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	manager, err := ctrl.managerService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondError(c, err, "update delivery manager")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"deliveryManager": manager})
}

// DeleteManager removes a delivery manager (admin)
// DELETE /api/delivery/manager/managers/:id
func (ctrl *DeliveryManagerController) DeleteManager(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.managerService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "delete delivery manager")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Delivery manager deleted successfully"})
}

// GetOrders lists orders shipping into the caller's area. Admins see every
// order.
// GET /api/delivery/manager/orders?status=
func (ctrl *DeliveryManagerController) GetOrders(c *gin.Context) {
	managerID, ok := requireUserID(c)
	if !ok {
		return
	}
	status := model.DeliveryStatus(c.Query("status"))

	var (
		orders []model.Order
		err    error
	)
	if role, _ := middleware.GetUserRole(c); role == model.RoleDeliveryManager {
		orders, err = ctrl.managerService.ListOrdersForManager(c.Request.Context(), managerID, status)
	} else {
		orders, err = ctrl.orderService.ListOrders(c.Request.Context(), repository.OrderFilter{DeliveryStatus: status})
	}
	if err != nil {
		respondError(c, err, "list orders")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// AssignDeliveryPerson assigns an order to a rider. Reassignment overwrites
// the previous snapshot.
// PUT /api/delivery/manager/orders/:orderId/assign
func (ctrl *DeliveryManagerController) AssignDeliveryPerson(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	var req AssignDeliveryPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := ctrl.workflow.AssignDeliveryPerson(c.Request.Context(), orderID, req.DeliveryPersonID)
	if err != nil {
		respondError(c, err, "assign order")
		return
	}

	log.Info("Order assigned", map[string]interface{}{
		"order_id":           orderID,
		"delivery_person_id": req.DeliveryPersonID,
	})

	respondOK(c, http.StatusOK, gin.H{
		"message": "Delivery person assigned successfully",
		"order":   order,
	})
}

// UpdateOrderStatus sets the delivery status of any order
// PUT /api/delivery/manager/orders/:orderId/status
func (ctrl *DeliveryManagerController) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	var req UpdateDeliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := ctrl.workflow.UpdateOrderStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		respondError(c, err, "update order")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"order": order})
}

// ListDeliveryPersons returns riders, optionally by status
// GET /api/delivery/manager/persons?status=
func (ctrl *DeliveryManagerController) ListDeliveryPersons(c *gin.Context) {
	persons, err := ctrl.personService.List(c.Request.Context(), model.DeliveryPersonStatus(c.Query("status")))
	if err != nil {
		respondError(c, err, "list delivery persons")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"deliveryPersons": persons,
		"count":           len(persons),
	})
}

// GetDeliveryPerson returns one rider
// GET /api/delivery/manager/persons/:id
func (ctrl *DeliveryManagerController) GetDeliveryPerson(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	person, err := ctrl.personService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "get delivery person")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"deliveryPerson": person})
}

// UpdateDeliveryPerson patches a rider, including status
// PUT /api/delivery/manager/persons/:id
func (ctrl *DeliveryManagerController) UpdateDeliveryPerson(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req DeliveryPersonUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	person, err := ctrl.personService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondError(c, err, "update delivery person")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"deliveryPerson": person})
}

// DeleteDeliveryPerson removes a rider with no active orders
// DELETE /api/delivery/manager/persons/:id
func (ctrl *DeliveryManagerController) DeleteDeliveryPerson(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.personService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "delete delivery person")
		return
	}

	log.Info("Delivery person deleted", map[string]interface{}{
		"delivery_person_id": id,
	})

	respondOK(c, http.StatusOK, gin.H{"message": "Delivery person deleted successfully"})
}

// ListDeliveryDetails returns every submitted delivery record
// GET /api/delivery/manager/details
func (ctrl *DeliveryManagerController) ListDeliveryDetails(c *gin.Context) {
	details, err := ctrl.workflow.ListAllDeliveryDetails(c.Request.Context())
	if err != nil {
		respondError(c, err, "list delivery details")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"deliveryDetails": details,
		"count":           len(details),
	})
}

// DownloadDeliveryReport streams the delivery details workbook
// GET /api/delivery/manager/reports/delivery-details
func (ctrl *DeliveryManagerController) DownloadDeliveryReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	f, err := ctrl.reports.BuildDeliveryDetailsWorkbook(c.Request.Context())
	if err != nil {
		log.Error("Failed to build delivery report", err, nil)
		apperrors.InternalError(c, "Failed to build report")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("delivery-details-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to stream delivery report", err, nil)
	}
}
