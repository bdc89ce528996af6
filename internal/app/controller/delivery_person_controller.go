package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/service"
	"github.com/stepup/stepup-backend/internal/middleware"
)

// DeliveryPersonController serves the self-service rider routes. The caller
// ID from the token is the delivery person ID.
type DeliveryPersonController struct {
	personService service.DeliveryPersonService
	workflow      service.OrderWorkflow
}

func NewDeliveryPersonController(personService service.DeliveryPersonService, workflow service.OrderWorkflow) *DeliveryPersonController {
	return &DeliveryPersonController{
		personService: personService,
		workflow:      workflow,
	}
}

type DeliveryPersonSignupRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	Phone         string `json:"phone" binding:"required"`
	VehicleNumber string `json:"vehicleNumber"`
	LicenseNumber string `json:"licenseNumber"`
}

type DeliveryPersonUpdateRequest struct {
	Name          *string                     `json:"name"`
	Phone         *string                     `json:"phone"`
	VehicleNumber *string                     `json:"vehicleNumber"`
	LicenseNumber *string                     `json:"licenseNumber"`
	Password      *string                     `json:"password" binding:"omitempty,min=6"`
	Status        *model.DeliveryPersonStatus `json:"status"`
}

func (r DeliveryPersonUpdateRequest) toInput() service.DeliveryPersonUpdate {
	return service.DeliveryPersonUpdate{
		Name:          r.Name,
		Phone:         r.Phone,
		VehicleNumber: r.VehicleNumber,
		LicenseNumber: r.LicenseNumber,
		Password:      r.Password,
		Status:        r.Status,
	}
}

// Signup registers a delivery person and signs them in
// POST /api/delivery/person/signup
func (ctrl *DeliveryPersonController) Signup(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req DeliveryPersonSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	person, token, err := ctrl.personService.Register(c.Request.Context(), service.DeliveryPersonInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		Phone:         req.Phone,
		VehicleNumber: req.VehicleNumber,
		LicenseNumber: req.LicenseNumber,
	})
	if err != nil {
		respondError(c, err, "register delivery person")
		return
	}

	log.Info("Delivery person registered", map[string]interface{}{
		"delivery_person_id": person.ID,
	})

	respondOK(c, http.StatusCreated, gin.H{
		"deliveryPerson": person,
		"token":          token,
	})
}

// Login signs a delivery person in
// POST /api/delivery/person/login
func (ctrl *DeliveryPersonController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	person, token, err := ctrl.personService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "login delivery person")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"deliveryPerson": person,
		"token":          token,
	})
}

// GetProfile returns the caller's profile
// GET /api/delivery/person/profile
func (ctrl *DeliveryPersonController) GetProfile(c *gin.Context) {
	personID, ok := requireUserID(c)
	if !ok {
		return
	}

	person, err := ctrl.personService.GetByID(c.Request.Context(), personID)
	if err != nil {
		respondError(c, err, "get delivery person")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"deliveryPerson": person})
}

// UpdateProfile patches the caller's profile. Riders cannot change their own
// status.
// PUT /api/delivery/person/profile
func (ctrl *DeliveryPersonController) UpdateProfile(c *gin.Context) {
	personID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req DeliveryPersonUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.Status = nil

	person, err := ctrl.personService.Update(c.Request.Context(), personID, req.toInput())
	if err != nil {
		respondError(c, err, "update delivery person")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"deliveryPerson": person})
}

// DeleteProfile closes the caller's account. Refused while orders are active.
// DELETE /api/delivery/person/profile
func (ctrl *DeliveryPersonController) DeleteProfile(c *gin.Context) {
	personID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := ctrl.personService.Delete(c.Request.Context(), personID); err != nil {
		respondError(c, err, "delete delivery person")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

// GetAssignedOrders lists orders assigned to the caller
// GET /api/delivery/person/orders?status=
func (ctrl *DeliveryPersonController) GetAssignedOrders(c *gin.Context) {
	personID, ok := requireUserID(c)
	if !ok {
		return
	}

	orders, err := ctrl.workflow.ListAssignedOrders(c.Request.Context(), personID, model.DeliveryStatus(c.Query("status")))
	if err != nil {
		respondError(c, err, "list orders")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetAssignedOrder returns one order assigned to the caller
// GET /api/delivery/person/orders/:orderId
func (ctrl *DeliveryPersonController) GetAssignedOrder(c *gin.Context) {
	personID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	order, err := ctrl.workflow.GetAssignedOrder(c.Request.Context(), personID, orderID)
	if err != nil {
		respondError(c, err, "get order")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus moves an assigned order along
// PUT /api/delivery/person/orders/:orderId/status
func (ctrl *DeliveryPersonController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	personID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	var req UpdateDeliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := ctrl.workflow.UpdateAssignedOrderStatus(c.Request.Context(), personID, orderID, req.Status)
	if err != nil {
		respondError(c, err, "update order")
		return
	}

	log.Info("Assigned order status updated", map[string]interface{}{
		"delivery_person_id": personID,
		"order_id":           orderID,
		"status":             req.Status,
	})

	respondOK(c, http.StatusOK, gin.H{"order": order})
}

// SubmitDeliveryDetails records trip costs for an assigned order
// POST /api/delivery/person/orders/:orderId/details
func (ctrl *DeliveryPersonController) SubmitDeliveryDetails(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	personID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	var input service.DeliveryDetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	detail, err := ctrl.workflow.SubmitDeliveryDetails(c.Request.Context(), orderID, personID, input)
	if err != nil {
		respondError(c, err, "create delivery details")
		return
	}

	log.Info("Delivery details submitted", map[string]interface{}{
		"delivery_person_id": personID,
		"order_id":           orderID,
	})

	respondOK(c, http.StatusCreated, gin.H{"deliveryDetails": detail})
}

// GetDeliveryDetails returns the caller's details for an order
// GET /api/delivery/person/orders/:orderId/details
func (ctrl *DeliveryPersonController) GetDeliveryDetails(c *gin.Context) {
	personID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	detail, err := ctrl.workflow.GetDeliveryDetails(c.Request.Context(), orderID, personID)
	if err != nil {
		respondError(c, err, "get delivery details")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"deliveryDetails": detail})
}

// UpdateDeliveryDetails replaces the caller's details for an order
// PUT /api/delivery/person/orders/:orderId/details
func (ctrl *DeliveryPersonController) UpdateDeliveryDetails(c *gin.Context) {
	personID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	var input service.DeliveryDetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	detail, err := ctrl.workflow.UpdateDeliveryDetails(c.Request.Context(), orderID, personID, input)
	if err != nil {
		respondError(c, err, "update delivery details")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"deliveryDetails": detail})
}

// DeleteDeliveryDetails removes the caller's details for an order
// DELETE /api/delivery/person/orders/:orderId/details
func (ctrl *DeliveryPersonController) DeleteDeliveryDetails(c *gin.Context) {
	personID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	if err := ctrl.workflow.DeleteDeliveryDetails(c.Request.Context(), orderID, personID); err != nil {
		respondError(c, err, "delete delivery details")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Delivery details deleted successfully"})
}
