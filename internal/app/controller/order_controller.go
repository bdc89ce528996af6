package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/repository"
	"github.com/stepup/stepup-backend/internal/app/service"
	"github.com/stepup/stepup-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
	workflow     service.OrderWorkflow
}

func NewOrderController(orderService service.OrderService, workflow service.OrderWorkflow) *OrderController {
	return &OrderController{
		orderService: orderService,
		workflow:     workflow,
	}
}

type OrderItemRequest struct {
	ProductID uint   `json:"productId" binding:"required"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest with no items checks out the caller's cart.
type CreateOrderRequest struct {
	Items           []OrderItemRequest  `json:"items" binding:"dive"`
	ShippingAddress string              `json:"shippingAddress" binding:"required"`
	ShippingCity    string              `json:"shippingCity"`
	CustomerPhone   string              `json:"customerPhone"`
	PaymentMethod   model.PaymentMethod `json:"paymentMethod" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus model.PaymentStatus `json:"paymentStatus" binding:"required"`
}

type UpdateDeliveryStatusRequest struct {
	Status model.DeliveryStatus `json:"status" binding:"required"`
}

// GetOrders returns the caller's orders
// GET /api/order
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "list orders")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrderByID returns one of the caller's orders
// GET /api/order/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrderByID(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err, "get order")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"order": order})
}

// CreateOrder places an order from explicit items or from the cart
// POST /api/order
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	items := make([]service.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.OrderItemInput{
			ProductID: item.ProductID,
			Color:     item.Color,
			Size:      item.Size,
			Quantity:  item.Quantity,
		}
	}

	order, err := ctrl.orderService.CreateOrder(c.Request.Context(), userID, service.CreateOrderInput{
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		ShippingCity:    req.ShippingCity,
		CustomerPhone:   req.CustomerPhone,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		respondError(c, err, "create order")
		return
	}

	log.Info("Order created", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"total_amount": order.TotalAmount,
		"from_cart":    len(req.Items) == 0,
	})

	respondOK(c, http.StatusCreated, gin.H{"order": order})
}

// UpdatePaymentStatus records the payment outcome of the caller's order
// PUT /api/order/:id/payment
func (ctrl *OrderController) UpdatePaymentStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := ctrl.orderService.UpdatePaymentStatus(c.Request.Context(), userID, id, req.PaymentStatus)
	if err != nil {
		respondError(c, err, "update order")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"order": order})
}

// ListAllOrders returns every order for back-office staff
// GET /api/order/all?deliveryStatus=&city=
func (ctrl *OrderController) ListAllOrders(c *gin.Context) {
	filter := repository.OrderFilter{
		DeliveryStatus: model.DeliveryStatus(c.Query("deliveryStatus")),
		City:           c.Query("city"),
	}

	orders, err := ctrl.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "list orders")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// UpdateOrderStatus sets the delivery status of any order
// PUT /api/order/:id
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateDeliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := ctrl.workflow.UpdateOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err, "update order")
		return
	}

	log.Info("Order status updated", map[string]interface{}{
		"order_id": id,
		"status":   req.Status,
	})

	respondOK(c, http.StatusOK, gin.H{"order": order})
}
