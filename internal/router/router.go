package router

import (
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stepup/stepup-backend/config"
	"github.com/stepup/stepup-backend/internal/app/controller"
	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/middleware"
)

// Controllers groups every HTTP handler set the router mounts.
type Controllers struct {
	Auth            *controller.AuthController
	Product         *controller.ProductController
	Cart            *controller.CartController
	Review          *controller.ReviewController
	Order           *controller.OrderController
	Employee        *controller.EmployeeController
	Attendance      *controller.AttendanceController
	Leave           *controller.LeaveController
	DeliveryPerson  *controller.DeliveryPersonController
	DeliveryManager *controller.DeliveryManagerController
	Refund          *controller.RefundController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	config         *config.Config
}

func NewRouter(controllers Controllers, authMiddleware *middleware.AuthMiddleware, cfg *config.Config) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)
	useJSONFieldNames()

	router := gin.New()
	router.MaxMultipartMemory = 8 << 20

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.PrometheusMiddleware())
	router.Use(cors.New(corsConfig(r.config.CORS.AllowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "StepUp API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if r.config.Storage.Driver != "s3" {
		router.Static(r.config.Storage.PublicPrefix, r.config.Storage.UploadDir)
	}

	auth := r.authMiddleware.Authenticate()
	optionalAuth := r.authMiddleware.OptionalAuthenticate()
	customer := r.authMiddleware.RequireRole(model.RoleCustomer, model.RoleAdmin)
	admin := r.authMiddleware.RequireRole(model.RoleAdmin)
	hr := r.authMiddleware.RequireRole(model.RoleAdmin, model.RoleHRManager)
	staff := r.authMiddleware.RequireRole(model.RoleAdmin, model.RoleHRManager, model.RoleEmployee)
	manager := r.authMiddleware.RequireRole(model.RoleDeliveryManager, model.RoleAdmin)
	rider := r.authMiddleware.RequireRole(model.RoleDeliveryPerson)
	ctl := r.controllers

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", ctl.Auth.Register)
			authGroup.POST("/login", ctl.Auth.Login)
			authGroup.POST("/logout", auth, ctl.Auth.Logout)
			authGroup.GET("/me", auth, ctl.Auth.GetMe)
			authGroup.PUT("/profile", auth, ctl.Auth.UpdateProfile)
		}

		products := api.Group("/product")
		{
			products.GET("", ctl.Product.GetProducts)
			products.GET("/:id", ctl.Product.GetProductByID)
			products.POST("", auth, admin, ctl.Product.CreateProduct)
			products.POST("/import", auth, admin, ctl.Product.ImportCatalog)
			products.PUT("/:id", auth, admin, ctl.Product.UpdateProduct)
			products.DELETE("/:id", auth, admin, ctl.Product.DeleteProduct)
		}

		cart := api.Group("/cart", auth, customer)
		{
			cart.GET("", ctl.Cart.GetCart)
			cart.POST("", ctl.Cart.AddToCart)
			cart.DELETE("", ctl.Cart.ClearCart)
			cart.PUT("/:id", ctl.Cart.UpdateCartItem)
			cart.DELETE("/:id", ctl.Cart.RemoveFromCart)
		}

		reviews := api.Group("/review")
		{
			reviews.GET("/product/:productId", optionalAuth, ctl.Review.GetProductReviews)
			reviews.POST("/product/:productId", auth, customer, ctl.Review.CreateReview)
			reviews.PUT("/:id", auth, customer, ctl.Review.UpdateReview)
			reviews.DELETE("/:id", auth, customer, ctl.Review.DeleteReview)
		}

		orders := api.Group("/order", auth)
		{
			orders.GET("", customer, ctl.Order.GetOrders)
			orders.POST("", customer, ctl.Order.CreateOrder)
			orders.GET("/all", manager, ctl.Order.ListAllOrders)
			orders.GET("/:id", customer, ctl.Order.GetOrderByID)
			orders.PUT("/:id/payment", customer, ctl.Order.UpdatePaymentStatus)
			orders.PUT("/:id", manager, ctl.Order.UpdateOrderStatus)
		}

		for _, prefix := range []string{"/employees", "/users"} {
			employees := api.Group(prefix, auth, hr)
			{
				employees.GET("", ctl.Employee.ListEmployees)
				employees.POST("", ctl.Employee.CreateEmployee)
				employees.GET("/:id", ctl.Employee.GetEmployee)
				employees.PUT("/:id", ctl.Employee.UpdateEmployee)
				employees.DELETE("/:id", ctl.Employee.DeleteEmployee)
			}
		}

		attendance := api.Group("/attendance", auth, hr)
		{
			attendance.GET("", ctl.Attendance.ListAttendance)
			attendance.POST("", ctl.Attendance.CreateAttendance)
			attendance.GET("/employee/:employeeId", ctl.Attendance.ListEmployeeAttendance)
			attendance.GET("/:id", ctl.Attendance.GetAttendance)
			attendance.PUT("/:id", ctl.Attendance.UpdateAttendance)
			attendance.DELETE("/:id", ctl.Attendance.DeleteAttendance)
		}

		leaves := api.Group("/leaves", auth)
		{
			leaves.POST("", staff, ctl.Leave.RequestLeave)
			leaves.GET("/my", staff, ctl.Leave.GetMyLeaves)
			leaves.GET("", hr, ctl.Leave.ListLeaves)
			leaves.GET("/:id", hr, ctl.Leave.GetLeave)
			leaves.PUT("/:id", hr, ctl.Leave.UpdateLeave)
			leaves.PUT("/:id/status", hr, ctl.Leave.UpdateLeaveStatus)
			leaves.DELETE("/:id", hr, ctl.Leave.DeleteLeave)
		}

		person := api.Group("/delivery/person")
		{
			person.POST("/signup", ctl.DeliveryPerson.Signup)
			person.POST("/login", ctl.DeliveryPerson.Login)

			self := person.Group("", auth, rider)
			{
				self.GET("/profile", ctl.DeliveryPerson.GetProfile)
				self.PUT("/profile", ctl.DeliveryPerson.UpdateProfile)
				self.DELETE("/profile", ctl.DeliveryPerson.DeleteProfile)
				self.GET("/orders", ctl.DeliveryPerson.GetAssignedOrders)
				self.GET("/orders/:orderId", ctl.DeliveryPerson.GetAssignedOrder)
				self.PUT("/orders/:orderId/status", ctl.DeliveryPerson.UpdateOrderStatus)
				self.POST("/orders/:orderId/details", ctl.DeliveryPerson.SubmitDeliveryDetails)
				self.GET("/orders/:orderId/details", ctl.DeliveryPerson.GetDeliveryDetails)
				self.PUT("/orders/:orderId/details", ctl.DeliveryPerson.UpdateDeliveryDetails)
				self.DELETE("/orders/:orderId/details", ctl.DeliveryPerson.DeleteDeliveryDetails)
			}
		}

		mgr := api.Group("/delivery/manager")
		{
			mgr.POST("/register", ctl.DeliveryManager.Register)
			mgr.POST("/login", ctl.DeliveryManager.Login)

			self := mgr.Group("", auth, r.authMiddleware.RequireRole(model.RoleDeliveryManager))
			{
				self.GET("/profile", ctl.DeliveryManager.GetProfile)
				self.PUT("/profile", ctl.DeliveryManager.UpdateProfile)
			}

			console := mgr.Group("", auth, manager)
			{
				console.GET("/orders", ctl.DeliveryManager.GetOrders)
				console.PUT("/orders/:orderId/assign", ctl.DeliveryManager.AssignDeliveryPerson)
				console.PUT("/orders/:orderId/status", ctl.DeliveryManager.UpdateOrderStatus)

				console.GET("/persons", ctl.DeliveryManager.ListDeliveryPersons)
				console.GET("/persons/:id", ctl.DeliveryManager.GetDeliveryPerson)
				console.PUT("/persons/:id", ctl.DeliveryManager.UpdateDeliveryPerson)
				console.DELETE("/persons/:id", ctl.DeliveryManager.DeleteDeliveryPerson)

				console.GET("/details", ctl.DeliveryManager.ListDeliveryDetails)
				console.GET("/reports/delivery-details", ctl.DeliveryManager.DownloadDeliveryReport)
			}

			managers := mgr.Group("/managers", auth, admin)
			{
				managers.GET("", ctl.DeliveryManager.ListManagers)
				managers.GET("/:id", ctl.DeliveryManager.GetManager)
				managers.PUT("/:id", ctl.DeliveryManager.UpdateManager)
				managers.DELETE("/:id", ctl.DeliveryManager.DeleteManager)
			}
		}

		refunds := api.Group("/refunds", auth)
		{
			refunds.POST("/order/:orderId/refund-request", customer, ctl.Refund.CreateRefundRequest)
			refunds.GET("", customer, ctl.Refund.GetMyRefunds)
			refunds.GET("/manage", manager, ctl.Refund.ListRefunds)
			refunds.GET("/manage/:refundId", manager, ctl.Refund.GetRefund)
			refunds.GET("/:refundId", customer, ctl.Refund.GetMyRefund)
			refunds.PUT("/:refundId", customer, ctl.Refund.UpdateMyRefund)
			refunds.DELETE("/:refundId", customer, ctl.Refund.DeleteMyRefund)
			refunds.PUT("/:refundId/status", manager, ctl.Refund.UpdateRefundStatus)
		}
	}

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		// credentials cannot be combined with a wildcard origin
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = allowedOrigins
	return cfg
}

var tagNameOnce sync.Once

// useJSONFieldNames makes binding errors report JSON names instead of Go
// field names.
func useJSONFieldNames() {
	tagNameOnce.Do(registerTagNameFunc)
}

func registerTagNameFunc() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if tag == "" {
			tag = fld.Tag.Get("form")
		}
		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
