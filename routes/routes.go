package routes

import (
	"customworld-api/handlers"
	"customworld-api/middleware"
	"customworld-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)
		public.POST("/auth/refresh", handlers.Refresh)
		public.POST("/auth/forgot-password", handlers.ForgotPassword)
		public.POST("/auth/reset-password", handlers.ResetPassword)

		public.GET("/products", handlers.ListProducts)
		public.GET("/products/:id", handlers.GetProduct)

		// Gateway callback, authenticated by signature, not by token.
		public.POST("/payments/webhook", handlers.PaymentWebhook)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer, models.RoleAdmin))
	{
		customer.GET("/cart", handlers.GetCart)
		customer.POST("/cart/items", handlers.AddToCart)
		customer.PUT("/cart/items/:itemId", handlers.UpdateCartItemQuantity)
		customer.DELETE("/cart/items/:itemId", handlers.RemoveFromCart)
		customer.DELETE("/cart", handlers.ClearCart)

		customer.POST("/orders", handlers.CreateOrder)
		customer.GET("/orders", handlers.GetMyOrders)
		customer.GET("/orders/:id", handlers.GetOrderDetail)
		customer.PUT("/orders/:id/cancel", handlers.CancelOrder)

		customer.POST("/payments/initiate", handlers.InitiatePayment)
	}

	// ── Vendor routes ──────────────────────────────────────────────
	vendor := r.Group("/api/vendor")
	vendor.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleVendor, models.RoleAdmin))
	{
		vendor.POST("/products", handlers.CreateProduct)
		vendor.PUT("/orders/:id/status", handlers.UpdateOrderStatus)
	}

	// ── Deliverer routes ───────────────────────────────────────────
	deliverer := r.Group("/api/delivery")
	deliverer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleDelivery))
	{
		deliverer.GET("/assignments", handlers.GetMyDeliveries)
		deliverer.GET("/history", handlers.GetDeliveryHistory)
		deliverer.PUT("/assignments/:id/accept", handlers.AcceptDelivery)
		deliverer.PUT("/assignments/:id/start", handlers.StartDelivery)
		deliverer.PUT("/assignments/:id/complete", handlers.CompleteDelivery)
		deliverer.PUT("/assignments/:id/issue", handlers.ReportIssue)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/orders", handlers.AdminGetAllOrders)
		admin.GET("/customers/:customerId/orders", handlers.GetOrdersByCustomer)
		admin.PUT("/orders/:id/status", handlers.UpdateOrderStatus)
		admin.PUT("/orders/:id/assign", handlers.AssignDeliverer)
		admin.GET("/users", handlers.AdminGetAllUsers)
		admin.PUT("/users/:id/role", handlers.AdminUpdateUserRole)
		admin.PUT("/products/:id/approve", handlers.ApproveProduct)
	}
}
