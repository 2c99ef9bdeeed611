package routes

import (
	"backend/configs"
	"backend/controllers"
	"backend/middlewares"
	"backend/repository"
	"backend/services"
	"backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterRoutes assembles the whole object graph once. Service-to-service
// collaborators are injected as interfaces (the hub is the OrderNotifier /
// NotificationSender), so the core never imports the gateway package.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *configs.Config, b ws.Broker) *ws.Hub {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Repositories
	userRepo := repository.NewUserRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	restRepo := repository.NewRestaurantRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	// Services + gateway
	restSvc := services.NewRestaurantService(restRepo)
	hub := ws.NewHub(b, restSvc)

	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	cartSvc := services.NewCartService(db, cartRepo, orderRepo)
	notifSvc := services.NewNotificationService(notifRepo, hub)
	orderSvc := services.NewOrderService(db, orderRepo, cartRepo, restRepo, cartSvc, hub, cfg.DeliveryFee, cfg.TaxRatePct)
	orderSvc.Notifications = notifSvc

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc)
	cartCtrl := controllers.NewCartController(cartSvc)
	orderCtrl := controllers.NewOrderController(orderSvc)
	restCtrl := controllers.NewRestaurantController(restSvc)
	notifCtrl := controllers.NewNotificationController(notifSvc)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
	}
	a.GET("/me", middlewares.AuthMiddleware(cfg.JWTSecret), authCtrl.Me)

	// Public catalog
	r.GET("/restaurants", restCtrl.List)
	r.GET("/restaurants/:id", restCtrl.Detail)
	r.GET("/restaurants/:id/menu", restCtrl.Menu)

	// Cart (user)
	cart := r.Group("/cart", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		cart.GET("", cartCtrl.Get)
		cart.POST("/items", cartCtrl.AddItem)
		cart.PATCH("/items/:id", cartCtrl.UpdateItem)
		cart.DELETE("/items/:id", cartCtrl.RemoveItem)
		cart.DELETE("", cartCtrl.Clear)
	}

	// Orders (user)
	orders := r.Group("/orders", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		orders.POST("", orderCtrl.Checkout)
		orders.GET("", orderCtrl.List)
		orders.GET("/:id", orderCtrl.Detail)
		orders.GET("/:id/track", orderCtrl.Track)
	}
	// status entrypoint (owner/admin)
	r.PATCH("/orders/:id/status",
		middlewares.AuthMiddleware(cfg.JWTSecret, "owner", "admin"),
		orderCtrl.UpdateStatus)

	// Notifications (user)
	notif := r.Group("/notifications", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		notif.GET("", notifCtrl.List)
		notif.PATCH("/read-all", notifCtrl.MarkAllAsRead)
		notif.PATCH("/:id/read", notifCtrl.MarkAsRead)
		notif.DELETE("/:id", notifCtrl.Remove)
	}

	// Realtime feeds
	wsGroup := r.Group("/ws", middlewares.WSAuthMiddleware(cfg.JWTSecret))
	{
		wsGroup.GET("/orders", hub.HandleOrdersWS)
		wsGroup.GET("/notifications", hub.HandleNotificationsWS)
	}

	return hub
}
