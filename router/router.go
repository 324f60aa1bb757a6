package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/kokum-coast/config"
	"github.com/yeremiapane/kokum-coast/controllers"
	"github.com/yeremiapane/kokum-coast/database"
	"github.com/yeremiapane/kokum-coast/middlewares"
	"github.com/yeremiapane/kokum-coast/models"
	"github.com/yeremiapane/kokum-coast/services"
	"github.com/yeremiapane/kokum-coast/utils"
)

func SetupRouter(cfg config.Config, store database.Store) (*gin.Engine, error) {
	if err := models.RegisterValidators(); err != nil {
		return nil, err
	}
	admin, err := models.NewAdminUser(cfg.AdminEmail, cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		return nil, err
	}
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders(cfg.IsProduction()))
	r.Use(middlewares.CORSMiddlewares(cfg.AllowedOrigins))

	r.NoRoute(func(c *gin.Context) {
		utils.RespondAppError(c, utils.ErrNotFound)
	})

	// Inisialisasi controller
	infoCtrl := controllers.NewInfoController(store)
	authCtrl := controllers.NewAuthController(services.NewAuthService(admin, tokens))
	menuCtrl := controllers.NewMenuController(store)
	reservationCtrl := controllers.NewReservationController(store)
	orderCtrl := controllers.NewOrderController(store)
	reviewCtrl := controllers.NewReviewController(store)
	adminCtrl := controllers.NewAdminController(store)

	r.GET("/", infoCtrl.Root)

	api := r.Group("/api")
	{
		api.GET("/info", infoCtrl.GetInfo)
		api.GET("/health", infoCtrl.Health)
		api.POST("/auth/login", middlewares.NewStrictRateLimiter(cfg.LoginRatePerMinute), authCtrl.Login)

		api.GET("/menu", menuCtrl.GetAllMenus)
		api.POST("/reservations", reservationCtrl.CreateReservation)
		api.POST("/orders", orderCtrl.CreateOrder)
		api.GET("/reviews", reviewCtrl.GetReviews)
	}

	protected := api.Group("", middlewares.AuthMiddleware(tokens), middlewares.RoleCheck(utils.AdminRole))
	{
		protected.POST("/menu", menuCtrl.CreateMenu)
		protected.DELETE("/menu/:id", menuCtrl.DeleteMenu)
		protected.POST("/menu/seed", menuCtrl.SeedMenu)
		protected.POST("/menu/import", menuCtrl.ImportMenu)

		protected.GET("/reservations", reservationCtrl.GetReservations)
		protected.PATCH("/reservations/:id", reservationCtrl.UpdateReservationStatus)

		protected.GET("/orders", orderCtrl.GetOrders)
		protected.PATCH("/orders/:id", orderCtrl.UpdateOrderStatus)

		protected.POST("/reviews/seed", reviewCtrl.SeedReviews)
		protected.GET("/analytics", adminCtrl.GetAnalytics)
	}

	return r, nil
}
