package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cmms-backend/internal/controllers"
	"cmms-backend/internal/listeners"
	"cmms-backend/internal/repositories"
	"cmms-backend/internal/services"
	"cmms-backend/pkg/config"
	"cmms-backend/pkg/eventbus"
	"cmms-backend/pkg/middleware"
	"cmms-backend/pkg/service"
)

// InitRouter собирает слои и регистрирует все маршруты. Возвращает сервис
// ППР, чтобы main мог передать его планировщику.
func InitRouter(
	e *echo.Echo,
	pool *pgxpool.Pool,
	redisClient *redis.Client,
	cfg *config.Config,
	jwtService service.JWTService,
	bus *eventbus.Bus,
	logger *zap.Logger,
) services.PMServiceInterface {
	// Репозитории.
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	workOrderRepo := repositories.NewWorkOrderRepository(pool, logger)
	requestRepo := repositories.NewRequestRepository(pool, logger)
	assetRepo := repositories.NewAssetRepository(pool, logger)
	meterRepo := repositories.NewMeterReadingRepository(pool, logger)
	downtimeRepo := repositories.NewDowntimeRepository(pool, logger)
	sparePartRepo := repositories.NewSparePartRepository(pool, logger)
	notificationRepo := repositories.NewNotificationRepository(pool, logger)
	userRepo := repositories.NewUserRepository(pool, logger)
	dashboardRepo := repositories.NewDashboardRepository(pool, logger)
	pmPlanRepo := repositories.NewPMPlanRepository(pool, logger)

	// Слушатели событий.
	listeners.NewNotificationListener(notificationRepo, logger).Register(bus)

	// Сервисы.
	workOrderService := services.NewWorkOrderService(pool, workOrderRepo, bus, logger)
	requestService := services.NewRequestService(pool, requestRepo, workOrderRepo, bus, logger)
	assetService := services.NewAssetService(assetRepo, logger)
	meterService := services.NewMeterService(meterRepo, assetRepo, logger)
	downtimeService := services.NewDowntimeService(downtimeRepo, assetRepo, logger)
	sparePartService := services.NewSparePartService(sparePartRepo, logger)
	notificationService := services.NewNotificationService(notificationRepo, logger)
	userService := services.NewUserService(userRepo, logger)
	authService := services.NewAuthService(userRepo, cacheRepo, jwtService, cfg.OAuth, logger)
	dashboardService := services.NewDashboardService(dashboardRepo, logger)
	reportService := services.NewReportService(workOrderRepo, logger)
	pmService := services.NewPMService(pool, pmPlanRepo, assetRepo, workOrderRepo, bus, logger)

	// Контроллеры.
	workOrderController := controllers.NewWorkOrderController(workOrderService, reportService, logger)
	requestController := controllers.NewRequestController(requestService, logger)
	assetController := controllers.NewAssetController(assetService, meterService, downtimeService, logger)
	sparePartController := controllers.NewSparePartController(sparePartService, logger)
	notificationController := controllers.NewNotificationController(notificationService, logger)
	userController := controllers.NewUserController(userService, logger)
	authController := controllers.NewAuthController(authService, logger)
	dashboardController := controllers.NewDashboardController(dashboardService, logger)
	pmController := controllers.NewPMController(pmService, logger)

	api := e.Group("/api")

	// Аутентификация (без middleware).
	auth := api.Group("/auth")
	auth.POST("/login", authController.Login)
	auth.POST("/refresh", authController.Refresh)
	auth.GET("/oauth/login", authController.OAuthLogin)
	auth.GET("/callback", authController.OAuthCallback)

	// Всё остальное — только с токеном.
	authMW := middleware.AuthMiddleware(jwtService, authService, logger)

	auth.POST("/logout", authController.Logout, authMW)
	auth.GET("/me", authController.Me, authMW)

	workorders := api.Group("/workorders", authMW)
	workorders.GET("", workOrderController.GetWorkOrders)
	workorders.GET("/export", workOrderController.ExportWorkOrders)
	workorders.GET("/:id", workOrderController.FindWorkOrder)
	workorders.GET("/:id/allowed-statuses", workOrderController.GetAllowedStatuses)
	workorders.POST("", workOrderController.CreateWorkOrder)
	workorders.PATCH("/:id", workOrderController.UpdateWorkOrder)
	workorders.PATCH("/:id/technician-update", workOrderController.TechnicianUpdate)
	workorders.POST("/:id/approve", workOrderController.ApproveWorkOrder)
	workorders.POST("/:id/reject", workOrderController.RejectWorkOrder)
	workorders.POST("/:id/close", workOrderController.CloseWorkOrder)
	workorders.DELETE("/:id", workOrderController.DeleteWorkOrder)

	requests := api.Group("/requests", authMW)
	requests.GET("", requestController.GetRequests)
	requests.GET("/:id", requestController.FindRequest)
	requests.POST("", requestController.CreateRequest)
	requests.PATCH("/:id", requestController.UpdateRequest)
	requests.POST("/:id/convert-to-workorder", requestController.ConvertToWorkOrder)
	requests.DELETE("/:id", requestController.DeleteRequest)

	assets := api.Group("/assets", authMW)
	assets.GET("", assetController.GetAssets)
	assets.GET("/tree", assetController.GetAssetTree)
	assets.GET("/statistics", assetController.GetStatistics)
	assets.GET("/meter-types", assetController.GetMeterTypes)
	assets.GET("/:id", assetController.FindAsset)
	assets.POST("", assetController.CreateAsset)
	assets.PATCH("/:id", assetController.UpdateAsset)
	assets.PATCH("/:id/location", assetController.UpdateLocation)
	assets.DELETE("/:id", assetController.DeleteAsset)
	assets.GET("/:id/meter-readings", assetController.GetMeterReadings)
	assets.POST("/:id/meter-readings", assetController.CreateMeterReading)
	assets.DELETE("/:id/meter-readings/:readingId", assetController.DeleteMeterReading)

	downtimes := api.Group("/downtimes", authMW)
	downtimes.GET("", assetController.GetDowntimes)
	downtimes.POST("", assetController.CreateDowntime)
	downtimes.GET("/reasons", assetController.GetDowntimeReasons)
	downtimes.POST("/:downtimeId/resolve", assetController.ResolveDowntime)
	downtimes.DELETE("/:downtimeId", assetController.DeleteDowntime)

	spareParts := api.Group("/spare-parts", authMW)
	spareParts.GET("", sparePartController.GetSpareParts)
	spareParts.GET("/:id", sparePartController.FindSparePart)
	spareParts.POST("", sparePartController.CreateSparePart)
	spareParts.PATCH("/:id", sparePartController.UpdateSparePart)
	spareParts.POST("/:id/adjust", sparePartController.AdjustQuantity)
	spareParts.DELETE("/:id", sparePartController.DeleteSparePart)

	notifications := api.Group("/notifications", authMW)
	notifications.GET("", notificationController.GetMyNotifications)
	notifications.PATCH("/:id/read", notificationController.MarkRead)
	notifications.PATCH("/read-all", notificationController.MarkAllRead)
	notifications.DELETE("/read", notificationController.DeleteRead)
	notifications.DELETE("/:id", notificationController.DeleteNotification)

	users := api.Group("/users", authMW)
	users.GET("", userController.GetUsers)
	users.GET("/technicians", userController.GetTechnicians)
	users.GET("/:id", userController.FindUser)
	users.POST("", userController.CreateUser)
	users.PATCH("/:id", userController.UpdateUser)
	users.DELETE("/:id", userController.DeleteUser)

	dashboard := api.Group("/dashboard", authMW)
	dashboard.GET("/stats", dashboardController.GetStats)

	pmPlans := api.Group("/pm-plans", authMW)
	pmPlans.GET("", pmController.GetPlans)
	pmPlans.POST("", pmController.CreatePlan)
	pmPlans.PATCH("/:id", pmController.UpdatePlan)
	pmPlans.DELETE("/:id", pmController.DeletePlan)
	pmPlans.POST("/run", pmController.RunNow)

	return pmService
}
