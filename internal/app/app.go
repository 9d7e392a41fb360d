package app

import (
	"context"
	"fmt"
	"time"

	"subtrack_backend/database"
	"subtrack_backend/internal/config"
	"subtrack_backend/internal/handlers"
	"subtrack_backend/internal/logger"
	"subtrack_backend/internal/middleware"
	"subtrack_backend/internal/repositories"
	"subtrack_backend/internal/routes"
	"subtrack_backend/internal/services"
	"subtrack_backend/internal/validator"
	"subtrack_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}
	logger.Info("Migrations applied")

	serviceContainer := initializeServices(gormDB)

	// Если пользователей нет - создаем организацию и первого админа
	if err := serviceContainer.AuthService.SeedFirstAdmin(context.Background(), cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, serviceContainer)

	// Фоновый воркер персистентного истечения подписок
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	expiryWorker := workers.NewExpiryWorker(
		repositories.NewSubscriptionRepository(gormDB),
		time.Duration(cfg.Worker.ExpiryIntervalMinutes)*time.Minute,
	)
	expiryWorker.Start(workerCtx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, serviceContainer *services.ServiceContainer) *gin.Engine {
	appHandlers := initializeHandlers(serviceContainer)
	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func initializeServices(gormDB *gorm.DB) *services.ServiceContainer {
	// --- Инициализация репозиториев ---
	userRepo := repositories.NewUserRepository(gormDB)
	subscriberRepo := repositories.NewSubscriberRepository(gormDB)
	groupRepo := repositories.NewGroupRepository(gormDB)
	planRepo := repositories.NewPlanRepository(gormDB)
	subscriptionRepo := repositories.NewSubscriptionRepository(gormDB)
	billingRepo := repositories.NewBillingRepository(gormDB)
	activityRepo := repositories.NewActivityRepository(gormDB)

	// --- Инициализация сервисов ---
	// subscriptionRepo одновременно служит RowSource конвейера
	activityService := services.NewActivityService(activityRepo)
	authService := services.NewAuthService(userRepo, activityService)
	subscriberService := services.NewSubscriberService(subscriberRepo, activityService)
	groupService := services.NewGroupService(groupRepo, subscriberRepo, activityService)
	planService := services.NewPlanService(planRepo, activityService)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, subscriptionRepo, subscriberRepo, planRepo, activityService)
	billingService := services.NewBillingService(subscriptionRepo, subscriptionRepo, billingRepo, activityService)
	dashboardService := services.NewDashboardService(subscriptionRepo, subscriberRepo, billingRepo)

	return &services.ServiceContainer{
		AuthService:         authService,
		SubscriberService:   subscriberService,
		GroupService:        groupService,
		PlanService:         planService,
		SubscriptionService: subscriptionService,
		BillingService:      billingService,
		DashboardService:    dashboardService,
		ActivityService:     activityService,
	}
}

func initializeHandlers(serviceContainer *services.ServiceContainer) *handlers.AppHandlers {
	v := validator.New()
	base := handlers.NewBaseHandler(v)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(base, serviceContainer.AuthService),
		SubscriberHandler:   handlers.NewSubscriberHandler(base, serviceContainer.SubscriberService, serviceContainer.SubscriptionService),
		GroupHandler:        handlers.NewGroupHandler(base, serviceContainer.GroupService),
		PlanHandler:         handlers.NewPlanHandler(base, serviceContainer.PlanService),
		SubscriptionHandler: handlers.NewSubscriptionHandler(base, serviceContainer.SubscriptionService, serviceContainer.BillingService),
		BillingHandler:      handlers.NewBillingHandler(base, serviceContainer.BillingService),
		DashboardHandler:    handlers.NewDashboardHandler(base, serviceContainer.DashboardService),
		ActivityHandler:     handlers.NewActivityHandler(base, serviceContainer.ActivityService),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.CORSMiddleware())
	ginRouter.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	return ginRouter
}
