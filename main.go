package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/curtainry-specialist-api/config"
	"github.com/kendall-kelly/curtainry-specialist-api/controllers"
	"github.com/kendall-kelly/curtainry-specialist-api/middleware"
	"github.com/kendall-kelly/curtainry-specialist-api/models"
	"github.com/kendall-kelly/curtainry-specialist-api/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	slog.Info("Starting Curtainry Specialist API server...", "env", cfg.GoEnv)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := config.ConnectDatabase(cfg); err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	db := config.GetDB()
	if err := config.Migrate(db); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migration completed successfully")

	if cfg.SeedFile != "" && !cfg.IsProduction() {
		seed, err := config.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			slog.Warn("Skipping seed data", "file", cfg.SeedFile, "error", err)
		} else if err := config.SeedDatabase(db, seed); err != nil {
			slog.Error("Failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	services.InitOrderRepository(services.NewGormOrderRepository(db))
	services.InitAuthService(db, cfg)
	services.InitSessionMirror([]byte(cfg.SessionKey), cfg.CookieSecure)

	if cfg.HasObjectStorage() {
		s3Service, err := services.InitS3Service(context.Background(), cfg)
		if err != nil {
			slog.Error("Failed to initialize S3", "error", err)
			os.Exit(1)
		}
		services.InitPhotoService(s3Service)
		slog.Info("Site photo storage enabled", "bucket", cfg.AWSS3Bucket)
	} else {
		slog.Warn("AWS_S3_BUCKET not set, site photo uploads are disabled")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server is running", "addr", "http://localhost:"+cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shut down", "error", err)
	}
}

// setupRouter wires every route. Handlers read their services from the package-level instances.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		v1.POST("/auth/login", controllers.Login)
		v1.POST("/auth/logout", controllers.Logout)

		protected := v1.Group("")
		protected.Use(middleware.EnsureValidToken(cfg))
		{
			protected.GET("/users/me", controllers.GetMyProfile)
			protected.PUT("/users/me", controllers.UpdateMyProfile)
			protected.PUT("/users/me/password", controllers.ChangeMyPassword)

			protected.GET("/dashboard", controllers.GetDashboard)
			protected.GET("/schedule", controllers.GetSchedule)
			protected.GET("/revenue", controllers.GetRevenue)

			protected.GET("/session", controllers.GetSession)
			protected.PUT("/session/route", controllers.UpdateSessionRoute)

			protected.GET("/room-types", controllers.ListRoomTypes)

			protected.GET("/orders", controllers.ListOrders)
			protected.GET("/orders/:id", controllers.GetOrder)
			protected.POST("/orders/:id/transition", controllers.TransitionOrder)
			protected.GET("/orders/:id/history", controllers.GetOrderHistory)
			protected.POST("/orders/:id/rooms", middleware.RequireRole(models.RoleConsultant), controllers.AppendRoom)
			protected.GET("/orders/:id/photos", controllers.ListSitePhotos)
			protected.POST("/orders/:id/photos", controllers.UploadSitePhoto)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Curtainry Specialist API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database not initialized",
			},
		})
		return
	}

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
