package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/skyport-systems/airport-reservation/internal/config"
	"github.com/skyport-systems/airport-reservation/internal/database"
	"github.com/skyport-systems/airport-reservation/internal/handlers"
	"github.com/skyport-systems/airport-reservation/internal/middleware"
	"github.com/skyport-systems/airport-reservation/internal/services"
	"github.com/skyport-systems/airport-reservation/pkg/email"
	"github.com/skyport-systems/airport-reservation/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Airport Reservation Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	otpService := services.NewOTPService()
	auditService := services.NewAuditService(db, cfg.Security.EnableAuditLog)

	// Prune old audit rows in the background while auditing is on
	if cfg.Security.EnableAuditLog {
		go auditRetentionLoop(auditService, logger)
	}

	// Initialize repositories
	userRepository := database.NewUserRepository(db)
	airportRepository := database.NewAirportRepository(db)
	crewRepository := database.NewCrewRepository(db)
	airplaneTypeRepository := database.NewAirplaneTypeRepository(db)
	airplaneRepository := database.NewAirplaneRepository(db)
	routeRepository := database.NewRouteRepository(db)

	// Flight and order repositories run multi-statement transactions
	// and need the raw sqlx handle
	flightRepository := database.NewFlightRepository(db.DB)
	orderRepository := database.NewOrderRepository(db.DB)

	// Initialize mail gateway
	var mailGateway email.Gateway
	if cfg.Mail.Mode == "production" {
		logger.Info("Initializing Mailjet gateway in production mode...")
		mailGateway = email.NewMailjetGateway(email.MailjetConfig{
			APIURL:    cfg.Mail.APIURL,
			APIKey:    cfg.Mail.APIKey,
			APISecret: cfg.Mail.APISecret,
			FromEmail: cfg.Mail.FromEmail,
		})
	} else {
		logger.Info("Mail gateway in development mode (OTP codes are logged, not sent)")
		mailGateway = email.NewDevGateway(logger)
	}

	accountService := services.NewAccountService(
		userRepository,
		otpService,
		mailGateway,
		cfg.Security.BcryptCost,
		logger,
	)

	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(jwtService, accountService, auditService, userRepository, cfg)
	airportHandler := handlers.NewAirportHandler(airportRepository, cfg.Pagination)
	crewHandler := handlers.NewCrewHandler(crewRepository, cfg.Pagination)
	airplaneTypeHandler := handlers.NewAirplaneTypeHandler(airplaneTypeRepository, cfg.Pagination)
	airplaneHandler := handlers.NewAirplaneHandler(airplaneRepository, cfg.Pagination)
	routeHandler := handlers.NewRouteHandler(routeRepository, cfg.Pagination)
	flightHandler := handlers.NewFlightHandler(flightRepository, cfg.Pagination)
	orderHandler := handlers.NewOrderHandler(orderRepository, flightRepository, cfg.Pagination)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// Unknown methods on known paths answer 405, not 404
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, handlers.ErrorResponse{
			Error:   "method_not_allowed",
			Message: fmt.Sprintf("Method %s is not allowed on this resource", c.Request.Method),
		})
	})

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Account routes
		users := v1.Group("/users")
		{
			users.POST("/register", authHandler.Register)
			users.POST("/verify-otp", authHandler.VerifyOTP)
			users.POST("/token", authHandler.Token)
			users.POST("/token/refresh", authHandler.RefreshToken)

			// Protected routes (require JWT authentication and a
			// verified account)
			me := users.Group("/me")
			me.Use(middleware.AuthMiddleware(jwtService), middleware.RequireVerified())
			{
				me.GET("", authHandler.GetProfile)
				me.PUT("", authHandler.UpdateProfile)
			}
		}

		// Catalog routes: reads for any authenticated account, writes
		// for staff only
		authenticated := v1.Group("")
		authenticated.Use(middleware.AuthMiddleware(jwtService))
		{
			authenticated.GET("/airports", airportHandler.ListAirports)
			authenticated.GET("/airports/:id", airportHandler.GetAirport)
			authenticated.GET("/crews", crewHandler.ListCrews)
			authenticated.GET("/crews/:id", crewHandler.GetCrew)
			authenticated.GET("/airplane-types", airplaneTypeHandler.ListAirplaneTypes)
			authenticated.GET("/airplane-types/:id", airplaneTypeHandler.GetAirplaneType)
			authenticated.GET("/airplanes", airplaneHandler.ListAirplanes)
			authenticated.GET("/airplanes/:id", airplaneHandler.GetAirplane)
			authenticated.GET("/routes", routeHandler.ListRoutes)
			authenticated.GET("/routes/:id", routeHandler.GetRoute)
			authenticated.GET("/flights", flightHandler.ListFlights)
			authenticated.GET("/flights/:id", flightHandler.GetFlight)

			staff := authenticated.Group("")
			staff.Use(middleware.RequireStaff())
			{
				staff.POST("/airports", airportHandler.CreateAirport)
				staff.POST("/crews", crewHandler.CreateCrew)
				staff.POST("/airplane-types", airplaneTypeHandler.CreateAirplaneType)
				staff.POST("/airplanes", airplaneHandler.CreateAirplane)
				staff.POST("/routes", routeHandler.CreateRoute)
				staff.POST("/flights", flightHandler.CreateFlight)
			}

			// Order routes: verified accounts only, own orders only
			orders := authenticated.Group("/orders")
			orders.Use(middleware.RequireVerified())
			{
				orders.POST("", orderHandler.CreateOrder)
				orders.GET("", orderHandler.ListOrders)
				orders.GET("/:id", orderHandler.GetOrder)
			}
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// auditRetentionLoop deletes audit rows older than the retention window
// once a day
func auditRetentionLoop(auditService *services.AuditService, logger *logrus.Logger) {
	const retention = 90 * 24 * time.Hour

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		removed, err := auditService.CleanupOldAuditLogs(retention)
		if err != nil {
			logger.WithError(err).Error("Failed to prune old audit logs")
			continue
		}
		if removed > 0 {
			logger.WithField("removed", removed).Info("Pruned old audit logs")
		}
	}
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
		} else {
			status := c.Writer.Status()
			if status >= 500 {
				entry.Error("Request completed with server error")
			} else if status >= 400 {
				entry.Warn("Request completed with client error")
			} else {
				entry.Info("Request completed successfully")
			}
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
