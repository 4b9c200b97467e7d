package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/julienmoreau/chantier-api/config"
	"github.com/julienmoreau/chantier-api/controllers"
	"github.com/julienmoreau/chantier-api/middleware"
	"github.com/julienmoreau/chantier-api/models"
	"github.com/julienmoreau/chantier-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Chantier API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Lot{},
		&models.Message{},
		&models.Notification{},
		&models.SMSLog{},
		&models.Activity{},
		&models.Meeting{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Select the SMS gateway once, from configuration
	services.InitSMSService(cfg)

	// Initialize Gin router
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Everything else requires a valid token
		auth := v1.Group("")
		auth.Use(middleware.EnsureValidToken(cfg))
		{
			// Users
			auth.POST("/users", controllers.CreateUser)
			auth.GET("/users/me", controllers.GetCurrentUser)
			auth.PATCH("/users/me/notification-preferences", controllers.UpdateNotificationPreferences)

			// Lots
			auth.POST("/lots", controllers.CreateLot)
			auth.GET("/lots", controllers.ListLots)
			auth.GET("/lots/:id", controllers.GetLot)
			auth.PUT("/lots/:id", controllers.UpdateLot)
			auth.DELETE("/lots/:id", controllers.DeleteLot)
			auth.GET("/lots/:id/stats", controllers.GetLotStats)

			// Activities
			auth.POST("/lots/:id/activities", controllers.CreateActivity)
			auth.GET("/lots/:id/activities", controllers.ListActivities)
			auth.PUT("/activities/:id", controllers.UpdateActivity)
			auth.DELETE("/activities/:id", controllers.DeleteActivity)

			// Meetings
			auth.POST("/lots/:id/meetings", controllers.CreateMeeting)
			auth.GET("/lots/:id/meetings", controllers.ListMeetings)
			auth.PUT("/meetings/:id", controllers.UpdateMeeting)
			auth.DELETE("/meetings/:id", controllers.DeleteMeeting)

			// Communications
			auth.POST("/lots/:id/messages", controllers.SendMessage)
			auth.GET("/lots/:id/messages", controllers.ListMessages)
			auth.POST("/lots/:id/notifications", controllers.CreateNotification)
			auth.GET("/lots/:id/notifications", controllers.ListNotifications)
			auth.PATCH("/notifications/:id/read", controllers.MarkNotificationRead)
		}
	}

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Chantier API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

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

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
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
