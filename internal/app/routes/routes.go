package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/coarpuno/recojo/internal/app/controllers"
	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/app/models/dto"
	"github.com/coarpuno/recojo/internal/middleware"
	"github.com/coarpuno/recojo/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	parentController *controllers.ParentController,
	studentController *controllers.StudentController,
	pickupController *controllers.PickupController,
	menuController *controllers.MenuController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register/parent", authController.RegisterParent)
		auth.POST("/register/student", authController.RegisterStudent)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Live snapshot subscription, available to both roles
		authenticated.GET("/ws", wsHandler.HandleConnection)

		// Parent routes
		parents := authenticated.Group("/parents")
		parents.Use(authMiddleware.RoleRequired(models.RoleParent))
		{
			parents.GET("/me", parentController.GetProfile)
			parents.POST("/me/link", parentController.LinkStudent)
			parents.GET("/me/student", parentController.GetLinkedStudent)
		}

		// Student routes
		students := authenticated.Group("/students")
		students.Use(authMiddleware.RoleRequired(models.RoleStudent))
		{
			students.GET("/me", studentController.GetProfile)
			students.GET("/me/link-code/qr", studentController.GetLinkCodeQR)
			students.PUT("/me/activity", studentController.UpdateActivity)
			students.PUT("/me/survey", studentController.UpdateSurvey)
			students.PUT("/me/telemetry", studentController.UpdateTelemetry)
		}

		// Pickup authorization state machine
		pickup := authenticated.Group("/pickup")
		{
			pickup.POST("/request", authMiddleware.RoleRequired(models.RoleParent), pickupController.Request)
			pickup.POST("/respond", authMiddleware.RoleRequired(models.RoleStudent), pickupController.Respond)
		}

		// Cafeteria daily menu: everyone reads, only admins publish
		menu := authenticated.Group("/menu")
		{
			menu.GET("", menuController.GetMenu)
			menu.PUT("", authMiddleware.RoleRequired(models.RoleAdmin), menuController.UpdateMenu)
		}
	}

	// Health check endpoint (public)
	v1.GET("/ping", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Success: true,
			Data:    gin.H{"status": "ok"},
		})
	})
}
