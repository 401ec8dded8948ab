package routes

import (
	"letter-approval-api/controllers"
	"letter-approval-api/middleware"
	"letter-approval-api/models"
	"letter-approval-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB) {
	userService := services.NewUserService(db)
	letterService := services.NewLetterService(db)

	authController := controllers.NewAuthController(userService)
	letterController := controllers.NewLetterController(letterService)
	documentController := controllers.NewDocumentController(userService)
	officerController := controllers.NewOfficerController(userService, letterService)
	headController := controllers.NewHeadController(userService, letterService)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/register", authController.Register)
			public.POST("/login", authController.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Letter Approval API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(db))
		{
			// User profile
			protected.GET("/profile", authController.GetProfile)
			protected.PUT("/change-password", authController.ChangePassword)

			// Onboarding documents
			protected.POST("/documents", middleware.RequireRole(models.RoleApplicant), documentController.UploadDocuments)
			protected.GET("/documents/:kind", documentController.DownloadDocument)

			// Letters
			letters := protected.Group("/letters")
			{
				letters.GET("", letterController.ListLetters)
				letters.GET("/templates", middleware.RequireRole(models.RoleApplicant), letterController.GetTemplates)
				letters.POST("", middleware.RequireRole(models.RoleApplicant), letterController.CreateLetter)
				letters.GET("/:id", letterController.GetLetter)
			}

			// Officer workflow (first-stage review)
			officer := protected.Group("/officer")
			officer.Use(middleware.RequireRole(models.RoleOfficer))
			{
				officer.PUT("/profile", officerController.CompleteProfile)

				reviewing := officer.Group("")
				reviewing.Use(middleware.RequireReviewerAccess())
				{
					reviewing.GET("/dashboard", officerController.Dashboard)
					reviewing.POST("/letters/:id/approve", officerController.ApproveLetter)
					reviewing.POST("/letters/:id/reject", officerController.RejectLetter)
				}
			}

			// Head workflow (final review + user management)
			head := protected.Group("/head")
			head.Use(middleware.RequireRole(models.RoleHead))
			{
				head.GET("/dashboard", headController.Dashboard)
				head.POST("/letters/:id/approve", headController.ApproveLetter)
				head.POST("/letters/:id/reject", headController.RejectLetter)
				head.POST("/users/:id/approve", headController.ApproveUser)
				head.POST("/users/:id/reject", headController.RejectUser)
				head.POST("/officers", headController.CreateOfficer)
			}
		}
	}
}
