package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pet-adoption-api/controllers"
	"pet-adoption-api/middleware"
	"pet-adoption-api/models"
	"pet-adoption-api/services"
)

// SetupRoutes mounts the API under /api/v1. A nil tokens argument makes the
// auth middleware use the configured token service.
func SetupRoutes(router *gin.Engine, tokens *services.TokenService) {
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)
			public.POST("/forgot-password", controllers.ForgotPassword)
			public.POST("/reset-password", controllers.ResetPassword)
			public.GET("/auth/google/login", controllers.GoogleLogin)
			public.GET("/auth/google/callback", controllers.GoogleCallback)

			public.GET("/pets", controllers.GetPets)
			public.GET("/pets/:id", middleware.OptionalAuth(tokens), controllers.GetPet)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{
					"status":  "ok",
					"message": "Pet Adoption API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(tokens))
		{
			protected.POST("/logout", controllers.Logout)
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/profile/founders-club", controllers.UpdateFoundersClub)
			protected.GET("/dashboard", controllers.GetDashboardStats)

			// Pets
			protected.POST("/pets", controllers.CreatePet)
			protected.PUT("/pets/:id", controllers.UpdatePet)
			protected.GET("/my/pets", controllers.GetMyPets)

			// Applications
			for _, wf := range []services.Workflow{services.AdoptionWorkflow, services.FosterWorkflow} {
				kind := string(wf)
				protected.POST("/"+kind+"-application", controllers.SubmitApplication(wf))
				protected.POST("/accept-"+kind+"-application/:id", controllers.AcceptApplication(wf))
				protected.POST("/reject-"+kind+"-application/:id", controllers.RejectApplication(wf))
				protected.GET("/pets/:id/"+kind+"-applications", controllers.GetPetApplications(wf))
				protected.GET("/my/"+kind+"-applications", controllers.GetMyApplications(wf))
			}

			// Listing moderation
			moderation := protected.Group("/listing-approvals")
			moderation.Use(middleware.RequireRole(models.RoleModerator, models.RoleAdmin))
			{
				moderation.GET("", controllers.GetPendingListings)
				moderation.PUT("", controllers.UpdateListingApproval)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PATCH("/read-all", controllers.MarkAllNotificationsRead)
				notifications.PATCH("/:id/read", controllers.MarkNotificationRead)
			}
		}
	}

	SetupDirectoryRoutes(router, tokens)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found", "kind": services.KindNotFound.String()})
	})
}
